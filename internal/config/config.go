// Package config loads the tack.toml project configuration consumed
// by the tack CLI.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the project configuration: the namespaces to register.
type Config struct {
	Namespaces []Namespace `toml:"namespace"`
}

// Namespace describes one external-namespace registration.
type Namespace struct {
	// Name is the dotted prefix under which the directory's children
	// become importable.
	Name string `toml:"name"`
	// Dir is the base directory, resolved relative to the config file.
	Dir string `toml:"dir"`
	// Rewrite persists transformed sources back to disk on load.
	Rewrite bool `toml:"rewrite"`
}

// Load reads and validates a config file. Relative namespace
// directories are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, ns := range cfg.Namespaces {
		if ns.Name == "" {
			return nil, fmt.Errorf("config %s: namespace %d has no name", path, i+1)
		}
		if ns.Dir == "" {
			return nil, fmt.Errorf("config %s: namespace %q has no dir", path, ns.Name)
		}
		if !filepath.IsAbs(ns.Dir) {
			cfg.Namespaces[i].Dir = filepath.Join(base, ns.Dir)
		}
	}
	return &cfg, nil
}

// Find returns the namespace with the given name.
func (c *Config) Find(name string) (Namespace, bool) {
	for _, ns := range c.Namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return Namespace{}, false
}
