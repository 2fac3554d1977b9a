package tack

import (
	"slices"
	"sync"
)

// Module is a loaded module: a named namespace of values.
type Module struct {
	// Name is the fully-qualified dotted name.
	Name string
	// File is the on-disk path the module was loaded from. Empty for
	// synthetic namespace modules; marker-less package directories
	// carry the directory path.
	File string
	// IsPackage reports whether the module was resolved as a package.
	IsPackage bool

	mu    sync.RWMutex
	attrs map[string]Value
}

// NewModule returns an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		Name:  name,
		attrs: make(map[string]Value),
	}
}

func (m *Module) TypeName() string { return "module" }

func (m *Module) String() string { return "<module " + m.Name + ">" }

// Get returns the value bound under name in the module namespace.
func (m *Module) Get(name string) (Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.attrs[name]
	return v, ok
}

// Set binds a value under name in the module namespace.
func (m *Module) Set(name string, value Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attrs[name] = value
}

// Names returns the bound names in sorted order.
func (m *Module) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.attrs))
	for name := range m.attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
