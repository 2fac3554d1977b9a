package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tack.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[[namespace]]
name = "ext"
dir = "project"
rewrite = true

[[namespace]]
name = "shared"
dir = "/abs/shared"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Namespaces, 2)

	assert.Equal(t, "ext", cfg.Namespaces[0].Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "project"), cfg.Namespaces[0].Dir)
	assert.True(t, cfg.Namespaces[0].Rewrite)

	// Absolute dirs stay as written.
	assert.Equal(t, "/abs/shared", cfg.Namespaces[1].Dir)
	assert.False(t, cfg.Namespaces[1].Rewrite)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsNamelessNamespace(t *testing.T) {
	path := writeConfig(t, `
[[namespace]]
dir = "project"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestLoadRejectsDirlessNamespace(t *testing.T) {
	path := writeConfig(t, `
[[namespace]]
name = "ext"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dir")
}

func TestFind(t *testing.T) {
	path := writeConfig(t, `
[[namespace]]
name = "ext"
dir = "project"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	ns, ok := cfg.Find("ext")
	assert.True(t, ok)
	assert.Equal(t, "ext", ns.Name)

	_, ok = cfg.Find("missing")
	assert.False(t, ok)
}
