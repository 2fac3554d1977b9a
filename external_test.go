package tack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSpecNoOpinionOutsidePrefix(t *testing.T) {
	f := newExternalFinder("ext", fixtureDir, false, nil)

	for _, name := range []string{"other", "extras.thing", "ext"} {
		spec, err := f.FindSpec(name)
		require.NoError(t, err)
		assert.Nil(t, spec, "finder should decline %q", name)
	}
}

func TestFindSpecAlwaysPackage(t *testing.T) {
	f := newExternalFinder("ext", fixtureDir, false, nil)

	spec, err := f.FindSpec("ext.root_external.submodule")
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.True(t, spec.IsPackage)
	assert.Equal(t, "ext.root_external.submodule", spec.Name)
	assert.NotNil(t, spec.Loader)
}

func TestLocalNamesListedOnce(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "proj")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "alpha.tack"), []byte("x = 1\n"), 0o644))

	f := newExternalFinder("ext", dir, false, nil)
	assert.Equal(t, []string{"alpha"}, f.LocalNames("proj"))

	// Later additions are invisible: the directory is listed at most
	// once per root for the finder's lifetime.
	require.NoError(t, os.WriteFile(filepath.Join(root, "beta.tack"), []byte("y = 2\n"), 0o644))
	_, err := f.FindSpec("ext.proj.alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, f.LocalNames("proj"))
}

func TestLocalNamesIncludeDirsAndStripExtension(t *testing.T) {
	f := newExternalFinder("ext", fixtureDir, false, nil)
	assert.Equal(t,
		[]string{"other_submodule", "some_package", "submodule"},
		f.LocalNames("root_external"))
}

func TestMissingRootSurfacesAtLoader(t *testing.T) {
	f := newExternalFinder("ext", fixtureDir, false, nil)

	spec, err := f.FindSpec("ext.ghost.mod")
	require.NoError(t, err)
	require.NotNil(t, spec)

	_, err = spec.Loader.Filename("ext.ghost.mod")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestFilenamePrefersMarkerFile(t *testing.T) {
	f := newExternalFinder("ext", fixtureDir, false, nil)
	spec, err := f.FindSpec("ext.root_external.some_package")
	require.NoError(t, err)

	path, err := spec.Loader.Filename("ext.root_external.some_package")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fixtureDir, "root_external", "some_package", MarkerFile), path)
}

func TestFilenameMarkerlessDirectory(t *testing.T) {
	f := newExternalFinder("ext", fixtureDir, false, nil)
	spec, err := f.FindSpec("ext.root_external.other_submodule")
	require.NoError(t, err)

	path, err := spec.Loader.Filename("ext.root_external.other_submodule")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fixtureDir, "root_external", "other_submodule"), path)

	source, err := spec.Loader.Source(path)
	require.NoError(t, err)
	assert.Empty(t, source)
}

func TestEphemeralLoadLeavesDiskUntouched(t *testing.T) {
	mainPath := filepath.Join(fixtureDir, "root_external", "some_package", "main.tack")
	before, err := os.ReadFile(mainPath)
	require.NoError(t, err)

	in := New()
	in.RegisterExternal("ext", fixtureDir)
	_, err = in.Import("ext.root_external.some_package.main")
	require.NoError(t, err)

	after, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRewriteInPlacePersists(t *testing.T) {
	dir := copyFixture(t)
	mainPath := filepath.Join(dir, "root_external", "some_package", "main.tack")

	in := New()
	in.RegisterExternal("ext", dir, WithRewrite())
	main, err := in.Import("ext.root_external.some_package.main")
	require.NoError(t, err)
	assert.Equal(t, "root_external", getString(t, main, "title"))

	rewritten, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "import ext.root_external.submodule as submodule")
	assert.Contains(t, string(rewritten), "from ext.root_external.submodule import name as root_name")
	assert.False(t, strings.Contains(string(rewritten), "\nimport submodule"))

	// A second process-equivalent run finds nothing left to rewrite
	// and must leave the file byte-identical.
	in2 := New()
	in2.RegisterExternal("ext", dir, WithRewrite())
	main2, err := in2.Import("ext.root_external.some_package.main")
	require.NoError(t, err)
	assert.Equal(t, "deep", getString(t, main2, "deep_name"))

	again, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Equal(t, rewritten, again)
}

func TestRewriteOnlyTouchesChangedFiles(t *testing.T) {
	dir := copyFixture(t)
	subPath := filepath.Join(dir, "root_external", "submodule.tack")
	before, err := os.ReadFile(subPath)
	require.NoError(t, err)

	in := New()
	in.RegisterExternal("ext", dir, WithRewrite())
	_, err = in.Import("ext.root_external.some_package.main")
	require.NoError(t, err)

	after, err := os.ReadFile(subPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
