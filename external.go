package tack

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tacklang/tack/internal/parser"
	"github.com/tacklang/tack/internal/rewrite"
	"github.com/tacklang/tack/internal/types"
)

// ExternalFinder resolves names under a registered namespace prefix
// against sibling directories of a base directory. For a name
// "<prefix><root>...", the first resolution request for any name under
// root lists baseDir/<root> once and caches the set of names local to
// it; every spec it returns is bound to a loader that carries that
// set.
//
// The cache is never invalidated: directory contents observed at first
// resolution hold for the finder's lifetime. Population is guarded by
// a mutex so concurrent importing hosts see a consistent entry.
type ExternalFinder struct {
	name    string
	prefix  string
	baseDir string
	rewrite bool

	mu     sync.Mutex
	locals map[string]map[string]struct{}

	logger *slog.Logger
	types.Logger
}

func newExternalFinder(name, baseDir string, rewriteInPlace bool, logger *slog.Logger) *ExternalFinder {
	return &ExternalFinder{
		name:    name,
		prefix:  name + ".",
		baseDir: baseDir,
		rewrite: rewriteInPlace,
		locals:  make(map[string]map[string]struct{}),
		logger:  logger,
		Logger:  types.Logger{L: logger},
	}
}

// Name returns the registered namespace name.
func (f *ExternalFinder) Name() string { return f.name }

// BaseDir returns the directory the namespace maps onto.
func (f *ExternalFinder) BaseDir() string { return f.baseDir }

// FindSpec implements Finder. Names outside the watched prefix get no
// opinion. Names under it always produce a package spec; a name with
// no corresponding file or directory fails later, when the loader is
// asked for its path.
func (f *ExternalFinder) FindSpec(fullname string) (*ModuleSpec, error) {
	rest, ok := strings.CutPrefix(fullname, f.prefix)
	if !ok {
		return nil, nil
	}

	root, _, _ := strings.Cut(rest, ".")
	locals := f.localNames(root)

	loader := &prefixedSourceLoader{
		locals:      locals,
		extPrefix:   f.prefix,
		wholePrefix: f.prefix + root + ".",
		baseDir:     f.baseDir,
		rewrite:     f.rewrite,
		logger:      f.logger,
		Logger:      types.Logger{L: f.logger},
	}
	return &ModuleSpec{
		Name:      fullname,
		IsPackage: true,
		Loader:    loader,
	}, nil
}

// localNames returns the cached local-name set for root, listing the
// root's directory on the first request. A listing failure caches an
// empty set; the missing directory surfaces as module-not-found when
// the loader computes the path.
func (f *ExternalFinder) localNames(root string) map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	if names, ok := f.locals[root]; ok {
		return names
	}

	names := make(map[string]struct{})
	dir := filepath.Join(f.baseDir, root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		f.Log(slog.LevelDebug, "root directory not listable",
			slog.String("root", root),
			slog.String("dir", dir),
			slog.Any("error", err))
	}
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			names[entry.Name()] = struct{}{}
		case strings.HasSuffix(entry.Name(), SourceExt):
			names[strings.TrimSuffix(entry.Name(), SourceExt)] = struct{}{}
		}
	}
	f.locals[root] = names

	f.Log(slog.LevelDebug, "local names cached",
		slog.String("root", root),
		slog.Int("names", len(names)))
	return names
}

// LocalNames returns the sorted local-name set for a root, populating
// the cache the same way a resolution request would.
func (f *ExternalFinder) LocalNames(root string) []string {
	names := f.localNames(root)
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)
	return sorted
}

// Roots lists the directories directly under the base directory, i.e.
// the roots importable through this finder.
func (f *ExternalFinder) Roots() ([]string, error) {
	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil, err
	}
	var roots []string
	for _, entry := range entries {
		if entry.IsDir() {
			roots = append(roots, entry.Name())
		}
	}
	return roots, nil
}

// prefixedSourceLoader loads source for one root of an external
// namespace, rewriting import statements that reference the root's
// local names so they resolve along the qualified path.
type prefixedSourceLoader struct {
	locals      map[string]struct{}
	extPrefix   string // "<name>."
	wholePrefix string // "<name>.<root>."
	baseDir     string
	rewrite     bool

	logger *slog.Logger
	types.Logger
}

// Filename implements Loader: strip the external prefix, join the
// remaining components onto the base directory. A directory prefers
// its package marker file and otherwise stands for a marker-less
// package; anything else is a source file.
func (l *prefixedSourceLoader) Filename(fullname string) (string, error) {
	rel := strings.TrimPrefix(fullname, l.extPrefix)
	parts := strings.Split(rel, ".")
	path := filepath.Join(append([]string{l.baseDir}, parts...)...)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		marker := filepath.Join(path, MarkerFile)
		if _, err := os.Stat(marker); err == nil {
			return marker, nil
		}
		return path, nil
	}

	path += SourceExt
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, fullname)
	}
	return path, nil
}

// Source implements Loader. Paths that do not reference a source file
// (marker-less package directories) produce an empty module body.
// Source files are parsed and run through the rewrite pass; in
// rewrite-in-place mode a changed file is persisted before returning.
func (l *prefixedSourceLoader) Source(path string) ([]byte, error) {
	if !strings.HasSuffix(path, SourceExt) {
		return nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module source: %w", err)
	}

	file, err := parser.Parse(source, componentLogger(l.logger, "parser"))
	if err != nil {
		return nil, err
	}

	result := rewrite.Apply(file, source, l.locals, l.wholePrefix, componentLogger(l.logger, "rewrite"))
	if l.rewrite && result.Changed {
		if err := writeBack(path, result.Text); err != nil {
			return nil, fmt.Errorf("persisting rewritten source: %w", err)
		}
		l.Log(slog.LevelDebug, "rewritten source persisted", slog.String("path", path))
	}
	return result.Text, nil
}

// writeBack replaces a source file's bytes, keeping its permissions.
func writeBack(path string, text []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, text, perm)
}
