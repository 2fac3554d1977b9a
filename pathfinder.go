package tack

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tacklang/tack/internal/parser"
	"github.com/tacklang/tack/internal/types"
)

// PathFinder resolves modules by joining dotted components onto a list
// of search roots, first match wins. It performs no rewriting; it is
// the ordinary finder for code that already lives at its importable
// location.
type PathFinder struct {
	roots  []string
	logger *slog.Logger
	types.Logger
}

// NewPathFinder returns a PathFinder over the given search roots.
func NewPathFinder(logger *slog.Logger, roots ...string) *PathFinder {
	return &PathFinder{
		roots:  roots,
		logger: logger,
		Logger: types.Logger{L: logger},
	}
}

// FindSpec implements Finder. A name resolves if some search root
// contains a matching file or directory.
func (f *PathFinder) FindSpec(fullname string) (*ModuleSpec, error) {
	parts := strings.Split(fullname, ".")
	for _, root := range f.roots {
		path, isDir, ok := locateIn(root, parts)
		if !ok {
			continue
		}
		if f.TraceEnabled() {
			f.Trace("path finder hit",
				slog.String("module", fullname),
				slog.String("path", path))
		}
		return &ModuleSpec{
			Name:      fullname,
			IsPackage: isDir,
			Loader:    &plainSourceLoader{baseDir: root, logger: f.logger},
		}, nil
	}
	return nil, nil
}

// locateIn maps dotted components onto a base directory, following the
// same conventions as the external loader: directories prefer their
// marker file, files get the source extension appended.
func locateIn(baseDir string, parts []string) (path string, isDir, ok bool) {
	path = filepath.Join(append([]string{baseDir}, parts...)...)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		marker := filepath.Join(path, MarkerFile)
		if _, err := os.Stat(marker); err == nil {
			return marker, true, true
		}
		return path, true, true
	}
	path += SourceExt
	if _, err := os.Stat(path); err != nil {
		return "", false, false
	}
	return path, false, true
}

// plainSourceLoader loads source verbatim, without prefix rewriting.
type plainSourceLoader struct {
	baseDir string
	logger  *slog.Logger
}

func (l *plainSourceLoader) Filename(fullname string) (string, error) {
	path, _, ok := locateIn(l.baseDir, strings.Split(fullname, "."))
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, fullname)
	}
	return path, nil
}

func (l *plainSourceLoader) Source(path string) ([]byte, error) {
	if !strings.HasSuffix(path, SourceExt) {
		return nil, nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module source: %w", err)
	}
	// Validate eagerly so a broken file fails its import here rather
	// than halfway through execution.
	if _, err := parser.Parse(source, componentLogger(l.logger, "parser")); err != nil {
		return nil, err
	}
	return source, nil
}
