package tack

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tacklang/tack/internal/parser"
	"github.com/tacklang/tack/internal/rewrite"
	"github.com/tacklang/tack/internal/types"
)

// RewriteTree applies the import transformation persistently to every
// source file under every root of baseDir, without executing anything.
// This is the offline variant of rewrite-in-place loading: run once
// before normal execution, it leaves nothing for the loaders to change
// at import time and avoids two processes rewriting the same file.
//
// Each file is rewritten against the local-name set of the root it
// belongs to, exactly as a load through the registered namespace
// would. Returns the number of files changed; the first failure
// aborts the walk.
func RewriteTree(name, baseDir string, opts ...Option) (int, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	log := types.Logger{L: cfg.logger}

	finder := newExternalFinder(name, baseDir, true, componentLogger(cfg.logger, "finder"))
	roots, err := finder.Roots()
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, root := range roots {
		locals := finder.localNames(root)
		wholePrefix := name + "." + root + "."

		err := filepath.WalkDir(filepath.Join(baseDir, root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, SourceExt) {
				return nil
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			file, err := parser.Parse(source, componentLogger(cfg.logger, "parser"))
			if err != nil {
				var serr *types.SyntaxError
				if errors.As(err, &serr) && serr.Path == "" {
					serr.Path = path
				}
				return err
			}

			result := rewrite.Apply(file, source, locals, wholePrefix, componentLogger(cfg.logger, "rewrite"))
			if !result.Changed {
				return nil
			}
			if err := writeBack(path, result.Text); err != nil {
				return err
			}
			changed++
			log.Log(slog.LevelDebug, "file rewritten",
				slog.String("path", path),
				slog.String("root", root))
			return nil
		})
		if err != nil {
			return changed, err
		}
	}

	log.Log(slog.LevelInfo, "offline rewrite complete",
		slog.String("namespace", name),
		slog.Int("roots", len(roots)),
		slog.Int("changed", changed))
	return changed, nil
}
