// Package tack implements a small module-scripting runtime whose
// import machinery can expose plain sibling directories as namespaced
// packages.
//
// A project that vendors non-package directories (datasets/, models/,
// losses/ side by side) registers them under a namespace prefix:
//
//	in := tack.New(tack.WithLogger(slog.Default()))
//	in.RegisterExternal("ext", "./project", tack.WithRewrite())
//	mod, err := in.Import("ext.root_external.some_package.main")
//
// Importing a name under the prefix resolves it against the base
// directory and rewrites the import statements of the loaded source so
// references to sibling local modules are redirected to their
// prefix-qualified location, keeping the original local names bound.
// With WithRewrite the transformed source is also persisted in place.
package tack

import (
	"log/slog"

	"github.com/tacklang/tack/internal/types"
)

// SourceExt is the recognized source-file extension.
const SourceExt = ".tack"

// MarkerFile is the package-marker filename inside a directory. A
// directory without it still resolves as a package with an empty body.
const MarkerFile = "init.tack"

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, statements, imports).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// SyntaxError reports a lexical or parse failure in a source file.
type SyntaxError = types.SyntaxError

// Option configures an Interp or a standalone rewrite pass.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// ExternalOption configures an external namespace registration.
type ExternalOption func(*externalConfig)

type externalConfig struct {
	rewrite bool
}

// WithRewrite persists rewritten source files back to disk. Without
// it the transformation is ephemeral, applied on every load.
func WithRewrite() ExternalOption {
	return func(c *externalConfig) { c.rewrite = true }
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}
