// Command tack runs and rewrites Tack modules resolved through
// external-namespace directories.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tacklang/tack"
	"github.com/tacklang/tack/internal/config"
)

type app struct {
	configPath string
	verbosity  int

	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tack",
		Short:         "Tack module runner and import rewriter",
		Long:          "tack resolves, rewrites, and runs Tack modules whose imports reference sibling directories registered under a namespace prefix.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(a.verbosity)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "tack.toml", "project config file")
	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "increase logging (-v debug, -vv trace)")

	root.AddCommand(
		newRunCmd(a),
		newRewriteCmd(a),
		newListCmd(a),
		newVersionCmd(),
	)
	return root
}

// newLogger maps -v counts to slog levels the way the library expects:
// one -v for debug, two for trace.
func newLogger(verbosity int) *slog.Logger {
	if verbosity <= 0 {
		return nil
	}
	level := slog.LevelDebug
	if verbosity > 1 {
		level = tack.LevelTrace
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           log.Level(level),
	})
	return slog.New(handler)
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.Namespaces) == 0 {
		return nil, fmt.Errorf("config %s declares no namespaces", a.configPath)
	}
	return cfg, nil
}

// newInterp builds an interpreter with every configured namespace
// registered.
func (a *app) newInterp(cfg *config.Config) *tack.Interp {
	in := tack.New(tack.WithLogger(a.logger))
	for _, ns := range cfg.Namespaces {
		var opts []tack.ExternalOption
		if ns.Rewrite {
			opts = append(opts, tack.WithRewrite())
		}
		in.RegisterExternal(ns.Name, ns.Dir, opts...)
	}
	return in
}
