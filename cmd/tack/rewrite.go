package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacklang/tack"
	"github.com/tacklang/tack/internal/config"
)

func newRewriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite [NAMESPACE...]",
		Short: "Persistently qualify imports under configured namespaces",
		Long: "rewrite applies the import transformation to every source file " +
			"under the named namespaces (all configured namespaces when none are " +
			"given), writing changed files in place. Running it once offline means " +
			"later loads find nothing left to rewrite.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			targets := cfg.Namespaces
			if len(args) > 0 {
				targets = make([]config.Namespace, 0, len(args))
				for _, name := range args {
					ns, ok := cfg.Find(name)
					if !ok {
						return fmt.Errorf("namespace %q not in config", name)
					}
					targets = append(targets, ns)
				}
			}

			for _, ns := range targets {
				changed, err := tack.RewriteTree(ns.Name, ns.Dir, tack.WithLogger(a.logger))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d file(s) rewritten\n", ns.Name, changed)
			}
			return nil
		},
	}
}
