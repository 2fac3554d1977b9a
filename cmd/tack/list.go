package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacklang/tack"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list NAMESPACE",
		Short: "List the roots of a namespace and their local names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ns, ok := cfg.Find(args[0])
			if !ok {
				return fmt.Errorf("namespace %q not in config", args[0])
			}

			in := tack.New(tack.WithLogger(a.logger))
			finder := in.RegisterExternal(ns.Name, ns.Dir)
			roots, err := finder.Roots()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, root := range roots {
				fmt.Fprintf(out, "%s.%s\n", ns.Name, root)
				for _, name := range finder.LocalNames(root) {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
}
