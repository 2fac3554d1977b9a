package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run MODULE",
		Short: "Import a module and print its namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			in := a.newInterp(cfg)
			mod, err := in.Import(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "module %s (%s)\n", mod.Name, mod.File)
			for _, name := range mod.Names() {
				value, _ := mod.Get(name)
				fmt.Fprintf(out, "  %s = %s\n", name, value)
			}
			return nil
		},
	}
}
