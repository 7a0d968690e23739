package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/typemix/samples"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered types and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range samples.Names() {
				desc, _ := samples.Describe(name)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, desc); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
