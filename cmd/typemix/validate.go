package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	f := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "validate <file-or-url>",
		Short: "Check a document against a registered type",
		Long:  `Binds the document and reports the first required, type or unknown-field error.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.typeName == "" {
				return errors.New("validate: --type is required")
			}
			if _, err := a.read(cmd.Context(), args[0], f); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s\n", args[0], f.typeName)
			return err
		},
	}
	f.register(cmd)
	return cmd
}
