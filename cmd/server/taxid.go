package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agro/pkg/taxid"
)

func newTaxIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "taxid <cpf-or-cnpj>",
		Short: "Check a CPF or CNPJ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			digits, err := taxid.Validate(args[0])
			if err != nil {
				color.New(color.FgRed, color.Bold).Fprint(out, "invalid ")
				fmt.Fprintln(out, err)
				return fmt.Errorf("%q is not a valid tax id", args[0])
			}
			kind, _ := taxid.KindOf(digits)
			color.New(color.FgGreen, color.Bold).Fprint(out, "valid ")
			fmt.Fprintf(out, "%s %s\n", kind, taxid.Format(digits))
			return nil
		},
	}
}
