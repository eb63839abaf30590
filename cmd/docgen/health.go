package main

import (
	"fmt"

	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report whether LibreOffice is available for PDF conversion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			bin, err := a.converter.Binary()
			if err != nil || !a.converter.Available(cmd.Context()) {
				fmt.Fprintln(out, "unavailable")
				return converter.ErrUnavailable
			}

			fmt.Fprintf(out, "healthy (%s)\n", bin)
			return nil
		},
	}
}
