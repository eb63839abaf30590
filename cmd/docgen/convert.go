package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an office document to PDF with LibreOffice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if !a.converter.Available(cmd.Context()) {
				return converter.ErrUnavailable
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.converter.Timeout())
			defer cancel()

			pdf, err := a.converter.Convert(ctx, data, filepath.Base(path))
			if err != nil {
				return err
			}

			if output == "" {
				output = formats.BaseName(path) + formats.FormatPDF.Extension()
			}
			if err := os.WriteFile(output, pdf, 0644); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <file>.pdf)")

	return cmd
}
