package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/placeholders"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <template>",
		Short: "List the placeholders of a .docx or .xlsx template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			kind, err := formats.Detect(path, "")
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			names := placeholders.ForKind(kind, a.logger).Extract(data).Names()
			a.logger.Debug("template scanned", "file", filepath.Base(path), "kind", kind, "count", len(names))

			out := cmd.OutOrStdout()
			if asJSON {
				if names == nil {
					names = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(names)
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")

	return cmd
}
