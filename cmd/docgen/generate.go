package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/harshad-dhokane/new-docx/internal/artifacts"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/values"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	sets       []string
	images     []string
	valuesFile string
	format     string
	output     string
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <template>",
		Short: "Fill a template with values and write the result",
		Example: `  docgen generate invoice.xlsx --set name=Alice --set total=42
  docgen generate letter.docx --values values.json --image logo=logo.png --format pdf -o letter.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.sets, "set", nil, "text value as key=value (repeatable)")
	flags.StringArrayVar(&opts.images, "image", nil, "image value as key=path (repeatable)")
	flags.StringVar(&opts.valuesFile, "values", "", "JSON object of placeholder values")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: docx, xlsx, or pdf (default: template format)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: <template>_<date>.<format>)")

	return cmd
}

func (a *app) generate(cmd *cobra.Command, path string, opts *generateOptions) error {
	kind, err := formats.Detect(path, "")
	if err != nil {
		return err
	}

	format := kind.Native()
	if opts.format != "" {
		if format, err = formats.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	raw, err := opts.values()
	if err != nil {
		return err
	}

	template, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	normalizer := values.NewNormalizer(
		a.logger,
		a.cfg.Generation.ImageErrors,
		a.cfg.Generation.ImageWidth,
		a.cfg.Generation.ImageHeight,
	)
	pipeline := artifacts.NewPipeline(normalizer, a.converter, a.logger)

	result, err := pipeline.Run(cmd.Context(), artifacts.Request{
		Kind:     kind,
		Template: template,
		Filename: filepath.Base(path),
		Format:   format,
		Values:   raw,
	})
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = artifacts.FileName(filepath.Base(path), format, time.Now())
	}
	if err := os.WriteFile(output, result.Data, 0644); err != nil {
		return err
	}

	a.logger.Info(
		"document generated",
		"output", output,
		"size", units.HumanSize(float64(len(result.Data))),
		"placeholders_filled", len(result.Summary),
	)
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// values merges --values, then --set, then --image; later sources win.
func (o *generateOptions) values() (map[string]values.Raw, error) {
	raw := make(map[string]values.Raw)

	if o.valuesFile != "" {
		data, err := os.ReadFile(o.valuesFile)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", o.valuesFile, err)
		}
	}

	for _, s := range o.sets {
		key, value, err := splitPair(s)
		if err != nil {
			return nil, fmt.Errorf("--set: %w", err)
		}
		raw[key] = values.TextRaw(value)
	}

	for _, s := range o.images {
		key, path, err := splitPair(s)
		if err != nil {
			return nil, fmt.Errorf("--image: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("--image %s: %w", key, err)
		}
		raw[key] = values.Raw{Image: &values.RawImage{
			Data:   base64.StdEncoding.EncodeToString(data),
			Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		}}
	}

	return raw, nil
}

func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return key, value, nil
}
