package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

type app struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    *slog.Logger
	converter *converter.Converter
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "docgen",
		Short:         "Fill document templates and convert them to PDF",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.BaseConfigFile, "configuration file (optional)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newScanCmd(a),
		newGenerateCmd(a),
		newConvertCmd(a),
		newHealthCmd(a),
	)

	return root
}

// init loads .env and the configuration file when present. Missing files
// fall back to defaults so the CLI works outside a deployment directory.
func (a *app) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFrom(a.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &config.Config{}, nil
	}
	if err != nil {
		return err
	}
	if err := cfg.FinalizeLocal(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.verbose {
		cfg.Logging.Level = logging.LevelDebug
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), &cfg.Logging)
	a.converter = converter.New(&cfg.Converter, a.logger)
	return nil
}
