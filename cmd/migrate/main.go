// Command migrate applies the embedded schema migrations to the configured
// Postgres database.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/migrations"
	"github.com/harshad-dhokane/new-docx/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	logger     *slog.Logger
	migrate    *migrate.Migrate
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database schema migrations",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.BaseConfigFile, "configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "up [n]",
			Short: "Apply all or the next n pending migrations",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 0 {
					return a.run("up", a.migrate.Up())
				}
				n, err := positive(args[0])
				if err != nil {
					return err
				}
				return a.run("up", a.migrate.Steps(n))
			},
		},
		&cobra.Command{
			Use:   "down n",
			Short: "Roll back the last n migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := positive(args[0])
				if err != nil {
					return err
				}
				return a.run("down", a.migrate.Steps(-n))
			},
		},
		&cobra.Command{
			Use:   "force version",
			Short: "Set the recorded version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return a.run("force", a.migrate.Force(v))
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				v, dirty, err := a.migrate.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			},
		},
	)

	return root
}

func (a *app) open() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("config finalize failed: %w", err)
	}

	a.logger = logging.NewWithWriter(os.Stderr, &cfg.Logging).With("system", "migrate")

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("connect %s/%s: %w", cfg.Database.Host, cfg.Database.Name, err)
	}
	m.Log = &migrateLogger{logger: a.logger, verbose: cfg.Logging.Level == logging.LevelDebug}
	a.migrate = m

	return nil
}

func (a *app) close() error {
	if a.migrate == nil {
		return nil
	}
	srcErr, dbErr := a.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

func (a *app) run(op string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		a.logger.Info("no change", "op", op)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}

	v, dirty, verr := a.migrate.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return verr
	}
	a.logger.Info("migration complete", "op", op, "version", v, "dirty", dirty)
	return nil
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("step count must be a positive integer, got %q", s)
	}
	return n, nil
}

// migrateLogger adapts slog to migrate.Logger.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
