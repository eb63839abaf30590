// Package infrastructure assembles the systems every domain module depends on:
// lifecycle coordination, logging, the Postgres pool, blob storage, and the
// headless PDF converter.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/pkg/database"
	"github.com/harshad-dhokane/new-docx/pkg/lifecycle"
	"github.com/harshad-dhokane/new-docx/pkg/logging"
	"github.com/harshad-dhokane/new-docx/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Converter *converter.Converter
}

// New creates an Infrastructure from a finalized configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Converter: converter.New(&cfg.Converter, logger),
	}, nil
}

// Start connects the database and storage backends and registers their
// shutdown hooks with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
