package api

import (
	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/harshad-dhokane/new-docx/internal/infrastructure"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Generation    config.GenerationConfig
	Events        config.EventsConfig
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Converter: infra.Converter,
		},
		Pagination:    cfg.API.Pagination,
		Generation:    cfg.Generation,
		Events:        cfg.Events,
		MaxUploadSize: cfg.Storage.MaxUploadSizeBytes(),
	}
}
