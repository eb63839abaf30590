// Package storage persists template and artifact blobs behind opaque keys.
// Keys are slash-separated relative paths such as "templates/<id>/<version>/invoice.docx".
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harshad-dhokane/new-docx/pkg/lifecycle"
)

var (
	ErrNotFound         = errors.New("storage key not found")
	ErrInvalidKey       = errors.New("invalid storage key")
	ErrPermissionDenied = errors.New("storage permission denied")
)

// System defines blob operations shared by every backend.
type System interface {
	// Store saves data at key, overwriting existing content.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Start registers lifecycle hooks (directory or bucket creation).
	Start(lc *lifecycle.Coordinator) error
}

// New selects the backend named by cfg.Backend.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendMinio:
		return newMinio(&cfg.Minio, logger)
	case BackendFilesystem, "":
		return newFilesystem(cfg.BasePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
