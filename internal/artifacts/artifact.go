// Package artifacts generates documents from stored templates and keeps the
// results. A generated artifact is either the template's own format with
// placeholders filled, or that document converted to PDF.
package artifacts

import (
	"time"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/values"
)

type Artifact struct {
	ID              uuid.UUID         `json:"id"`
	TemplateID      uuid.UUID         `json:"template_id"`
	Name            string            `json:"name"`
	Format          formats.Format    `json:"format"`
	ContentType     string            `json:"content_type"`
	SizeBytes       int64             `json:"size_bytes"`
	PageCount       *int              `json:"page_count,omitempty"`
	PlaceholderData map[string]string `json:"placeholder_data"`
	StorageKey      string            `json:"storage_key"`
	CreatedAt       time.Time         `json:"created_at"`
}

// GenerateCommand requests a new artifact. Values are keyed by placeholder
// name; a value is either a string or an inline image object.
type GenerateCommand struct {
	TemplateID uuid.UUID             `json:"template_id"`
	Format     string                `json:"format"`
	Values     map[string]values.Raw `json:"values"`
}
