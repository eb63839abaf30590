// Package templates manages uploaded DOCX and XLSX templates. Placeholders
// are extracted once at upload and stored with the record.
package templates

import (
	"time"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/formats"
)

type Template struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Filename     string       `json:"filename"`
	Kind         formats.Kind `json:"kind"`
	ContentType  string       `json:"content_type"`
	SizeBytes    int64        `json:"size_bytes"`
	Placeholders []string     `json:"placeholders"`
	UseCount     int          `json:"use_count"`
	StorageKey   string       `json:"storage_key"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Format is the native output format of the template.
func (t *Template) Format() formats.Format {
	return t.Kind.Native()
}

// CreateCommand carries an uploaded template file.
// Name defaults to the filename without extension.
type CreateCommand struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
}

type UpdateCommand struct {
	Name string `json:"name"`
}

// ReplaceCommand swaps the stored file. The placeholder list is kept as is.
type ReplaceCommand struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScanResult is the outcome of extracting placeholders from a file that is
// not stored.
type ScanResult struct {
	Filename     string       `json:"filename"`
	Kind         formats.Kind `json:"kind"`
	Placeholders []string     `json:"placeholders"`
}
