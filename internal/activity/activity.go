// Package activity keeps an append-only log of user-visible actions on
// templates and generated artifacts, optionally mirrored to a Kafka topic.
package activity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ActionTemplateUploaded = "Template Uploaded"
	ActionTemplateDeleted  = "Template Deleted"
	ActionArtifactDeleted  = "Artifact Deleted"
)

const (
	ResourceTemplate = "template"
	ResourceArtifact = "artifact"
)

// Generated returns the action recorded when an artifact of format is produced,
// e.g. "PDF Generated".
func Generated(format string) string {
	return strings.ToUpper(format) + " Generated"
}

type Entry struct {
	ID           uuid.UUID      `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *uuid.UUID     `json:"resource_id,omitempty"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Event is the input to Recorder.Record.
type Event struct {
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Metadata     map[string]any
}
