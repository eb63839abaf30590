package activity

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/harshad-dhokane/new-docx/pkg/repository"
)

var projection = query.NewProjectionMap("public", "activity_logs", "a").
	Project("id", "Id").
	Project("action", "Action").
	Project("resource_type", "ResourceType").
	Project("resource_id", "ResourceId").
	Project("metadata", "Metadata").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanEntry(s repository.Scanner) (Entry, error) {
	var (
		e        Entry
		metadata []byte
	)
	err := s.Scan(
		&e.ID,
		&e.Action,
		&e.ResourceType,
		&e.ResourceID,
		&metadata,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	e.Metadata = map[string]any{}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return e, err
		}
	}
	return e, nil
}

// Filters narrows activity queries.
type Filters struct {
	Action       *string
	ResourceType *string
	ResourceID   *uuid.UUID
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("action"); a != "" {
		f.Action = &a
	}
	if rt := values.Get("resource_type"); rt != "" {
		f.ResourceType = &rt
	}
	if id, err := uuid.Parse(values.Get("resource_id")); err == nil {
		f.ResourceID = &id
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Action", f.Action).
		WhereEquals("ResourceType", f.ResourceType)
	if f.ResourceID != nil {
		b.WhereEquals("ResourceId", *f.ResourceID)
	}
	return b
}
