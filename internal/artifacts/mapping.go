package artifacts

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/harshad-dhokane/new-docx/pkg/repository"
)

var projection = query.NewProjectionMap("public", "artifacts", "a").
	Project("id", "Id").
	Project("template_id", "TemplateId").
	Project("name", "Name").
	Project("format", "Format").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("placeholder_data", "PlaceholderData").
	Project("storage_key", "StorageKey").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, template_id, name, format, content_type, size_bytes, page_count, placeholder_data, storage_key, created_at`

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var (
		a    Artifact
		data []byte
	)
	err := s.Scan(
		&a.ID,
		&a.TemplateID,
		&a.Name,
		&a.Format,
		&a.ContentType,
		&a.SizeBytes,
		&a.PageCount,
		&data,
		&a.StorageKey,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	a.PlaceholderData = map[string]string{}
	if len(data) > 0 {
		err = json.Unmarshal(data, &a.PlaceholderData)
	}
	return a, err
}

// Filters contains optional criteria for filtering artifact queries.
type Filters struct {
	TemplateID *uuid.UUID
	Name       *string
	Format     *formats.Format
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if id, err := uuid.Parse(values.Get("template_id")); err == nil {
		f.TemplateID = &id
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if v := values.Get("format"); v != "" {
		if format, err := formats.ParseFormat(v); err == nil {
			f.Format = &format
		}
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.TemplateID != nil {
		b.WhereEquals("TemplateId", *f.TemplateID)
	}
	b.WhereContains("Name", f.Name)
	if f.Format != nil {
		b.WhereEquals("Format", string(*f.Format))
	}
	return b
}
