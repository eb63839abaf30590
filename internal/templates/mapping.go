package templates

import (
	"encoding/json"
	"net/url"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/harshad-dhokane/new-docx/pkg/repository"
)

var projection = query.NewProjectionMap("public", "templates", "t").
	Project("id", "Id").
	Project("name", "Name").
	Project("filename", "Filename").
	Project("kind", "Kind").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("placeholders", "Placeholders").
	Project("use_count", "UseCount").
	Project("storage_key", "StorageKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, name, filename, kind, content_type, size_bytes, placeholders, use_count, storage_key, created_at, updated_at`

func scanTemplate(s repository.Scanner) (Template, error) {
	var (
		t            Template
		placeholders []byte
	)
	err := s.Scan(
		&t.ID,
		&t.Name,
		&t.Filename,
		&t.Kind,
		&t.ContentType,
		&t.SizeBytes,
		&placeholders,
		&t.UseCount,
		&t.StorageKey,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	if len(placeholders) > 0 {
		err = json.Unmarshal(placeholders, &t.Placeholders)
	}
	if t.Placeholders == nil {
		t.Placeholders = []string{}
	}
	return t, err
}

// Filters contains optional criteria for filtering template queries.
type Filters struct {
	Name *string
	Kind *formats.Kind
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if k := formats.Kind(values.Get("kind")); k.Valid() {
		f.Kind = &k
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.Kind != nil {
		b.WhereEquals("Kind", string(*f.Kind))
	}
	return b
}
