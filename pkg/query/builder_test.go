package query_test

import (
	"testing"

	"github.com/harshad-dhokane/new-docx/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "templates", "t").
		Project("id", "ID").
		Project("name", "Name").
		Project("kind", "Kind").
		Project("created_at", "CreatedAt")
}

func TestProjectionMap(t *testing.T) {
	pm := testProjection()

	if pm.Table() != "public.templates t" {
		t.Errorf("Table() = %q, want %q", pm.Table(), "public.templates t")
	}

	if pm.Columns() != "t.id, t.name, t.kind, t.created_at" {
		t.Errorf("Columns() = %q", pm.Columns())
	}

	tests := []struct {
		field string
		want  string
	}{
		{"Name", "t.name"},
		{"name", "t.name"},
		{"created_at", "t.created_at"},
		{"Unknown", "Unknown"},
	}

	for _, tt := range tests {
		if got := pm.Column(tt.field); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	name := "invoice"
	b := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt", Descending: true}).
		WhereContains("Name", &name).
		WhereEquals("Kind", "spreadsheet")

	sql, args := b.BuildPage(2, 10)

	want := "SELECT t.id, t.name, t.kind, t.created_at FROM public.templates t" +
		" WHERE t.name ILIKE $1 AND t.kind = $2 ORDER BY t.created_at DESC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("sql = %q\nwant  %q", sql, want)
	}

	if len(args) != 2 || args[0] != "%invoice%" || args[1] != "spreadsheet" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilder_WhereSearch(t *testing.T) {
	search := "q"
	sql, args := query.NewBuilder(testProjection()).
		WhereSearch(&search, "Name", "Kind").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.templates t WHERE (t.name ILIKE $1 OR t.kind ILIKE $2)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("len(args) = %d, want 2", len(args))
	}
}

func TestBuilder_NilConditionsIgnored(t *testing.T) {
	var empty *string
	sql, args := query.NewBuilder(testProjection()).
		WhereContains("Name", empty).
		WhereEquals("Kind", empty).
		WhereSearch(nil, "Name").
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.templates t" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilder_OrderByFields_IgnoresUnknown(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt"}).
		OrderByFields([]query.SortField{{Field: "name", Descending: true}, {Field: "password"}}).
		BuildSelect()

	want := "SELECT t.id, t.name, t.kind, t.created_at FROM public.templates t ORDER BY t.name DESC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestParseSortFields(t *testing.T) {
	got := query.ParseSortFields("name, -created_at,,")
	want := []query.SortField{{Field: "name"}, {Field: "created_at", Descending: true}}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
