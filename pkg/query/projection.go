package query

import "strings"

// ProjectionMap maps view field names to qualified table columns so that
// client-facing sort and filter names never reach SQL unvalidated.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project registers column under the view name field.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns = append(p.columns, qualified)
	p.fields[field] = qualified
	p.fields[strings.ToLower(field)] = qualified
	p.fields[column] = qualified
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the aliased table reference, e.g. "public.templates t".
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column resolves a view field to its qualified column. Unknown fields are
// returned unchanged.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.fields[field]; ok {
		return col
	}
	return field
}

// Has reports whether field is a projected view field or column.
func (p *ProjectionMap) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}

func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

func (p *ProjectionMap) ColumnList() []string {
	return append([]string(nil), p.columns...)
}
