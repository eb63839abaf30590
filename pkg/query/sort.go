package query

import "strings"

// SortField is a single ORDER BY term expressed in view field names.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses "name,-created_at" into sort fields; a leading "-"
// sorts descending.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if name == "" {
			continue
		}
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}
