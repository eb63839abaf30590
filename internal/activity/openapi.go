package activity

import "github.com/harshad-dhokane/new-docx/pkg/openapi"

type spec struct {
	List *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List activity",
		Description: "List activity log entries, newest first",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in action", false),
			openapi.QueryParam("action", "string", "Filter by action (contains)", false),
			openapi.QueryParam("resource_type", "string", "Filter by resource type", false),
			openapi.QueryParam("resource_id", "string", "Filter by resource ID", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Activity list", "ActivityPageResult"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ActivityEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"action":        {Type: "string"},
				"resource_type": {Type: "string"},
				"resource_id":   {Type: "string", Format: "uuid"},
				"metadata":      {Type: "object"},
				"created_at":    {Type: "string", Format: "date-time"},
			},
		},
		"ActivityPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("ActivityEntry")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
