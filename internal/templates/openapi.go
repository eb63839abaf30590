package templates

import (
	"github.com/harshad-dhokane/new-docx/pkg/openapi"
)

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Search   *openapi.Operation
	Scan     *openapi.Operation
	Upload   *openapi.Operation
	Update   *openapi.Operation
	Download *openapi.Operation
	Replace  *openapi.Operation
	Delete   *openapi.Operation
}

const templateFile = "Template file (.docx or .xlsx)"

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List templates",
		Description: "List templates with pagination and optional filters",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in name and filename", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -UseCount,Name", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("kind", "string", "Filter by kind (document or spreadsheet)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Templates list", "TemplatePageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find template",
		Description: "Find template by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Template ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Template details", "Template"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search templates",
		Description: "Search templates with pagination in request body",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("kind", "string", "Filter by kind", false),
		},
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Search results", "TemplatePageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Scan: &openapi.Operation{
		Summary:     "Scan placeholders",
		Description: "Extract placeholders from a file without storing it",
		RequestBody: openapi.RequestBodyMultipart(templateFile, nil),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Extracted placeholders", "ScanResult"),
			400: openapi.ResponseRef("BadRequest"),
			413: {Description: "File too large"},
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload template",
		Description: "Upload a template with optional display name. Placeholders are extracted automatically.",
		RequestBody: openapi.RequestBodyMultipart(templateFile, map[string]*openapi.Schema{
			"name": {Type: "string", Description: "Optional display name (defaults to filename without extension)"},
		}),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Template uploaded", "Template"),
			400: openapi.ResponseRef("BadRequest"),
			413: {Description: "File too large"},
		},
	},
	Update: &openapi.Operation{
		Summary:     "Rename template",
		Description: "Update template display name",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Template ID"),
		},
		RequestBody: openapi.RequestBodyJSON("UpdateTemplateCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Template updated", "Template"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Download: &openapi.Operation{
		Summary:     "Download template",
		Description: "Download the stored template file",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Template ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Template file", "application/octet-stream"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Replace: &openapi.Operation{
		Summary:     "Replace template file",
		Description: "Replace the stored file with one of the same kind. Stored placeholders are not re-scanned.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Template ID"),
		},
		RequestBody: openapi.RequestBodyMultipart(templateFile, nil),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Template updated", "Template"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: {Description: "File too large"},
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete template",
		Description: "Delete template, its generated artifacts, and their stored files",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Template ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Template deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	kind := &openapi.Schema{Type: "string", Enum: []string{"document", "spreadsheet"}}
	names := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}

	return map[string]*openapi.Schema{
		"Template": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"filename":     {Type: "string"},
				"kind":         kind,
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer", Format: "int64"},
				"placeholders": names,
				"use_count":    {Type: "integer"},
				"storage_key":  {Type: "string"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"ScanResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"filename":     {Type: "string"},
				"kind":         kind,
				"placeholders": names,
			},
		},
		"UpdateTemplateCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name": {Type: "string", Description: "New display name"},
			},
			Required: []string{"name"},
		},
		"TemplatePageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Template")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
