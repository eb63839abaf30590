package artifacts

import "github.com/harshad-dhokane/new-docx/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Search   *openapi.Operation
	Generate *openapi.Operation
	Download *openapi.Operation
	Preview  *openapi.Operation
	Delete   *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List artifacts",
		Description: "List generated artifacts with pagination and optional filters",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in name", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -CreatedAt", false),
			openapi.QueryParam("template_id", "string", "Filter by template ID", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("format", "string", "Filter by format (docx, xlsx, pdf)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Artifacts list", "ArtifactPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find artifact",
		Description: "Find artifact by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Artifact details", "Artifact"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search artifacts",
		Description: "Search artifacts with pagination in request body",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("template_id", "string", "Filter by template ID", false),
			openapi.QueryParam("format", "string", "Filter by format", false),
		},
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Search results", "ArtifactPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Generate: &openapi.Operation{
		Summary:     "Generate artifact",
		Description: "Fill a template's placeholders and store the result, optionally converted to PDF",
		RequestBody: openapi.RequestBodyJSON("GenerateCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Artifact generated", "Artifact"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			422: openapi.ResponseRef("UnprocessableEntity"),
			502: {Description: "PDF conversion failed"},
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Download: &openapi.Operation{
		Summary:     "Download artifact",
		Description: "Download the generated file as an attachment",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Generated file", "application/octet-stream"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Preview: &openapi.Operation{
		Summary:     "Preview artifact page",
		Description: "Render one page of a PDF artifact as an image",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
			openapi.QueryParam("page", "integer", "1-based page number (default 1)", false),
			openapi.QueryParam("dpi", "integer", "Resolution, 72-600 (default 150)", false),
			openapi.QueryParam("format", "string", "png or jpg (default png)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Rendered page", "image/png"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			502: {Description: "Render failed"},
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete artifact",
		Description: "Delete artifact and its stored file",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Artifact deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	image := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":     {Type: "string", Description: "Base64 image data or a data:image URL"},
			"format":   {Type: "string", Description: "png, jpeg, gif, bmp, or svg"},
			"width":    {Type: "integer"},
			"height":   {Type: "integer"},
			"alt_text": {Type: "string"},
		},
		Required: []string{"data"},
	}

	return map[string]*openapi.Schema{
		"Artifact": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"template_id":  {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"format":       {Type: "string", Enum: []string{"docx", "xlsx", "pdf"}},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer", Format: "int64"},
				"page_count":   {Type: "integer"},
				"placeholder_data": {
					Type:                 "object",
					AdditionalProperties: &openapi.Schema{Type: "string"},
				},
				"storage_key": {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
		"GenerateCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"template_id": {Type: "string", Format: "uuid"},
				"format":      {Type: "string", Enum: []string{"docx", "xlsx", "pdf"}},
				"values": {
					Type: "object",
					AdditionalProperties: &openapi.Schema{
						OneOf: []*openapi.Schema{{Type: "string"}, image},
					},
				},
			},
			Required: []string{"template_id", "format"},
		},
		"ArtifactPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Artifact")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
