package openapi

// Components holds reusable schema and response definitions.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// NewComponents returns the shared schemas and error responses every
// domain references.
func NewComponents() *Components {
	errorBody := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"error":   {Type: "string"},
			"details": {Type: "string"},
		},
	}

	errResponse := func(desc string) *Response {
		return &Response{
			Description: desc,
			Content:     map[string]*MediaType{"application/json": {Schema: SchemaRef("Error")}},
		}
	}

	return &Components{
		Schemas: map[string]*Schema{
			"Error": errorBody,
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-based)"},
					"page_size": {Type: "integer", Description: "Items per page"},
					"search":    {Type: "string", Description: "Free-text search"},
					"sort":      {Type: "string", Description: "Comma-separated fields, '-' prefix for descending"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":          errResponse("Invalid request"),
			"NotFound":            errResponse("Resource not found"),
			"Conflict":            errResponse("Resource conflict"),
			"UnprocessableEntity": errResponse("Request could not be processed"),
			"ServiceUnavailable":  errResponse("Dependent service unavailable"),
		},
	}
}

// AddSchemas merges schemas without removing existing entries.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

func (c *Components) AddResponses(responses map[string]*Response) {
	for name, resp := range responses {
		c.Responses[name] = resp
	}
}
