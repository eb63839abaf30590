package converter

import (
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/pkg/openapi"
)

type spec struct {
	Convert *openapi.Operation
	Health  *openapi.Operation
}

var Spec = spec{
	Convert: &openapi.Operation{
		Summary:     "Convert to PDF",
		Description: "Convert an uploaded office document to PDF with headless LibreOffice",
		RequestBody: openapi.RequestBodyMultipart("Document to convert", nil),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Converted PDF", formats.MimePDF),
			400: openapi.ResponseRef("BadRequest"),
			413: {Description: "File too large"},
			502: {Description: "LibreOffice failed to convert the document"},
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Health: &openapi.Operation{
		Summary:     "PDF service health",
		Description: "Report whether LibreOffice is available for conversion",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Converter availability", "PDFServiceHealth"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"PDFServiceHealth": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":      {Type: "string", Enum: []string{"healthy", "unavailable"}},
				"libreoffice": {Type: "boolean"},
				"timestamp":   {Type: "string", Format: "date-time"},
			},
		},
	}
}
