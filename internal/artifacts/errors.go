package artifacts

import (
	"errors"
	"net/http"

	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/internal/rewrite"
	"github.com/harshad-dhokane/new-docx/internal/templates"
	"github.com/harshad-dhokane/new-docx/internal/values"
)

var (
	ErrNotFound       = errors.New("artifact not found")
	ErrDuplicate      = errors.New("artifact storage key already exists")
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrNotPreviewable = errors.New("only PDF artifacts can be previewed")
	ErrInvalidPreview = errors.New("invalid preview option")
	ErrRenderFailed   = errors.New("preview render failed")
)

// MapHTTPStatus maps artifact errors and the generation pipeline errors they
// wrap to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, templates.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrNotPreviewable),
		errors.Is(err, ErrInvalidPreview):
		return http.StatusBadRequest
	case errors.Is(err, values.ErrImageDecode):
		return values.MapHTTPStatus(err)
	case errors.Is(err, rewrite.ErrDocumentProcessing),
		errors.Is(err, rewrite.ErrSpreadsheet),
		errors.Is(err, rewrite.ErrEmptyOutput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, converter.ErrUnavailable),
		errors.Is(err, converter.ErrConversionFailed):
		return converter.MapHTTPStatus(err)
	case errors.Is(err, ErrRenderFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
