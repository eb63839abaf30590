package rewrite

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrDocumentProcessing = errors.New("document processing failed")
	ErrEmptyOutput        = errors.New("generated document is empty")
	ErrSpreadsheet        = errors.New("spreadsheet processing failed")
)

// FailureKind classifies a document processing failure.
type FailureKind string

const (
	FailureImage    FailureKind = "image"
	FailureTemplate FailureKind = "template"
	FailureGeneric  FailureKind = "generic"
)

// DocumentProcessingError wraps a tag engine failure.
type DocumentProcessingError struct {
	Kind FailureKind
	Err  error
}

func (e *DocumentProcessingError) Error() string {
	switch e.Kind {
	case FailureImage:
		return "image processing error: " + e.Err.Error()
	case FailureTemplate:
		return "template error: " + e.Err.Error()
	default:
		return e.Err.Error()
	}
}

func (e *DocumentProcessingError) Unwrap() []error {
	return []error{ErrDocumentProcessing, e.Err}
}

// classify inspects the failure message.
func classify(err error) *DocumentProcessingError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "image"):
		return &DocumentProcessingError{Kind: FailureImage, Err: err}
	case strings.Contains(msg, "template"):
		return &DocumentProcessingError{Kind: FailureTemplate, Err: err}
	default:
		return &DocumentProcessingError{Kind: FailureGeneric, Err: fmt.Errorf("document processing failed: %w", err)}
	}
}

// MapHTTPStatus maps rewrite failures to 422: the template or the submitted
// values cannot produce a document.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrDocumentProcessing) || errors.Is(err, ErrSpreadsheet) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
