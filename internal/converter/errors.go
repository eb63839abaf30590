package converter

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable      = errors.New("LibreOffice is not available for PDF conversion")
	ErrConversionFailed = errors.New("PDF conversion failed")
	ErrNoFile           = errors.New("No file provided")
)

// ConversionError describes a conversion attempt that ran but did not yield a PDF.
// ExitCode is -1 when the process was killed or never reported a status.
type ConversionError struct {
	Reason   string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ConversionError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s: %s (exit code %d)", ErrConversionFailed, e.Reason, e.ExitCode)
	}
	return fmt.Sprintf("%s: %s", ErrConversionFailed, e.Reason)
}

func (e *ConversionError) Unwrap() error {
	return ErrConversionFailed
}

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrConversionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
