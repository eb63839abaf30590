package templates

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("template not found")
	ErrDuplicate    = errors.New("template storage key already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrKindMismatch = errors.New("replacement file must match the template kind")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrKindMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
