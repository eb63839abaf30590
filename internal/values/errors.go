package values

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrImageDecode = errors.New("image decode failed")

// ImageDecodeError reports malformed inline image data for one key.
type ImageDecodeError struct {
	Key    string
	Reason string
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("image decode failed for %q: %s", e.Key, e.Reason)
}

func (e *ImageDecodeError) Unwrap() error {
	return ErrImageDecode
}

func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrImageDecode) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
