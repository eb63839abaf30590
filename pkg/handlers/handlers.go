// Package handlers provides HTTP response utilities for JSON APIs.
// These stateless functions standardize response formatting across handlers.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// RespondJSON writes a JSON response with the given status code and data.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes {"error": "<message>"}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// ErrorBody is the {error, details?} shape used by endpoints that separate a
// stable summary from diagnostic detail.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondErrorDetails logs err and writes {"error": message, "details": err}.
// A nil err omits details.
func RespondErrorDetails(w http.ResponseWriter, logger *slog.Logger, status int, message string, err error) {
	body := ErrorBody{Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	logger.Error("handler error", "error", message, "details", body.Details, "status", status)
	RespondJSON(w, status, body)
}

// RespondFile writes data as an attachment with the given filename.
func RespondFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
