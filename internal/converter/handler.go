package converter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/pkg/handlers"
	"github.com/harshad-dhokane/new-docx/pkg/routes"
)

// Service is the subset of Converter the HTTP handler depends on.
type Service interface {
	Available(ctx context.Context) bool
	Convert(ctx context.Context, data []byte, filename string) ([]byte, error)
}

// Health is the body of the PDF service health endpoint.
type Health struct {
	Status      string    `json:"status"`
	LibreOffice bool      `json:"libreoffice"`
	Timestamp   time.Time `json:"timestamp"`
}

type Handler struct {
	svc           Service
	logger        *slog.Logger
	maxUploadSize int64
}

func NewHandler(svc Service, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		svc:           svc,
		logger:        logger.With("handler", "converter"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "",
		Tags:        []string{"PDF"},
		Description: "Ad-hoc document to PDF conversion",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/convert-to-pdf", Handler: h.Convert, OpenAPI: Spec.Convert},
			{Method: "GET", Pattern: "/pdf-service-health", Handler: h.Health, OpenAPI: Spec.Health},
		},
	}
}

// Convert accepts a multipart upload in field "file" and responds with the
// PDF as an attachment named after the upload.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.logger.Info("converting file to pdf", "filename", header.Filename, "size", len(data))

	if !h.svc.Available(r.Context()) {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, ErrUnavailable)
		return
	}

	pdf, err := h.svc.Convert(r.Context(), data, header.Filename)
	if err != nil {
		handlers.RespondErrorDetails(w, h.logger, MapHTTPStatus(err), ErrConversionFailed.Error(), err)
		return
	}

	h.logger.Info("pdf conversion succeeded", "filename", header.Filename, "size", len(pdf))
	handlers.RespondFile(w, formats.MimePDF, formats.BaseName(header.Filename)+".pdf", pdf)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ok := h.svc.Available(r.Context())

	status := "healthy"
	if !ok {
		status = "unavailable"
	}

	handlers.RespondJSON(w, http.StatusOK, Health{
		Status:      status,
		LibreOffice: ok,
		Timestamp:   time.Now().UTC(),
	})
}
