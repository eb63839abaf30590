package artifacts

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/internal/rewrite"
	"github.com/harshad-dhokane/new-docx/internal/templates"
	"github.com/harshad-dhokane/new-docx/internal/values"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
	"github.com/harshad-dhokane/new-docx/pkg/query"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"template not found", templates.ErrNotFound, http.StatusNotFound},
		{"invalid format", ErrInvalidFormat, http.StatusBadRequest},
		{"not previewable", ErrNotPreviewable, http.StatusBadRequest},
		{"image decode", &values.ImageDecodeError{Key: "logo", Reason: "bad"}, http.StatusUnprocessableEntity},
		{"document processing", &rewrite.DocumentProcessingError{Kind: rewrite.FailureTemplate, Err: errors.New("x")}, http.StatusUnprocessableEntity},
		{"spreadsheet", rewrite.ErrSpreadsheet, http.StatusUnprocessableEntity},
		{"converter unavailable", converter.ErrUnavailable, http.StatusServiceUnavailable},
		{"conversion failed", &converter.ConversionError{Reason: "x"}, http.StatusBadGateway},
		{"render failed", ErrRenderFailed, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPreviewOptions(t *testing.T) {
	opts, err := PreviewOptionsFromQuery(url.Values{})
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if opts.Page != 1 || opts.DPI != 150 || opts.Format != document.PNG {
		t.Errorf("defaults = %+v", opts)
	}

	opts, err = PreviewOptionsFromQuery(url.Values{"page": {"3"}, "dpi": {"300"}, "format": {"JPG"}})
	if err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if opts.Page != 3 || opts.DPI != 300 || opts.Format != document.JPEG {
		t.Errorf("explicit = %+v", opts)
	}
	if opts.imageConfig().Quality != 90 {
		t.Errorf("jpeg quality = %d, want 90", opts.imageConfig().Quality)
	}

	invalid := []url.Values{
		{"page": {"x"}},
		{"page": {"-1"}},
		{"dpi": {"20"}},
		{"dpi": {"1200"}},
		{"format": {"gif"}},
	}
	for _, v := range invalid {
		if _, err := PreviewOptionsFromQuery(v); !errors.Is(err, ErrInvalidPreview) {
			t.Errorf("PreviewOptionsFromQuery(%v) err = %v, want ErrInvalidPreview", v, err)
		}
	}
}

func TestFilters(t *testing.T) {
	id := uuid.New()
	f := FiltersFromQuery(url.Values{
		"template_id": {id.String()},
		"format":      {"PDF"},
	})

	sql, args := f.Apply(query.NewBuilder(projection, defaultSort)).BuildCount()
	want := "SELECT COUNT(*) FROM public.artifacts a WHERE a.template_id = $1 AND a.format = $2"
	if sql != want {
		t.Errorf("sql = %q\nwant  %q", sql, want)
	}
	if len(args) != 2 || args[1] != "pdf" {
		t.Errorf("args = %v", args)
	}
}

func TestHandler_GenerateBadRequest(t *testing.T) {
	h := NewHandler(nil, discard, pagination.Config{}, 1<<20)

	tests := []string{
		`not json`,
		`{"template_id": "x"}`,
		`{"values": {"list": ["a", "b"]}}`,
	}

	for _, body := range tests {
		rec := httptest.NewRecorder()
		h.Generate(rec, httptest.NewRequest(http.MethodPost, "/artifacts", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandler_PreviewInvalidOptions(t *testing.T) {
	h := NewHandler(nil, discard, pagination.Config{}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/artifacts/x/preview?dpi=5", nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
