package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/pkg/pagination"
	"github.com/harshad-dhokane/new-docx/pkg/query"
	"github.com/xuri/excelize/v2"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func workbook(t *testing.T, cells map[string]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for axis, v := range cells {
		if err := f.SetCellStr("Sheet1", axis, v); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRepoScan(t *testing.T) {
	sys := New(nil, nil, nil, discard, pagination.Config{})

	data := workbook(t, map[string]string{
		"A1": "Invoice {{number}}",
		"B2": "<<customer>> owes $total$",
	})

	result, err := sys.Scan("invoice.xlsx", "", data)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Kind != formats.KindSpreadsheet {
		t.Errorf("Kind = %q", result.Kind)
	}
	want := []string{"number", "customer", "total"}
	if strings.Join(result.Placeholders, ",") != strings.Join(want, ",") {
		t.Errorf("Placeholders = %v, want %v", result.Placeholders, want)
	}

	if _, err := sys.Scan("notes.txt", "text/plain", []byte("{{x}}")); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("unsupported file err = %v, want ErrInvalidFile", err)
	}
	if _, err := sys.Scan("empty.docx", "", nil); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("empty file err = %v, want ErrInvalidFile", err)
	}

	result, err = sys.Scan("broken.docx", "", []byte("not a zip"))
	if err != nil {
		t.Fatalf("Scan corrupt document: %v", err)
	}
	if result.Placeholders == nil {
		t.Error("Placeholders should be an empty list, not nil")
	}
}

func TestBuildStorageKey(t *testing.T) {
	id := uuid.MustParse("8f14e45f-ceea-467e-9a5b-2a2f3d1c0b7e")
	version := uuid.MustParse("0b1c2d3e-4f50-4617-8293-a4b5c6d7e8f9")
	got := buildStorageKey(id, version, `C:\Users\me\Sales Report.xlsx`)
	want := "templates/8f14e45f-ceea-467e-9a5b-2a2f3d1c0b7e/0b1c2d3e-4f50-4617-8293-a4b5c6d7e8f9/Sales_Report.xlsx"
	if got != want {
		t.Errorf("buildStorageKey = %q, want %q", got, want)
	}
}

func TestFilters(t *testing.T) {
	f := FiltersFromQuery(url.Values{"name": {"inv"}, "kind": {"spreadsheet"}})
	sql, args := f.Apply(query.NewBuilder(projection, defaultSort)).BuildCount()

	want := "SELECT COUNT(*) FROM public.templates t WHERE t.name ILIKE $1 AND t.kind = $2"
	if sql != want {
		t.Errorf("sql = %q\nwant  %q", sql, want)
	}
	if len(args) != 2 || args[0] != "%inv%" || args[1] != "spreadsheet" {
		t.Errorf("args = %v", args)
	}

	if f := FiltersFromQuery(url.Values{"kind": {"pdf"}}); f.Kind != nil {
		t.Error("unknown kind should be ignored")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{ErrInvalidFile, http.StatusBadRequest},
		{ErrKindMismatch, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type fakeSystem struct {
	System
	created  CreateCommand
	template *Template
	data     []byte
	err      error
}

func (f *fakeSystem) Create(_ context.Context, cmd CreateCommand) (*Template, error) {
	f.created = cmd
	return f.template, f.err
}

func (f *fakeSystem) Download(context.Context, uuid.UUID) (*Template, []byte, error) {
	return f.template, f.data, f.err
}

func (f *fakeSystem) Replace(context.Context, uuid.UUID, ReplaceCommand) (*Template, error) {
	return nil, f.err
}

func uploadRequest(t *testing.T, method, target, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	sys := &fakeSystem{template: &Template{ID: uuid.New(), Name: "Invoice", Placeholders: []string{"number"}}}
	h := NewHandler(sys, discard, pagination.Config{}, 1<<20)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, http.MethodPost, "/templates", "invoice.docx", []byte("PK"), map[string]string{"name": "Invoice"}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if sys.created.Name != "Invoice" || sys.created.Filename != "invoice.docx" || string(sys.created.Data) != "PK" {
		t.Errorf("created = %+v", sys.created)
	}

	var got Template
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Invoice" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestHandler_UploadTooLarge(t *testing.T) {
	h := NewHandler(&fakeSystem{}, discard, pagination.Config{}, 64)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, http.MethodPost, "/templates", "big.docx", bytes.Repeat([]byte("x"), 4096), nil))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandler_Download(t *testing.T) {
	sys := &fakeSystem{
		template: &Template{Filename: "Invoice.docx", ContentType: formats.MimeDOCX},
		data:     []byte("docx-bytes"),
	}
	h := NewHandler(sys, discard, pagination.Config{}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/templates/x/file", nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Invoice.docx"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Body.String() != "docx-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandler_ReplaceKindMismatch(t *testing.T) {
	h := NewHandler(&fakeSystem{err: ErrKindMismatch}, discard, pagination.Config{}, 1<<20)

	req := uploadRequest(t, http.MethodPut, "/templates/x/file", "sheet.xlsx", []byte("PK"), nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()
	h.Replace(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_InvalidID(t *testing.T) {
	h := NewHandler(&fakeSystem{}, discard, pagination.Config{}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/templates/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.Find(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
