package placeholders_test

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/placeholders"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func workbookBytes(t *testing.T, build func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	build(f)

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func documentBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}

	// Stored entries keep the XML visible to the byte heuristic.
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.CreateHeader(&zip.FileHeader{Name: "[Content_Types].xml", Method: zip.Store})
	fw.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`))
	fw, _ = w.CreateHeader(&zip.FileHeader{Name: "word/document.xml", Method: zip.Store})
	fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`))
	if err := w.Close(); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestSpreadsheetExtractor(t *testing.T) {
	data := workbookBytes(t, func(f *excelize.File) {
		f.SetCellStr("Sheet1", "A1", "Hello {{name}}, due {{due_date}}")
		f.SetCellStr("Sheet1", "A3", "Ref <<ref>> and $code$")
		f.SetCellFormula("Sheet1", "B3", "SUM(1,2)")
		f.SetCellRichText("Sheet1", "C5", []excelize.RichTextRun{
			{Text: "Sign: {"},
			{Text: "signer}", Font: &excelize.Font{Italic: true}},
		})
		f.NewSheet("Totals")
		f.SetCellStr("Totals", "D10", "{{name}} {total}")
	})

	got := placeholders.NewSpreadsheetExtractor(discardLogger()).Extract(data).Names()
	want := []string{"name", "due_date", "ref", "code", "signer", "total"}

	if !slices.Equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestSpreadsheetExtractor_NoPlaceholders(t *testing.T) {
	data := workbookBytes(t, func(f *excelize.File) {
		f.SetCellStr("Sheet1", "A1", "Quarterly report")
		f.SetCellInt("Sheet1", "B2", 12)
	})

	got := placeholders.NewSpreadsheetExtractor(discardLogger()).Extract(data)
	if got == nil || got.Len() != 0 {
		t.Errorf("Extract() = %v, want empty set", got)
	}
}

func TestSpreadsheetExtractor_CorruptWorkbook(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := placeholders.NewSpreadsheetExtractor(logger).Extract([]byte("{{not}} a workbook"))
	if got.Len() != 0 {
		t.Errorf("Extract() = %v, want empty set", got.Names())
	}
	if !strings.Contains(buf.String(), "placeholder extraction degraded") {
		t.Errorf("missing degraded event: %s", buf.String())
	}
}

func TestDocumentExtractor(t *testing.T) {
	data := documentBytes(t, "Dear {name},", "Invoice {{ invoice_no }}", "Logo {%logo}")

	got := placeholders.NewDocumentExtractor(discardLogger()).Extract(data).Names()
	want := []string{"name", "invoice_no", "logo"}

	if !slices.Equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestDocumentExtractor_FallbackOnCorruptPackage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	data := []byte("PK\x03\x04garbage\x00\x00\x00{{client}}\x00text {single} <<angle>> {{ amount }}\x01")
	got := placeholders.NewDocumentExtractor(logger).Extract(data).Names()

	if !slices.Equal(got, []string{"client", "amount"}) {
		t.Errorf("Extract() = %v, want [client amount]", got)
	}
	if !strings.Contains(buf.String(), "strategy=document_tags") {
		t.Errorf("missing degraded event for tag parsing: %s", buf.String())
	}
}

func TestDocumentExtractor_FallbackOnMalformedTags(t *testing.T) {
	data := documentBytes(t, "Dear {name", "Total {{total}}")

	got := placeholders.NewDocumentExtractor(discardLogger()).Extract(data)
	if !got.Has("total") {
		t.Errorf("Extract() = %v, want fallback to find total", got.Names())
	}
}

func TestForKind(t *testing.T) {
	xlsx := workbookBytes(t, func(f *excelize.File) {
		f.SetCellStr("Sheet1", "A1", "{{x}}")
	})

	if got := placeholders.ForKind(formats.KindSpreadsheet, discardLogger()).Extract(xlsx); !got.Has("x") {
		t.Errorf("spreadsheet extractor = %v", got.Names())
	}
	if got := placeholders.ForKind(formats.KindDocument, discardLogger()).Extract(documentBytes(t, "{y}")); !got.Has("y") {
		t.Errorf("document extractor = %v", got.Names())
	}
}
