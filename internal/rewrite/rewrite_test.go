package rewrite_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/placeholders"
	"github.com/harshad-dhokane/new-docx/internal/rewrite"
	"github.com/harshad-dhokane/new-docx/internal/values"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func text(s string) values.Value { return values.TextValue(s) }

func workbook(t *testing.T, build func(f *excelize.File)) []byte {
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

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSpreadsheet_Scenario(t *testing.T) {
	data := workbook(t, func(f *excelize.File) {
		f.SetCellStr("Sheet1", "A1", "Hello {{name}}, due {{due_date}}")
	})

	out, err := rewrite.NewSpreadsheet(discardLogger()).Rewrite(data, map[string]values.Value{
		"name":     text("Bob"),
		"due_date": text("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	got, _ := openWorkbook(t, out).GetCellValue("Sheet1", "A1")
	if got != "Hello Bob, due 2024-01-01" {
		t.Errorf("A1 = %q", got)
	}

	if names := placeholders.NewSpreadsheetExtractor(discardLogger()).Extract(out); names.Len() != 0 {
		t.Errorf("output still has placeholders: %v", names.Names())
	}
}

func TestSpreadsheet_PreservesStyles(t *testing.T) {
	var styled, plain int
	data := workbook(t, func(f *excelize.File) {
		styled, _ = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FF0000"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    []excelize.Border{{Type: "left", Color: "000000", Style: 1}},
		})
		plain, _ = f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}, NumFmt: 4})

		f.SetCellStr("Sheet1", "A1", "<<title>>")
		f.SetCellStyle("Sheet1", "A1", "A1", styled)
		f.SetCellFloat("Sheet1", "B1", 1234.5, 1, 64)
		f.SetCellStyle("Sheet1", "B1", "B1", plain)
		f.SetCellStr("Sheet1", "C1", "{{unknown}}")
	})

	out, err := rewrite.NewSpreadsheet(discardLogger()).Rewrite(data, map[string]values.Value{"title": text("Report")})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	in := openWorkbook(t, data)
	f := openWorkbook(t, out)

	if v, _ := f.GetCellValue("Sheet1", "A1"); v != "Report" {
		t.Errorf("A1 = %q, want Report", v)
	}

	for _, axis := range []string{"A1", "B1", "C1"} {
		inStyle, _ := in.GetCellStyle("Sheet1", axis)
		outStyle, _ := f.GetCellStyle("Sheet1", axis)
		if inStyle != outStyle {
			t.Errorf("%s style = %d, want %d", axis, outStyle, inStyle)
		}
	}

	if typ, _ := f.GetCellType("Sheet1", "B1"); typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Error("untouched numeric cell was coerced to text")
	}
	if v, _ := f.GetCellValue("Sheet1", "C1"); v != "{{unknown}}" {
		t.Errorf("C1 = %q, want unknown placeholder kept", v)
	}
}

func TestSpreadsheet_ImageMarker(t *testing.T) {
	data := workbook(t, func(f *excelize.File) {
		f.SetCellStr("Sheet1", "A1", "Logo: $logo$")
	})

	out, err := rewrite.NewSpreadsheet(discardLogger()).Rewrite(data, map[string]values.Value{
		"logo": values.ImageValue(values.Image{Data: []byte{1}, Format: values.FormatPNG}),
	})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	if v, _ := openWorkbook(t, out).GetCellValue("Sheet1", "A1"); v != "Logo: [PNG Image]" {
		t.Errorf("A1 = %q", v)
	}
}

func TestSpreadsheet_InvalidWorkbook(t *testing.T) {
	_, err := rewrite.NewSpreadsheet(discardLogger()).Rewrite([]byte("nope"), nil)
	if !errors.Is(err, rewrite.ErrSpreadsheet) {
		t.Errorf("Rewrite() error = %v, want ErrSpreadsheet", err)
	}
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/_rels/document.xml.rels", "word/document.xml"} {
		fw, _ := w.Create(name)
		fw.Write([]byte(files[name]))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, _ := f.Open()
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return string(b)
		}
	}
	t.Fatal("document.xml missing")
	return ""
}

func TestDocument_RoundTrip(t *testing.T) {
	out, err := rewrite.NewDocument(discardLogger()).Rewrite(docxBytes(t, "Hello {name}"), map[string]values.Value{
		"name": text("Ada"),
	})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	if xml := documentXML(t, out); !strings.Contains(xml, "Hello Ada") {
		t.Errorf("output missing substituted text:\n%s", xml)
	}
	if names := placeholders.NewDocumentExtractor(discardLogger()).Extract(out); names.Has("name") {
		t.Error("output still declares name tag")
	}
}

func TestDocument_Image(t *testing.T) {
	out, err := rewrite.NewDocument(discardLogger()).Rewrite(docxBytes(t, "{%logo}"), map[string]values.Value{
		"logo": values.ImageValue(values.Image{Data: []byte("img"), Format: values.FormatJPEG, Width: 10, Height: 10, AltText: "logo"}),
	})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if xml := documentXML(t, out); !strings.Contains(xml, "<w:drawing>") {
		t.Errorf("image not embedded:\n%s", xml)
	}
}

func TestDocument_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		template []byte
		vals     map[string]values.Value
		kind     rewrite.FailureKind
	}{
		{
			name:     "template syntax",
			template: docxBytes(t, "Hello {name"),
			kind:     rewrite.FailureTemplate,
		},
		{
			name:     "image",
			template: docxBytes(t, "{logo}"),
			vals:     map[string]values.Value{"logo": values.ImageValue(values.Image{Format: values.FormatPNG})},
			kind:     rewrite.FailureImage,
		},
		{
			name:     "generic",
			template: []byte("not a docx"),
			kind:     rewrite.FailureGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rewrite.NewDocument(discardLogger()).Rewrite(tt.template, tt.vals)

			var de *rewrite.DocumentProcessingError
			if !errors.As(err, &de) {
				t.Fatalf("Rewrite() error = %v, want DocumentProcessingError", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", de.Kind, tt.kind, err)
			}
			if !errors.Is(err, rewrite.ErrDocumentProcessing) {
				t.Error("error does not match ErrDocumentProcessing")
			}
			if rewrite.MapHTTPStatus(err) != 422 {
				t.Errorf("MapHTTPStatus() = %d, want 422", rewrite.MapHTTPStatus(err))
			}
		})
	}
}

func TestFor(t *testing.T) {
	if _, ok := rewrite.For(formats.KindSpreadsheet, discardLogger()).(*rewrite.Spreadsheet); !ok {
		t.Error("For(spreadsheet) is not a spreadsheet rewriter")
	}
	if _, ok := rewrite.For(formats.KindDocument, discardLogger()).(*rewrite.Document); !ok {
		t.Error("For(document) is not a document rewriter")
	}
}
