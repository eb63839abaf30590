package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return out.String(), err
}

func writeWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Invoice for {{customer}}")
	f.SetCellValue("Sheet1", "B2", "Total: <<total>>")
	f.SetCellValue("Sheet1", "C3", "{customer}")

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeWorkbook(t, "invoice.xlsx")

	out, err := execute(t, "scan", "invoice.xlsx")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if got := strings.Fields(out); strings.Join(got, ",") != "customer,total" {
		t.Errorf("scan output = %q, want customer and total", out)
	}

	out, err = execute(t, "scan", "--json", "invoice.xlsx")
	if err != nil {
		t.Fatalf("scan --json failed: %v", err)
	}
	var names []string
	if err := json.Unmarshal([]byte(out), &names); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want 2 entries", names)
	}
}

func TestScan_UnsupportedFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("notes.txt", []byte("{{x}}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "scan", "notes.txt"); err == nil {
		t.Fatal("scan should reject .txt files")
	}
}

func TestGenerate_Spreadsheet(t *testing.T) {
	t.Chdir(t.TempDir())
	writeWorkbook(t, "invoice.xlsx")

	if err := os.WriteFile("values.json", []byte(`{"customer": "Acme", "total": 10}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "generate", "invoice.xlsx", "--values", "values.json", "--set", "total=42", "-o", "out.xlsx")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if strings.TrimSpace(out) != "out.xlsx" {
		t.Errorf("output = %q, want out.xlsx", out)
	}

	f, err := excelize.OpenFile("out.xlsx")
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	tests := map[string]string{
		"A1": "Invoice for Acme",
		"B2": "Total: 42",
		"C3": "Acme",
	}
	for axis, want := range tests {
		got, _ := f.GetCellValue("Sheet1", axis)
		if got != want {
			t.Errorf("%s = %q, want %q", axis, got, want)
		}
	}
}

func TestGenerate_DefaultOutputName(t *testing.T) {
	t.Chdir(t.TempDir())
	writeWorkbook(t, "invoice.xlsx")

	out, err := execute(t, "generate", "invoice.xlsx", "--set", "customer=Acme")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	name := strings.TrimSpace(out)
	if !strings.HasPrefix(name, "invoice_") || filepath.Ext(name) != ".xlsx" {
		t.Errorf("default output = %q", name)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestGenerate_InvalidFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	writeWorkbook(t, "invoice.xlsx")

	if _, err := execute(t, "generate", "invoice.xlsx", "--format", "docx"); err == nil {
		t.Fatal("xlsx template should not generate docx")
	}
	if _, err := execute(t, "generate", "invoice.xlsx", "--format", "odt"); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestGenerate_PDFUnavailable(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONVERTER_BINARY", filepath.Join(t.TempDir(), "missing-soffice"))
	writeWorkbook(t, "invoice.xlsx")

	_, err := execute(t, "generate", "invoice.xlsx", "--format", "pdf")
	if !errors.Is(err, converter.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestHealth_Unavailable(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONVERTER_BINARY", filepath.Join(t.TempDir(), "missing-soffice"))

	out, err := execute(t, "health")
	if !errors.Is(err, converter.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if strings.TrimSpace(out) != "unavailable" {
		t.Errorf("output = %q", out)
	}
}

func TestGenerateOptions_Values(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "logo.PNG")
	if err := os.WriteFile(img, []byte{0x89, 'P', 'N', 'G'}, 0644); err != nil {
		t.Fatal(err)
	}

	opts := &generateOptions{
		sets:   []string{"name=Alice", "expr=a=b"},
		images: []string{"logo=" + img},
	}

	raw, err := opts.values()
	if err != nil {
		t.Fatalf("values() failed: %v", err)
	}

	if raw["name"].Text != "Alice" {
		t.Errorf("name = %+v", raw["name"])
	}
	if raw["expr"].Text != "a=b" {
		t.Errorf("expr = %q, only the first = separates key and value", raw["expr"].Text)
	}
	if raw["logo"].Image == nil || raw["logo"].Image.Format != "png" {
		t.Errorf("logo = %+v", raw["logo"])
	}
}

func TestSplitPair(t *testing.T) {
	tests := []struct {
		in      string
		key     string
		value   string
		wantErr bool
	}{
		{"a=1", "a", "1", false},
		{" a =1", "a", "1", false},
		{"a=", "a", "", false},
		{"a", "", "", true},
		{"=1", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, value, err := splitPair(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitPair(%q) error = %v", tt.in, err)
			}
			if key != tt.key || value != tt.value {
				t.Errorf("splitPair(%q) = %q, %q", tt.in, key, value)
			}
		})
	}
}
