// Package formats classifies template files and generation targets.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the structural family of a template.
type Kind string

const (
	KindSpreadsheet Kind = "spreadsheet"
	KindDocument    Kind = "document"
)

// Format is a concrete output file format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

const (
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimePDF  = "application/pdf"
)

// ErrUnsupported is returned for files that are neither DOCX nor XLSX.
var ErrUnsupported = errors.New("unsupported template format (must be .docx or .xlsx)")

// Native returns the format a template of kind k is stored in.
func (k Kind) Native() Format {
	if k == KindSpreadsheet {
		return FormatXLSX
	}
	return FormatDOCX
}

func (k Kind) Valid() bool {
	return k == KindSpreadsheet || k == KindDocument
}

// MimeType returns the content type for f.
func (f Format) MimeType() string {
	switch f {
	case FormatDOCX:
		return MimeDOCX
	case FormatXLSX:
		return MimeXLSX
	case FormatPDF:
		return MimePDF
	default:
		return "application/octet-stream"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// TargetAllowed reports whether a template of kind k can be generated as f.
// Templates generate into their own format or PDF.
func TargetAllowed(k Kind, f Format) bool {
	return f == FormatPDF || f == k.Native()
}

// Detect determines the template kind from the filename extension, falling
// back to the declared content type.
func Detect(filename, contentType string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return KindSpreadsheet, nil
	case ".docx":
		return KindDocument, nil
	}

	switch strings.TrimSpace(strings.Split(contentType, ";")[0]) {
	case MimeXLSX:
		return KindSpreadsheet, nil
	case MimeDOCX:
		return KindDocument, nil
	}

	return "", ErrUnsupported
}

// BaseName strips directory and extension from filename.
func BaseName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var unsafe = strings.NewReplacer(
	" ", "_",
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFilename makes filename safe for use as a storage key segment.
func SanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = unsafe.Replace(name)
	if name == "." || name == ".." || name == "" {
		return "file"
	}
	return name
}
