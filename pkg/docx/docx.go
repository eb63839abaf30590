// Package docx implements a small tag engine for WordprocessingML packages.
//
// Tags are written as {name} or {{name}} anywhere in paragraph text and may
// span several runs. A tag whose name starts with % is an image tag; the
// prefix is not part of the name. Only flat substitution is supported.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
)

var (
	ErrInvalidArchive  = errors.New("invalid docx archive")
	ErrMissingDocument = errors.New("docx archive has no word/document.xml")
)

// TemplateError reports malformed tag syntax in a content part.
type TemplateError struct {
	Part   string
	Reason string
	Near   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template syntax error in %s: %s near %q", e.Part, e.Reason, e.Near)
}

// ImageError reports an image value that cannot be embedded.
type ImageError struct {
	Tag    string
	Reason string
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image for tag %q: %s", e.Tag, e.Reason)
}

// Image is an inline picture substituted for a tag.
type Image struct {
	Data      []byte
	MimeType  string
	Extension string

	// Width and Height are in pixels at 96 DPI.
	Width   int
	Height  int
	AltText string
}

const mainDocument = "word/document.xml"

var (
	headerPart = regexp.MustCompile(`^word/header\d*\.xml$`)
	footerPart = regexp.MustCompile(`^word/footer\d*\.xml$`)
)

type archive struct {
	reader *zip.Reader
	files  map[string]*zip.File
}

func openArchive(data []byte) (*archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	a := &archive{reader: zr, files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}

	if _, ok := a.files[mainDocument]; !ok {
		return nil, ErrMissingDocument
	}
	return a, nil
}

func (a *archive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidArchive, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidArchive, name, err)
	}
	return data, nil
}

// contentParts lists the parts that carry user text: the body first,
// then headers, footers, footnotes, and endnotes.
func (a *archive) contentParts() []string {
	var headers, footers []string
	for name := range a.files {
		switch {
		case headerPart.MatchString(name):
			headers = append(headers, name)
		case footerPart.MatchString(name):
			footers = append(footers, name)
		}
	}
	sort.Strings(headers)
	sort.Strings(footers)

	parts := []string{mainDocument}
	parts = append(parts, headers...)
	parts = append(parts, footers...)
	for _, name := range []string{"word/footnotes.xml", "word/endnotes.xml"} {
		if _, ok := a.files[name]; ok {
			parts = append(parts, name)
		}
	}
	return parts
}

// relsName returns the relationships part for a content part.
func relsName(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}
