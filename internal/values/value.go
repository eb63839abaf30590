// Package values classifies user-supplied placeholder values as text or
// inline images.
package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags a Value.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Value is a normalized placeholder value. Exactly one of Text or Image is
// meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Text  string
	Image *Image
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func ImageValue(img Image) Value {
	return Value{Kind: KindImage, Image: &img}
}

// Image is decoded image content ready for embedding.
type Image struct {
	Data    []byte
	Format  ImageFormat
	Width   int
	Height  int
	AltText string
}

// ImageFormat is one of the recognized image encodings.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
	FormatGIF  ImageFormat = "gif"
	FormatBMP  ImageFormat = "bmp"
	FormatSVG  ImageFormat = "svg"
)

// ParseImageFormat maps a data URL subtype to a format. The second result is
// false for unrecognized types, which map to PNG.
func ParseImageFormat(s string) (ImageFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg", "pjpeg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	case "gif":
		return FormatGIF, true
	case "bmp", "x-ms-bmp":
		return FormatBMP, true
	case "svg", "svg+xml":
		return FormatSVG, true
	default:
		return FormatPNG, false
	}
}

func (f ImageFormat) MimeType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/" + string(f)
}

func (f ImageFormat) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Label is the upper-case name used in markers such as "[PNG Image]".
func (f ImageFormat) Label() string {
	return strings.ToUpper(string(f))
}

// Raw is a value as submitted: either a string or a structured image object.
type Raw struct {
	Text  string
	Image *RawImage
}

// RawImage is the structured image form accepted from callers. Data is base64
// or a data URL.
type RawImage struct {
	Data    string `json:"data"`
	Format  string `json:"format,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	AltText string `json:"alt_text,omitempty"`
}

// UnmarshalJSON accepts a string, a number or boolean (kept as text), or an
// image object.
func (r *Raw) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*r = Raw{}
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var img RawImage
		if err := json.Unmarshal(data, &img); err != nil {
			return fmt.Errorf("image value: %w", err)
		}
		*r = Raw{Image: &img}
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Raw{Text: s}
		return nil
	case strings.HasPrefix(trimmed, "["):
		return fmt.Errorf("unsupported value: arrays are not placeholder values")
	default:
		*r = Raw{Text: trimmed}
		return nil
	}
}

func (r Raw) MarshalJSON() ([]byte, error) {
	if r.Image != nil {
		return json.Marshal(r.Image)
	}
	return json.Marshal(r.Text)
}

// TextRaw wraps a plain string.
func TextRaw(s string) Raw {
	return Raw{Text: s}
}
