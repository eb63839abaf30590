package values

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
)

// Policy decides what happens when an inline image cannot be decoded.
type Policy string

const (
	// PolicyAbort fails normalization with an ImageDecodeError.
	PolicyAbort Policy = "abort"

	// PolicyMarker substitutes "[Image Error: <reason>]" text for the key.
	PolicyMarker Policy = "marker"
)

func (p Policy) Validate() error {
	switch p {
	case PolicyAbort, PolicyMarker:
		return nil
	default:
		return fmt.Errorf("invalid image error policy: %s (must be abort or marker)", p)
	}
}

const (
	DefaultWidth  = 400
	DefaultHeight = 300
)

var dataURL = regexp.MustCompile(`(?s)^data:image/([a-zA-Z0-9+.\-]+);base64,(.*)$`)

// Normalizer converts raw values into text and image values.
type Normalizer struct {
	logger *slog.Logger
	policy Policy
	width  int
	height int
}

// NewNormalizer creates a normalizer. Images without explicit dimensions are
// fitted into a width x height box; zero values use 400x300.
func NewNormalizer(logger *slog.Logger, policy Policy, width, height int) *Normalizer {
	if policy == "" {
		policy = PolicyAbort
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Normalizer{
		logger: logger.With("component", "normalizer"),
		policy: policy,
		width:  width,
		height: height,
	}
}

// Normalize classifies every entry. Keys are processed in sorted order, so the
// reported error for several bad images is stable.
func (n *Normalizer) Normalize(raw map[string]Raw) (map[string]Value, error) {
	out := make(map[string]Value, len(raw))

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		v, err := n.normalizeOne(key, raw[key])
		if err != nil {
			if n.policy == PolicyAbort {
				return nil, err
			}
			n.logger.Warn("image decode failed", "key", key, "error", err)
			v = TextValue(fmt.Sprintf("[Image Error: %s]", reasonOf(err)))
		}
		out[key] = v
	}

	return out, nil
}

func (n *Normalizer) normalizeOne(key string, r Raw) (Value, error) {
	if r.Image != nil {
		return n.structured(key, r.Image)
	}

	if IsDataURL(r.Text) {
		img, err := n.fromDataURL(key, r.Text)
		if err != nil {
			return Value{}, err
		}
		return ImageValue(img), nil
	}

	return TextValue(r.Text), nil
}

// IsDataURL reports whether s looks like an inline image.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/") && strings.Contains(s, "base64,")
}

func (n *Normalizer) fromDataURL(key, s string) (Image, error) {
	m := dataURL.FindStringSubmatch(s)
	if m == nil {
		return Image{}, &ImageDecodeError{Key: key, Reason: "invalid data URL, expected data:image/<type>;base64,<data>"}
	}

	data, err := decodeBase64(m[2])
	if err != nil {
		return Image{}, &ImageDecodeError{Key: key, Reason: err.Error()}
	}

	format := n.format(key, m[1])
	w, h := n.dimensions(data)

	return Image{Data: data, Format: format, Width: w, Height: h, AltText: key}, nil
}

func (n *Normalizer) structured(key string, ri *RawImage) (Value, error) {
	payload := ri.Data
	subtype := ri.Format

	if m := dataURL.FindStringSubmatch(payload); m != nil {
		payload = m[2]
		if subtype == "" {
			subtype = m[1]
		}
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return Value{}, &ImageDecodeError{Key: key, Reason: err.Error()}
	}

	format := FormatPNG
	if subtype != "" {
		format = n.format(key, strings.TrimPrefix(strings.ToLower(subtype), "image/"))
	}

	w, h := ri.Width, ri.Height
	if w <= 0 || h <= 0 {
		w, h = n.dimensions(data)
	}

	alt := ri.AltText
	if alt == "" {
		alt = key
	}

	return ImageValue(Image{Data: data, Format: format, Width: w, Height: h, AltText: alt}), nil
}

func (n *Normalizer) format(key, subtype string) ImageFormat {
	f, ok := ParseImageFormat(subtype)
	if !ok {
		n.logger.Warn("unknown image type, defaulting to png", "key", key, "type", subtype)
	}
	return f
}

// dimensions returns the natural size scaled down to fit the box, or the box
// itself when the header cannot be decoded.
func (n *Normalizer) dimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return n.width, n.height
	}
	return Fit(cfg.Width, cfg.Height, n.width, n.height)
}

// Fit scales w x h down to fit within maxW x maxH, keeping the aspect ratio.
// Sizes already inside the box are returned unchanged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	fw := max(1, int(float64(w)*scale+0.5))
	fh := max(1, int(float64(h)*scale+0.5))
	return fw, fh
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	if s == "" {
		return nil, fmt.Errorf("empty base64 data")
	}

	var (
		data []byte
		err  error
	)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err = enc.DecodeString(s); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image data decoded to zero bytes")
	}
	return data, nil
}

func reasonOf(err error) string {
	var de *ImageDecodeError
	if errors.As(err, &de) {
		return de.Reason
	}
	return err.Error()
}
