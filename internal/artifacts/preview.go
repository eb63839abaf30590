package artifacts

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/harshad-dhokane/new-docx/internal/formats"
)

// PreviewOptions selects the page and raster settings for a PDF preview.
type PreviewOptions struct {
	Page   int
	DPI    int
	Format document.ImageFormat
}

func PreviewOptionsFromQuery(values url.Values) (PreviewOptions, error) {
	var opts PreviewOptions

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: page must be an integer", ErrInvalidPreview)
		}
		opts.Page = n
	}

	if v := values.Get("dpi"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: dpi must be an integer", ErrInvalidPreview)
		}
		opts.DPI = n
	}

	opts.Format = document.ImageFormat(values.Get("format"))

	return opts, opts.Validate()
}

// Validate applies defaults (page 1, 150 dpi, png) and checks ranges.
func (o *PreviewOptions) Validate() error {
	switch strings.ToLower(strings.TrimSpace(string(o.Format))) {
	case "", "png":
		o.Format = document.PNG
	case "jpg", "jpeg":
		o.Format = document.JPEG
	default:
		return fmt.Errorf("%w: format must be 'png' or 'jpg'", ErrInvalidPreview)
	}

	if o.Page == 0 {
		o.Page = 1
	} else if o.Page < 0 {
		return fmt.Errorf("%w: page must be positive", ErrInvalidPreview)
	}

	if o.DPI == 0 {
		o.DPI = 150
	} else if o.DPI < 72 || o.DPI > 600 {
		return fmt.Errorf("%w: dpi must be between 72 and 600", ErrInvalidPreview)
	}

	return nil
}

func (o PreviewOptions) imageConfig() config.ImageConfig {
	cfg := config.ImageConfig{
		Format: string(o.Format),
		DPI:    o.DPI,
		Options: map[string]any{
			"background": "white",
		},
	}
	if o.Format == document.JPEG {
		cfg.Quality = 90
	}
	return cfg
}

// renderPreview rasterizes one page of a PDF. The document reader needs a
// file path, so the PDF is staged in a temporary file for the duration.
func renderPreview(pdf []byte, opts PreviewOptions) ([]byte, string, error) {
	tmp, err := os.CreateTemp("", "docgen-preview-*.pdf")
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	doc, err := document.Open(tmp.Name(), formats.MimePDF)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(opts.imageConfig())
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	page, err := doc.ExtractPage(opts.Page)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	data, err := page.ToImage(renderer, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	contentType, err := opts.Format.MimeType()
	if err != nil {
		contentType = "image/png"
	}

	return data, contentType, nil
}
