package rewrite

import (
	"fmt"
	"log/slog"

	"github.com/harshad-dhokane/new-docx/internal/values"
	"github.com/harshad-dhokane/new-docx/pkg/docx"
)

// Document rewrites a DOCX template with the tag engine.
type Document struct {
	logger *slog.Logger
}

func NewDocument(logger *slog.Logger) *Document {
	return &Document{logger: logger.With("rewriter", "document")}
}

// Rewrite fails with a DocumentProcessingError when the engine errors, panics,
// or produces no output.
func (d *Document) Rewrite(template []byte, vals map[string]values.Value) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, classify(fmt.Errorf("tag engine panic: %v", r))
		}
	}()

	data := make(map[string]any, len(vals))
	images := 0
	for key, v := range vals {
		if v.Kind == values.KindImage && v.Image != nil {
			data[key] = docx.Image{
				Data:      v.Image.Data,
				MimeType:  v.Image.Format.MimeType(),
				Extension: v.Image.Format.Extension(),
				Width:     v.Image.Width,
				Height:    v.Image.Height,
				AltText:   v.Image.AltText,
			}
			images++
			continue
		}
		data[key] = v.Text
	}

	d.logger.Debug("processing document", "values", len(vals), "images", images)

	out, err = docx.Process(template, data)
	if err != nil {
		return nil, classify(err)
	}
	if len(out) == 0 {
		return nil, &DocumentProcessingError{Kind: FailureGeneric, Err: ErrEmptyOutput}
	}
	return out, nil
}
