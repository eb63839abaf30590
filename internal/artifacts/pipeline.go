package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/harshad-dhokane/new-docx/internal/converter"
	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/rewrite"
	"github.com/harshad-dhokane/new-docx/internal/values"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Converter produces PDFs from rewritten documents.
type Converter interface {
	Available(ctx context.Context) bool
	Convert(ctx context.Context, data []byte, filename string) ([]byte, error)
	Timeout() time.Duration
}

// Request is one generation run over template bytes already in memory.
type Request struct {
	Kind     formats.Kind
	Template []byte

	// Filename names the template; its base is reused for the intermediate
	// document handed to the converter.
	Filename string
	Format   formats.Format
	Values   map[string]values.Raw
}

type Result struct {
	Data      []byte
	Format    formats.Format
	Summary   map[string]string
	PageCount *int
}

// Pipeline runs normalize, rewrite, and optional PDF conversion. It has no
// database or storage dependency so the CLI can run it directly.
type Pipeline struct {
	normalizer *values.Normalizer
	converter  Converter
	logger     *slog.Logger
}

// NewPipeline creates a pipeline. conv may be nil, in which case PDF output
// reports converter.ErrUnavailable.
func NewPipeline(normalizer *values.Normalizer, conv Converter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		converter:  conv,
		logger:     logger.With("system", "generation"),
	}
}

func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown template kind %q", ErrInvalidFormat, req.Kind)
	}
	if !formats.TargetAllowed(req.Kind, req.Format) {
		return nil, fmt.Errorf("%w: %s template cannot produce %s", ErrInvalidFormat, req.Kind, req.Format)
	}

	vals, err := p.normalizer.Normalize(req.Values)
	if err != nil {
		return nil, err
	}

	out, err := rewrite.For(req.Kind, p.logger).Rewrite(req.Template, vals)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Data:    out,
		Format:  req.Format,
		Summary: Summarize(vals),
	}

	if req.Format != formats.FormatPDF {
		return result, nil
	}

	pdf, err := p.convert(ctx, out, formats.BaseName(req.Filename)+req.Kind.Native().Extension())
	if err != nil {
		return nil, err
	}
	result.Data = pdf

	count, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		p.logger.Warn("failed to extract pdf page count", "error", err)
	} else {
		result.PageCount = &count
	}

	return result, nil
}

func (p *Pipeline) convert(ctx context.Context, data []byte, filename string) ([]byte, error) {
	if p.converter == nil || !p.converter.Available(ctx) {
		return nil, converter.ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, p.converter.Timeout())
	defer cancel()

	return p.converter.Convert(ctx, data, filename)
}

// Summarize renders values for storage with the artifact: text verbatim,
// images as "[PNG Image - ~12KB]".
func Summarize(vals map[string]values.Value) map[string]string {
	summary := make(map[string]string, len(vals))
	for key, v := range vals {
		if v.Kind == values.KindImage && v.Image != nil {
			kb := int(math.Round(float64(len(v.Image.Data)) / 1024))
			summary[key] = fmt.Sprintf("[%s Image - ~%dKB]", v.Image.Format.Label(), kb)
			continue
		}
		summary[key] = v.Text
	}
	return summary
}
