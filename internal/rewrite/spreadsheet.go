package rewrite

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/harshad-dhokane/new-docx/internal/placeholders"
	"github.com/harshad-dhokane/new-docx/internal/sheets"
	"github.com/harshad-dhokane/new-docx/internal/values"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet rewrites cell text. Images become "[<FORMAT> Image]" markers.
type Spreadsheet struct {
	logger *slog.Logger
}

func NewSpreadsheet(logger *slog.Logger) *Spreadsheet {
	return &Spreadsheet{logger: logger.With("rewriter", "spreadsheet")}
}

// Rewrite replaces placeholders in every cell whose display text holds a
// known key. The cell's style is captured before writing and reapplied after,
// and cells without a match keep their original typed value.
func (s *Spreadsheet) Rewrite(template []byte, vals map[string]values.Value) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrSpreadsheet, r)
		}
	}()

	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrSpreadsheet, err)
	}
	defer f.Close()

	lookup := func(name string) (string, bool) {
		v, ok := vals[name]
		if !ok {
			return "", false
		}
		if v.Kind == values.KindImage && v.Image != nil {
			return fmt.Sprintf("[%s Image]", v.Image.Format.Label()), true
		}
		return v.Text, true
	}

	cells, total := 0, 0
	err = sheets.Walk(f, func(c sheets.Cell) error {
		text, n := placeholders.Replace(sheets.DisplayText(c.Content), lookup)
		if n == 0 {
			return nil
		}

		style, err := f.GetCellStyle(c.Sheet, c.Axis)
		if err != nil {
			return fmt.Errorf("%w: read style %s!%s: %v", ErrSpreadsheet, c.Sheet, c.Axis, err)
		}
		if err := f.SetCellStr(c.Sheet, c.Axis, text); err != nil {
			return fmt.Errorf("%w: write %s!%s: %v", ErrSpreadsheet, c.Sheet, c.Axis, err)
		}
		if err := f.SetCellStyle(c.Sheet, c.Axis, c.Axis, style); err != nil {
			return fmt.Errorf("%w: restore style %s!%s: %v", ErrSpreadsheet, c.Sheet, c.Axis, err)
		}

		cells++
		total += n
		return nil
	}, func(sheet, axis string, err error) {
		s.logger.Warn("skipping unreadable cell", "sheet", sheet, "cell", axis, "error", err)
	})
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: write workbook: %v", ErrSpreadsheet, err)
	}

	s.logger.Debug("spreadsheet rewritten", "cells", cells, "substitutions", total)
	return buf.Bytes(), nil
}
