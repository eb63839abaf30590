package placeholders

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/harshad-dhokane/new-docx/internal/sheets"
	"github.com/xuri/excelize/v2"
)

type spreadsheetStrategy struct {
	logger *slog.Logger
}

// Spreadsheet scans the display text of every cell in every sheet. Unreadable
// cells are logged and skipped; a workbook that cannot be opened is an error.
func Spreadsheet(logger *slog.Logger) Strategy {
	return &spreadsheetStrategy{logger: logger}
}

func (s *spreadsheetStrategy) Name() string { return "spreadsheet" }

func (s *spreadsheetStrategy) Extract(data []byte) (*Set, error) {
	set := NewSet()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return set, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	cells := 0
	err = sheets.Walk(f, func(c sheets.Cell) error {
		cells++
		set.Union(Scan(sheets.DisplayText(c.Content)))
		return nil
	}, func(sheet, axis string, err error) {
		s.logger.Debug("skipping unreadable cell", "sheet", sheet, "cell", axis, "error", err)
	})
	if err != nil {
		return set, err
	}

	s.logger.Debug("spreadsheet scanned", "cells", cells, "placeholders", set.Len())
	return set, nil
}

// NewSpreadsheetExtractor returns the extractor used for spreadsheet uploads.
func NewSpreadsheetExtractor(logger *slog.Logger) *Extractor {
	return TryInOrder(logger, Spreadsheet(logger))
}
