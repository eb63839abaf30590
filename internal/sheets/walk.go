package sheets

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Declared dimensions larger than this are ignored in favor of the populated rows.
const maxDimensionCells = 1 << 20

// Cell is one addressed cell and its content.
type Cell struct {
	Sheet   string
	Axis    string
	Content Content
}

// ReadCell classifies the cell at axis.
func ReadCell(f *excelize.File, sheet, axis string) (content Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read cell %s!%s: %v", sheet, axis, r)
		}
	}()

	raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	formula, err := f.GetCellFormula(sheet, axis)
	if err != nil {
		return nil, err
	}

	hasLink, target, err := f.GetCellHyperLink(sheet, axis)
	if err != nil {
		return nil, err
	}

	if formula != "" {
		return Formula{Formula: formula, Result: raw, Hyperlink: target}, nil
	}

	if raw == "" {
		if hasLink {
			return Hyperlink{Target: target}, nil
		}
		return Empty{}, nil
	}

	if hasLink {
		return Hyperlink{Text: raw, Target: target}, nil
	}

	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeSharedString:
		runs, err := f.GetCellRichText(sheet, axis)
		if err == nil && len(runs) > 1 {
			texts := make([]string, len(runs))
			for i, r := range runs {
				texts[i] = r.Text
			}
			return RichText{Runs: texts}, nil
		}
		return Text{Value: raw}, nil
	case excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Text{Value: raw}, nil
	case excelize.CellTypeBool:
		return Boolean{Value: raw == "1" || raw == "TRUE" || raw == "true"}, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return Number{Raw: raw}, nil
	default:
		return Other{Value: raw}, nil
	}
}

// Walk visits every non-empty cell of every sheet, row by row, including
// formula cells without a cached value and hyperlink cells without text. Cells or sheets that cannot be read
// are passed to onErr and skipped. An error from visit stops the walk.
func Walk(f *excelize.File, visit func(Cell) error, onErr func(sheet, axis string, err error)) error {
	if onErr == nil {
		onErr = func(string, string, error) {}
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			onErr(sheet, "", err)
			continue
		}

		maxRow, maxCol := extent(f, sheet, rows)

		for r := 1; r <= maxRow; r++ {
			for c := 1; c <= maxCol; c++ {
				axis, err := excelize.CoordinatesToCellName(c, r)
				if err != nil {
					onErr(sheet, "", err)
					continue
				}

				if cellValue(rows, r, c) == "" && !hasFormulaOrLink(f, sheet, axis) {
					continue
				}

				content, err := ReadCell(f, sheet, axis)
				if err != nil {
					onErr(sheet, axis, err)
					continue
				}
				if _, empty := content.(Empty); empty {
					continue
				}

				if err := visit(Cell{Sheet: sheet, Axis: axis, Content: content}); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// extent is the larger of the declared sheet dimension and the populated rows.
func extent(f *excelize.File, sheet string, rows [][]string) (int, int) {
	maxRow := len(rows)
	maxCol := 0
	for _, row := range rows {
		maxCol = max(maxCol, len(row))
	}

	if dim, err := f.GetSheetDimension(sheet); err == nil && dim != "" {
		ref := dim
		if i := strings.LastIndexByte(dim, ':'); i >= 0 {
			ref = dim[i+1:]
		}
		if c, r, err := excelize.CellNameToCoordinates(ref); err == nil && r*c <= maxDimensionCells {
			maxRow = max(maxRow, r)
			maxCol = max(maxCol, c)
		}
	}

	return maxRow, maxCol
}

func cellValue(rows [][]string, r, c int) string {
	if r-1 >= len(rows) || c-1 >= len(rows[r-1]) {
		return ""
	}
	return rows[r-1][c-1]
}

func hasFormulaOrLink(f *excelize.File, sheet, axis string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if formula, err := f.GetCellFormula(sheet, axis); err == nil && formula != "" {
		return true
	}
	linked, _, err := f.GetCellHyperLink(sheet, axis)
	return err == nil && linked
}
