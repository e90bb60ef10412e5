// Package xlsx decodes Excel workbooks into sheet tables using excelize.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	ports "smartfinance/internal/sheets"
)

// Decoder reads the first worksheet of a workbook. The first row is the
// header; cells stored as numbers are returned as float64.
type Decoder struct {
	// Sheet selects a worksheet by name instead of the first one.
	Sheet string
}

var _ ports.RowSource = Decoder{}

func (d Decoder) Decode(ctx context.Context, filename string, r io.Reader) (ports.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ports.Table{}, ports.ErrEmptyFile
		}
		return ports.Table{}, fmt.Errorf("open workbook %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.WarnContext(ctx, "Failed to close workbook", "file", filename, "error", cerr)
		}
	}()

	sheet := d.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return ports.Table{}, ports.ErrEmptyFile
		}
		sheet = list[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ports.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return ports.Table{}, ports.ErrEmptyFile
	}

	t := ports.NewTable(records, numericCells(f, sheet))
	slog.DebugContext(ctx, "Decoded workbook", "file", filename, "sheet", sheet, "rows", t.Len())
	return t, nil
}

// numericCells converts cells Excel stores as numbers to float64. Text cells
// stay text even when they look numeric, so "007" is not turned into 7.
func numericCells(f *excelize.File, sheet string) func(rec, col int, cell string) any {
	return func(rec, col int, cell string) any {
		name, err := excelize.CoordinatesToCellName(col+1, rec+1)
		if err != nil {
			return cell
		}
		typ, err := f.GetCellType(sheet, name)
		if err != nil || (typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset) {
			return cell
		}
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
		return cell
	}
}
