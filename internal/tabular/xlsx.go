package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a sheet whose first row is the header. Trailing empty cells
// are dropped by excelize, so short rows are expected.
func ReadXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// WriteXLSX writes the table to the first sheet of a new workbook.
func WriteXLSX(w io.Writer, t *Table) error {
	f := buildWorkbook(t)
	defer f.Close()
	_, err := f.WriteTo(w)
	return err
}

// WriteXLSXFile saves the table as a workbook at path.
func WriteXLSXFile(t *Table, path string) error {
	f := buildWorkbook(t)
	defer f.Close()
	return f.SaveAs(path)
}

func buildWorkbook(t *Table) *excelize.File {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	return f
}
