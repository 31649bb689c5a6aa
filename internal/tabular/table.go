// Package tabular reads a text column from CSV or XLSX files and writes the
// table back with extra columns.
package tabular

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// Format is a file format.
type Format int

const (
	CSV Format = iota
	XLSX
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case XLSX:
		return "xlsx"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return CSV, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	default:
		return CSV, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// Table is a header row plus data rows. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column, matched
// case-insensitively, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Column returns the named column as records. Cells missing from short rows
// are null records.
func (t *Table) Column(name string) ([]domain.Record, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", name, t.Header)
	}

	out := make([]domain.Record, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = domain.Text(row[idx])
		} else {
			out[i] = domain.Null()
		}
	}
	return out, nil
}

// AppendColumn adds a column; values must have one entry per row.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	width := len(t.Header)
	t.Header = append(t.Header, name)
	for i, row := range t.Rows {
		for len(row) < width {
			row = append(row, "")
		}
		t.Rows[i] = append(row, values[i])
	}
	return nil
}

// ReadFile reads a table, choosing the format from the extension.
// sheet selects the XLSX sheet; empty means the first one.
func ReadFile(path, sheet string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == XLSX {
		return ReadXLSX(f, sheet)
	}
	return ReadCSV(f, csvComma(path))
}

// WriteFile writes the table, choosing the format from the extension.
func WriteFile(t *Table, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if format == XLSX {
		return WriteXLSXFile(t, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t, csvComma(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func csvComma(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}
