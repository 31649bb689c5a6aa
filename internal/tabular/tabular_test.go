package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadCSVColumn(t *testing.T) {
	in := "\xef\xbb\xbfid,Text\n1,Кошки любят молоко\n2,\n3\n"
	table, err := ReadCSV(strings.NewReader(in), ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "Text"}, table.Header)
	col, err := table.Column("text")
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{
		domain.Text("Кошки любят молоко"),
		domain.Text(""),
		domain.Null(),
	}, col)

	_, err = table.Column("missing")
	assert.Error(t, err)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), ',')
	assert.Error(t, err)
}

func TestReadXLSXColumn(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"text", "label"},
		{"Мама мыла раму", "a"},
		{"Hello, world!", "b"},
	})

	table, err := ReadXLSX(bytes.NewReader(blob), "")
	require.NoError(t, err)

	col, err := table.Column("text")
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{domain.Text("Мама мыла раму"), domain.Text("Hello, world!")}, col)
}

func TestAppendColumnPadsShortRows(t *testing.T) {
	table := &Table{Header: []string{"a", "b"}, Rows: [][]string{{"1"}, {"2", "x"}}}

	require.NoError(t, table.AppendColumn("c", []string{"p", "q"}))
	assert.Equal(t, [][]string{{"1", "", "p"}, {"2", "x", "q"}}, table.Rows)

	assert.Error(t, table.AppendColumn("d", []string{"only one"}))
}

func TestWriteFileRoundTrip(t *testing.T) {
	table := &Table{Header: []string{"text", "clean"}, Rows: [][]string{{"Кошки!", "кошка"}, {"", ""}}}
	dir := t.TempDir()

	for _, name := range []string{"out.csv", "out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			require.NoError(t, WriteFile(table, path))

			got, err := ReadFile(path, "")
			require.NoError(t, err)
			assert.Equal(t, table.Header, got.Header)
			assert.Equal(t, "кошка", got.Rows[0][1])
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("data/Input.XLSX")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	f, err = FormatFromPath("reviews.tsv")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	_, err = FormatFromPath("reviews.json")
	assert.Error(t, err)
}
