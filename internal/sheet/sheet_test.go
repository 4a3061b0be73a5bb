package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestGridCell(t *testing.T) {
	g := Grid{
		{"a", " b ", ""},
		{"only"},
	}
	assert.Equal(t, "a", g.Cell(0, 0))
	assert.Equal(t, "b", g.Cell(0, 1))
	assert.Equal(t, "", g.Cell(0, 2))
	assert.Equal(t, "", g.Cell(0, 9))
	assert.Equal(t, "", g.Cell(1, 1))
	assert.Equal(t, "", g.Cell(5, 0))
	assert.Equal(t, "", g.Cell(-1, 0))
}

func TestGridRowText(t *testing.T) {
	g := Grid{
		{"Grand Total", "", "12345.67"},
		{"", "", ""},
	}
	assert.Equal(t, "Grand Total 12345.67", g.RowText(0))
	assert.Equal(t, "", g.RowText(1))
	assert.Equal(t, "", g.RowText(7))
}

func TestGridIsRowEmpty(t *testing.T) {
	g := Grid{{" ", ""}, {"x"}}
	assert.True(t, g.IsRowEmpty(0))
	assert.False(t, g.IsRowEmpty(1))
	assert.True(t, g.IsRowEmpty(3))
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "a.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte("PK\x03\x04rest"), 0644))

	xls := filepath.Join(dir, "b.xlsx") // wrong extension on purpose
	require.NoError(t, os.WriteFile(xls, append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, 'x'), 0644))

	other := filepath.Join(dir, "c.xlsx")
	require.NoError(t, os.WriteFile(other, []byte("hello"), 0644))

	f, err := DetectFormat(xlsx)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = DetectFormat(xls)
	require.NoError(t, err)
	assert.Equal(t, FormatXLS, f)

	f, err = DetectFormat(other)
	require.NoError(t, err)
	assert.Equal(t, FormatUnknown, f)
}

func writeWorkbook(t *testing.T, path, sheetName string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	require.NoError(t, f.DeleteSheet("Sheet1"))
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, axis, cell))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReaderRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fund.xlsx")
	writeWorkbook(t, path, "HOLDINGS", [][]string{
		{"Name of Instrument", "ISIN", "Market Value"},
		{"Some Co Ltd", "INE000000010", "100"},
	})

	r := NewReader(zap.NewNop().Sugar())
	grid, err := r.Read(path, "HOLDINGS")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "INE000000010", grid.Cell(1, 1))
}

func TestReaderFallbackSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fund.xlsx")
	writeWorkbook(t, path, "RENAMED", [][]string{
		{"Instrument", "ISIN"},
	})

	r := NewReader(zap.NewNop().Sugar())
	grid, err := r.Read(path, "MISSING")
	require.NoError(t, err)
	assert.Equal(t, "ISIN", grid.Cell(0, 1))
}

func TestReaderRejectsXLS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.xlsx")
	require.NoError(t, os.WriteFile(path, append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, 0), 0644))

	r := NewReader(zap.NewNop().Sugar())
	_, err := r.Read(path, "ANY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OLE2/XLS")
}
