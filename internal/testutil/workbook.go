// Package testutil builds workbook fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet describes one worksheet of a fixture workbook.
type Sheet struct {
	Name string
	// Rows are written from A1; nil values leave the cell empty.
	Rows [][]any
	// NumFmt assigns a built-in number format id to cells, e.g. "B2": 1.
	NumFmt map[string]int
	// CustomNumFmt assigns a custom number format code to cells.
	CustomNumFmt map[string]string
}

// WriteWorkbook saves a workbook with the given sheets as dir/name and
// returns its path.
func WriteWorkbook(t testing.TB, dir, name string, sheets ...Sheet) string {
	t.Helper()
	require.NotEmpty(t, sheets)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if s.Name != "Sheet1" {
				require.NoError(t, f.SetSheetName("Sheet1", s.Name))
			}
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.Name, cell, v))
			}
		}
		for cell, id := range s.NumFmt {
			style, err := f.NewStyle(&excelize.Style{NumFmt: id})
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle(s.Name, cell, cell, style))
		}
		for cell, code := range s.CustomNumFmt {
			code := code
			style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle(s.Name, cell, cell, style))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// Rows reads back every row of a sheet as displayed text.
func Rows(t testing.TB, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}
