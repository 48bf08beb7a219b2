package exporter

import (
	"errors"
	"fmt"
	"time"

	"github.com/giuliocaccin/excel-csv-merger/internal/table"

	"github.com/xuri/excelize/v2"
)

// dateTimeNumFmt is the built-in "m/d/yy h:mm" format.
const dateTimeNumFmt = 22

// XLSXExporter writes "<dir>/<name>.xlsx" with a single sheet named after
// the table.
type XLSXExporter struct {
	Dir string
}

func (e *XLSXExporter) Export(t *table.Table) (path string, err error) {
	path, err = OutputPath(e.Dir, t.Name(), FormatXLSX)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	sheet := SheetName(t.Name())
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return "", fmt.Errorf("naming sheet %q: %w", sheet, err)
		}
	}
	if err := writeSheet(f, sheet, t); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table) error {
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: dateTimeNumFmt})
	if err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	columns := t.Columns()
	header := make([]any, len(columns))
	for i, id := range columns {
		header[i] = excelize.Cell{Value: id}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	values := make([]any, len(columns))
	for r := 0; r < t.NumRows(); r++ {
		for c := range values {
			v := t.Cell(r, c)
			if tm, ok := v.(time.Time); ok {
				values[c] = excelize.Cell{Value: tm, StyleID: dateStyle}
				continue
			}
			values[c] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("writing row %d: %w", r+2, err)
		}
	}
	return sw.Flush()
}
