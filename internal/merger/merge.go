package merger

import (
	"fmt"
	"path/filepath"

	"github.com/giuliocaccin/excel-csv-merger/internal/rules"
	"github.com/giuliocaccin/excel-csv-merger/internal/table"
	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"
)

// SheetSource is a read-only worksheet. workbook.Sheet implements it.
type SheetSource interface {
	NumRows() int
	NumCols() int
	Header(col int) string
	Value(row, col int, mode workbook.ValueMode) (any, bool, error)
}

// SourceValue selects what is written into the source column.
type SourceValue int

const (
	// SourceName writes the file's base name.
	SourceName SourceValue = iota
	// SourcePath writes the path as discovered by the locator.
	SourcePath
)

// Options control how a group of worksheets is merged.
type Options struct {
	SourceColumn string
	SourceValue  SourceValue
	ValueMode    workbook.ValueMode
}

func (o Options) origin(path string) string {
	if o.SourceValue == SourcePath {
		return path
	}
	return filepath.Base(path)
}

// Merge appends the columns and data rows of src to t and returns the number
// of rows appended. Columns are added in encounter order the first time
// their identifier is seen. A header whose identifier collides with the
// source column is not merged.
func Merge(t *table.Table, src SheetSource, origin string, rule rules.Rule, mode workbook.ValueMode) (int, error) {
	start := rule.Start

	// targets[i] is the table column of source column start.Column+i, or -1.
	var targets []int
	for col := start.Column; col < src.NumCols(); col++ {
		id := rule.ColumnID(src.Header(col), col-start.Column)
		if t.ColumnIndex(id) == 0 {
			targets = append(targets, -1)
			continue
		}
		targets = append(targets, t.AddColumn(id))
	}

	appended := 0
	for r := start.Row; r < src.NumRows(); r++ {
		row := t.NewRow()
		row[0] = origin
		for i, target := range targets {
			if target < 0 {
				continue
			}
			v, ok, err := src.Value(r, start.Column+i, mode)
			if err != nil {
				return appended, fmt.Errorf("row %d, column %d: %w", r+1, start.Column+i+1, err)
			}
			if ok {
				row[target] = v
			}
		}
		t.AppendRow(row)
		appended++
	}
	return appended, nil
}

// Diagnostics carries information gathered while merging that is not part
// of the merged table.
type Diagnostics struct {
	// Formats counts the cells read per number format code.
	Formats map[string]int
}

func (d *Diagnostics) add(formats map[string]int) {
	if d.Formats == nil {
		d.Formats = make(map[string]int)
	}
	for code, n := range formats {
		d.Formats[code] += n
	}
}

// MergeGroup reads group.Sheet from every file of the group, in order, into
// one table. Each workbook is closed before the next one is opened.
func MergeGroup(group rules.Group, opts Options) (*table.Table, Diagnostics, error) {
	var diag Diagnostics
	t := table.New(group.Sheet, opts.SourceColumn)
	for _, path := range group.Files {
		err := workbook.WithSheet(path, group.Sheet, func(s *workbook.Sheet) error {
			_, err := Merge(t, s, opts.origin(path), group.Rule, opts.ValueMode)
			diag.add(s.Formats())
			if err != nil {
				return fmt.Errorf("merging %q from %s: %w", group.Sheet, path, err)
			}
			return nil
		})
		if err != nil {
			return nil, diag, err
		}
	}
	return t, diag, nil
}
