// Package exporter writes merged tables to delimited text or workbook files.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giuliocaccin/excel-csv-merger/internal/table"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Extension returns the file extension including the dot.
func (f Format) Extension() string { return "." + string(f) }

// ParseFormat accepts "xlsx" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format %q (must be xlsx or csv)", s)
}

// Exporter writes a table and returns the absolute path written.
type Exporter interface {
	Export(t *table.Table) (string, error)
}

// New returns the exporter for format writing into dir, which is created
// when missing.
func New(format Format, dir string) (Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	switch format {
	case FormatXLSX:
		return &XLSXExporter{Dir: dir}, nil
	case FormatCSV:
		return &CSVExporter{Dir: dir}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// OutputPath returns the absolute path of the file for a table name.
func OutputPath(dir, name string, format Format) (string, error) {
	return filepath.Abs(filepath.Join(dir, FileName(name)+format.Extension()))
}

// FileName makes a table name usable as a file name on common filesystems.
func FileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" {
		return "table"
	}
	return name
}

// SheetName makes a table name valid as a worksheet name: at most 31
// characters, none of :\/?*[] and no surrounding apostrophes.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if utf8.RuneCountInString(name) > 31 {
		name = string([]rune(name)[:31])
	}
	if strings.TrimSpace(name) == "" {
		return "Sheet1"
	}
	return name
}

// DateTimeLayout is used for date cells in text output.
const DateTimeLayout = "2006-01-02 15:04:05"

// FormatValue coerces a cell value to text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(DateTimeLayout)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}
