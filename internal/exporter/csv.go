package exporter

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/giuliocaccin/excel-csv-merger/internal/table"
)

// CSVExporter writes "<dir>/<name>.csv".
type CSVExporter struct {
	Dir string
}

func (e *CSVExporter) Export(t *table.Table) (path string, err error) {
	path, err = OutputPath(e.Dir, t.Name(), FormatCSV)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if err := WriteCSV(w, t); err != nil {
		return "", err
	}
	return path, w.Flush()
}

// WriteCSV writes the header line and one line per row. Every field is
// wrapped in double quotes and joined with commas; quotes and commas inside
// values are written as they are, without escaping.
func WriteCSV(w io.Writer, t *table.Table) error {
	if err := writeLine(w, t.Columns()); err != nil {
		return err
	}
	fields := make([]string, t.NumColumns())
	for r := 0; r < t.NumRows(); r++ {
		for c := range fields {
			fields[c] = FormatValue(t.Cell(r, c))
		}
		if err := writeLine(w, fields); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, fields []string) error {
	_, err := io.WriteString(w, `"`+strings.Join(fields, `","`)+`"`+"\n")
	return err
}
