package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Descriptor identifies one worksheet of one workbook file.
type Descriptor struct {
	OriginFile  string
	Position    int // 0-based index within the workbook
	Name        string
	ColumnCount int
}

// LocateOptions controls which files Locate considers.
type LocateOptions struct {
	// Extension is matched case-insensitively, with or without leading dot.
	// Empty means ".xlsx".
	Extension string
	Recursive bool
}

func (o LocateOptions) extension() string {
	ext := strings.TrimSpace(o.Extension)
	if ext == "" {
		return ".xlsx"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Locate lists every worksheet of every workbook in dir, in file order and
// then worksheet order. Any workbook that cannot be opened aborts the listing.
func Locate(dir string, opts LocateOptions) ([]Descriptor, error) {
	files, err := ListFiles(dir, opts)
	if err != nil {
		return nil, err
	}
	var descriptors []Descriptor
	for _, path := range files {
		d, err := Describe(path)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d...)
	}
	return descriptors, nil
}

// ListFiles returns the workbook paths in dir in lexical order. Office lock
// files ("~$name.xlsx") are skipped.
func ListFiles(dir string, opts LocateOptions) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", dir)
	}

	ext := opts.extension()
	keep := func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ext) && !strings.HasPrefix(name, "~$")
	}

	var files []string
	if !opts.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading input directory: %w", err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && keep(e.Name()) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		return files, nil
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && keep(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking input directory: %w", err)
	}
	return files, nil
}

// Describe opens a workbook and lists its worksheets.
func Describe(path string) (descriptors []Descriptor, err error) {
	f, e := excelize.OpenFile(path)
	if e != nil {
		return nil, &SheetError{File: path, Err: e}
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for i, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, &SheetError{File: path, Sheet: name, Err: err}
		}
		descriptors = append(descriptors, Descriptor{
			OriginFile:  path,
			Position:    i,
			Name:        name,
			ColumnCount: usedWidth(rows),
		})
	}
	return descriptors, nil
}

func usedWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return width
}
