package workbook

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ValueMode selects how cell values are converted when read.
type ValueMode int

const (
	// Typed converts cells according to their number format category.
	Typed ValueMode = iota
	// DisplayText keeps the displayed text of every cell. Numeric and date
	// columns lose precision and type.
	DisplayText
)

// ParseValueMode accepts "typed" or "text".
func ParseValueMode(s string) (ValueMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "typed":
		return Typed, nil
	case "text":
		return DisplayText, nil
	}
	return 0, errors.New("unknown value mode " + strconv.Quote(s) + " (must be typed or text)")
}

type cellFormat struct {
	code     string
	category FormatCategory
}

// Sheet is one open worksheet. It holds the workbook handle open until Close.
type Sheet struct {
	file     *excelize.File
	path     string
	name     string
	rows     [][]string
	width    int
	date1904 bool
	styles   map[int]cellFormat
	formats  map[string]int
}

// Open opens the worksheet name of the workbook at path.
func Open(path, name string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SheetError{File: path, Err: err}
	}
	s, err := newSheet(f, path, name)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}
	return s, nil
}

// WithSheet opens a worksheet, passes it to fn and closes it on every path.
func WithSheet(path, name string, fn func(*Sheet) error) (err error) {
	s, err := Open(path, name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(s)
}

func newSheet(f *excelize.File, path, name string) (*Sheet, error) {
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		if err == nil {
			err = ErrSheetNotExist{SheetName: name}
		}
		return nil, &SheetError{File: path, Sheet: name, Err: err}
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, &SheetError{File: path, Sheet: name, Err: err}
	}
	s := &Sheet{
		file:    f,
		path:    path,
		name:    name,
		rows:    rows,
		width:   usedWidth(rows),
		styles:  make(map[int]cellFormat),
		formats: make(map[string]int),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		s.date1904 = *props.Date1904
	}
	return s, nil
}

func (s *Sheet) Close() error {
	return s.file.Close()
}

func (s *Sheet) Path() string { return s.path }
func (s *Sheet) Name() string { return s.name }

// NumRows counts rows up to the last non-empty one, header included.
func (s *Sheet) NumRows() int { return len(s.rows) }

// NumCols is the width of the widest row.
func (s *Sheet) NumCols() int { return s.width }

// Header returns the displayed text of the cell in the first row.
func (s *Sheet) Header(col int) string {
	if len(s.rows) == 0 || col < 0 || col >= len(s.rows[0]) {
		return ""
	}
	return s.rows[0][col]
}

// Formats returns how many cells were read per number format code.
func (s *Sheet) Formats() map[string]int {
	m := make(map[string]int, len(s.formats))
	for k, v := range s.formats {
		m[k] = v
	}
	return m
}

// Value returns the cell at the 0-based row and col. ok is false for cells
// past the end of a short row and for empty numeric cells.
func (s *Sheet) Value(row, col int, mode ValueMode) (value any, ok bool, err error) {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.rows[row]) {
		return nil, false, nil
	}
	text := s.rows[row][col]
	if mode == DisplayText {
		return text, true, nil
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, false, err
	}
	format, err := s.cellFormat(cell)
	if err != nil {
		return nil, false, &SheetError{File: s.path, Sheet: s.name, Err: err}
	}
	s.formats[format.code]++
	if format.category == CategoryText {
		return text, true, nil
	}

	raw, err := s.file.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, &SheetError{File: s.path, Sheet: s.name, Err: err}
	}
	if raw == "" {
		return nil, false, nil
	}
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Text stored in a numerically formatted cell.
		return text, true, nil
	}
	switch format.category {
	case CategoryInteger:
		n := math.RoundToEven(number)
		if math.IsNaN(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return number, true, nil
		}
		return int64(n), true, nil
	case CategoryDate:
		t, err := excelize.ExcelDateToTime(number, s.date1904)
		if err != nil {
			return text, true, nil
		}
		return t, true, nil
	}
	return number, true, nil
}

func (s *Sheet) cellFormat(cell string) (cellFormat, error) {
	styleID, err := s.file.GetCellStyle(s.name, cell)
	if err != nil {
		return cellFormat{}, err
	}
	if format, ok := s.styles[styleID]; ok {
		return format, nil
	}
	style, err := s.file.GetStyle(styleID)
	if err != nil {
		return cellFormat{}, err
	}
	format := cellFormat{code: formatCode(style.NumFmt, style.CustomNumFmt)}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		format.category = Categorize(format.code)
	} else {
		format.category = categorizeID(style.NumFmt)
	}
	s.styles[styleID] = format
	return format, nil
}
