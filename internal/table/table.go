// Package table holds the in-memory result of merging one worksheet name
// across many workbooks.
package table

import "strings"

// DefaultSourceColumn names the column that records each row's origin file.
const DefaultSourceColumn = "fileName"

// Row holds cell values in column order. It may be shorter than the table's
// column list; missing trailing cells are empty.
type Row []any

// Table is an append-only table whose first column is the source column.
// Column identifiers are unique ignoring case; the first spelling wins.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates a table whose only column is sourceColumn. An empty
// sourceColumn falls back to DefaultSourceColumn.
func New(name, sourceColumn string) *Table {
	if sourceColumn == "" {
		sourceColumn = DefaultSourceColumn
	}
	t := &Table{name: name, index: make(map[string]int)}
	t.AddColumn(sourceColumn)
	return t
}

func (t *Table) Name() string { return t.name }

// SourceColumn is always column 0.
func (t *Table) SourceColumn() string { return t.columns[0] }

// Columns returns the column identifiers in insertion order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) NumColumns() int { return len(t.columns) }
func (t *Table) NumRows() int    { return len(t.rows) }

// AddColumn appends id unless an identifier equal to it ignoring case exists,
// and returns its column position either way.
func (t *Table) AddColumn(id string) int {
	key := strings.ToLower(id)
	if i, ok := t.index[key]; ok {
		return i
	}
	t.columns = append(t.columns, id)
	t.index[key] = len(t.columns) - 1
	return len(t.columns) - 1
}

// ColumnIndex returns the position of id, ignoring case, or -1.
func (t *Table) ColumnIndex(id string) int {
	if i, ok := t.index[strings.ToLower(id)]; ok {
		return i
	}
	return -1
}

// NewRow returns a row sized to the current column count.
func (t *Table) NewRow() Row {
	return make(Row, len(t.columns))
}

func (t *Table) AppendRow(row Row) {
	t.rows = append(t.rows, row)
}

// Cell returns the value at row and col, or nil when the row does not
// reach col.
func (t *Table) Cell(row, col int) any {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return nil
	}
	return t.rows[row][col]
}

// Value returns the value of the named column in row.
func (t *Table) Value(row int, id string) (any, bool) {
	col := t.ColumnIndex(id)
	if col < 0 || row < 0 || row >= len(t.rows) || col >= len(t.rows[row]) {
		return nil, false
	}
	v := t.rows[row][col]
	return v, v != nil
}
