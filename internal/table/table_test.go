package table_test

import (
	"testing"

	"github.com/giuliocaccin/excel-csv-merger/internal/table"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tbl := table.New("Reach", "")
	assert.Equal(t, "Reach", tbl.Name())
	assert.Equal(t, []string{table.DefaultSourceColumn}, tbl.Columns())
	assert.Equal(t, table.DefaultSourceColumn, tbl.SourceColumn())
	assert.Equal(t, 0, tbl.NumRows())

	custom := table.New("Reach", "source")
	assert.Equal(t, "source", custom.SourceColumn())
}

func TestTable_AddColumn(t *testing.T) {
	tbl := table.New("Reach", "fileName")

	assert.Equal(t, 1, tbl.AddColumn("Likes"))
	assert.Equal(t, 2, tbl.AddColumn("Shares"))
	assert.Equal(t, 1, tbl.AddColumn("LIKES"), "identifiers compare ignoring case")
	assert.Equal(t, 0, tbl.AddColumn("FILENAME"))

	assert.Equal(t, []string{"fileName", "Likes", "Shares"}, tbl.Columns())
	assert.Equal(t, 2, tbl.ColumnIndex("shares"))
	assert.Equal(t, -1, tbl.ColumnIndex("Comments"))
}

func TestTable_Rows(t *testing.T) {
	tbl := table.New("Reach", "fileName")
	tbl.AddColumn("Likes")

	short := tbl.NewRow()
	short[0] = "a.xlsx"
	short[1] = int64(3)
	tbl.AppendRow(short)

	tbl.AddColumn("Shares")
	long := tbl.NewRow()
	long[0] = "b.xlsx"
	long[2] = "7"
	tbl.AppendRow(long)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, int64(3), tbl.Cell(0, 1))
	assert.Nil(t, tbl.Cell(0, 2), "rows created before a column was added stay short")
	assert.Nil(t, tbl.Cell(1, 1))
	assert.Nil(t, tbl.Cell(5, 0))

	v, ok := tbl.Value(1, "shares")
	assert.True(t, ok)
	assert.Equal(t, "7", v)
	_, ok = tbl.Value(1, "Likes")
	assert.False(t, ok)
	_, ok = tbl.Value(0, "Missing")
	assert.False(t, ok)

	cols := tbl.Columns()
	cols[0] = "mutated"
	assert.Equal(t, "fileName", tbl.SourceColumn())
}
