package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/giuliocaccin/excel-csv-merger/internal/analysis"
	"github.com/giuliocaccin/excel-csv-merger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func run(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	RootCmd.SetArgs(args)
	return &buf, RootCmd.Execute()
}

func inputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteWorkbook(t, dir, "a.xlsx",
		testutil.Sheet{Name: "Reach", Rows: [][]any{
			{"Date", "Likes"},
			{"Lifetime", "Lifetime"},
			{"2024-01-01", 5},
		}},
		testutil.Sheet{Name: "Impressions", Rows: [][]any{{"Date"}}},
	)
	testutil.WriteWorkbook(t, dir, "b.xlsx",
		testutil.Sheet{Name: "Reach", Rows: [][]any{
			{"Date", "Likes"},
			{"Lifetime", "Lifetime"},
			{"2024-01-02", 6},
		}},
	)
	return dir
}

func TestMergeCommand(t *testing.T) {
	in := inputs(t)
	out := filepath.Join(t.TempDir(), "merged")

	buf, err := run(t, "merge",
		"--input-dir", in,
		"--output-dir", out,
		"--format", "csv",
		"--log-level", "error",
		"--rule", "Reach:0:2:index",
	)
	require.NoError(t, err)

	var res Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Error)
	assert.Equal(t, int64(2), res.RowCount)
	require.Len(t, res.OutputFiles, 1)
	assert.Equal(t, filepath.Join(out, "Reach.csv"), res.OutputFiles[0])

	b, err := os.ReadFile(res.OutputFiles[0])
	require.NoError(t, err)
	assert.Equal(t, ""+
		`"fileName","Date [0]","Likes [1]"`+"\n"+
		`"a.xlsx","2024-01-01","5"`+"\n"+
		`"b.xlsx","2024-01-02","6"`+"\n",
		string(b))
}

func TestAnalyzeCommand(t *testing.T) {
	in := inputs(t)

	buf, err := run(t, "analyze", "--input-dir", in, "--log-level", "error")
	require.NoError(t, err)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, []string{"Reach", "Impressions"}, report.Union)
	require.Len(t, report.Files, 2)
	assert.Equal(t, []string{"Impressions"}, report.Files[1].Missing)
}

func TestFailureLogger(t *testing.T) {
	prev := runLogger
	runLogger = nil
	pf := RootCmd.PersistentFlags()
	t.Cleanup(func() {
		runLogger = prev
		_ = pf.Set("log-level", "info")
		_ = pf.Set("log-format", "console")
	})

	t.Run("FromFlags", func(t *testing.T) {
		require.NoError(t, pf.Set("log-level", "error"))
		require.NoError(t, pf.Set("log-format", "json"))

		l, err := failureLogger()
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
		assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		require.NoError(t, pf.Set("log-level", "loud"))
		_, err := failureLogger()
		assert.Error(t, err)
	})

	t.Run("CommandLogger", func(t *testing.T) {
		l := zap.NewNop()
		runLogger = l
		got, err := failureLogger()
		require.NoError(t, err)
		assert.Same(t, l, got)
	})
}
