// Command excel-csv-merger merges same-named worksheets from a folder of
// workbooks into one csv or xlsx file per worksheet name.
package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/giuliocaccin/excel-csv-merger/internal/merger"
)

// stdout receives the JSON documents; logs go to stderr.
var stdout io.Writer = os.Stdout

// Output is the JSON document printed on stdout after a merge.
type Output struct {
	Success     bool                 `json:"success"`
	RunID       string               `json:"run_id"`
	OutputFiles []string             `json:"output_files,omitempty"`
	Tables      []merger.TableResult `json:"tables,omitempty"`
	RowCount    int64                `json:"row_count,omitempty"`
	Formats     map[string]int       `json:"formats,omitempty"`
	Error       string               `json:"error,omitempty"`
	Duration    string               `json:"duration"`
}

func main() {
	Execute()
}

func emitJSON(w io.Writer, out any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("writing JSON output: %v", err)
	}
}
