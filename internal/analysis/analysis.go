// Package analysis summarizes which worksheets appear in which workbooks,
// to help write merge rules.
package analysis

import (
	"sort"

	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"
)

// Occurrence is one workbook containing a worksheet.
type Occurrence struct {
	File        string `json:"file"`
	Position    int    `json:"position"`
	ColumnCount int    `json:"column_count"`
}

// SheetSummary groups every occurrence of one worksheet name.
type SheetSummary struct {
	Name string `json:"name"`
	// Position is the position of the first occurrence.
	Position int `json:"position"`
	// SamePosition is true when every occurrence shares Position.
	SamePosition bool         `json:"same_position"`
	Occurrences  []Occurrence `json:"occurrences"`
}

// FileSummary lists the worksheet names a workbook lacks compared to the
// union of all names.
type FileSummary struct {
	File    string   `json:"file"`
	Sheets  []string `json:"sheets"`
	Missing []string `json:"missing"`
}

// Report is the result of Analyze.
type Report struct {
	// Sheets is sorted by worksheet name.
	Sheets []SheetSummary `json:"sheets"`
	// Union holds every worksheet name in first-seen order.
	Union []string      `json:"union"`
	Files []FileSummary `json:"files"`
}

// Analyze builds a report from located worksheets.
func Analyze(descriptors []workbook.Descriptor) Report {
	var (
		report  Report
		byName  = make(map[string]*SheetSummary)
		names   []string
		byFile  = make(map[string]*FileSummary)
		files   []string
		present = make(map[string]map[string]bool)
	)

	for _, d := range descriptors {
		s, ok := byName[d.Name]
		if !ok {
			s = &SheetSummary{Name: d.Name, Position: d.Position, SamePosition: true}
			byName[d.Name] = s
			names = append(names, d.Name)
		}
		s.SamePosition = s.SamePosition && d.Position == s.Position
		s.Occurrences = append(s.Occurrences, Occurrence{
			File:        d.OriginFile,
			Position:    d.Position,
			ColumnCount: d.ColumnCount,
		})

		f, ok := byFile[d.OriginFile]
		if !ok {
			f = &FileSummary{File: d.OriginFile}
			byFile[d.OriginFile] = f
			files = append(files, d.OriginFile)
			present[d.OriginFile] = make(map[string]bool)
		}
		f.Sheets = append(f.Sheets, d.Name)
		present[d.OriginFile][d.Name] = true
	}

	report.Union = names
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, name := range sorted {
		report.Sheets = append(report.Sheets, *byName[name])
	}
	for _, file := range files {
		f := byFile[file]
		f.Missing = []string{}
		for _, name := range names {
			if !present[file][name] {
				f.Missing = append(f.Missing, name)
			}
		}
		report.Files = append(report.Files, *f)
	}
	return report
}
