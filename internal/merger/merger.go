// Package merger stitches same-named worksheets from many workbooks into one
// table per worksheet name and hands each table to an exporter.
package merger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/giuliocaccin/excel-csv-merger/internal/config"
	"github.com/giuliocaccin/excel-csv-merger/internal/exporter"
	"github.com/giuliocaccin/excel-csv-merger/internal/rules"
	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"

	"go.uber.org/zap"
)

// ErrOutputCollision reports two worksheet names that map to one output file.
var ErrOutputCollision = errors.New("output file collision")

// FileMerger runs a whole merge described by a configuration.
type FileMerger interface {
	MergeFiles(ctx context.Context, cfg *config.Config) (*Result, error)
}

// Publisher copies an exported file somewhere else and returns where.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// TableResult describes one exported table.
type TableResult struct {
	Sheet   string `json:"sheet"`
	Output  string `json:"output"`
	Object  string `json:"object,omitempty"`
	Files   int    `json:"files"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

// Result lists the outputs written so far. On failure it holds the tables
// completed before the error.
type Result struct {
	OutputFiles []string       `json:"output_files"`
	RowCount    int64          `json:"row_count"`
	Tables      []TableResult  `json:"tables"`
	Formats     map[string]int `json:"formats,omitempty"`
}

// SheetMerger locates, plans, merges and exports, one group at a time.
type SheetMerger struct {
	log       *zap.Logger
	publisher Publisher
}

// NewSheetMerger returns a FileMerger. publisher may be nil.
func NewSheetMerger(log *zap.Logger, publisher Publisher) FileMerger {
	if log == nil {
		log = zap.NewNop()
	}
	return &SheetMerger{
		log:       log,
		publisher: publisher,
	}
}

// OptionsFromConfig converts the merge-related settings of a validated
// configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, err := workbook.ParseValueMode(cfg.ValueMode)
	if err != nil {
		return Options{}, err
	}
	opts := Options{SourceColumn: cfg.SourceColumn, ValueMode: mode}
	switch cfg.SourceValue {
	case config.SourceValueName:
		opts.SourceValue = SourceName
	case config.SourceValuePath:
		opts.SourceValue = SourcePath
	default:
		return Options{}, fmt.Errorf("unknown source value %q", cfg.SourceValue)
	}
	return opts, nil
}

func (m *SheetMerger) MergeFiles(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ruleList, err := cfg.MergeRules()
	if err != nil {
		return nil, err
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	format, err := exporter.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	dir := cfg.ResolvedOutputDir()
	exp, err := exporter.New(format, dir)
	if err != nil {
		return nil, err
	}

	descriptors, err := workbook.Locate(cfg.InputDir, workbook.LocateOptions{
		Extension: cfg.Extension,
		Recursive: cfg.Recursive,
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("located worksheets",
		zap.String("dir", cfg.InputDir),
		zap.Int("worksheets", len(descriptors)),
	)

	groups, outputs, err := planOutputs(descriptors, ruleList, format, dir)
	if err != nil {
		return nil, err
	}
	if kept := withoutOutputs(descriptors, outputs); len(kept) < len(descriptors) {
		m.log.Info("skipping previous outputs found among inputs",
			zap.Int("worksheets", len(descriptors)-len(kept)),
		)
		groups, _, err = planOutputs(kept, ruleList, format, dir)
		if err != nil {
			return nil, err
		}
	}
	if len(groups) == 0 {
		m.log.Warn("no worksheet matched any rule")
	}

	res := &Result{Formats: make(map[string]int)}
	for _, g := range groups {
		l := m.log.With(zap.String("sheet", g.Sheet), zap.String("rule", g.Rule.NameMatch))
		l.Info("merging worksheet", zap.Int("files", len(g.Files)))

		t, diag, err := MergeGroup(g, opts)
		for code, n := range diag.Formats {
			res.Formats[code] += n
		}
		if err != nil {
			return res, err
		}

		path, err := exp.Export(t)
		if err != nil {
			return res, fmt.Errorf("exporting %q: %w", g.Sheet, err)
		}
		tr := TableResult{
			Sheet:   g.Sheet,
			Output:  path,
			Files:   len(g.Files),
			Columns: t.NumColumns(),
			Rows:    t.NumRows(),
		}
		res.OutputFiles = append(res.OutputFiles, path)
		res.RowCount += int64(t.NumRows())

		if m.publisher != nil {
			object, err := m.publisher.Publish(ctx, path)
			if err != nil {
				res.Tables = append(res.Tables, tr)
				return res, fmt.Errorf("publishing %s: %w", path, err)
			}
			tr.Object = object
		}
		res.Tables = append(res.Tables, tr)
		l.Info("saved", zap.String("output", path), zap.Int("rows", t.NumRows()), zap.Int("columns", t.NumColumns()))
	}

	if len(res.Formats) > 0 {
		m.log.Debug("number formats encountered", zap.Any("formats", res.Formats))
	}
	return res, nil
}

// planOutputs groups the worksheets and works out the file each group is
// exported to. Two groups sharing an output path, ignoring case, is a
// configuration error.
func planOutputs(descriptors []workbook.Descriptor, ruleList []rules.Rule, format exporter.Format, dir string) ([]rules.Group, map[string]string, error) {
	groups, err := rules.Plan(descriptors, ruleList)
	if err != nil {
		return nil, nil, err
	}
	outputs := make(map[string]string, len(groups))
	for _, g := range groups {
		path, err := exporter.OutputPath(dir, g.Sheet, format)
		if err != nil {
			return nil, nil, err
		}
		key := strings.ToLower(path)
		if other, ok := outputs[key]; ok {
			return nil, nil, fmt.Errorf("%w: worksheets %q and %q would both be written to %s", ErrOutputCollision, other, g.Sheet, path)
		}
		outputs[key] = g.Sheet
	}
	return groups, outputs, nil
}

// withoutOutputs drops worksheets of files that a merge is about to write.
func withoutOutputs(descriptors []workbook.Descriptor, outputs map[string]string) []workbook.Descriptor {
	kept := make([]workbook.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		path, err := filepath.Abs(d.OriginFile)
		if err == nil {
			if _, ok := outputs[strings.ToLower(path)]; ok {
				continue
			}
		}
		kept = append(kept, d)
	}
	return kept
}
