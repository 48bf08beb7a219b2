package main

import (
	"time"

	"github.com/giuliocaccin/excel-csv-merger/internal/config"
	"github.com/giuliocaccin/excel-csv-merger/internal/logger"
	"github.com/giuliocaccin/excel-csv-merger/internal/merger"
	"github.com/giuliocaccin/excel-csv-merger/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge matching worksheets and write one file per worksheet name",
	Long: `Merges every worksheet whose name contains a rule's name match into one
table per worksheet name and writes it as <name>.xlsx or <name>.csv.

Rules are read from the config file or given as
  --rule "<name match>:<start column>:<start row>:<index|title>"`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	runID := uuid.NewString()
	out := Output{RunID: runID}

	fail := func(err error) error {
		out.Error = err.Error()
		out.Duration = time.Since(start).String()
		emitJSON(stdout, out)
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fail(err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fail(err)
	}
	defer logg.Sync()
	logg = logger.WithRunID(logg, runID)
	runLogger = logg

	var publisher merger.Publisher
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fail(err)
		}
		publisher = storage.NewPublisher(client, cfg.Storage, logg)
	}

	m := merger.NewSheetMerger(logg, publisher)
	res, err := m.MergeFiles(cmd.Context(), cfg)
	if res != nil {
		out.OutputFiles = res.OutputFiles
		out.Tables = res.Tables
		out.RowCount = res.RowCount
		out.Formats = res.Formats
	}
	if err != nil {
		return fail(err)
	}

	logg.Info("merge finished",
		zap.Int("outputs", len(out.OutputFiles)),
		zap.Int64("rows", out.RowCount),
		zap.Duration("duration", time.Since(start)),
	)
	out.Success = true
	out.Duration = time.Since(start).String()
	emitJSON(stdout, out)
	return nil
}

func init() {
	f := mergeCmd.Flags()
	f.StringP("output-dir", "o", "", "folder for merged files (default: input dir)")
	f.StringP("format", "f", "xlsx", "output format: xlsx or csv")
	f.String("source-column", "fileName", "name of the source file column")
	f.String("source-value", "name", "source column value: name or path")
	f.String("value-mode", "typed", "cell values: typed (by number format) or text (as displayed)")
	f.StringArray("rule", nil, `merge rule "<name match>:<column>:<row>:<index|title>", repeatable`)
	f.Bool("storage-enabled", false, "publish merged files to the configured bucket")

	RootCmd.AddCommand(mergeCmd)
}
