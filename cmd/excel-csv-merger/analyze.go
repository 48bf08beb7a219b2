package main

import (
	"errors"

	"github.com/giuliocaccin/excel-csv-merger/internal/analysis"
	"github.com/giuliocaccin/excel-csv-merger/internal/config"
	"github.com/giuliocaccin/excel-csv-merger/internal/logger"
	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "List worksheet names across workbooks",
	Long: `Prints, as JSON, every worksheet name found in the input folder with the
files containing it, its position and column count, plus the worksheet
names each file lacks. Use it to write merge rules.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.InputDir == "" {
			return errors.New("input directory is required")
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer logg.Sync()
		runLogger = logg

		descriptors, err := workbook.Locate(cfg.InputDir, workbook.LocateOptions{
			Extension: cfg.Extension,
			Recursive: cfg.Recursive,
		})
		if err != nil {
			return err
		}
		report := analysis.Analyze(descriptors)
		logg.Info("analyzed workbooks",
			zap.Int("files", len(report.Files)),
			zap.Int("sheet_names", len(report.Union)),
		)
		emitJSON(stdout, report)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(analyzeCmd)
}
