package main

import (
	"fmt"
	"os"

	"github.com/giuliocaccin/excel-csv-merger/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "excel-csv-merger",
	Short: "Merge same-named worksheets across workbooks",
	Long: `excel-csv-merger reads every workbook in a folder, picks the worksheets
selected by the merge rules and writes one merged csv or xlsx file per
worksheet name, with a leading column naming each row's source file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runLogger is the configured logger of the running command, once built.
var runLogger *zap.Logger

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l, logErr := failureLogger()
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// failureLogger returns the command's logger, or one built from the log
// flags when the command failed before configuring its own.
func failureLogger() (*zap.Logger, error) {
	if runLogger != nil {
		return runLogger, nil
	}
	pf := RootCmd.PersistentFlags()
	level, _ := pf.GetString("log-level")
	format, _ := pf.GetString("log-format")
	return logger.New(&logger.Config{Level: level, Format: format})
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.String("config", "", "config file (default merger.yaml when present)")
	pf.StringP("input-dir", "d", "", "folder with the source workbooks")
	pf.String("extension", ".xlsx", "workbook file extension")
	pf.Bool("recursive", false, "also read workbooks in subfolders")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
}
