// Package config provides configuration management for the merger.
//
// It uses Viper to combine struct-tag defaults, an optional YAML file,
// a .env file, MERGER_* environment variables and command-line flags.
//
// # Rules
//
// Merge rules live in the config file:
//
//	rules:
//	  - name_match: Reach
//	    start_column: 0
//	    start_row: 2
//	    naming: index
//	  - name_match: Actions On Post
//	    start_column: 1
//	    start_row: 1
//	    naming: title
//
// or on the command line as --rule "Reach:0:2:index", which replaces the
// file rules.
//
// # Usage
//
//	cfg, err := config.Load("merger.yaml", cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
