package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/giuliocaccin/excel-csv-merger/internal/logger"
	"github.com/giuliocaccin/excel-csv-merger/internal/rules"
	"github.com/giuliocaccin/excel-csv-merger/internal/storage"
	"github.com/giuliocaccin/excel-csv-merger/internal/workbook"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MERGER_INPUT_DIR.
const EnvPrefix = "MERGER"

// DefaultConfigFile is read when present and no other file is given.
const DefaultConfigFile = "merger.yaml"

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	SourceValueName = "name"
	SourceValuePath = "path"
)

// RuleConfig is the file form of a merge rule.
type RuleConfig struct {
	NameMatch   string `mapstructure:"name_match"`
	StartColumn int    `mapstructure:"start_column"`
	StartRow    int    `mapstructure:"start_row"`
	Naming      string `mapstructure:"naming"`
}

// Config holds all configuration for a merge run.
type Config struct {
	// InputDir is the folder holding the workbooks.
	InputDir string `mapstructure:"input_dir" default:""`
	// OutputDir receives one file per merged worksheet. Empty means InputDir.
	OutputDir string `mapstructure:"output_dir" default:""`
	// Extension filters workbook files.
	Extension string `mapstructure:"extension" default:".xlsx"`
	// Recursive descends into subfolders of InputDir.
	Recursive bool `mapstructure:"recursive" default:"false"`
	// Format is xlsx or csv.
	Format string `mapstructure:"format" default:"xlsx"`
	// SourceColumn names the first column of every merged table.
	SourceColumn string `mapstructure:"source_column" default:"fileName"`
	// SourceValue is name (base name) or path.
	SourceValue string `mapstructure:"source_value" default:"name"`
	// ValueMode is typed or text.
	ValueMode string `mapstructure:"value_mode" default:"typed"`
	// Rules select and shape the merged worksheets.
	Rules []RuleConfig `mapstructure:"rules"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for publishing outputs to object storage.
	Storage storage.Config `mapstructure:"storage"`
}

// Load reads configuration from defaults, the config file, a .env file in
// the working directory, MERGER_* environment variables and flags, in
// increasing order of precedence. configFile may be empty.
//
// Flags are bound by their viper key with dashes for underscores and dots,
// so the flag "input-dir" sets "input_dir" and "log-level" sets "log.level".
// Unknown flags are ignored. A "rule" string-array flag, when set, replaces
// the configured rules.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		flagName := strings.NewReplacer("_", "-", ".", "-")
		for _, key := range v.AllKeys() {
			if f := flags.Lookup(flagName.Replace(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if flags != nil {
		if f := flags.Lookup("rule"); f != nil && f.Changed {
			args, err := flags.GetStringArray("rule")
			if err != nil {
				return nil, err
			}
			cfg.Rules = cfg.Rules[:0]
			for _, arg := range args {
				r, err := rules.ParseRule(arg)
				if err != nil {
					return nil, err
				}
				cfg.Rules = append(cfg.Rules, RuleConfig{
					NameMatch:   r.NameMatch,
					StartColumn: r.Start.Column,
					StartRow:    r.Start.Row,
					Naming:      r.Naming.String(),
				})
			}
		}
	}

	if cfg.InputDir != "" {
		cfg.InputDir = filepath.Clean(cfg.InputDir)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}
	return &cfg, nil
}

// bindValues walks the struct and registers the "default" tag of every
// mapstructure field with viper, so that AutomaticEnv sees every key.
// Slice fields have no default and are skipped.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice:
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// ResolvedOutputDir is OutputDir, or InputDir when OutputDir is empty.
func (c *Config) ResolvedOutputDir() string {
	if c.OutputDir == "" {
		return c.InputDir
	}
	return c.OutputDir
}

// MergeRules converts and validates the configured rules.
func (c *Config) MergeRules() ([]rules.Rule, error) {
	var (
		out  []rules.Rule
		errs []error
		seen = make(map[string]bool)
	)
	for i, rc := range c.Rules {
		naming, err := rules.ParseNaming(rc.Naming)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i+1, err))
			continue
		}
		r := rules.Rule{
			NameMatch: rc.NameMatch,
			Start:     rules.Start{Column: rc.StartColumn, Row: rc.StartRow},
			Naming:    naming,
		}
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i+1, err))
			continue
		}
		key := strings.ToLower(r.NameMatch)
		if seen[key] {
			errs = append(errs, fmt.Errorf("rule %d: duplicate name match %q", i+1, r.NameMatch))
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out, errors.Join(errs...)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.InputDir == "" {
		errs = append(errs, errors.New("input directory is required"))
	}
	switch strings.ToLower(c.Format) {
	case FormatXLSX, FormatCSV:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q (must be xlsx or csv)", c.Format))
	}
	switch c.SourceValue {
	case SourceValueName, SourceValuePath:
	default:
		errs = append(errs, fmt.Errorf("unknown source value %q (must be name or path)", c.SourceValue))
	}
	if _, err := workbook.ParseValueMode(c.ValueMode); err != nil {
		errs = append(errs, err)
	}
	if len(c.Rules) == 0 {
		errs = append(errs, errors.New("at least one merge rule is required"))
	}
	if _, err := c.MergeRules(); err != nil {
		errs = append(errs, err)
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage bucket is required when storage is enabled"))
	}
	return errors.Join(errs...)
}
