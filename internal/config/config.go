// Package config loads pipeline configuration with layered precedence:
// built-in defaults, then starling.yaml, then STARLING_* environment
// variables, then command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the default config file looked up in the working
// directory.
const ConfigFileName = "starling.yaml"

// envPrefix namespaces the environment variables, e.g.
// STARLING_WAREHOUSE_PATH.
const envPrefix = "STARLING_"

// Config holds the file locations and run options for the pipeline.
type Config struct {
	EventsPath    string `koanf:"events_path"`
	UsersPath     string `koanf:"users_path"`
	IntlSalesPath string `koanf:"intl_sales_path"`
	WarehousePath string `koanf:"warehouse_path"`
	OutputDir     string `koanf:"output_dir"`
	PreviewLimit  int    `koanf:"preview_limit"`
	Verbose       bool   `koanf:"verbose"`
}

// defaults mirror the conventional data layout.
func defaults() map[string]any {
	return map[string]any{
		"events_path":     "data/raw/events.jsonl",
		"users_path":      "data/raw/users.csv",
		"intl_sales_path": "data/raw/international_sales.jsonl",
		"warehouse_path":  "data/output/warehouse.duckdb",
		"output_dir":      "data/output",
		"preview_limit":   50,
		"verbose":         false,
	}
}

// Load builds the configuration. configPath overrides the default config
// file location; flags may be nil. A missing default config file is not
// an error.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := configPath
	if path == "" {
		path = ConfigFileName
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("config file not readable: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			// kebab-case flags map to snake_case config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// QuarantinePath is the per-run quarantine artifact location.
func (c *Config) QuarantinePath() string {
	return filepath.Join(c.OutputDir, "bad_records.jsonl")
}

// QualityReportPath is the per-run quality report location.
func (c *Config) QualityReportPath() string {
	return filepath.Join(c.OutputDir, "data_quality_report.json")
}

// ExportsDir holds the analytics CSV exports.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.OutputDir, "exports")
}

// PreviewPath is the fact-table preview export location.
func (c *Config) PreviewPath() string {
	return filepath.Join(c.ExportsDir(), "fact_events_preview.csv")
}
