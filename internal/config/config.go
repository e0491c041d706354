// Package config provides configuration types, defaults, and persistence for inchworm.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/tracing"
)

// Output formats accepted by Config.Output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds all inchworm configuration.
type Config struct {
	// Catalogs are applied in order after the standard catalog.
	Catalogs []string      `mapstructure:"catalogs"`
	Standard bool          `mapstructure:"standard"` // seed the registry with the built-in ISQ catalog
	Store    StoreConfig   `mapstructure:"store"`
	Log      LogConfig     `mapstructure:"log"`
	Tracing  TracingConfig `mapstructure:"tracing"`
	Watch    WatchConfig   `mapstructure:"watch"`
	Output   string        `mapstructure:"output"` // "table" (default) or "json"

	// Flags switches opt-in behaviors, see package flags.
	Flags map[string]bool `mapstructure:"flags"`
}

// StoreConfig configures the snapshot database.
type StoreConfig struct {
	// Path is the sqlite database file.
	// Default: ~/.inchworm/snapshots.db
	Path string `mapstructure:"path"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Path  string `mapstructure:"path"`  // default: debug.log in the working directory
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// TracingConfig holds OpenTelemetry configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/inchworm/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// WatchConfig configures catalog hot reload.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	// Default: 200ms
	Debounce time.Duration `mapstructure:"debounce"`
}

// Provider converts the configuration into a tracing.Config.
func (t TracingConfig) Provider() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if cfg.FilePath == "" && cfg.Exporter == tracing.ExporterFile {
		cfg.FilePath = DefaultTracesFilePath()
	}
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// DefaultStorePath returns ~/.inchworm/snapshots.db, or a path relative
// to the working directory if the home dir is unavailable.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".inchworm", "snapshots.db")
	}
	return filepath.Join(home, ".inchworm", "snapshots.db")
}

// DefaultTracesFilePath returns ~/.config/inchworm/traces/traces.jsonl or
// an empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inchworm", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Standard: true,
		Store: StoreConfig{
			Path: DefaultStorePath(),
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     tracing.ExporterFile,
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Output: OutputTable,
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	switch c.Output {
	case "", OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, c.Output)
	}
	for i, path := range c.Catalogs {
		if path == "" {
			return fmt.Errorf("catalogs[%d] is empty", i)
		}
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Inchworm Configuration

# Seed the registry with the built-in ISQ catalog (length, mass, time, ...)
standard: true

# Additional dimension catalogs, applied in order after the standard one.
# Entries marked "override: true" replace existing definitions.
catalogs: []
#  - ./dimensions/information.yaml

# Output format for list/show: "table" or "json"
output: table

# Snapshot database
store:
  path: ~/.inchworm/snapshots.db

# Debug logging (also enabled with --debug or INCHWORM_DEBUG=1)
log:
  debug: false
  path: debug.log
  level: debug

# Catalog hot reload (inchworm watch)
watch:
  debounce: 200ms

# Opt-in behaviors
# flags:
#   snapshot-on-reload: true    # watch saves a snapshot after each reload
#   no-resolution-cache: false

# Distributed tracing (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file          # none, file, stdout, otlp
#   file_path: ~/.config/inchworm/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
