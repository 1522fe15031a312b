// Package config provides configuration types and defaults for markers.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/zjrosen/markers/internal/log"
)

// Config holds all configuration options for markers.
type Config struct {
	TreeFile   string        `mapstructure:"tree_file"`   // Default marker tree file
	AutoReload bool          `mapstructure:"auto_reload"` // Reload the inspector when the tree file changes
	Storage    StorageConfig `mapstructure:"storage"`
	Watch      WatchConfig   `mapstructure:"watch"`
	Resolve    ResolveConfig `mapstructure:"resolve"`
	UI         UIConfig      `mapstructure:"ui"`
	Tracing    TracingConfig `mapstructure:"tracing"`
}

// StorageConfig holds document store location configuration.
type StorageConfig struct {
	// Dir is the directory holding the document database.
	// Default: ~/.markers
	Dir string `mapstructure:"dir"`
}

// WatchConfig holds file watcher configuration.
type WatchConfig struct {
	// DebounceMs is the quiet period after a file event before a reload
	// fires, in milliseconds. Editors often write a file several times in
	// quick succession; debouncing collapses those into one reload.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// ResolveConfig holds coordinate resolution configuration.
type ResolveConfig struct {
	// Anchors supplies values for external anchor names that marker
	// positions may reference, e.g. "parent.bottom".
	// Example YAML:
	//   anchors:
	//     parent.bottom: 400
	//     parent.right: 600
	Anchors map[string]float64 `mapstructure:"anchors"`

	// Cache enables memoization of resolved values.
	Cache bool `mapstructure:"cache"`
}

// UIConfig holds inspector interface configuration options.
type UIConfig struct {
	ShowResolved  bool `mapstructure:"show_resolved"`   // Show resolved values next to position expressions
	ShowStatusBar bool `mapstructure:"show_status_bar"` // Show status bar at bottom
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/markers/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultStorageDir returns the default document store directory.
// Returns ~/.markers or empty string if home dir unavailable.
func DefaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".markers")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/markers/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "markers", "traces", "traces.jsonl")
}

// ValidateWatch checks watcher configuration for errors.
func ValidateWatch(watch WatchConfig) error {
	if watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", watch.DebounceMs)
	}
	return nil
}

// ValidateResolve checks resolution configuration for errors.
// Anchor values must be finite numbers.
func ValidateResolve(resolve ResolveConfig) error {
	for name, value := range resolve.Anchors {
		if name == "" {
			return fmt.Errorf("resolve.anchors: anchor name must not be empty")
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("resolve.anchors.%s must be a finite number, got %v", name, value)
		}
	}
	return nil
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
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration for errors.
func Validate(cfg Config) error {
	if err := ValidateWatch(cfg.Watch); err != nil {
		return err
	}
	if err := ValidateResolve(cfg.Resolve); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Storage: StorageConfig{
			Dir: DefaultStorageDir(),
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Resolve: ResolveConfig{
			Cache: true,
		},
		UI: UIConfig{
			ShowResolved:  true,
			ShowStatusBar: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Markers Configuration

# Default marker tree file used when no file argument is given
# tree_file: /path/to/layout.yaml

# Reload the inspector when the tree file changes on disk
auto_reload: true

# Document store settings
storage:
  # Directory holding the document database (default: ~/.markers)
  # dir: /path/to/store

# File watcher settings
watch:
  debounce_ms: 500   # Quiet period before a change triggers a reload

# Coordinate resolution settings
resolve:
  cache: true   # Memoize resolved values between lookups

  # Values for anchors that live outside the marker list itself.
  # Positions may reference these by name, e.g. "parent.bottom - 20".
  # anchors:
  #   parent.bottom: 400
  #   parent.right: 600

# Inspector settings
ui:
  show_resolved: true    # Show resolved values next to position expressions
  show_status_bar: true  # Show status bar at bottom

# Distributed tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/markers/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
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
