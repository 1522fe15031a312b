package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.True(t, cfg.AutoReload)
	require.Equal(t, 500, cfg.Watch.DebounceMs)
	require.True(t, cfg.Resolve.Cache)
	require.True(t, cfg.UI.ShowResolved)
	require.True(t, cfg.UI.ShowStatusBar)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
	require.NoError(t, Validate(cfg))
}

func TestValidateWatch(t *testing.T) {
	require.NoError(t, ValidateWatch(WatchConfig{DebounceMs: 0}))
	require.NoError(t, ValidateWatch(WatchConfig{DebounceMs: 250}))
	require.Error(t, ValidateWatch(WatchConfig{DebounceMs: -1}))
}

func TestValidateResolve(t *testing.T) {
	require.NoError(t, ValidateResolve(ResolveConfig{}))
	require.NoError(t, ValidateResolve(ResolveConfig{
		Anchors: map[string]float64{"parent.bottom": 400},
	}))

	err := ValidateResolve(ResolveConfig{Anchors: map[string]float64{"": 1}})
	require.ErrorContains(t, err, "name must not be empty")

	err = ValidateResolve(ResolveConfig{Anchors: map[string]float64{"x": math.NaN()}})
	require.ErrorContains(t, err, "finite")

	err = ValidateResolve(ResolveConfig{Anchors: map[string]float64{"x": math.Inf(1)}})
	require.ErrorContains(t, err, "finite")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{"zero value", TracingConfig{}, ""},
		{"valid enabled file", TracingConfig{Enabled: true, Exporter: "file", FilePath: "/tmp/t.jsonl", SampleRate: 1.0}, ""},
		{"valid otlp", TracingConfig{Enabled: true, Exporter: "otlp", OTLPEndpoint: "localhost:4317", SampleRate: 0.5}, ""},
		{"bad sample rate", TracingConfig{SampleRate: 1.5}, "sample_rate"},
		{"negative sample rate", TracingConfig{SampleRate: -0.1}, "sample_rate"},
		{"bad exporter", TracingConfig{Exporter: "jaeger"}, "exporter"},
		{"file without path", TracingConfig{Enabled: true, Exporter: "file"}, "file_path"},
		{"otlp without endpoint", TracingConfig{Enabled: true, Exporter: "otlp"}, "otlp_endpoint"},
		{"disabled needs no path", TracingConfig{Enabled: false, Exporter: "file"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "markers.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The template must parse and round-trip into the Config shape.
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Contains(t, raw, "auto_reload")
	require.Contains(t, raw, "watch")
	require.Contains(t, raw, "resolve")
}

func TestSaveAnchors_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")

	err := SaveAnchors(path, map[string]float64{"parent.bottom": 400, "parent.right": 612.5})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw struct {
		Resolve struct {
			Anchors map[string]float64 `yaml:"anchors"`
		} `yaml:"resolve"`
	}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Equal(t, map[string]float64{"parent.bottom": 400, "parent.right": 612.5}, raw.Resolve.Anchors)
}

func TestSaveAnchors_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	existing := `# My markers config
tree_file: /home/user/layout.yaml

resolve:
  cache: false
  anchors:
    old.anchor: 1
`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o600))

	err := SaveAnchors(path, map[string]float64{"parent.bottom": 400})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, "# My markers config")
	require.Contains(t, text, "tree_file: /home/user/layout.yaml")
	require.Contains(t, text, "parent.bottom")
	require.NotContains(t, text, "old.anchor")

	var raw struct {
		Resolve struct {
			Cache   bool               `yaml:"cache"`
			Anchors map[string]float64 `yaml:"anchors"`
		} `yaml:"resolve"`
	}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.False(t, raw.Resolve.Cache)
	require.Equal(t, map[string]float64{"parent.bottom": 400}, raw.Resolve.Anchors)
}

func TestSaveAnchors_AppendsResolveSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auto_reload: true\n"), 0o600))

	require.NoError(t, SaveAnchors(path, map[string]float64{"x": 10}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw struct {
		AutoReload bool `yaml:"auto_reload"`
		Resolve    struct {
			Anchors map[string]float64 `yaml:"anchors"`
		} `yaml:"resolve"`
	}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.True(t, raw.AutoReload)
	require.Equal(t, map[string]float64{"x": 10}, raw.Resolve.Anchors)
}
