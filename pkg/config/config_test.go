package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".mp2vue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPlatform, cfg.Convert.Platform)
	assert.Equal(t, config.DefaultStaticDir, cfg.Convert.StaticDir)
	assert.Equal(t, config.DefaultRewriteAssetPaths, cfg.Convert.RewriteAssetPaths)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.InDelta(t, config.DefaultSampleRatio, cfg.Telemetry.SampleRatio, 0.001)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `convert:
  platform: qq
  workers: 8
  has_vant: true
  repair_aliasing: false
output:
  dir: out
  format: yaml
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_headers:
    api-key: abc
  sample_ratio: 0.25
  metrics_file: /tmp/mp2vue.prom
unknown:
  key: ignored
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "qq", cfg.Convert.Platform)
	assert.Equal(t, 8, cfg.Convert.Workers)
	assert.True(t, cfg.Convert.HasVant)
	assert.False(t, cfg.Convert.RepairAliasing)
	assert.True(t, cfg.Convert.RenamePlatformKeyword)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, map[string]string{"api-key": "abc"}, cfg.Telemetry.OTLPHeaders)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0.001)
	assert.Equal(t, "/tmp/mp2vue.prom", cfg.Telemetry.MetricsFile)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"platform", "convert:\n  platform: ios\n", config.ErrInvalidPlatform},
		{"workers", "convert:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"static dir", "convert:\n  static_dir: /\n", config.ErrEmptyStaticDir},
		{"format", "output:\n  format: xml\n", config.ErrInvalidFormat},
		{"log format", "logging:\n  format: logfmt\n", config.ErrInvalidLogFormat},
		{"sample ratio", "telemetry:\n  sample_ratio: 2\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, tt.content))

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "convert:\n  workers: [broken\n"))

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, config.Default().WriteYAML(&buf))
	assert.Contains(t, buf.String(), "platform: wx\n")
	assert.Contains(t, buf.String(), "rewrite_asset_paths: true\n")

	cfg, err := config.LoadConfig(writeConfig(t, buf.String()))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}
