// Package config provides configuration loading and validation for mp2vue.
package config

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Sentinel validation errors.
var (
	ErrInvalidPlatform    = errors.New("unknown platform keyword")
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidFormat      = errors.New("unknown report format")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrEmptyStaticDir     = errors.New("static dir must not be empty")
)

// Platforms lists the accepted platform keywords.
//
//nolint:gochecknoglobals // Lookup table.
var Platforms = []string{"wx", "qq", "tt", "swan", "my"}

// Formats lists the accepted report formats.
//
//nolint:gochecknoglobals // Lookup table.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatTOML}

// Config holds all configuration for a conversion run.
type Config struct {
	Convert   ConvertConfig   `mapstructure:"convert"   yaml:"convert"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// ConvertConfig holds the engine options.
type ConvertConfig struct {
	Platform              string `mapstructure:"platform"                yaml:"platform"`
	StaticDir             string `mapstructure:"static_dir"              yaml:"static_dir"`
	Workers               int    `mapstructure:"workers"                 yaml:"workers"`
	RewriteAssetPaths     bool   `mapstructure:"rewrite_asset_paths"     yaml:"rewrite_asset_paths"`
	RenamePlatformKeyword bool   `mapstructure:"rename_platform_keyword" yaml:"rename_platform_keyword"`
	RepairAliasing        bool   `mapstructure:"repair_aliasing"         yaml:"repair_aliasing"`
	HasVant               bool   `mapstructure:"has_vant"                yaml:"has_vant"`
}

// OutputConfig controls where converted files and reports go.
type OutputConfig struct {
	Dir          string `mapstructure:"dir"           yaml:"dir"`
	Format       string `mapstructure:"format"        yaml:"format"`
	SingleFile   bool   `mapstructure:"single_file"   yaml:"single_file"`
	SkipVendored bool   `mapstructure:"skip_vendored" yaml:"skip_vendored"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TelemetryConfig holds tracing and metrics export settings.
type TelemetryConfig struct {
	OTLPHeaders  map[string]string `mapstructure:"otlp_headers"  yaml:"otlp_headers,omitempty"`
	OTLPEndpoint string            `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	Environment  string            `mapstructure:"environment"   yaml:"environment"`
	MetricsFile  string            `mapstructure:"metrics_file"  yaml:"metrics_file"`
	SampleRatio  float64           `mapstructure:"sample_ratio"  yaml:"sample_ratio"`
	OTLPInsecure bool              `mapstructure:"otlp_insecure" yaml:"otlp_insecure"`
	TraceVerbose bool              `mapstructure:"trace_verbose" yaml:"trace_verbose"`
}

// LoadConfig loads configuration from file and MP2VUE_ environment variables.
// An empty path searches for .mp2vue.yaml in the working directory; finding
// none is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".mp2vue")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("MP2VUE")
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	if err := viperCfg.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Platform:              DefaultPlatform,
			StaticDir:             DefaultStaticDir,
			Workers:               DefaultWorkers,
			RewriteAssetPaths:     DefaultRewriteAssetPaths,
			RenamePlatformKeyword: DefaultRenamePlatformKeyword,
			RepairAliasing:        DefaultRepairAliasing,
			HasVant:               DefaultHasVant,
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			Format:       DefaultOutputFormat,
			SingleFile:   DefaultSingleFile,
			SkipVendored: DefaultSkipVendored,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultOTLPEndpoint,
			OTLPInsecure: DefaultOTLPInsecure,
			SampleRatio:  DefaultSampleRatio,
			TraceVerbose: DefaultTraceVerbose,
			MetricsFile:  DefaultMetricsFile,
		},
	}
}

// WriteYAML writes the configuration as a YAML document.
func (config *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}

// setDefaults mirrors Default into viper so env-only keys are bound.
func setDefaults(viperCfg *viper.Viper) {
	def := Default()

	viperCfg.SetDefault("convert.platform", def.Convert.Platform)
	viperCfg.SetDefault("convert.static_dir", def.Convert.StaticDir)
	viperCfg.SetDefault("convert.workers", def.Convert.Workers)
	viperCfg.SetDefault("convert.rewrite_asset_paths", def.Convert.RewriteAssetPaths)
	viperCfg.SetDefault("convert.rename_platform_keyword", def.Convert.RenamePlatformKeyword)
	viperCfg.SetDefault("convert.repair_aliasing", def.Convert.RepairAliasing)
	viperCfg.SetDefault("convert.has_vant", def.Convert.HasVant)

	viperCfg.SetDefault("output.dir", def.Output.Dir)
	viperCfg.SetDefault("output.format", def.Output.Format)
	viperCfg.SetDefault("output.single_file", def.Output.SingleFile)
	viperCfg.SetDefault("output.skip_vendored", def.Output.SkipVendored)

	viperCfg.SetDefault("logging.level", def.Logging.Level)
	viperCfg.SetDefault("logging.format", def.Logging.Format)

	viperCfg.SetDefault("telemetry.otlp_endpoint", def.Telemetry.OTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", def.Telemetry.OTLPInsecure)
	viperCfg.SetDefault("telemetry.environment", def.Telemetry.Environment)
	viperCfg.SetDefault("telemetry.sample_ratio", def.Telemetry.SampleRatio)
	viperCfg.SetDefault("telemetry.trace_verbose", def.Telemetry.TraceVerbose)
	viperCfg.SetDefault("telemetry.metrics_file", def.Telemetry.MetricsFile)
}

// Validate checks the configuration.
func (config *Config) Validate() error {
	if !slices.Contains(Platforms, config.Convert.Platform) {
		return fmt.Errorf("%w: %q", ErrInvalidPlatform, config.Convert.Platform)
	}

	if config.Convert.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Convert.Workers)
	}

	if strings.Trim(config.Convert.StaticDir, "/") == "" {
		return ErrEmptyStaticDir
	}

	if !slices.Contains(Formats, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Output.Format)
	}

	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
