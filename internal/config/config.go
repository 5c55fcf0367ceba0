package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// ProcessingConfig controls how container files are discovered and read
type ProcessingConfig struct {
	SeriesName string   `yaml:"series_name" envconfig:"SERIES_NAME" validate:"required"`
	Extensions []string `yaml:"extensions" envconfig:"EXTENSIONS" validate:"min=1,dive,startswith=."`
	// Workers is bounded by MaxWorkers
	Workers    int      `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
}

// OutputConfig controls the report files
type OutputConfig struct {
	AverageFile     string   `yaml:"average_file" envconfig:"AVERAGE_FILE" validate:"required,excludesall=/\\"`
	MaxDistanceFile string   `yaml:"max_distance_file" envconfig:"MAX_DISTANCE_FILE" validate:"required,excludesall=/\\,nefield=AverageFile"`
	WorkbookFile    string   `yaml:"workbook_file" envconfig:"WORKBOOK_FILE" validate:"required,excludesall=/\\"`
	Formats         []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=csv xlsx"`
	Compression     string   `yaml:"compression" envconfig:"COMPRESSION" validate:"oneof=none gzip zstd lz4"`
}

// TelemetryConfig contains tracing and run metrics configuration
type TelemetryConfig struct {
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceFile      string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// HasFormat reports whether the given report format is enabled
func (o OutputConfig) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty configFile
// falls back to the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	// Environment last; fields without a matching variable keep their value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize lowercases enumerations and makes extensions comparable
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Output.Compression = strings.ToLower(strings.TrimSpace(c.Output.Compression))

	for i, ext := range c.Processing.Extensions {
		c.Processing.Extensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
	for i, f := range c.Output.Formats {
		c.Output.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"posagg.yaml",
		"configs/posagg.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Processing: ProcessingConfig{
			SeriesName: DefaultSeriesName,
			Extensions: []string{DefaultExtension},
			Workers:    1,
		},
		Output: OutputConfig{
			AverageFile:     DefaultAverageFile,
			MaxDistanceFile: DefaultMaxDistanceFile,
			WorkbookFile:    DefaultWorkbookFile,
			Formats:         []string{FormatCSV},
			Compression:     CompressionNone,
		},
	}
}

// String renders the configuration for startup logs
func (c *Config) String() string {
	return fmt.Sprintf("logging=%s/%s processing=%s%v workers=%d output=%v compression=%s",
		c.Logging.Level, c.Logging.Output,
		c.Processing.SeriesName, c.Processing.Extensions, c.Processing.Workers,
		c.Output.Formats, c.Output.Compression)
}
