package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. SHIP_PIPELINE_TARGET_END
const EnvPrefix = "SHIP"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration.
// Relative file names are resolved under DataDir.
type PathsConfig struct {
	DataDir        string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	RawFile        string `yaml:"raw_file" envconfig:"RAW_FILE" validate:"required"`
	AggregatedFile string `yaml:"aggregated_file" envconfig:"AGGREGATED_FILE" validate:"required"`
	SummaryFile    string `yaml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required"`
	LogsDir        string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig contains the stage parameters
type PipelineConfig struct {
	TargetEnd   string   `yaml:"target_end" envconfig:"TARGET_END" validate:"required,datetime=2006-01"`
	DateColumns []string `yaml:"date_columns" envconfig:"DATE_COLUMNS" validate:"min=1,dive,required"`
	WriteBOM    bool     `yaml:"write_bom" envconfig:"WRITE_BOM"`
	XLSXMirror  bool     `yaml:"xlsx_mirror" envconfig:"XLSX_MIRROR"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"omitempty,oneof=stdout none"`
	// MetricsFile receives a Prometheus textfile snapshot at exit; empty disables it
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty
// configFile searches the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := *Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(cfg, *fileConfig)
	}

	var envConfig Config
	if err := envconfig.Process(EnvPrefix, &envConfig); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	cfg = mergeConfigs(cfg, envConfig)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays the non-zero fields of override onto base
func mergeConfigs(base, override Config) Config {
	// Logging config
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}
	if override.Logging.Output != "" {
		base.Logging.Output = override.Logging.Output
	}
	if override.Logging.FilePath != "" {
		base.Logging.FilePath = override.Logging.FilePath
	}
	if override.Logging.Development {
		base.Logging.Development = true
	}

	// Paths config
	if override.Paths.DataDir != "" {
		base.Paths.DataDir = override.Paths.DataDir
	}
	if override.Paths.RawFile != "" {
		base.Paths.RawFile = override.Paths.RawFile
	}
	if override.Paths.AggregatedFile != "" {
		base.Paths.AggregatedFile = override.Paths.AggregatedFile
	}
	if override.Paths.SummaryFile != "" {
		base.Paths.SummaryFile = override.Paths.SummaryFile
	}
	if override.Paths.LogsDir != "" {
		base.Paths.LogsDir = override.Paths.LogsDir
	}

	// Pipeline config
	if override.Pipeline.TargetEnd != "" {
		base.Pipeline.TargetEnd = override.Pipeline.TargetEnd
	}
	if len(override.Pipeline.DateColumns) > 0 {
		base.Pipeline.DateColumns = override.Pipeline.DateColumns
	}
	if override.Pipeline.WriteBOM {
		base.Pipeline.WriteBOM = true
	}
	if override.Pipeline.XLSXMirror {
		base.Pipeline.XLSXMirror = true
	}

	// Telemetry config
	if override.Telemetry.ServiceName != "" {
		base.Telemetry.ServiceName = override.Telemetry.ServiceName
	}
	if override.Telemetry.TraceExporter != "" {
		base.Telemetry.TraceExporter = override.Telemetry.TraceExporter
	}
	if override.Telemetry.MetricsFile != "" {
		base.Telemetry.MetricsFile = override.Telemetry.MetricsFile
	}

	return base
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// Logs are always JSON
	c.Logging.Format = "json"

	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "shipcli.log")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"shipcli.yaml",
		"configs/shipcli.yaml",
		"../configs/shipcli.yaml",
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
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: filepath.Join(DefaultLogsDir, "shipcli.log"),
		},
		Paths: PathsConfig{
			DataDir:        DefaultDataDir,
			RawFile:        DefaultRawFile,
			AggregatedFile: DefaultAggregatedFile,
			SummaryFile:    DefaultSummaryFile,
			LogsDir:        DefaultLogsDir,
		},
		Pipeline: PipelineConfig{
			TargetEnd:   DefaultTargetEnd,
			DateColumns: []string{"ss", "eol"},
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
	}
}
