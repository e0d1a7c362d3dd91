package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the raw ownership export
type InputConfig struct {
	Path         string `yaml:"path" validate:"required"`
	Sheet        string `yaml:"sheet"`
	SchemaPolicy string `yaml:"schema_policy" split_words:"true" validate:"oneof=reject truncate"`
}

// OutputConfig describes where results are written
type OutputConfig struct {
	CleanedCSV string `yaml:"cleaned_csv" split_words:"true" validate:"required"`
	ReportJSON string `yaml:"report_json" split_words:"true"`
	Workbook   string `yaml:"workbook" validate:"omitempty,endswith=.xlsx"`
	BOMPrefix  bool   `yaml:"bom_prefix" split_words:"true"`
	TablesDir  string `yaml:"tables_dir" split_words:"true"`
}

// CleaningConfig tunes the record cleaner
type CleaningConfig struct {
	Workers int `yaml:"workers" validate:"min=1,max=256"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	Environment     string  `yaml:"environment"`
	TraceExporter   string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	TraceFile       string  `yaml:"trace_file" split_words:"true"`
	SampleRatio     float64 `yaml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
	MetricsTextfile string  `yaml:"metrics_textfile" split_words:"true" validate:"omitempty,endswith=.prom"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:         DefaultInputFile,
			SchemaPolicy: SchemaPolicyReject,
		},
		Output: OutputConfig{
			CleanedCSV: DefaultCleanedCSV,
			ReportJSON: DefaultReportJSON,
		},
		Cleaning: CleaningConfig{
			Workers: DefaultWorkers,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Environment:   "development",
			TraceExporter: TraceExporterNone,
			SampleRatio:   1.0,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file (when
// one is given or found), then CORPLINKS_* environment variables. Later
// sources win.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg; keys missing from the file
// keep their current values
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and normalizes logging settings
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// JSON is the only supported log format
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// Resolve rewrites every relative file path in the configuration against
// the base directory of paths
func (c *Config) Resolve(paths *Paths) {
	c.Input.Path = paths.Resolve(c.Input.Path)
	c.Output.CleanedCSV = paths.Resolve(c.Output.CleanedCSV)
	c.Output.ReportJSON = paths.Resolve(c.Output.ReportJSON)
	c.Output.Workbook = paths.Resolve(c.Output.Workbook)
	c.Output.TablesDir = paths.Resolve(c.Output.TablesDir)
	c.Logging.FilePath = paths.Resolve(c.Logging.FilePath)
	c.Telemetry.TraceFile = paths.Resolve(c.Telemetry.TraceFile)
	c.Telemetry.MetricsTextfile = paths.Resolve(c.Telemetry.MetricsTextfile)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		ConfigFileName,
		filepath.Join("configs", ConfigFileName),
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}
