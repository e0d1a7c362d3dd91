package config

// Application constants
const (
	// Application Info
	AppName = "corplinks"

	// EnvPrefix namespaces every environment variable, e.g. CORPLINKS_INPUT_PATH
	EnvPrefix = "CORPLINKS"

	// ConfigFileName is looked up in the working directory and configs/
	ConfigFileName = "config.yaml"

	// File Paths (relative to the base directory)
	DefaultDataDir      = "data"
	DefaultRawDir       = "data/raw"
	DefaultProcessedDir = "data/processed"
	DefaultLogsDir      = "logs"

	// Well-known files
	DefaultInputFile  = "data/raw/corporate_links_raw.xlsx"
	DefaultCleanedCSV = "data/processed/cleaned_data.csv"
	DefaultReportJSON = "data/processed/analysis_report.json"
	DefaultLogFile    = "logs/cleaner.log"

	// Schema policies for lines with more than seven fields
	SchemaPolicyReject   = "reject"
	SchemaPolicyTruncate = "truncate"

	// Trace exporters
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"

	// Cleaning worker bounds
	DefaultWorkers = 1
	MaxWorkers     = 256
)
