// Package config provides configuration management for the ownership cleaner.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. A YAML file: the -config flag, else config.yaml or configs/config.yaml
//  3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CORPLINKS_<SECTION>_<KEY>:
//
//	CORPLINKS_INPUT_PATH=data/raw/corporate_links_raw.xlsx
//	CORPLINKS_INPUT_SCHEMA_POLICY=truncate
//	CORPLINKS_OUTPUT_CLEANED_CSV=data/processed/cleaned_data.csv
//	CORPLINKS_CLEANING_WORKERS=4
//	CORPLINKS_LOGGING_LEVEL=debug
//	CORPLINKS_TELEMETRY_TRACE_EXPORTER=stdout
//
// Variables without the CORPLINKS_ prefix are never read, so PATH or LEVEL
// in the shell cannot leak into the configuration.
//
// # Path Management
//
// Relative paths are resolved against a base directory (the working
// directory by default) through the Paths type:
//
//	paths, err := config.GetPaths("")
//	cfg.Resolve(paths)
package config
