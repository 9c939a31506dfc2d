// Package config provides configuration management for solarstock.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. A YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SOLARSTOCK_<SECTION>_<FIELD>:
//
//	SOLARSTOCK_LOGGING_LEVEL=debug
//	SOLARSTOCK_PATHS_INPUT_FILE=/data/solar_berlin_cleaned.csv
//	SOLARSTOCK_PIPELINE_CUTOFF_YEAR=2005
//	SOLARSTOCK_TELEMETRY_TRACE_EXPORTER=stdout
//	SOLARSTOCK_SERVER_ADDR=:8080
//
// SOLARSTOCK_CONFIG_FILE points at an explicit YAML file; otherwise
// config.yaml and configs/config.yaml are tried in order.
//
// # Path Management
//
// Relative directories are anchored at the base directory (the executable
// directory unless configured):
//
//	paths, err := cfg.ResolvePaths()
//	out := paths.YearlyCSVPath(cfg.Pipeline.OutputName)
//
// # Validation
//
// Load validates the merged configuration with struct tags
// (github.com/go-playground/validator/v10) and fails on invalid values.
package config
