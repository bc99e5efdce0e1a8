// Package config provides centralized configuration management for shipcli.
// It handles loading configuration from multiple sources, validation, and
// resolution of every table location the pipeline reads or writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (shipcli.yaml or configs/shipcli.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SHIP_<SECTION>_<FIELD>:
//
//	SHIP_PATHS_DATA_DIR=/srv/shipments
//	SHIP_PIPELINE_TARGET_END=2025-05
//	SHIP_PIPELINE_DATE_COLUMNS=ss,eol
//	SHIP_LOGGING_LEVEL=debug
//	SHIP_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/shipcli.prom
//
// # Path Management
//
// Paths resolves the data directory layout:
//
//	paths, err := config.GetPaths(cfg.Paths)
//	raw := paths.RawCSV
//	out := paths.FilteredCSV(cfg.Pipeline.TargetEnd)
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator:
// log level and output mode are enumerated, the target end period must be a
// YYYY-MM value and at least one date column must be configured.
package config
