package config

import "shipcli/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "shipcli"
	AppVersion = contracts.Version

	// File Paths (relative to the working directory)
	DefaultDataDir  = "data"
	DefaultLogsDir  = "logs"
	RawSubdir       = "raw"
	ProcessedSubdir = "processed"

	// Well-known table files, relative to the data directory
	DefaultRawFile        = "raw/historical_transition_20250605.csv"
	DefaultAggregatedFile = "processed/family_monthly_shipments.csv"
	DefaultSummaryFile    = "processed/family_periods_summary.csv"

	// FilteredFilePattern names the filter output for a target end period
	FilteredFilePattern = "processed/family_monthly_shipments_end%s.csv"

	// ManifestFileName is written next to the processed tables after a run
	ManifestFileName = "processed/run_manifest.json"

	// Pipeline defaults
	DefaultTargetEnd = "2025-05"
)
