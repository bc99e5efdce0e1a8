package domain

// Column names shared by the raw extract and the derived tables
const (
	ColFamilyDesc    = "family_desc"
	ColYear          = "year"
	ColMonth         = "month"
	ColTransitionKey = "transition_key"
	ColSeries        = "series"
	ColSubseries     = "subseries"
	ColCPU           = "CPU"
	ColSize          = "size"
	ColSS            = "ss"
	ColEOL           = "eol"
	ColShipment      = "shipment"
	ColTotalShipment = "total_shipment"
	ColPeriod        = "period"
	ColStartPeriod   = "start_period"
	ColEndPeriod     = "end_period"
)

// TransitionKeySeparator delimits the segments of a transition key
const TransitionKeySeparator = "@"

// DefaultTargetEnd is the end period the membership filter selects by default
const DefaultTargetEnd = "2025-05"

// PeriodLayout is the canonical year-month layout
const PeriodLayout = "2006-01"

// KeySegments are the positional parts of a transition key
var KeySegments = []string{ColSeries, ColSubseries, ColCPU, ColSize}

// DateColumns are the raw columns normalised to canonical periods
var DateColumns = []string{ColSS, ColEOL}

// AggregateGroupColumns is the grouping key of the monthly aggregation
var AggregateGroupColumns = []string{
	ColFamilyDesc, ColYear, ColMonth, ColTransitionKey,
	ColSeries, ColSubseries, ColCPU, ColSize,
	ColSS, ColEOL,
}

// AggregateSortColumns orders the aggregated output
var AggregateSortColumns = []string{ColFamilyDesc, ColYear, ColMonth}

// SummaryColumns is the header of the family period summary
var SummaryColumns = []string{ColFamilyDesc, ColStartPeriod, ColEndPeriod}

// ShipmentRecord is a typed view of one raw row, used for ingestion checks
type ShipmentRecord struct {
	FamilyDesc    string  `json:"family_desc"`
	Year          int     `json:"year" validate:"min=1000,max=9999"`
	Month         int     `json:"month" validate:"min=1,max=12"`
	TransitionKey string  `json:"transition_key"`
	SS            string  `json:"ss"`
	EOL           string  `json:"eol"`
	Shipment      float64 `json:"shipment"`
}

// FamilyPeriod is one row of the family period summary
type FamilyPeriod struct {
	FamilyDesc  string `json:"family_desc"`
	StartPeriod string `json:"start_period"`
	EndPeriod   string `json:"end_period"`
}

// AggregateRequest describes one run of the aggregation stage
type AggregateRequest struct {
	InputPath  string `json:"input_path" validate:"required"`
	OutputPath string `json:"output_path" validate:"required"`
}

// SummarizeRequest describes one run of the period summary stage.
// OutputPath may be empty when the summary is only printed.
type SummarizeRequest struct {
	InputPath  string `json:"input_path" validate:"required"`
	OutputPath string `json:"output_path,omitempty"`
	Print      bool   `json:"print"`
}

// FilterRequest describes one run of the membership filter stage
type FilterRequest struct {
	PeriodsPath string `json:"periods_path" validate:"required"`
	InputPath   string `json:"input_path" validate:"required"`
	OutputPath  string `json:"output_path" validate:"required"`
	TargetEnd   string `json:"target_end" validate:"required,datetime=2006-01"`
}

// PipelineRequest describes a full run of all three stages
type PipelineRequest struct {
	RawPath        string `json:"raw_path" validate:"required"`
	AggregatedPath string `json:"aggregated_path" validate:"required"`
	SummaryPath    string `json:"summary_path" validate:"required"`
	FilteredPath   string `json:"filtered_path" validate:"required"`
	TargetEnd      string `json:"target_end" validate:"required,datetime=2006-01"`
	// Step limits the run to a single stage; empty runs all of them
	Step string `json:"step,omitempty" validate:"omitempty,oneof=aggregate summarize filter"`
}
