package operations

import (
	"time"
)

// Step identifiers
const (
	StepIDAggregate = "aggregate"
	StepIDSummarize = "summarize"
	StepIDFilter    = "filter"
)

// Step names
const (
	StepNameAggregate = "Monthly Aggregation"
	StepNameSummarize = "Family Period Summary"
	StepNameFilter    = "Membership Filter"
)

// Config keys carried from the request into the operation state
const (
	ConfigKeyTargetEnd = "target_end"
	ConfigKeyStep      = "step"
)

// Data types recorded in the manifest
const (
	DataTypeRaw        = "raw_table"
	DataTypeAggregated = "aggregated_table"
	DataTypeSummary    = "summary_table"
	DataTypeFiltered   = "filtered_table"
)

// Metadata keys written by the steps into their StepState
const (
	MetaOutput   = "output"
	MetaRowsIn   = "rows_in"
	MetaRowsOut  = "rows_out"
	MetaDropped  = "rows_dropped"
	MetaUnparsed = "dates_unparsed"
	MetaGroups   = "groups"
	MetaFamilies = "families"
)

// OperationRequest represents a request to execute an operation
type OperationRequest struct {
	ID string `json:"id"`
	// Step limits the run to one registered step; empty runs all of them
	Step       string                 `json:"step,omitempty"`
	TargetEnd  string                 `json:"target_end,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// OperationResponse represents the response from an operation execution
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Order    []string              `json:"order"`
	Steps    map[string]*StepState `json:"steps"`
	Manifest *PipelineManifest     `json:"manifest,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Completed returns the states of the completed steps in execution order
func (r *OperationResponse) Completed() []*StepState {
	var out []*StepState
	for _, id := range r.Order {
		if s, ok := r.Steps[id]; ok && s.Status == StepStatusCompleted {
			out = append(out, s)
		}
	}
	return out
}
