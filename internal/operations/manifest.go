package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manifest statuses
const (
	ManifestStatusPending   = "pending"
	ManifestStatusRunning   = "running"
	ManifestStatusCompleted = "completed"
	ManifestStatusFailed    = "failed"
)

// CreatedByExisting marks data found on disk before the run started
const CreatedByExisting = "existing"

// PipelineManifest tracks the tables available to a run and what each step did
type PipelineManifest struct {
	mu sync.RWMutex

	ID          string    `json:"id"`
	OperationID string    `json:"operation_id"`
	StartTime   time.Time `json:"start_time"`
	TargetEnd   string    `json:"target_end,omitempty"`

	AvailableData map[string]*DataInfo `json:"available_data"`
	Executions    []StepExecution      `json:"executions"`

	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
	Error       string    `json:"error,omitempty"`
}

// DataInfo describes one table known to the run
type DataInfo struct {
	Type      string                 `json:"type"`
	Location  string                 `json:"location"`
	Rows      int                    `json:"rows"`
	Columns   []string               `json:"columns,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	CreatedBy string                 `json:"created_by"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// StepExecution records the execution of a single step
type StepExecution struct {
	StepID     string                 `json:"step_id"`
	StepName   string                 `json:"step_name"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time,omitempty"`
	Duration   string                 `json:"duration,omitempty"`
	Status     string                 `json:"status"`
	OutputData []string               `json:"output_data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewPipelineManifest creates a new pipeline manifest
func NewPipelineManifest(operationID, targetEnd string) *PipelineManifest {
	now := time.Now()
	return &PipelineManifest{
		ID:            "manifest-" + uuid.NewString(),
		OperationID:   operationID,
		StartTime:     now,
		TargetEnd:     targetEnd,
		AvailableData: make(map[string]*DataInfo),
		Executions:    []StepExecution{},
		Status:        ManifestStatusPending,
		LastUpdated:   now,
	}
}

// HasData checks if a specific type of data is available
func (m *PipelineManifest) HasData(dataType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.AvailableData[dataType]
	return exists
}

// GetData returns information about available data
func (m *PipelineManifest) GetData(dataType string) (*DataInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.AvailableData[dataType]
	return data, exists
}

// AddData records newly available data
func (m *PipelineManifest) AddData(info *DataInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info.CreatedAt = time.Now()
	m.AvailableData[info.Type] = info
	m.LastUpdated = info.CreatedAt
}

// SetStatus sets the overall run status
func (m *PipelineManifest) SetStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Status = status
	m.LastUpdated = time.Now()
}

// RecordStepStart records the start of a step execution
func (m *PipelineManifest) RecordStepStart(stepID, stepName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.Executions = append(m.Executions, StepExecution{
		StepID:    stepID,
		StepName:  stepName,
		StartTime: now,
		Status:    string(StepStatusActive),
	})
	m.LastUpdated = now
}

// RecordStepCompletion records the completion of a step
func (m *PipelineManifest) RecordStepCompletion(stepID string, outputData []string, metadata map[string]interface{}) {
	m.finish(stepID, func(e *StepExecution) {
		e.Status = string(StepStatusCompleted)
		e.OutputData = outputData
		e.Metadata = metadata
	})
}

// RecordStepFailure records a step failure and fails the run
func (m *PipelineManifest) RecordStepFailure(stepID string, err error) {
	m.finish(stepID, func(e *StepExecution) {
		e.Status = string(StepStatusFailed)
		e.Error = err.Error()
	})
	m.Fail(fmt.Errorf("step %s failed: %w", stepID, err))
}

// Fail marks the run as failed
func (m *PipelineManifest) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Status = ManifestStatusFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.LastUpdated = time.Now()
}

// RecordStepSkipped records a step that never started
func (m *PipelineManifest) RecordStepSkipped(stepID, stepName, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.Executions = append(m.Executions, StepExecution{
		StepID:    stepID,
		StepName:  stepName,
		StartTime: now,
		EndTime:   now,
		Status:    string(StepStatusSkipped),
		Error:     reason,
	})
	m.LastUpdated = now
}

func (m *PipelineManifest) finish(stepID string, update func(*StepExecution)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for i := len(m.Executions) - 1; i >= 0; i-- {
		e := &m.Executions[i]
		if e.StepID == stepID {
			e.EndTime = now
			e.Duration = now.Sub(e.StartTime).String()
			update(e)
			break
		}
	}
	m.LastUpdated = now
}

// IsStepCompleted checks if a step has been completed
func (m *PipelineManifest) IsStepCompleted(stepID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.Executions {
		if e.StepID == stepID && e.Status == string(StepStatusCompleted) {
			return true
		}
	}
	return false
}

// SaveToFile writes the manifest as indented JSON, creating the directory
func (m *PipelineManifest) SaveToFile(path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*PipelineManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest PipelineManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if manifest.AvailableData == nil {
		manifest.AvailableData = make(map[string]*DataInfo)
	}

	return &manifest, nil
}
