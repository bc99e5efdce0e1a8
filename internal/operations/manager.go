package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shipcli/internal/config"
	apperrors "shipcli/internal/errors"
)

// Manager orchestrates operation execution
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a new operation manager. Nil arguments fall back to
// an empty registry, the default config, a tracer on the global providers
// and the default logger.
func NewManager(registry *Registry, cfg *Config, tracer *OperationTracer, logger *slog.Logger) (*Manager, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	if tracer == nil {
		var err error
		if tracer, err = NewOperationTracer(nil); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   cfg,
		tracer:   tracer,
		logger:   logger,
	}, nil
}

// RegisterStep registers a step with the operation
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// Execute runs the registered steps, or only the step the request names.
// Steps run one at a time in dependency order; the first failure stops the
// run and marks the remaining steps skipped unless ContinueOnError is set.
// The response is returned even when err is non-nil.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = "operation-" + uuid.NewString()
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, req)

	state := NewOperationState(req.ID)
	if req.TargetEnd != "" {
		state.SetConfig(ConfigKeyTargetEnd, req.TargetEnd)
	}
	if req.Step != "" {
		state.SetConfig(ConfigKeyStep, req.Step)
	}
	for k, v := range req.Parameters {
		state.SetConfig(k, v)
	}

	manifest := NewPipelineManifest(req.ID, req.TargetEnd)
	state.Manifest = manifest

	m.logOperationStart(ctx, req)

	steps, err := m.selectSteps(req)
	if err != nil {
		m.logOperationError(ctx, req.ID, err)
		state.Fail(err)
		manifest.Fail(err)
		m.saveManifest(ctx, manifest)
		m.tracer.RecordOperationCompletion(ctx, span, req.ID, state.Duration(), err)
		return m.createResponse(state, nil), err
	}

	order := make([]string, len(steps))
	for i, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
		order[i] = step.ID()
	}
	m.seedManifest(ctx, manifest, steps)

	state.Start()
	manifest.SetStatus(ManifestStatusRunning)

	err = m.executeSequential(ctx, state, steps)

	switch {
	case err != nil && GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		manifest.Fail(err)
	case err != nil:
		state.Fail(err)
		manifest.Fail(err)
	default:
		state.Complete()
		manifest.SetStatus(ManifestStatusCompleted)
	}

	m.saveManifest(ctx, manifest)
	m.tracer.RecordOperationCompletion(ctx, span, req.ID, state.Duration(), err)
	m.logOperationComplete(ctx, req.ID, state.Duration(), state.Status)

	return m.createResponse(state, order), err
}

// selectSteps resolves the steps a request runs
func (m *Manager) selectSteps(req OperationRequest) ([]Step, error) {
	if req.Step != "" {
		step, err := m.registry.Get(req.Step)
		if err != nil {
			return nil, err
		}
		return []Step{step}, nil
	}

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		return nil, NewFatalError("failed to resolve step order", err)
	}
	if len(steps) == 0 {
		return nil, NewFatalError("no steps registered", nil)
	}
	return steps, nil
}

// seedManifest records inputs that already exist on disk and that no step
// of this run produces
func (m *Manager) seedManifest(ctx context.Context, manifest *PipelineManifest, steps []Step) {
	produced := make(map[string]bool)
	for _, step := range steps {
		for _, out := range step.ProducedOutputs() {
			produced[out.Type] = true
		}
	}

	for _, step := range steps {
		for _, req := range step.RequiredInputs() {
			if produced[req.Type] || manifest.HasData(req.Type) {
				continue
			}
			if !config.FileExists(req.Location) {
				continue
			}
			manifest.AddData(&DataInfo{
				Type:      req.Type,
				Location:  req.Location,
				CreatedBy: CreatedByExisting,
			})
			m.logger.DebugContext(ctx, "existing input found",
				slog.String("type", req.Type),
				slog.String("location", req.Location))
		}
	}
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	var firstErr error

	for i, step := range steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.logger.WarnContext(ctx, "operation cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), ctxErr)
		}

		m.logger.InfoContext(ctx, "executing step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.logStepError(ctx, state.ID, step.ID(), err)
			if firstErr == nil {
				firstErr = err
			}
			if !m.config.ContinueOnError {
				m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
				return err
			}
		}
	}

	return firstErr
}

// executeStep runs one step and records its outcome in the state, the
// manifest, the trace and the metrics
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if !step.CanRun(state.Manifest) {
		req, _ := missingInput(step.RequiredInputs(), state.Manifest)
		reason := fmt.Sprintf("required input %s not available at %s", req.Type, req.Location)
		stepState.Skip(reason)
		state.Manifest.RecordStepSkipped(step.ID(), step.Name(), reason)
		return NewDependencyError(step.ID(), req.Type, apperrors.NewMissingInputError(req.Location, nil))
	}

	if err := step.Validate(state); err != nil {
		verr := NewValidationError(step.ID(), err)
		stepState.Fail(verr)
		state.Manifest.RecordStepStart(step.ID(), step.Name())
		state.Manifest.RecordStepFailure(step.ID(), verr)
		return verr
	}

	stepCtx, span := m.tracer.TraceStepExecution(ctx, state.ID, step.ID())

	m.logStepStart(stepCtx, state.ID, step.ID())
	stepState.Start()
	state.Manifest.RecordStepStart(step.ID(), step.Name())

	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err != nil {
		wrapped := WrapError(err, step.ID())
		stepState.Fail(wrapped)
		state.Manifest.RecordStepFailure(step.ID(), wrapped)
		m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, stepState.MetadataSnapshot(), wrapped)
		return wrapped
	}

	outputs := make([]string, 0, len(step.ProducedOutputs()))
	for _, out := range step.ProducedOutputs() {
		if state.Manifest.HasData(out.Type) {
			outputs = append(outputs, out.Type)
		}
	}

	stepState.Complete("")
	metadata := stepState.MetadataSnapshot()
	state.Manifest.RecordStepCompletion(step.ID(), outputs, metadata)
	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, metadata, nil)
	m.logStepComplete(stepCtx, state.ID, step.ID(), duration, metadata)

	return nil
}

// skipRemaining marks pending steps as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		stepState := state.GetStep(step.ID())
		if stepState != nil && stepState.CurrentStatus() == StepStatusPending {
			stepState.Skip(reason)
			state.Manifest.RecordStepSkipped(step.ID(), step.Name(), reason)
		}
	}
}

// saveManifest writes the manifest when a path is configured. A failed
// write is logged; the run outcome does not depend on it.
func (m *Manager) saveManifest(ctx context.Context, manifest *PipelineManifest) {
	if m.config.ManifestPath == "" {
		return
	}
	if err := manifest.SaveToFile(m.config.ManifestPath); err != nil {
		m.logger.WarnContext(ctx, "failed to save run manifest",
			slog.String("path", m.config.ManifestPath),
			slog.String("error", err.Error()))
		return
	}
	m.logger.DebugContext(ctx, "run manifest saved",
		slog.String("path", m.config.ManifestPath))
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState, order []string) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.Status,
		Duration: state.Duration(),
		Order:    order,
		Steps:    state.Steps,
		Manifest: state.Manifest,
	}

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}

	return resp
}
