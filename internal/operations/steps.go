package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/metric"

	"shipcli/internal/dataprocessing"
	"shipcli/internal/exporter"
	"shipcli/internal/infrastructure"
	"shipcli/internal/table"
	"shipcli/internal/validation"
	"shipcli/pkg/contracts/domain"
)

// TableStore loads and persists whole tables by location
type TableStore interface {
	Load(ctx context.Context, location string, schema table.Schema) (*table.Table, error)
	Save(ctx context.Context, location string, t *table.Table) error
}

// StepDeps are the collaborators shared by the pipeline steps
type StepDeps struct {
	Store   TableStore
	Logger  *slog.Logger
	Metrics *infrastructure.PipelineMetrics
}

// logger falls back to the global logger tagged with the run's trace ID
func (d StepDeps) logger(ctx context.Context) *slog.Logger {
	if d.Logger == nil {
		return infrastructure.LoggerWithContext(ctx)
	}
	return d.Logger
}

// count adds n to the counter pick selects, when metrics are wired
func (d StepDeps) count(ctx context.Context, pick func(*infrastructure.PipelineMetrics) metric.Int64Counter, location string, n int) {
	if d.Metrics == nil {
		return
	}
	infrastructure.RecordTableRows(ctx, pick(d.Metrics), location, n)
}

func (d StepDeps) load(ctx context.Context, location string, schema table.Schema) (*table.Table, error) {
	t, err := d.Store.Load(ctx, location, schema)
	if err != nil {
		return nil, err
	}
	d.count(ctx, func(m *infrastructure.PipelineMetrics) metric.Int64Counter { return m.RowsLoaded }, location, t.Len())
	return t, nil
}

func (d StepDeps) save(ctx context.Context, location string, t *table.Table) error {
	if err := d.Store.Save(ctx, location, t); err != nil {
		return err
	}
	d.count(ctx, func(m *infrastructure.PipelineMetrics) metric.Int64Counter { return m.RowsWritten }, location, t.Len())
	return nil
}

// recordOutput publishes a written table to the manifest
func recordOutput(state *OperationState, stepID, dataType, location string, t *table.Table) {
	if state.Manifest == nil {
		return
	}
	state.Manifest.AddData(&DataInfo{
		Type:      dataType,
		Location:  location,
		Rows:      t.Len(),
		Columns:   t.Columns(),
		CreatedBy: stepID,
	})
}

// report stores the step's completion message and metadata
func report(state *OperationState, stepID, message string, metadata map[string]interface{}) {
	stepState := state.GetStep(stepID)
	if stepState == nil {
		return
	}
	for k, v := range metadata {
		stepState.SetMetadata(k, v)
	}
	stepState.SetMessage(message)
}

func requireLocations(locations map[string]string) error {
	for name, loc := range locations {
		if loc == "" {
			return fmt.Errorf("%s location is required", name)
		}
	}
	return nil
}

// AggregateStep turns the raw extract into the monthly aggregated table
type AggregateStep struct {
	BaseStep
	deps        StepDeps
	input       string
	output      string
	dateColumns []string
}

// NewAggregateStep creates the aggregation step. dateColumns overrides the
// normalized date columns when non-empty.
func NewAggregateStep(deps StepDeps, input, output string, dateColumns []string) *AggregateStep {
	return &AggregateStep{
		BaseStep:    NewBaseStep(StepIDAggregate, StepNameAggregate, nil),
		deps:        deps,
		input:       input,
		output:      output,
		dateColumns: dateColumns,
	}
}

// RequiredInputs returns the raw table
func (s *AggregateStep) RequiredInputs() []DataRequirement {
	return []DataRequirement{{Type: DataTypeRaw, Location: s.input}}
}

// ProducedOutputs returns the aggregated table
func (s *AggregateStep) ProducedOutputs() []DataOutput {
	return []DataOutput{{Type: DataTypeAggregated, Location: s.output}}
}

// CanRun checks that the raw table is available
func (s *AggregateStep) CanRun(manifest *PipelineManifest) bool {
	return canRun(s.RequiredInputs(), manifest)
}

// Validate checks the configured locations
func (s *AggregateStep) Validate(state *OperationState) error {
	if err := s.BaseStep.Validate(state); err != nil {
		return err
	}
	return requireLocations(map[string]string{"raw": s.input, "aggregated": s.output})
}

// Execute loads, aggregates and saves
func (s *AggregateStep) Execute(ctx context.Context, state *OperationState) error {
	logger := s.deps.logger(ctx)

	raw, err := s.deps.load(ctx, s.input, dataprocessing.RawSchema)
	if err != nil {
		return err
	}

	agg, stats, err := dataprocessing.NewMonthlyAggregation(logger, s.dateColumns).Run(ctx, raw)
	if err != nil {
		return err
	}

	s.deps.count(ctx, func(m *infrastructure.PipelineMetrics) metric.Int64Counter { return m.RowsDropped }, s.input, stats.Decompose.Dropped)
	s.deps.count(ctx, func(m *infrastructure.PipelineMetrics) metric.Int64Counter { return m.DatesUnparsed }, s.input, stats.Normalize.TotalUnparsed())
	s.deps.count(ctx, func(m *infrastructure.PipelineMetrics) metric.Int64Counter { return m.GroupsProduced }, s.output, stats.Aggregate.Groups)

	if err := s.deps.save(ctx, s.output, agg); err != nil {
		return err
	}
	recordOutput(state, s.ID(), DataTypeAggregated, s.output, agg)

	report(state, s.ID(), fmt.Sprintf("Aggregated data saved to %s", s.output), map[string]interface{}{
		MetaOutput:   s.output,
		MetaRowsIn:   raw.Len(),
		MetaDropped:  stats.Decompose.Dropped,
		MetaUnparsed: stats.Normalize.TotalUnparsed(),
		MetaGroups:   stats.Aggregate.Groups,
		MetaRowsOut:  agg.Len(),
	})
	return nil
}

// SummarizeStep derives the first and last shipment period per family
type SummarizeStep struct {
	BaseStep
	deps    StepDeps
	input   string
	output  string
	show    bool
	console io.Writer
}

// NewSummarizeStep creates the summary step. output may be empty when the
// summary is only printed; console defaults to stdout.
func NewSummarizeStep(deps StepDeps, input, output string, show bool, console io.Writer) *SummarizeStep {
	if console == nil {
		console = os.Stdout
	}
	return &SummarizeStep{
		BaseStep: NewBaseStep(StepIDSummarize, StepNameSummarize, []string{StepIDAggregate}),
		deps:     deps,
		input:    input,
		output:   output,
		show:     show,
		console:  console,
	}
}

// RequiredInputs returns the aggregated table
func (s *SummarizeStep) RequiredInputs() []DataRequirement {
	return []DataRequirement{{Type: DataTypeAggregated, Location: s.input}}
}

// ProducedOutputs returns the summary table when it is persisted
func (s *SummarizeStep) ProducedOutputs() []DataOutput {
	if s.output == "" {
		return []DataOutput{}
	}
	return []DataOutput{{Type: DataTypeSummary, Location: s.output}}
}

// CanRun checks that the aggregated table is available
func (s *SummarizeStep) CanRun(manifest *PipelineManifest) bool {
	return canRun(s.RequiredInputs(), manifest)
}

// Validate checks the input location and that the summary goes somewhere
func (s *SummarizeStep) Validate(state *OperationState) error {
	if err := s.BaseStep.Validate(state); err != nil {
		return err
	}
	if err := requireLocations(map[string]string{"aggregated": s.input}); err != nil {
		return err
	}
	if s.output == "" && !s.show {
		return fmt.Errorf("summary needs an output location or printing")
	}
	return nil
}

// Execute loads the aggregated table, summarizes, prints and saves
func (s *SummarizeStep) Execute(ctx context.Context, state *OperationState) error {
	agg, err := s.deps.load(ctx, s.input, dataprocessing.AggregatedSchema)
	if err != nil {
		return err
	}

	summary, err := dataprocessing.NewPeriodSummarizer(s.deps.logger(ctx)).Summarize(ctx, agg)
	if err != nil {
		return err
	}

	if s.show {
		exporter.RenderTable(s.console, summary)
	}

	metadata := map[string]interface{}{
		MetaRowsIn:   agg.Len(),
		MetaFamilies: summary.Len(),
	}

	message := fmt.Sprintf("Summarized %d families", summary.Len())
	if s.output != "" {
		if err := s.deps.save(ctx, s.output, summary); err != nil {
			return err
		}
		recordOutput(state, s.ID(), DataTypeSummary, s.output, summary)
		metadata[MetaOutput] = s.output
		message = fmt.Sprintf("Saved summary to %s", s.output)
	}

	report(state, s.ID(), message, metadata)
	return nil
}

// FilterStep keeps the aggregated rows of families ending in a target period
type FilterStep struct {
	BaseStep
	deps      StepDeps
	periods   string
	input     string
	output    string
	targetEnd string
}

// NewFilterStep creates the membership filter step. targetEnd is used when
// the request carries no target; empty means the default end period.
func NewFilterStep(deps StepDeps, periods, input, output, targetEnd string) *FilterStep {
	return &FilterStep{
		BaseStep:  NewBaseStep(StepIDFilter, StepNameFilter, []string{StepIDSummarize}),
		deps:      deps,
		periods:   periods,
		input:     input,
		output:    output,
		targetEnd: targetEnd,
	}
}

// RequiredInputs returns the summary and the aggregated table
func (s *FilterStep) RequiredInputs() []DataRequirement {
	return []DataRequirement{
		{Type: DataTypeSummary, Location: s.periods},
		{Type: DataTypeAggregated, Location: s.input},
	}
}

// ProducedOutputs returns the filtered table
func (s *FilterStep) ProducedOutputs() []DataOutput {
	return []DataOutput{{Type: DataTypeFiltered, Location: s.output}}
}

// CanRun checks that both inputs are available
func (s *FilterStep) CanRun(manifest *PipelineManifest) bool {
	return canRun(s.RequiredInputs(), manifest)
}

// target resolves the end period for this run
func (s *FilterStep) target(state *OperationState) string {
	def := s.targetEnd
	if def == "" {
		def = domain.DefaultTargetEnd
	}
	return state.GetConfigString(ConfigKeyTargetEnd, def)
}

// Validate checks the locations and the target period
func (s *FilterStep) Validate(state *OperationState) error {
	if err := s.BaseStep.Validate(state); err != nil {
		return err
	}
	if err := requireLocations(map[string]string{"summary": s.periods, "aggregated": s.input, "filtered": s.output}); err != nil {
		return err
	}
	return validation.ValidatePeriod(s.target(state))
}

// Execute loads both tables, filters by membership and saves
func (s *FilterStep) Execute(ctx context.Context, state *OperationState) error {
	target := s.target(state)

	catalog, err := s.deps.load(ctx, s.periods, dataprocessing.SummarySchema)
	if err != nil {
		return err
	}
	content, err := s.deps.load(ctx, s.input, dataprocessing.AggregatedSchema)
	if err != nil {
		return err
	}

	filtered, stats, err := dataprocessing.NewMembershipFilter(s.deps.logger(ctx)).Filter(ctx, catalog, content, target)
	if err != nil {
		return err
	}
	s.deps.count(ctx, func(m *infrastructure.PipelineMetrics) metric.Int64Counter { return m.FamiliesMatched }, s.periods, stats.Families)

	if err := s.deps.save(ctx, s.output, filtered); err != nil {
		return err
	}
	recordOutput(state, s.ID(), DataTypeFiltered, s.output, filtered)

	report(state, s.ID(),
		fmt.Sprintf("Filtered data saved to %s, containing %d families and %d rows.", s.output, stats.Families, stats.Rows),
		map[string]interface{}{
			MetaOutput:         s.output,
			ConfigKeyTargetEnd: target,
			MetaRowsIn:         stats.RowsIn,
			MetaFamilies:       stats.Families,
			MetaRowsOut:        stats.Rows,
		})
	return nil
}
