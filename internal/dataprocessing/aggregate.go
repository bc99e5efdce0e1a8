package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// AggregatorConfig describes one grouped summation
type AggregatorConfig struct {
	GroupBy []string
	Measure string
	// ResultColumn names the summed column, default total_<Measure>
	ResultColumn string
	// SortBy orders the output, default family_desc, year, month
	SortBy []string
}

// Aggregator sums a measure over every distinct combination of the
// grouping columns
type Aggregator struct {
	logger *slog.Logger
	cfg    AggregatorConfig
}

// AggregateStats describes one aggregation
type AggregateStats struct {
	RowsIn int
	Groups int
}

// NewAggregator creates an aggregator. An empty GroupBy and Measure select
// the monthly shipment aggregation.
func NewAggregator(logger *slog.Logger, cfg AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.GroupBy) == 0 {
		cfg.GroupBy = domain.AggregateGroupColumns
	}
	if cfg.Measure == "" {
		cfg.Measure = domain.ColShipment
	}
	if cfg.ResultColumn == "" {
		cfg.ResultColumn = "total_" + cfg.Measure
	}
	if len(cfg.SortBy) == 0 {
		cfg.SortBy = domain.AggregateSortColumns
	}
	return &Aggregator{logger: logger, cfg: cfg}
}

// Aggregate returns one row per grouping key holding the key columns and
// the measure's sum. Blank measure cells are skipped, so a group of only
// blanks sums to 0. Rows are ordered by SortBy; ties keep ascending key
// order.
func (a *Aggregator) Aggregate(ctx context.Context, t *table.Table) (*table.Table, AggregateStats, error) {
	stats := AggregateStats{RowsIn: t.Len()}

	measure, err := t.Index(a.cfg.Measure)
	if err != nil {
		return nil, stats, err
	}
	for _, r := range t.Rows() {
		if v := r[measure]; !v.IsNumeric() && !v.IsBlank() {
			return nil, stats, fmt.Errorf("measure %q holds non-numeric value %q", a.cfg.Measure, v.Str())
		}
	}

	groups, err := table.GroupBy(t, a.cfg.GroupBy...)
	if err != nil {
		return nil, stats, err
	}

	columns := append(append([]string(nil), a.cfg.GroupBy...), a.cfg.ResultColumn)
	out := table.New(columns...)
	for _, g := range groups {
		row := make(table.Row, 0, len(columns))
		row = append(row, g.Key...)
		row = append(row, table.Sum(t, g.Rows, measure))
		if err := out.Append(row); err != nil {
			return nil, stats, err
		}
	}

	sorted, err := out.SortedBy(a.cfg.SortBy...)
	if err != nil {
		return nil, stats, err
	}
	stats.Groups = sorted.Len()

	a.logger.DebugContext(ctx, "aggregated rows",
		slog.String("measure", a.cfg.Measure),
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("groups", stats.Groups))

	return sorted, stats, nil
}

// MonthlyStats combines the counters of the three aggregation stages
type MonthlyStats struct {
	Decompose DecomposeStats
	Normalize NormalizeStats
	Aggregate AggregateStats
}

// MonthlyAggregation chains key decomposition, date normalization and
// aggregation over a raw shipment table
type MonthlyAggregation struct {
	Decomposer *KeyDecomposer
	Normalizer *DateNormalizer
	Aggregator *Aggregator
}

// NewMonthlyAggregation wires the default stages. dateColumns overrides the
// normalized columns when non-empty.
func NewMonthlyAggregation(logger *slog.Logger, dateColumns []string) *MonthlyAggregation {
	return &MonthlyAggregation{
		Decomposer: NewKeyDecomposer(logger, KeyDecomposerConfig{}),
		Normalizer: NewDateNormalizer(logger, dateColumns),
		Aggregator: NewAggregator(logger, AggregatorConfig{}),
	}
}

// Run turns a raw table into the aggregated monthly table
func (m *MonthlyAggregation) Run(ctx context.Context, raw *table.Table) (*table.Table, MonthlyStats, error) {
	var stats MonthlyStats

	required := append([]string{m.Decomposer.cfg.Column, m.Aggregator.cfg.Measure}, m.Normalizer.columns...)
	if err := raw.Require(required...); err != nil {
		return nil, stats, err
	}

	keyed, ds, err := m.Decomposer.Decompose(ctx, raw)
	stats.Decompose = ds
	if err != nil {
		return nil, stats, fmt.Errorf("decompose keys: %w", err)
	}

	normalized, ns, err := m.Normalizer.Normalize(ctx, keyed)
	stats.Normalize = ns
	if err != nil {
		return nil, stats, fmt.Errorf("normalize dates: %w", err)
	}

	agg, as, err := m.Aggregator.Aggregate(ctx, normalized)
	stats.Aggregate = as
	if err != nil {
		return nil, stats, fmt.Errorf("aggregate: %w", err)
	}

	return agg, stats, nil
}
