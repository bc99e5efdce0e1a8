package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// PeriodSummarizer derives each family's first and last shipment period.
// The period comes from the year and month columns, never from ss or eol.
type PeriodSummarizer struct {
	logger *slog.Logger
}

// NewPeriodSummarizer creates a summarizer
func NewPeriodSummarizer(logger *slog.Logger) *PeriodSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeriodSummarizer{logger: logger}
}

// ShipmentPeriod formats year and month as YYYY-MM
func ShipmentPeriod(year, month int64) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// Summarize returns family_desc, start_period, end_period sorted by family
func (s *PeriodSummarizer) Summarize(ctx context.Context, agg *table.Table) (*table.Table, error) {
	idx, err := agg.Indexes(domain.ColFamilyDesc, domain.ColYear, domain.ColMonth)
	if err != nil {
		return nil, err
	}
	family, year, month := idx[0], idx[1], idx[2]

	for _, r := range agg.Rows() {
		if !r[year].IsNumeric() || !r[month].IsNumeric() {
			return nil, fmt.Errorf("year %q and month %q must be numeric", r[year].Str(), r[month].Str())
		}
	}

	periods, err := agg.Map([]string{domain.ColFamilyDesc, domain.ColPeriod}, func(r table.Row) table.Row {
		return table.Row{r[family], table.String(ShipmentPeriod(r[year].Int(), r[month].Int()))}
	})
	if err != nil {
		return nil, err
	}

	groups, err := table.GroupBy(periods, domain.ColFamilyDesc)
	if err != nil {
		return nil, err
	}

	out := table.New(domain.SummaryColumns...)
	for _, g := range groups {
		lo, hi := table.MinMax(periods, g.Rows, 1)
		if err := out.Append(table.Row{g.Key[0], lo, hi}); err != nil {
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "summarized family periods",
		slog.Int("rows_in", agg.Len()),
		slog.Int("families", out.Len()))

	return out, nil
}

// FamilyPeriods converts a summary table into typed records
func FamilyPeriods(summary *table.Table) ([]domain.FamilyPeriod, error) {
	idx, err := summary.Indexes(domain.SummaryColumns...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FamilyPeriod, 0, summary.Len())
	for _, r := range summary.Rows() {
		out = append(out, domain.FamilyPeriod{
			FamilyDesc:  r[idx[0]].Str(),
			StartPeriod: r[idx[1]].Str(),
			EndPeriod:   r[idx[2]].Str(),
		})
	}
	return out, nil
}
