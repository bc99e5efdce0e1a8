package dataprocessing

import (
	"context"
	"log/slog"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// FilterStats is the observable outcome of a membership filter
type FilterStats struct {
	Families int // families whose end period matched the target
	Rows     int // content rows kept
	RowsIn   int
}

// MembershipFilter keeps the content rows of families whose catalog end
// period equals a target period
type MembershipFilter struct {
	logger *slog.Logger
}

// NewMembershipFilter creates a filter
func NewMembershipFilter(logger *slog.Logger) *MembershipFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipFilter{logger: logger}
}

// Members returns the families of catalog whose end_period equals target
// exactly, in catalog order without duplicates
func (f *MembershipFilter) Members(catalog *table.Table, target string) ([]string, error) {
	idx, err := catalog.Indexes(domain.ColFamilyDesc, domain.ColEndPeriod)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var members []string
	for _, r := range catalog.Rows() {
		if r[idx[1]].Str() != target {
			continue
		}
		family := r[idx[0]].Str()
		if _, ok := seen[family]; ok {
			continue
		}
		seen[family] = struct{}{}
		members = append(members, family)
	}
	return members, nil
}

// Filter keeps the content rows whose family is a member, in content order.
// An empty member set yields an empty table with content's columns.
func (f *MembershipFilter) Filter(ctx context.Context, catalog, content *table.Table, target string) (*table.Table, FilterStats, error) {
	stats := FilterStats{RowsIn: content.Len()}

	members, err := f.Members(catalog, target)
	if err != nil {
		return nil, stats, err
	}
	family, err := content.Index(domain.ColFamilyDesc)
	if err != nil {
		return nil, stats, err
	}

	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}

	out := content.Filter(func(r table.Row) bool {
		_, ok := set[r[family].Str()]
		return ok
	})

	stats.Families = len(members)
	stats.Rows = out.Len()

	f.logger.InfoContext(ctx, "filtered families by end period",
		slog.String("target_end", target),
		slog.Int("families", stats.Families),
		slog.Int("rows", stats.Rows),
		slog.Int("rows_in", stats.RowsIn))

	return out, stats, nil
}
