package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// NormalizeStats counts sentinel substitutions per date column
type NormalizeStats struct {
	// Unparsed counts non-empty values that could not be read as a date
	Unparsed map[string]int
	// Empty counts values that were already empty
	Empty map[string]int
}

// TotalUnparsed sums Unparsed over all columns
func (s NormalizeStats) TotalUnparsed() int {
	n := 0
	for _, c := range s.Unparsed {
		n += c
	}
	return n
}

// DateNormalizer rewrites date columns to the canonical YYYY-MM period.
// Values that are empty or cannot be parsed become "".
type DateNormalizer struct {
	logger  *slog.Logger
	columns []string
	loc     *time.Location
}

// NewDateNormalizer creates a normalizer for columns, default ss and eol.
// Dates without an explicit zone are read as UTC.
func NewDateNormalizer(logger *slog.Logger, columns []string) *DateNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(columns) == 0 {
		columns = domain.DateColumns
	}
	return &DateNormalizer{
		logger:  logger,
		columns: append([]string(nil), columns...),
		loc:     time.UTC,
	}
}

// Normalize returns a copy of t with every configured column rewritten
func (n *DateNormalizer) Normalize(ctx context.Context, t *table.Table) (*table.Table, NormalizeStats, error) {
	stats := NormalizeStats{
		Unparsed: make(map[string]int, len(n.columns)),
		Empty:    make(map[string]int, len(n.columns)),
	}

	idx, err := t.Indexes(n.columns...)
	if err != nil {
		return nil, stats, err
	}

	out, err := t.Map(t.Columns(), func(r table.Row) table.Row {
		nr := make(table.Row, len(r))
		copy(nr, r)
		for k, i := range idx {
			raw := strings.TrimSpace(r[i].Str())
			if raw == "" {
				stats.Empty[n.columns[k]]++
				nr[i] = table.String("")
				continue
			}
			period, ok := n.Period(raw)
			if !ok {
				stats.Unparsed[n.columns[k]]++
			}
			nr[i] = table.String(period)
		}
		return nr
	})
	if err != nil {
		return nil, stats, err
	}

	for col, c := range stats.Unparsed {
		if c > 0 {
			n.logger.DebugContext(ctx, "unparseable dates replaced with empty period",
				slog.String("column", col),
				slog.Int("count", c))
		}
	}

	return out, stats, nil
}

// monthLayouts are month-and-year forms without a day, read as the first
// of the month
var monthLayouts = []string{"Jan 2006", "January 2006", "Jan-2006", "January-2006", "Jan, 2006", "January, 2006"}

// Period parses one date value and formats it as YYYY-MM. It reports false
// when the value is not a date or its year does not fit in four digits.
func (n *DateNormalizer) Period(raw string) (string, bool) {
	ts, ok := parseMonthName(strings.TrimSpace(raw), n.loc)
	if !ok {
		var err error
		ts, err = dateparse.ParseIn(raw, n.loc, dateparse.RetryAmbiguousDateWithSwap(true))
		if err != nil {
			return "", false
		}
	}
	if ts.Year() < 0 || ts.Year() > 9999 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", ts.Year(), int(ts.Month())), true
}

func parseMonthName(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range monthLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
