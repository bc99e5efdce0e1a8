package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// KeyDecomposerConfig names the composite key column and its segments
type KeyDecomposerConfig struct {
	Column    string   // composite key column, default transition_key
	Separator string   // default "@"
	Segments  []string // positional segment names, default series/subseries/CPU/size
	// Required is the segment that must be non-empty for a row to survive,
	// default subseries
	Required string
}

// KeyDecomposer splits a composite key into positional columns
type KeyDecomposer struct {
	logger *slog.Logger
	cfg    KeyDecomposerConfig
}

// DecomposeStats counts what the decomposition kept and dropped
type DecomposeStats struct {
	RowsIn  int
	RowsOut int
	Dropped int
}

// NewKeyDecomposer creates a decomposer, filling config defaults
func NewKeyDecomposer(logger *slog.Logger, cfg KeyDecomposerConfig) *KeyDecomposer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Column == "" {
		cfg.Column = domain.ColTransitionKey
	}
	if cfg.Separator == "" {
		cfg.Separator = domain.TransitionKeySeparator
	}
	if len(cfg.Segments) == 0 {
		cfg.Segments = domain.KeySegments
	}
	if cfg.Required == "" {
		cfg.Required = domain.ColSubseries
	}
	return &KeyDecomposer{logger: logger, cfg: cfg}
}

// Decompose appends one column per segment. Segments missing from a short
// key are left empty and segments past the last name are ignored. Rows
// whose required segment is empty are dropped. A segment column that
// already exists is overwritten in place.
func (d *KeyDecomposer) Decompose(ctx context.Context, t *table.Table) (*table.Table, DecomposeStats, error) {
	stats := DecomposeStats{RowsIn: t.Len()}

	keyIdx, err := t.Index(d.cfg.Column)
	if err != nil {
		return nil, stats, err
	}

	columns := t.Columns()
	segIdx := make([]int, len(d.cfg.Segments))
	required := -1
	for n, name := range d.cfg.Segments {
		i, err := t.Index(name)
		if err != nil {
			i = len(columns)
			columns = append(columns, name)
		}
		segIdx[n] = i
		if name == d.cfg.Required {
			required = n
		}
	}

	out, err := t.Map(columns, func(r table.Row) table.Row {
		parts := strings.Split(r[keyIdx].Str(), d.cfg.Separator)
		if required >= 0 && (required >= len(parts) || parts[required] == "") {
			return nil
		}
		nr := make(table.Row, len(columns))
		copy(nr, r)
		for n, i := range segIdx {
			seg := ""
			if n < len(parts) {
				seg = parts[n]
			}
			nr[i] = table.String(seg)
		}
		return nr
	})
	if err != nil {
		return nil, stats, err
	}

	stats.RowsOut = out.Len()
	stats.Dropped = stats.RowsIn - stats.RowsOut

	if stats.Dropped > 0 {
		d.logger.DebugContext(ctx, "dropped rows without a usable key",
			slog.String("column", d.cfg.Column),
			slog.String("required_segment", d.cfg.Required),
			slog.Int("dropped", stats.Dropped))
	}

	return out, stats, nil
}
