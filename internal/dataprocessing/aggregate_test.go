package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

func TestAggregatorIdempotent(t *testing.T) {
	raw := rawTable(t,
		[]string{"X", "2024", "1", "A@B@C@D", "2024-01-15", "", "10"},
		[]string{"X", "2024", "1", "A@B@C@D", "2024-01-20", "", "5"},
		[]string{"X", "2024", "3", "A@B@C@D", "", "2026-01-01", "2.5"},
		[]string{"W", "2023", "7", "A@Q", "bad", "", "1"},
	)
	once, _ := runMonthly(t, raw)

	again := NewAggregator(nil, AggregatorConfig{
		GroupBy:      domain.AggregateGroupColumns,
		Measure:      domain.ColTotalShipment,
		ResultColumn: domain.ColTotalShipment,
	})
	twice, stats, err := again.Aggregate(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, once.Len(), stats.Groups)
}

func TestAggregatorCustomGrouping(t *testing.T) {
	tbl := table.New("region", "units")
	for _, r := range []struct {
		region string
		units  int64
	}{{"north", 1}, {"south", 2}, {"north", 3}} {
		require.NoError(t, tbl.Append(table.Row{table.String(r.region), table.Int(r.units)}))
	}

	out, stats, err := NewAggregator(nil, AggregatorConfig{
		GroupBy: []string{"region"},
		Measure: "units",
		SortBy:  []string{"region"},
	}).Aggregate(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "total_units"}, out.Columns())
	assert.Equal(t, [][]string{{"north", "4"}, {"south", "2"}}, out.Records())
	assert.Equal(t, AggregateStats{RowsIn: 3, Groups: 2}, stats)
}

func TestAggregatorErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  AggregatorConfig
		tbl  func() *table.Table
	}{
		{
			name: "missing measure",
			cfg:  AggregatorConfig{GroupBy: []string{"k"}, Measure: "v", SortBy: []string{"k"}},
			tbl:  func() *table.Table { return table.New("k") },
		},
		{
			name: "missing group column",
			cfg:  AggregatorConfig{GroupBy: []string{"k", "z"}, Measure: "v", SortBy: []string{"k"}},
			tbl:  func() *table.Table { return table.New("k", "v") },
		},
		{
			name: "non-numeric measure",
			cfg:  AggregatorConfig{GroupBy: []string{"k"}, Measure: "v", SortBy: []string{"k"}},
			tbl: func() *table.Table {
				tbl := table.New("k", "v")
				_ = tbl.Append(table.Row{table.String("a"), table.String("lots")})
				return tbl
			},
		},
		{
			name: "missing sort column",
			cfg:  AggregatorConfig{GroupBy: []string{"k"}, Measure: "v"},
			tbl:  func() *table.Table { return table.New("k", "v") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewAggregator(nil, tt.cfg).Aggregate(context.Background(), tt.tbl())
			assert.Error(t, err)
		})
	}
}

func TestAggregatorEmptyInput(t *testing.T) {
	out, _ := runMonthly(t, rawTable(t))

	assert.Equal(t, 0, out.Len())
	assert.Len(t, out.Columns(), len(domain.AggregateGroupColumns)+1)
}

func TestMonthlyAggregationBlankShipment(t *testing.T) {
	raw := rawTable(t,
		[]string{"X", "2024", "1", "A@B", "", "", "10"},
		[]string{"X", "2024", "1", "A@B", "", "", ""},
		[]string{"Y", "2024", "2", "S@T", "", "", ""},
	)

	out, stats := runMonthly(t, raw)

	assert.Equal(t, []string{"10", "0"}, column(t, out, domain.ColTotalShipment))
	assert.Equal(t, []string{"X", "Y"}, column(t, out, domain.ColFamilyDesc))
	assert.Equal(t, 3, stats.Aggregate.RowsIn)
}

func TestMonthlyAggregationEmptyFamily(t *testing.T) {
	raw := rawTable(t,
		[]string{"X", "2024", "1", "A@B", "", "", "1"},
		[]string{"", "2024", "3", "A@B", "", "", "2"},
		[]string{"", "2024", "3", "A@B", "", "", "4"},
	)

	out, _ := runMonthly(t, raw)

	// an empty family_desc is its own family and sorts first
	assert.Equal(t, []string{"", "X"}, column(t, out, domain.ColFamilyDesc))
	assert.Equal(t, []string{"6", "1"}, column(t, out, domain.ColTotalShipment))

	summary, err := NewPeriodSummarizer(nil).Summarize(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"", "2024-03", "2024-03"},
		{"X", "2024-01", "2024-01"},
	}, summary.Records())
}

func TestMonthlyAggregationRequiresColumns(t *testing.T) {
	raw := table.New(domain.ColFamilyDesc, domain.ColYear, domain.ColMonth, domain.ColTransitionKey, domain.ColSS, domain.ColEOL)

	_, stats, err := NewMonthlyAggregation(nil, nil).Run(context.Background(), raw)
	require.Error(t, err)

	var mc *table.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, domain.ColShipment, mc.Column)
	assert.Zero(t, stats.Decompose.RowsIn)
}
