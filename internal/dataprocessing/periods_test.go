package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// aggregatedTable builds a minimal aggregated table with one row per
// (family, year, month)
func aggregatedTable(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	header := []string{"family_desc", "year", "month", "ss", "total_shipment"}
	schema := table.Schema{Columns: []table.Column{
		{Name: "family_desc", Kind: table.KindString, Required: true},
		{Name: "year", Kind: table.KindInt, Required: true},
		{Name: "month", Kind: table.KindInt, Required: true},
		{Name: "total_shipment", Kind: table.KindFloat, Required: true},
	}}
	tbl, err := ParseRecords("agg.csv", RawRecords{Header: header, Rows: rows}, schema)
	require.NoError(t, err)
	return tbl
}

func TestPeriodSummarizerWorkedExample(t *testing.T) {
	agg := aggregatedTable(t,
		[]string{"F", "2023", "11", "", "1"},
		[]string{"F", "2024", "2", "", "1"},
		[]string{"F", "2024", "1", "", "1"},
	)

	out, err := NewPeriodSummarizer(nil).Summarize(context.Background(), agg)
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryColumns, out.Columns())
	assert.Equal(t, [][]string{{"F", "2023-11", "2024-02"}}, out.Records())
}

func TestPeriodSummarizer(t *testing.T) {
	agg := aggregatedTable(t,
		[]string{"Zeta", "2025", "5", "1999-01", "3"},
		[]string{"Alpha", "2024", "12", "", "1"},
		[]string{"Alpha", "2024", "9", "", "1"},
		[]string{"Mono", "2022", "3", "", "1"},
		[]string{"Mono", "2022", "3", "2030-01", "2"},
		[]string{"Alpha", "2025", "1", "", "1"},
	)

	out, err := NewPeriodSummarizer(nil).Summarize(context.Background(), agg)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Alpha", "2024-09", "2025-01"},
		{"Mono", "2022-03", "2022-03"},
		{"Zeta", "2025-05", "2025-05"},
	}, out.Records())

	periods, err := FamilyPeriods(out)
	require.NoError(t, err)
	for _, p := range periods {
		assert.LessOrEqual(t, p.StartPeriod, p.EndPeriod, p.FamilyDesc)
	}
	assert.Equal(t, domain.FamilyPeriod{FamilyDesc: "Mono", StartPeriod: "2022-03", EndPeriod: "2022-03"}, periods[1])
}

func TestPeriodSummarizerIgnoresDateColumns(t *testing.T) {
	// ss carries a different period; only year/month count
	agg := aggregatedTable(t, []string{"F", "2024", "6", "2019-01", "1"})

	out, err := NewPeriodSummarizer(nil).Summarize(context.Background(), agg)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"F", "2024-06", "2024-06"}}, out.Records())
}

func TestPeriodSummarizerErrors(t *testing.T) {
	_, err := NewPeriodSummarizer(nil).Summarize(context.Background(), table.New("family_desc", "year"))
	assert.Error(t, err)

	tbl := table.New("family_desc", "year", "month")
	require.NoError(t, tbl.Append(table.Row{table.String("F"), table.String("twenty"), table.Int(1)}))
	_, err = NewPeriodSummarizer(nil).Summarize(context.Background(), tbl)
	assert.Error(t, err)
}

func TestShipmentPeriod(t *testing.T) {
	assert.Equal(t, "2024-01", ShipmentPeriod(2024, 1))
	assert.Equal(t, "2024-12", ShipmentPeriod(2024, 12))
}
