package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcli/internal/table"
)

func summaryTable(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := ParseRecords("summary.csv", RawRecords{
		Header: []string{"family_desc", "start_period", "end_period"},
		Rows:   rows,
	}, SummarySchema)
	require.NoError(t, err)
	return tbl
}

func TestMembershipFilterWorkedExample(t *testing.T) {
	summary := summaryTable(t,
		[]string{"A", "2024-01", "2025-05"},
		[]string{"B", "2024-01", "2025-04"},
	)
	content := aggregatedTable(t,
		[]string{"B", "2025", "4", "", "1"},
		[]string{"A", "2025", "5", "", "2"},
		[]string{"A", "2024", "1", "", "3"},
		[]string{"B", "2024", "1", "", "4"},
	)

	out, stats, err := NewMembershipFilter(nil).Filter(context.Background(), summary, content, "2025-05")
	require.NoError(t, err)

	assert.Equal(t, content.Columns(), out.Columns())
	assert.Equal(t, [][]string{
		{"A", "2025", "5", "", "2"},
		{"A", "2024", "1", "", "3"},
	}, out.Records())
	assert.Equal(t, FilterStats{Families: 1, Rows: 2, RowsIn: 4}, stats)
}

func TestMembershipFilter(t *testing.T) {
	summary := summaryTable(t,
		[]string{"A", "2024-01", "2025-05"},
		[]string{"B", "2024-01", "2025-04"},
		[]string{"C", "2025-05", "2025-05"},
		[]string{"D", "2025-05", "2025-05"},
	)
	content := aggregatedTable(t,
		[]string{"A", "2025", "5", "", "1"},
		[]string{"B", "2025", "4", "", "1"},
		[]string{"C", "2025", "5", "", "1"},
		[]string{"E", "2025", "5", "", "1"},
	)

	tests := []struct {
		name         string
		target       string
		wantFamilies int
		wantRows     []string
	}{
		{name: "default target", target: "2025-05", wantFamilies: 3, wantRows: []string{"A", "C"}},
		{name: "single family", target: "2025-04", wantFamilies: 1, wantRows: []string{"B"}},
		{name: "no match", target: "2030-01", wantFamilies: 0, wantRows: []string{}},
		{name: "no normalization", target: "2025-5", wantFamilies: 0, wantRows: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stats, err := NewMembershipFilter(nil).Filter(context.Background(), summary, content, tt.target)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFamilies, stats.Families)
			assert.Equal(t, len(tt.wantRows), stats.Rows)
			assert.Equal(t, tt.wantRows, column(t, out, "family_desc"))
			assert.LessOrEqual(t, out.Len(), content.Len())
			assert.Equal(t, content.Columns(), out.Columns())

			members, err := NewMembershipFilter(nil).Members(summary, tt.target)
			require.NoError(t, err)
			for _, f := range column(t, out, "family_desc") {
				assert.Contains(t, members, f)
			}
		})
	}
}

func TestMembersDeduplicates(t *testing.T) {
	summary := summaryTable(t,
		[]string{"A", "2024-01", "2025-05"},
		[]string{"A", "2024-02", "2025-05"},
	)

	members, err := NewMembershipFilter(nil).Members(summary, "2025-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, members)
}

func TestMembershipFilterMissingColumns(t *testing.T) {
	f := NewMembershipFilter(nil)
	content := aggregatedTable(t)

	_, _, err := f.Filter(context.Background(), table.New("family_desc"), content, "2025-05")
	assert.Error(t, err)

	_, _, err = f.Filter(context.Background(), summaryTable(t), table.New("year"), "2025-05")
	assert.Error(t, err)
}
