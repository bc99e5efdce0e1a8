package exporter

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "family_monthly_shipments.xlsx")

	require.NoError(t, NewXLSXWriter(nil, "").WriteTable(path, sampleTable(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"family_desc", "year", "month", "ss", "total_shipment"}, rows[0])
	assert.Equal(t, []string{"X", "2024", "1", "2024-01", "15"}, rows[1])

	// numeric cells stay numeric
	cellType, err := f.GetCellType(DefaultSheet, "E3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}

func TestXLSXWriter_NamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	require.NoError(t, NewXLSXWriter(nil, "Summary").WriteTable(path, sampleTable(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary"}, f.GetSheetList())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, sampleTable(t))

	out := buf.String()
	assert.Contains(t, out, "family_desc")
	assert.Contains(t, out, "Y, Inc")
	assert.Contains(t, out, "12.5")
}
