package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcli/internal/dataprocessing"
	apperrors "shipcli/internal/errors"
	"shipcli/internal/table"
)

const summaryCSV = "family_desc,start_period,end_period\nA,2024-01,2025-05\nB,2023-11,2025-04\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		location string
		expected Format
	}{
		{"data/raw/extract.csv", FormatCSV},
		{"data/raw/extract.CSV", FormatCSV},
		{"data/raw/extract.txt", FormatCSV},
		{"data/raw/extract", FormatCSV},
		{"data/raw/extract.xlsx", FormatXLSX},
		{"data/raw/Extract.XLSM", FormatXLSX},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatOf(tt.location))
		})
	}
}

func TestStore_LoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	writeFile(t, path, summaryCSV)

	store := NewStore(nil, StoreOptions{})
	tbl, err := store.Load(context.Background(), path, dataprocessing.SummarySchema)
	require.NoError(t, err)

	assert.Equal(t, []string{"family_desc", "start_period", "end_period"}, tbl.Columns())
	assert.Equal(t, [][]string{{"A", "2024-01", "2025-05"}, {"B", "2023-11", "2025-04"}}, tbl.Records())
	assert.True(t, store.Exists(path))
}

func TestStore_LoadMissingInput(t *testing.T) {
	store := NewStore(nil, StoreOptions{})
	dir := t.TempDir()

	_, err := store.Load(context.Background(), filepath.Join(dir, "absent.csv"), dataprocessing.RawSchema)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingInput))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = store.Load(context.Background(), dir, dataprocessing.RawSchema)
	assert.True(t, errors.Is(err, apperrors.ErrMissingInput))
	assert.False(t, store.Exists(dir))
}

func TestStore_LoadMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	writeFile(t, path, "family_desc,start_period\nA,2024-01\n")

	_, err := NewStore(nil, StoreOptions{}).Load(context.Background(), path, dataprocessing.SummarySchema)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))
}

func TestStore_LoadMalformedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	writeFile(t, path, "family_desc,start_period,end_period\n\"A,2024-01,2025-05\n")

	_, err := NewStore(nil, StoreOptions{}).Load(context.Background(), path, dataprocessing.SummarySchema)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, StoreOptions{WriteBOM: true})
	ctx := context.Background()

	src := filepath.Join(dir, "in.csv")
	writeFile(t, src, summaryCSV)
	tbl, err := store.Load(ctx, src, dataprocessing.SummarySchema)
	require.NoError(t, err)

	for _, name := range []string{"processed/out.csv", "processed/out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(dir, name)
			require.NoError(t, store.Save(ctx, dst, tbl))

			reloaded, err := store.Load(ctx, dst, dataprocessing.SummarySchema)
			require.NoError(t, err)
			assert.Equal(t, tbl.Columns(), reloaded.Columns())
			assert.Equal(t, tbl.Records(), reloaded.Records())
		})
	}
}

func TestStore_SaveNumericRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, StoreOptions{})
	ctx := context.Background()

	tbl := table.New("family_desc", "year", "month", "total_shipment")
	require.NoError(t, tbl.Append(table.Row{table.String("X"), table.Int(2024), table.Int(1), table.Int(15)}))
	require.NoError(t, tbl.Append(table.Row{table.String("X"), table.Int(2024), table.Int(2), table.Float(12.5)}))

	schema := table.Schema{Columns: []table.Column{
		{Name: "family_desc", Kind: table.KindString, Required: true},
		{Name: "year", Kind: table.KindInt, Required: true},
		{Name: "month", Kind: table.KindInt, Required: true},
		{Name: "total_shipment", Kind: table.KindFloat, Required: true},
	}}

	for _, name := range []string{"t.csv", "t.xlsx"} {
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(dir, name)
			require.NoError(t, store.Save(ctx, dst, tbl))

			reloaded, err := store.Load(ctx, dst, schema)
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"X", "2024", "1", "15"}, {"X", "2024", "2", "12.5"}}, reloaded.Records())
		})
	}
}

func TestStore_XLSXMirror(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, StoreOptions{XLSXMirror: true})

	tbl := table.New("family_desc", "start_period", "end_period")
	require.NoError(t, tbl.Append(table.Row{table.String("A"), table.String("2024-01"), table.String("2025-05")}))

	dst := filepath.Join(dir, "summary.csv")
	require.NoError(t, store.Save(context.Background(), dst, tbl))

	assert.FileExists(t, dst)
	assert.FileExists(t, filepath.Join(dir, "summary.xlsx"))
}

func TestStore_SaveFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	writeFile(t, blocker, "")

	err := NewStore(nil, StoreOptions{}).Save(context.Background(), filepath.Join(blocker, "out.csv"), table.New("a"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
