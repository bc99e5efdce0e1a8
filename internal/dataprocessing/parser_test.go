package dataprocessing

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "shipcli/internal/errors"
	"shipcli/internal/table"
)

const rawCSV = "\ufefffamily_desc,year,month,transition_key,ss,eol,shipment,region\n" +
	"X,2024,1,A@B@C@D,2024-01-15,,10,north\n" +
	"\n" +
	"X,2024,1.0,A@B@C@D,2024-01-20,,5\n" +
	"\"Y, Inc\",2023,12,A@B,,2026-03-01,2.5,south\n"

func TestReadCSV(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(rawCSV))
	require.NoError(t, err)

	assert.Len(t, raw.Header, 8)
	assert.Len(t, raw.Rows, 3)
	assert.Equal(t, []int{2, 4, 5}, raw.Lines)
}

func TestParseRecords(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(rawCSV))
	require.NoError(t, err)

	tbl, err := ParseRecords("raw.csv", raw, RawSchema)
	require.NoError(t, err)

	// BOM stripped from the first header cell
	assert.True(t, tbl.Has("family_desc"))
	assert.Equal(t, 3, tbl.Len())

	month, err := tbl.Get(1, "month")
	require.NoError(t, err)
	assert.Equal(t, table.KindInt, month.Kind())
	assert.Equal(t, int64(1), month.Int())

	shipment, err := tbl.Get(2, "shipment")
	require.NoError(t, err)
	assert.Equal(t, table.KindFloat, shipment.Kind())
	assert.Equal(t, 2.5, shipment.Float())

	// unlisted columns are strings; short rows are padded
	region, err := tbl.Get(1, "region")
	require.NoError(t, err)
	assert.Equal(t, "", region.Str())

	family, err := tbl.Get(2, "family_desc")
	require.NoError(t, err)
	assert.Equal(t, "Y, Inc", family.Str())
}

func TestParseRecordsFailures(t *testing.T) {
	header := "family_desc,year,month,transition_key,ss,eol,shipment\n"

	tests := []struct {
		name     string
		input    string
		sentinel error
		errType  apperrors.ErrorType
		column   string
		line     int
	}{
		{
			name:     "missing column",
			input:    "family_desc,year,month,transition_key,ss,shipment\nX,2024,1,A@B,,1\n",
			sentinel: apperrors.ErrMissingColumn,
			errType:  apperrors.ErrTypeValidation,
			column:   "eol",
		},
		{
			name:     "non-numeric year",
			input:    header + "X,2024,1,A@B,,,1\nX,twenty,1,A@B,,,1\n",
			sentinel: apperrors.ErrCoercion,
			errType:  apperrors.ErrTypeParsing,
			column:   "year",
			line:     3,
		},
		{
			name:     "fractional month",
			input:    header + "X,2024,1.5,A@B,,,1\n",
			sentinel: apperrors.ErrCoercion,
			errType:  apperrors.ErrTypeParsing,
			column:   "month",
			line:     2,
		},
		{
			name:     "month out of range",
			input:    header + "X,2024,13,A@B,,,1\n",
			sentinel: apperrors.ErrCoercion,
			errType:  apperrors.ErrTypeParsing,
			column:   "month",
			line:     2,
		},
		{
			name:     "year out of range",
			input:    header + "X,24,1,A@B,,,1\n",
			sentinel: apperrors.ErrCoercion,
			errType:  apperrors.ErrTypeParsing,
			column:   "year",
			line:     2,
		},
		{
			name:     "non-numeric shipment",
			input:    header + "X,2024,1,A@B,,,lots\n",
			sentinel: apperrors.ErrCoercion,
			errType:  apperrors.ErrTypeParsing,
			column:   "shipment",
			line:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)

			_, err = ParseRecords("raw.csv", raw, RawSchema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), err.Error())
			assert.True(t, apperrors.IsType(err, tt.errType))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.column, appErr.Context["column"])
			if tt.line > 0 {
				assert.Equal(t, tt.line, appErr.Context["line"])
			}
		})
	}
}

func TestParseRecordsBlankShipment(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("family_desc,year,month,transition_key,ss,eol,shipment\n" +
		"X,2024,1,A@B,,,10\n" +
		"X,2024,1,A@B,,,\n"))
	require.NoError(t, err)

	tbl, err := ParseRecords("raw.csv", raw, RawSchema)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	shipment, err := tbl.Get(1, "shipment")
	require.NoError(t, err)
	assert.True(t, shipment.IsBlank())
}

func TestParseRecordsExtraValues(t *testing.T) {
	header := "family_desc,year,month,transition_key,ss,eol,shipment\n"

	t.Run("non-blank extra value fails", func(t *testing.T) {
		raw, err := ReadCSV(strings.NewReader(header + "X,2024,1,A@B,,,1\nX,2024,1,A@B,,,1,999\n"))
		require.NoError(t, err)

		_, err = ParseRecords("raw.csv", raw, RawSchema)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		assert.Contains(t, err.Error(), "line 3")

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 3, appErr.Context["line"])
	})

	t.Run("trailing blank values are ignored", func(t *testing.T) {
		raw, err := ReadCSV(strings.NewReader(header + "X,2024,1,A@B,,,1,,\n"))
		require.NoError(t, err)

		tbl, err := ParseRecords("raw.csv", raw, RawSchema)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"X", "2024", "1", "A@B", "", "", "1"}}, tbl.Records())
	})
}

func TestParseRecordsEmptySource(t *testing.T) {
	_, err := ParseRecords("empty.csv", RawRecords{}, RawSchema)
	assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))

	tbl, err := ParseRecords("header-only.csv", RawRecords{Header: []string{"family_desc", "start_period", "end_period"}}, SummarySchema)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestReadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.xlsx")

	f := excelize.NewFile()
	sheet := "Transitions"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	rows := [][]interface{}{
		{"family_desc", "year", "month", "transition_key", "ss", "eol", "shipment"},
		{"X", 2024, 1, "A@B@C@D", "2024-01-15", "", 10},
		{},
		{"X", 2024, 1, "A@B@C@D", "2024-01-20", "", 5.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	raw, err := ReadWorkbook(path, "")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, raw.Lines)

	tbl, err := ParseRecords(path, raw, RawSchema)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"X", "2024", "1", "A@B@C@D", "2024-01-15", "", "10"},
		{"X", "2024", "1", "A@B@C@D", "2024-01-20", "", "5.5"},
	}, tbl.Records())

	_, err = ReadWorkbook(path, "Missing")
	assert.Error(t, err)
}
