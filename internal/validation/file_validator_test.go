package validation

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "shipcli/internal/errors"
	"shipcli/pkg/contracts/domain"
)

func TestFileValidator_ValidateInputTable(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   bool
		errType   apperrors.ErrorType
		missing   bool
	}{
		{
			name: "existing csv",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "raw.csv")
				require.NoError(t, os.WriteFile(file, []byte("family_desc\n"), 0644))
				return file
			},
		},
		{
			name: "existing workbook",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "raw.XLSX")
				require.NoError(t, os.WriteFile(file, []byte("stub"), 0644))
				return file
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantErr: true,
			errType: apperrors.ErrTypeNotFound,
			missing: true,
		},
		{
			name: "path is directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
			errType: apperrors.ErrTypeNotFound,
			missing: true,
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "raw.json")
				require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
				return file
			},
			wantErr: true,
			errType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(slog.Default())
			err := v.ValidateInputTable(tt.setupFunc(t))

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType), err.Error())
			assert.Equal(t, tt.missing, errors.Is(err, apperrors.ErrMissingInput))
		})
	}
}

func TestFileValidator_ValidateOutputTable(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	t.Run("creates missing directories", func(t *testing.T) {
		out := filepath.Join(dir, "nested", "processed", "agg.csv")
		require.NoError(t, v.ValidateOutputTable(out))
		assert.DirExists(t, filepath.Dir(out))

		entries, err := os.ReadDir(filepath.Dir(out))
		require.NoError(t, err)
		assert.Empty(t, entries, "probe file must be removed")
	})

	t.Run("rejects directory destination", func(t *testing.T) {
		target := filepath.Join(dir, "taken.csv")
		require.NoError(t, os.Mkdir(target, 0755))
		err := v.ValidateOutputTable(target)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		err := v.ValidateOutputTable(filepath.Join(dir, "agg.parquet"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("parent is a file", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))
		err := v.ValidateOutputTable(filepath.Join(blocker, "agg.csv"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	})
}

func TestIsSupportedTable(t *testing.T) {
	assert.True(t, IsSupportedTable("a.csv"))
	assert.True(t, IsSupportedTable("a.CSV"))
	assert.True(t, IsSupportedTable("dir/a.xlsx"))
	assert.True(t, IsSupportedTable("a.xlsm"))
	assert.False(t, IsSupportedTable("a.xls"))
	assert.False(t, IsSupportedTable("a"))
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
		fields  []string
	}{
		{
			name: "valid filter request",
			req: domain.FilterRequest{
				PeriodsPath: "summary.csv",
				InputPath:   "agg.csv",
				OutputPath:  "out.csv",
				TargetEnd:   "2025-05",
			},
		},
		{
			name: "bad target and missing output",
			req: domain.FilterRequest{
				PeriodsPath: "summary.csv",
				InputPath:   "agg.csv",
				TargetEnd:   "May 2025",
			},
			wantErr: true,
			fields:  []string{"OutputPath", "TargetEnd"},
		},
		{
			name:    "summarize without output",
			req:     domain.SummarizeRequest{InputPath: "agg.csv", Print: true},
			wantErr: false,
		},
		{
			name: "unknown pipeline step",
			req: domain.PipelineRequest{
				RawPath:        "raw.csv",
				AggregatedPath: "agg.csv",
				SummaryPath:    "summary.csv",
				FilteredPath:   "filtered.csv",
				TargetEnd:      "2025-05",
				Step:           "scrape",
			},
			wantErr: true,
			fields:  []string{"Step"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.fields, appErr.Context["fields"])
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	for _, p := range []string{"2025-05", "1999-12", "2024-01"} {
		assert.NoError(t, ValidatePeriod(p), p)
	}
	for _, p := range []string{"", "2025-5", "2025-13", "05-2025", "2025/05", "2025-05-01"} {
		assert.Error(t, ValidatePeriod(p), p)
	}
}
