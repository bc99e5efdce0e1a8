package operations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "shipcli/internal/errors"
)

func TestOperationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "validation",
			err:      NewValidationError(StepIDFilter, errors.New("bad period")),
			wantType: ErrorTypeValidation,
			wantMsg:  "[validation] filter: step validation failed: bad period",
		},
		{
			name:     "dependency",
			err:      NewDependencyError(StepIDSummarize, DataTypeAggregated, nil),
			wantType: ErrorTypeDependency,
			wantMsg:  "[dependency] summarize: required input aggregated_table is not available",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("scrape"),
			wantType: ErrorTypeNotFound,
		},
		{
			name:     "fatal without step",
			err:      NewFatalError("no steps registered", nil),
			wantType: ErrorTypeFatal,
			wantMsg:  "[fatal] no steps registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, GetErrorType(tt.err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, tt.err.Error())
			}
		})
	}
}

func TestOperationErrorUnwrap(t *testing.T) {
	cause := apperrors.NewMissingInputError("data/raw/extract.csv", nil)
	err := NewDependencyError(StepIDAggregate, DataTypeRaw, cause)

	assert.True(t, errors.Is(err, apperrors.ErrMissingInput))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	cancelled := NewCancellationError(StepIDFilter, context.Canceled)
	assert.True(t, errors.Is(cancelled, context.Canceled))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, StepIDAggregate))

	plain := WrapError(errors.New("disk full"), StepIDAggregate)
	assert.Equal(t, ErrorTypeExecution, plain.Type)
	assert.Equal(t, StepIDAggregate, plain.Step)

	existing := NewValidationError("", errors.New("x"))
	wrapped := WrapError(fmt.Errorf("outer: %w", existing), StepIDFilter)
	require.Same(t, existing, wrapped)
	assert.Equal(t, StepIDFilter, wrapped.Step)

	assert.Equal(t, ErrorTypeExecution, GetErrorType(errors.New("plain")))
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
}
