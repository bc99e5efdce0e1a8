package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Sentinels for errors.Is checks on the fatal input failures
var (
	// ErrMissingInput marks a source table that does not exist
	ErrMissingInput = stderrors.New("missing input")
	// ErrMissingColumn marks a required column absent from a source table
	ErrMissingColumn = stderrors.New("missing column")
	// ErrCoercion marks a value that could not be read as its column's type
	ErrCoercion = stderrors.New("type coercion failed")
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewMissingInputError reports a source table location that does not exist
func NewMissingInputError(location string, cause error) *AppError {
	if cause == nil {
		cause = ErrMissingInput
	} else {
		cause = fmt.Errorf("%w: %w", ErrMissingInput, cause)
	}
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("input table %s not found", location), cause).
		WithContext("location", location)
}

// NewMissingColumnError reports a required column absent from a table
func NewMissingColumnError(location, column string) *AppError {
	return NewAppError(ErrTypeValidation, fmt.Sprintf("column %q missing from %s", column, location), ErrMissingColumn).
		WithContext("location", location).
		WithContext("column", column)
}

// NewCoercionError reports a cell that could not be read as its column type.
// line is the 1-based line in the source, header included.
func NewCoercionError(location, column string, line int, cause error) *AppError {
	return NewAppError(ErrTypeParsing,
		fmt.Sprintf("%s line %d column %q", location, line, column),
		fmt.Errorf("%w: %w", ErrCoercion, cause)).
		WithContext("location", location).
		WithContext("column", column).
		WithContext("line", line)
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
