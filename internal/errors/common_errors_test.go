package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "canceled error type", errType: ErrTypeCanceled, expected: "CANCELED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewSchemaError("line 4 has 9 fields"),
			wantMessage: "[SCHEMA] line 4 has 9 fields",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("failed to write cleaned table", fmt.Errorf("disk full")),
			wantMessage: "[STORAGE] failed to write cleaned table: disk full",
		},
		{
			name:        "not found",
			appError:    NewNotFoundError("input file"),
			wantMessage: "[NOT_FOUND] input file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewParsingError("failed to open workbook", cause)

	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, cause, err.Unwrap())

	wrapped := fmt.Errorf("load: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewSchemaError("too many fields").
		WithContext("line", 12).
		WithContext("fields", 9)

	assert.Equal(t, 12, err.Context["line"])
	assert.Equal(t, 9, err.Context["fields"])

	bare := &AppError{Type: ErrTypeConfig, Message: "bad"}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("clean: %w", NewCanceledError("cleaning", context.Canceled))

	assert.True(t, IsType(err, ErrTypeCanceled))
	assert.False(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(errors.New("plain"), ErrTypeCanceled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, ErrTypeValidation, NewValidationError("bad input", cause).Type)
	assert.Equal(t, ErrTypeConfig, NewConfigError("bad config", cause).Type)
	assert.NotNil(t, NewAppError(ErrTypeParsing, "x", nil).Context)
}
