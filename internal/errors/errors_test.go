package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
	}{
		{"config code", ErrCodeConfigInvalid, CategoryConfig},
		{"storage code", ErrCodeQueryFailed, CategoryStorage},
		{"integrity code", ErrCodeTagsCorrupt, CategoryIntegrity},
		{"validation code", ErrCodeQueryEmpty, CategoryValidation},
		{"internal code", ErrCodeInternal, CategoryInternal},
		{"malformed code", "ERR", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := New(ErrCodeQueryFailed, "query failed", cause)

	assert.Equal(t, "[ERR_202_QUERY_FAILED] query failed", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestError_IsMatchesByCode(t *testing.T) {
	a := New(ErrCodeQueryEmpty, "query text is required", nil)
	b := New(ErrCodeQueryEmpty, "different message", nil)
	c := New(ErrCodeInvalidDate, "bad date", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	require.Nil(t, Wrap(ErrCodeQueryFailed, nil))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validationf(ErrCodeInvalidPage, "page %d out of range", 0)))
	assert.True(t, IsValidation(fmt.Errorf("handler: %w", New(ErrCodeInvalidDate, "bad", nil))))
	assert.False(t, IsValidation(StorageError("query failed", fmt.Errorf("locked"))))
	assert.False(t, IsValidation(nil))
	assert.False(t, IsValidation(fmt.Errorf("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(StorageError("query failed", nil)))
	assert.False(t, IsRetryable(New(ErrCodeQueryEmpty, "empty", nil)))
	assert.False(t, IsRetryable(nil))
}

func TestSeverity_TagCorruptionIsWarning(t *testing.T) {
	// A tag set that fails to deserialize degrades one record, not the request.
	err := New(ErrCodeTagsCorrupt, "tags column is not valid JSON", nil)
	assert.Equal(t, SeverityWarning, err.Severity)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, GetCode(New(ErrCodeNotFound, "no such link", nil)))
	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
}
