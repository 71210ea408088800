package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name:     "with code",
			appError: &AppError{Code: "DB_ERROR", Message: "failed to insert loan"},
			expected: "[DB_ERROR] failed to insert loan",
		},
		{
			name:     "without code",
			appError: &AppError{Message: "failed to insert loan"},
			expected: "failed to insert loan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("amount", "must be positive")

	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)
	assert.Contains(t, ve.Error(), "field 'amount'")
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause, "failed to query schedule")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to query schedule")
}
