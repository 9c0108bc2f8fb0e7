package contextutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrorCodeServer, SeverityError, "server returned status 500", "database unavailable")
	assert.Equal(t, "SERVER_ERROR: server returned status 500 - database unavailable", err.Error())

	bare := NewAppError(ErrorCodeConnection, SeverityError, "connection error", "")
	assert.Equal(t, "CONNECTION_ERROR: connection error", bare.Error())
}

func TestAppError_Is(t *testing.T) {
	err := NewAppError(ErrorCodeAuthFailure, SeverityWarn, "token rejected", "")
	assert.True(t, errors.Is(err, ErrAuthFailure))
	assert.False(t, errors.Is(err, ErrConnection))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewAppErrorWithCause(ErrorCodeConnection, SeverityError, "connection error", cause.Error(), cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWrapError(t *testing.T) {
	t.Run("preserves app error code", func(t *testing.T) {
		inner := NewAppError(ErrorCodeValidationFailed, SeverityWarn, "bad input", "")
		wrapped := WrapError(inner, "failed to submit")
		assert.Equal(t, ErrorCodeValidationFailed, GetErrorCode(wrapped))
		assert.True(t, errors.Is(wrapped, ErrValidationFailed))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		wrapped := WrapError(fmt.Errorf("boom"), "failed to do thing")
		assert.Equal(t, ErrorCodeInternalError, GetErrorCode(wrapped))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "context"))
	})
}

func TestGetErrorSeverity(t *testing.T) {
	assert.Equal(t, SeverityWarn, GetErrorSeverity(ErrAuthFailure))
	assert.Equal(t, SeverityError, GetErrorSeverity(fmt.Errorf("plain")))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "server error shows detail verbatim",
			err:      NewAppError(ErrorCodeServer, SeverityError, "server returned status 400", "Word not found in dictionary"),
			expected: "Word not found in dictionary",
		},
		{
			name:     "server error without detail falls back to message",
			err:      NewAppError(ErrorCodeServer, SeverityError, "server returned status 500", ""),
			expected: "server returned status 500",
		},
		{
			name:     "connection error hides detail",
			err:      NewAppErrorWithCause(ErrorCodeConnection, SeverityError, "Connection error", "dial tcp refused", nil),
			expected: "Connection error",
		},
		{
			name:     "plain error gets generic message",
			err:      fmt.Errorf("internal detail"),
			expected: "An error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestIsError(t *testing.T) {
	err := WrapError(ErrSuperseded, "autocomplete")
	assert.True(t, IsError(err, ErrSuperseded))
	assert.False(t, IsError(err, ErrServer))
}
