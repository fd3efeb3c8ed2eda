package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			require.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "wrapper message"))
		assert.NoError(t, WrapErrorf(nil, "wrapper %d", 1))
	})
}

func TestWrapErrorf(t *testing.T) {
	base := errors.New("connection refused")
	err := WrapErrorf(base, "failed to reach %s", "api.example.com")
	assert.EqualError(t, err, "failed to reach api.example.com: connection refused")
	assert.ErrorIs(t, err, base)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("timeout", -1, "must be positive")

	assert.Equal(t, "validation failed for field 'timeout': must be positive (value: -1)", err.Error())

	var vErr *ValidationError
	require.True(t, errors.As(WrapError(err, "config"), &vErr))
	assert.Equal(t, "timeout", vErr.Field)
}

func TestErrorCollector(t *testing.T) {
	var collector ErrorCollector
	assert.False(t, collector.HasErrors())
	assert.NoError(t, collector.Error())

	collector.Add(nil)
	collector.Add(errors.New("first"))
	assert.EqualError(t, collector.Error(), "first")

	collector.AddWithContext(errors.New("second"), "dispatcher")
	collector.AddWithContext(nil, "ignored")

	assert.True(t, collector.HasErrors())
	assert.Len(t, collector.Errors(), 2)
	assert.EqualError(t, collector.Error(), "multiple errors occurred: [first; dispatcher: second]")
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, CombineErrors(nil))
	assert.NoError(t, CombineErrors([]error{nil, nil}))

	only := errors.New("only")
	assert.Same(t, only, CombineErrors([]error{nil, only}))
}
