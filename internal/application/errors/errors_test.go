package apperrors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("check", "unknown check ID")
	assert.Equal(t, "validation failed: check: unknown check ID", err.Error())

	err = NewValidationError("check", "unknown check IDs", "foo", "bar")
	assert.Equal(t, "validation failed: check: unknown check IDs (2 issues)", err.Error())
}

func TestExecutionError_Unwrap(t *testing.T) {
	err := NewExecutionError("deps", "failed to start", os.ErrNotExist)
	assert.Equal(t, "execution failed for check deps: failed to start: file does not exist", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)

	wrapped := fmt.Errorf("gate: %w", err)
	var execErr *ExecutionError
	require.True(t, errors.As(wrapped, &execErr))
	assert.Equal(t, "deps", execErr.CheckID)
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("settings", "no project name", nil)
	assert.Equal(t, "configuration error (settings): no project name", err.Error())
	assert.Nil(t, errors.Unwrap(err))

	cause := errors.New("yaml: bad indent")
	err = NewConfigurationError("settings", "failed to parse", cause)
	assert.Contains(t, err.Error(), "yaml: bad indent")
	assert.ErrorIs(t, err, cause)
}
