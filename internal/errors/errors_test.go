package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// testError is a custom error type used to test default branches
// in UserMessage and Actionable without matching any sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	allErrors := []error{
		dperrors.ErrFutureDateStart,
		dperrors.ErrNotRunning,
		dperrors.ErrMoveNotIdle,
		dperrors.ErrInvalidDropPosition,
		dperrors.ErrInstanceNotFound,
		dperrors.ErrCorruptRecord,
		dperrors.ErrLockTimeout,
		dperrors.ErrStorageWrite,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i == j {
				assert.ErrorIs(t, err1, err2, "error should match itself")
			} else {
				assert.NotErrorIs(t, err1, err2, "different errors should not match")
			}
		}
	}
}

func TestWrap_PreservesErrorChain(t *testing.T) {
	wrapped := dperrors.Wrap(dperrors.ErrLockTimeout, "failed to save day")

	require.ErrorIs(t, wrapped, dperrors.ErrLockTimeout)
	assert.Equal(t, "failed to save day: lock acquisition timeout", wrapped.Error())
}

func TestWrap_NilError(t *testing.T) {
	assert.NoError(t, dperrors.Wrap(nil, "should not appear"))
	assert.NoError(t, dperrors.Wrapf(nil, "task %s", "abc"))
	assert.NoError(t, dperrors.StorageWrite(nil, "log"))
}

func TestWrapf_MessageFormat(t *testing.T) {
	wrapped := dperrors.Wrapf(dperrors.ErrNotRunning, "stop %s at %d", "task", 42)
	assert.Equal(t, "stop task at 42: instance is not running", wrapped.Error())
}

func TestStorageWrite_KeepsBothChains(t *testing.T) {
	cause := fmt.Errorf("disk full: %w", dperrors.ErrLockTimeout)
	err := dperrors.StorageWrite(cause, "execution log")

	require.ErrorIs(t, err, dperrors.ErrStorageWrite)
	require.ErrorIs(t, err, dperrors.ErrLockTimeout)
	assert.Contains(t, err.Error(), "execution log")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"future date", dperrors.ErrFutureDateStart, "future date"},
		{"wrapped move", dperrors.Wrap(dperrors.ErrMoveNotIdle, "move"), "cannot be moved"},
		{"drop", dperrors.ErrInvalidDropPosition, "above completed"},
		{"unknown", testError{msg: "custom failure"}, "custom failure"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, dperrors.UserMessage(tc.err), tc.contains)
		})
	}

	assert.Empty(t, dperrors.UserMessage(nil))
}

func TestActionable(t *testing.T) {
	msg, action := dperrors.Actionable(dperrors.ErrLockTimeout)
	assert.NotEmpty(t, msg)
	assert.Contains(t, action, "retry")

	msg, action = dperrors.Actionable(dperrors.ErrNotRunning)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)

	msg, action = dperrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)
}

func TestIsPrecondition(t *testing.T) {
	assert.True(t, dperrors.IsPrecondition(dperrors.ErrFutureDateStart))
	assert.True(t, dperrors.IsPrecondition(dperrors.Wrap(dperrors.ErrMoveNotIdle, "move")))
	assert.False(t, dperrors.IsPrecondition(dperrors.ErrStorageWrite))
	assert.False(t, dperrors.IsPrecondition(testError{msg: "x"}))
	assert.False(t, dperrors.IsPrecondition(nil))
}

func TestExitCode2Error(t *testing.T) {
	err := dperrors.NewExitCode2Error(dperrors.ErrInvalidArgument)
	assert.True(t, dperrors.IsExitCode2Error(err))
	assert.True(t, dperrors.IsExitCode2Error(fmt.Errorf("outer: %w", err)))
	assert.False(t, dperrors.IsExitCode2Error(dperrors.ErrInvalidArgument))
	require.ErrorIs(t, err, dperrors.ErrInvalidArgument)
}
