// Package errors provides centralized error handling for dayplan.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrFutureDateStart indicates an attempt to start an instance while
	// viewing a date after the real current date.
	ErrFutureDateStart = errors.New("cannot start a task on a future date")

	// ErrNotRunning indicates a stop (or running-only operation) was requested
	// for an instance that is not running.
	ErrNotRunning = errors.New("instance is not running")

	// ErrAlreadyRunning indicates a start was requested for an instance that
	// is already running.
	ErrAlreadyRunning = errors.New("instance is already running")

	// ErrAlreadyDone indicates a start was requested for a completed instance.
	ErrAlreadyDone = errors.New("instance is already completed")

	// ErrMoveNotIdle indicates an attempt to move a running or completed instance.
	ErrMoveNotIdle = errors.New("only idle instances can be moved")

	// ErrInvalidDropPosition indicates a drop index that lands outside the idle
	// part of the target slot.
	ErrInvalidDropPosition = errors.New("invalid drop position")

	// ErrInvalidSlot indicates an unknown slot key.
	ErrInvalidSlot = errors.New("invalid slot key")

	// ErrInvalidTransition indicates an attempt to make an invalid state transition.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidTimeRange indicates a stop time that precedes its start time
	// on the same clock day after midnight correction is impossible.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrRoutineMove indicates an attempt to move a routine occurrence to another date.
	ErrRoutineMove = errors.New("routine tasks cannot be moved to another date")

	// ErrInstanceNotFound indicates the requested instance is not in the session.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrAmbiguousInstance indicates an abbreviated instance id matched more than one instance.
	ErrAmbiguousInstance = errors.New("instance id is ambiguous")

	// ErrTemplateNotFound indicates the requested task template does not exist.
	ErrTemplateNotFound = errors.New("task template not found")

	// ErrTemplateParse indicates a task template file has malformed frontmatter.
	ErrTemplateParse = errors.New("task template parse error")

	// ErrCorruptRecord indicates a persisted record file could not be decoded.
	ErrCorruptRecord = errors.New("persisted record corrupted")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrPathTraversal indicates an attempt to use path traversal in a template path.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrInvalidDate indicates a date string that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidClock indicates a clock time that is not HH:MM.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidTimezone indicates an unknown IANA timezone name.
	ErrConfigInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidDuration indicates that a duration format is invalid.
	ErrInvalidDuration = errors.New("invalid duration format")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageWrite indicates a persisted record could not be written.
	// In-memory state is kept; the next load reconciles.
	ErrStorageWrite = errors.New("storage write failed")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
