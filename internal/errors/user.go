package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
	// Precondition marks errors caused by a rejected user action rather than
	// a failure. They change no state and are not logged as errors.
	Precondition bool
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// User preconditions
	// ===================
	{
		err: ErrFutureDateStart,
		info: ErrorInfo{
			Message:      "Tasks on a future date cannot be started.",
			Action:       "Switch to today, or move the task to today first.",
			Precondition: true,
		},
	},
	{
		err: ErrNotRunning,
		info: ErrorInfo{
			Message:      "This task is not running.",
			Precondition: true,
		},
	},
	{
		err: ErrAlreadyRunning,
		info: ErrorInfo{
			Message:      "This task is already running.",
			Precondition: true,
		},
	},
	{
		err: ErrAlreadyDone,
		info: ErrorInfo{
			Message:      "This task is already completed.",
			Action:       "Duplicate it to run it again, or reset it to idle.",
			Precondition: true,
		},
	},
	{
		err: ErrMoveNotIdle,
		info: ErrorInfo{
			Message:      "Running or completed tasks cannot be moved.",
			Action:       "Reset the task to idle before moving it.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidDropPosition,
		info: ErrorInfo{
			Message:      "Tasks cannot be placed above completed or running tasks.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidSlot,
		info: ErrorInfo{
			Message:      "Unknown time slot.",
			Action:       "Use one of: none, 0:00-8:00, 8:00-12:00, 12:00-16:00, 16:00-0:00.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidTransition,
		info: ErrorInfo{
			Message:      "That action is not possible in the task's current state.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidTimeRange,
		info: ErrorInfo{
			Message:      "The stop time must come after the start time.",
			Precondition: true,
		},
	},
	{
		err: ErrRoutineMove,
		info: ErrorInfo{
			Message:      "Routine tasks cannot be moved to another date.",
			Action:       "Change the routine schedule instead.",
			Precondition: true,
		},
	},
	{
		err: ErrInstanceNotFound,
		info: ErrorInfo{
			Message:      "No task with that id is shown for this date.",
			Action:       "Run 'dayplan list' to see the current ids.",
			Precondition: true,
		},
	},
	{
		err: ErrAmbiguousInstance,
		info: ErrorInfo{
			Message:      "The id matches more than one task.",
			Action:       "Type more characters of the id.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidDate,
		info: ErrorInfo{
			Message:      "Dates must use the YYYY-MM-DD format.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidClock,
		info: ErrorInfo{
			Message:      "Times must use the HH:MM format.",
			Precondition: true,
		},
	},

	// ===================
	// Storage
	// ===================
	{
		err: ErrTemplateNotFound,
		info: ErrorInfo{
			Message: "The task file no longer exists.",
			Action:  "It may have been renamed or deleted; reload the day.",
		},
	},
	{
		err: ErrTemplateParse,
		info: ErrorInfo{
			Message: "A task file has malformed frontmatter.",
			Action:  "Fix the YAML block at the top of the task file.",
		},
	},
	{
		err: ErrCorruptRecord,
		info: ErrorInfo{
			Message: "A saved record could not be read and was ignored.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another process is holding the data files.",
			Action:  "Close other dayplan processes and retry.",
		},
	},
	{
		err: ErrStorageWrite,
		info: ErrorInfo{
			Message: "Saving failed. The change is shown but may not survive a reload.",
			Action:  "Check permissions of the data directory.",
		},
	},
	{
		err: ErrPathTraversal,
		info: ErrorInfo{
			Message: "Task paths must stay inside the tasks directory.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidTimezone,
		info: ErrorInfo{
			Message: "The configured timezone is unknown.",
			Action:  "Use an IANA name such as Asia/Tokyo, or leave it empty for local time.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message:      "Invalid output format.",
			Action:       "Use --output text or --output json.",
			Precondition: true,
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message:      "An invalid argument was provided.",
			Action:       "Check the command help for valid arguments.",
			Precondition: true,
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) (ErrorInfo, bool) {
	if info, ok := errorInfoMap[err]; ok {
		return info, true
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info, true
		}
	}

	return ErrorInfo{Message: err.Error()}, false
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	info, _ := getErrorInfo(err)
	return info.Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info, _ := getErrorInfo(err)
	return info.Message, info.Action
}

// IsPrecondition reports whether err is a rejected user action: no state was
// changed and the error should be shown as a notice, not logged as a failure.
func IsPrecondition(err error) bool {
	if err == nil {
		return false
	}
	info, ok := getErrorInfo(err)
	return ok && info.Precondition
}
