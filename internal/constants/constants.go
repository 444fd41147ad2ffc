// Package constants provides centralized constant values used throughout dayplan.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names used under the data directory.
const (
	// DataHome is the hidden directory name where dayplan stores all its data.
	// This directory is created in the user's home directory.
	DataHome = ".dayplan"

	// TasksDir holds one markdown file per task template.
	TasksDir = "tasks"

	// ExecutionLogsDir holds one JSON file per month of execution entries.
	ExecutionLogsDir = "logs"

	// DaysDir holds one JSON file per date with markers and saved orders.
	DaysDir = "days"

	// LogsDir is the directory name where application log files are stored.
	LogsDir = "log"
)

// File names used for state persistence.
const (
	// RunningFileName stores the currently-running records.
	RunningFileName = "running.json"

	// TemplateExtension is the file extension of task template files.
	TemplateExtension = ".md"

	// RecordExtension is the file extension of persisted JSON records.
	RecordExtension = ".json"

	// LockExtension is appended to a record path to form its lock file.
	LockExtension = ".lock"

	// CLILogFileName is the name of the rotating application log file.
	CLILogFileName = "dayplan.log"

	// GlobalConfigName is the name of the global configuration file.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the per-project configuration directory.
	ProjectConfigDir = ".dayplan"
)

// Order allocation constants.
const (
	// OrderStep is the spacing between neighbours after renormalization.
	OrderStep = 100

	// OrderHalfStep places an insertion midway into a renormalized gap.
	OrderHalfStep = 50

	// OrderMinGapAboveOthers keeps idle orders above done/running orders
	// of the same slot when inserting at the top of the idle group.
	OrderMinGapAboveOthers = 10

	// OrderFloor is the smallest order handed out for a top insertion.
	OrderFloor = 50
)

// Timeouts and intervals.
const (
	// DefaultLockTimeout is the maximum duration to wait for a record lock.
	DefaultLockTimeout = 5 * time.Second

	// LockRetryInterval is the pause between lock attempts.
	LockRetryInterval = 50 * time.Millisecond

	// DisplayRefreshInterval is the elapsed-time display refresh in watch mode.
	DisplayRefreshInterval = time.Second

	// DefaultReloadBurst is how many back-to-back reloads watch mode allows
	// before coalescing file events.
	DefaultReloadBurst = 3

	// ReloadCoalesceInterval is the refill period of the reload limiter.
	ReloadCoalesceInterval = 500 * time.Millisecond
)

// Log rotation defaults.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to keep.
	LogMaxBackups = 5

	// LogMaxAgeDays is the number of days to keep rotated files.
	LogMaxAgeDays = 30

	// LogCompress controls gzip compression of rotated files.
	LogCompress = true
)

// RecordSchemaVersion is the version written into every persisted record file.
// Version 1 files used bare path strings for markers; they are migrated on read.
const RecordSchemaVersion = 2
