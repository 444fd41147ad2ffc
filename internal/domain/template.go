package domain

import (
	"slices"
	"time"

	"github.com/mrz1836/dayplan/internal/timeslot"
)

// RoutineType is the recurrence rule of a routine template.
type RoutineType string

// Routine types. Weekly and custom both match on the Weekdays set; weekly
// templates carry a single weekday.
const (
	RoutineNone   RoutineType = ""
	RoutineDaily  RoutineType = "daily"
	RoutineWeekly RoutineType = "weekly"
	RoutineCustom RoutineType = "custom"
)

// IsValid reports whether r is a known routine type.
func (r RoutineType) IsValid() bool {
	switch r {
	case RoutineNone, RoutineDaily, RoutineWeekly, RoutineCustom:
		return true
	default:
		return false
	}
}

// Template is a persistent task definition, identified by its path.
// The engine reads templates and writes back only the target date and the
// routine configuration.
type Template struct {
	// Path is the template's identity, relative to the tasks directory.
	Path string `json:"path"`

	// Name is the display name (file base name without extension).
	Name string `json:"name"`

	// IsRoutine marks a recurring template.
	IsRoutine bool `json:"isRoutine"`

	// RoutineType selects the recurrence rule.
	RoutineType RoutineType `json:"routineType,omitempty"`

	// RoutineStart and RoutineEnd bound the active window (YYYY-MM-DD, optional).
	RoutineStart string `json:"routineStart,omitempty"`
	RoutineEnd   string `json:"routineEnd,omitempty"`

	// ScheduledTime is the optional fixed clock time ("HH:MM").
	ScheduledTime string `json:"scheduledTime,omitempty"`

	// Weekdays is the weekday set for weekly/custom routines.
	Weekdays []time.Weekday `json:"weekdays,omitempty"`

	// TargetDate is the date a one-off task is planned for (YYYY-MM-DD).
	TargetDate string `json:"targetDate,omitempty"`

	// Project is an optional project reference.
	Project string `json:"project,omitempty"`

	// CreatedDate is the creation date (YYYY-MM-DD), used as a visibility fallback.
	CreatedDate string `json:"createdDate,omitempty"`

	// RoutineRemovedOn is the date the routine flag was cleared; the task stays
	// visible on that date.
	RoutineRemovedOn string `json:"routineRemovedOn,omitempty"`

	// Synthetic marks a placeholder built from a record whose template file is gone.
	Synthetic bool `json:"synthetic,omitempty"`
}

// ScheduledSlot returns the bucket of ScheduledTime, or None.
func (t *Template) ScheduledSlot() timeslot.Key {
	return timeslot.ClassifyClock(t.ScheduledTime)
}

// ScheduledMinutes returns ScheduledTime in minutes since midnight.
func (t *Template) ScheduledMinutes() (int, bool) {
	m, err := timeslot.ParseClock(t.ScheduledTime)
	if err != nil {
		return 0, false
	}
	return m, true
}

// HasWeekday reports whether d is in the routine's weekday set.
func (t *Template) HasWeekday(d time.Weekday) bool {
	return slices.Contains(t.Weekdays, d)
}

// Synthesize builds a placeholder template for history or a running record
// whose template can no longer be found.
func Synthesize(path, name string) *Template {
	if name == "" {
		name = path
	}
	return &Template{Path: path, Name: name, Synthetic: true}
}

// RoutineConfig is the routine part of a template written back by the engine.
type RoutineConfig struct {
	RoutineType   RoutineType    `json:"routineType"`
	ScheduledTime string         `json:"scheduledTime,omitempty"`
	Weekdays      []time.Weekday `json:"weekdays,omitempty"`
	Start         string         `json:"start,omitempty"`
	End           string         `json:"end,omitempty"`
}
