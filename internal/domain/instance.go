package domain

import (
	"time"

	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Instance is one occurrence of a template on one date. Instances are built
// on every load and discarded on the next; only their ID survives, through
// execution entries, running records and markers.
type Instance struct {
	// ID is immutable and stable once persisted.
	ID string

	// Template is shared with every other instance of the same task.
	Template *Template

	// Exec holds the execution state and its timestamps.
	Exec Execution

	// Slot is the display bucket.
	Slot timeslot.Key

	// OriginalSlot is the bucket before the instance was started.
	OriginalSlot timeslot.Key

	// Order positions the instance within its (slot, state) group.
	// Zero means not yet assigned.
	Order int

	// Date is the viewed date (YYYY-MM-DD) the instance was built for.
	Date string

	// Duplicate marks an occurrence created by duplicating another instance.
	Duplicate bool

	// Rating and Comment mirror the optional metadata of a completed entry.
	Rating  *int
	Comment string
}

// State returns the execution state.
func (i *Instance) State() State {
	return i.Exec.State()
}

// Path returns the template path.
func (i *Instance) Path() string {
	if i.Template == nil {
		return ""
	}
	return i.Template.Path
}

// Name returns the template display name.
func (i *Instance) Name() string {
	if i.Template == nil {
		return ""
	}
	return i.Template.Name
}

// IsRoutine reports whether the template is a routine.
func (i *Instance) IsRoutine() bool {
	return i.Template != nil && i.Template.IsRoutine
}

// HasOrder reports whether an order has been assigned.
func (i *Instance) HasOrder() bool {
	return i.Order > 0
}

// OrderKey is the key of this instance in the saved-order map.
// Duplicates share their template path, so they are keyed by instance id.
func (i *Instance) OrderKey() string {
	if i.Duplicate {
		return i.ID
	}
	return i.Path()
}

// StartTime returns the start time, or the zero time when idle.
func (i *Instance) StartTime() time.Time {
	return i.Exec.StartTime()
}

// EntryMatch selects the execution entries logged for this instance.
func (i *Instance) EntryMatch() EntryMatch {
	return EntryMatch{InstanceID: i.ID, Path: i.Path(), Start: i.StartTime()}
}
