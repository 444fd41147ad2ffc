// Package execution implements the idle/running/done lifecycle of an instance.
//
// Functions here mutate a single instance in memory. Persisting the result,
// enforcing the single running instance and writing logs belong to the engine.
//
// Import rules:
//   - CAN import: internal/clock, internal/domain, internal/errors, internal/timeslot, std lib
//   - MUST NOT import: internal/store, internal/engine, internal/cli
package execution

import (
	"fmt"
	"slices"

	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// ValidTransitions lists the allowed state changes.
//
//	Idle    → Running
//	Running → Done, Idle
//	Done    → Running, Idle
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[domain.State][]domain.State{
	domain.StateIdle:    {domain.StateRunning},
	domain.StateRunning: {domain.StateDone, domain.StateIdle},
	domain.StateDone:    {domain.StateRunning, domain.StateIdle},
}

// IsValidTransition reports whether from → to is allowed.
// Staying in the same state is not a transition.
func IsValidTransition(from, to domain.State) bool {
	if from == to {
		return false
	}
	return slices.Contains(ValidTransitions[from], to)
}

func checkTransition(inst *domain.Instance, to domain.State) error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", dperrors.ErrInvalidTransition)
	}
	from := inst.State()
	if !IsValidTransition(from, to) {
		return fmt.Errorf("%w: cannot transition from %s to %s", dperrors.ErrInvalidTransition, from, to)
	}
	return nil
}
