package execution

import (
	"fmt"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

const secondsPerDay = 24 * 60 * 60

// Start moves an idle instance to running at now. The instance is placed in
// the bucket of now and its previous bucket is remembered in OriginalSlot.
func Start(inst *domain.Instance, now time.Time) error {
	if inst != nil {
		switch inst.State() {
		case domain.StateRunning:
			return fmt.Errorf("%w: %s", dperrors.ErrAlreadyRunning, inst.Name())
		case domain.StateDone:
			return fmt.Errorf("%w: %s", dperrors.ErrAlreadyDone, inst.Name())
		}
	}
	if err := checkTransition(inst, domain.StateRunning); err != nil {
		return err
	}

	inst.OriginalSlot = inst.Slot
	inst.Slot = timeslot.ClassifyTime(now)
	inst.Exec = domain.Running(now)
	return nil
}

// Stop completes a running instance at the given instant.
// It returns ErrNotRunning, and changes nothing, for any other state.
func Stop(inst *domain.Instance, at time.Time) error {
	if inst == nil || inst.State() != domain.StateRunning {
		return dperrors.ErrNotRunning
	}
	start, _ := inst.Exec.Start()
	inst.Exec = domain.Done(start, at)
	return nil
}

// Reset returns an instance to idle. A running instance goes back to the
// bucket it was started from.
func Reset(inst *domain.Instance) error {
	if err := checkTransition(inst, domain.StateIdle); err != nil {
		return err
	}
	if inst.State() == domain.StateRunning && inst.OriginalSlot != "" {
		inst.Slot = inst.OriginalSlot
	}
	inst.OriginalSlot = ""
	inst.Exec = domain.Idle()
	return nil
}

// Resume turns a completed instance back into a running one that started at
// start. Used when the stop time of a finished run is removed.
func Resume(inst *domain.Instance, start time.Time) error {
	if err := checkTransition(inst, domain.StateRunning); err != nil {
		return err
	}
	if inst.State() != domain.StateDone {
		return fmt.Errorf("%w: only completed instances can be resumed", dperrors.ErrInvalidTransition)
	}
	inst.Exec = domain.Running(start)
	return nil
}

// Retime replaces the timestamps of a completed instance.
func Retime(inst *domain.Instance, start, stop time.Time) error {
	if inst == nil || inst.State() != domain.StateDone {
		return fmt.Errorf("%w: only completed instances can be retimed", dperrors.ErrInvalidTransition)
	}
	if start.IsZero() || stop.IsZero() {
		return fmt.Errorf("%w: start and stop are required", dperrors.ErrInvalidTimeRange)
	}
	inst.Exec = domain.Done(start, stop)
	if inst.IsRoutine() {
		inst.Slot = timeslot.ClassifyTime(start)
	}
	return nil
}

// Duration is the wall-clock difference between start and stop. A negative
// difference means the run crossed midnight and a day is added.
func Duration(start, stop time.Time) time.Duration {
	diff := clock.SecondsOfDay(stop) - clock.SecondsOfDay(start)
	if diff < 0 {
		diff += secondsPerDay
	}
	return time.Duration(diff) * time.Second
}
