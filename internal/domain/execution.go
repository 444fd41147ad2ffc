package domain

import "time"

// State is the execution state of an instance.
type State string

// Execution states. An instance is in exactly one state at a time.
//
//	idle → running → done
//	done → running   (stop time removed)
//	any  → idle      (reset)
const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
)

// String returns the string representation of the State.
func (s State) String() string {
	return string(s)
}

// Priority is the in-slot display priority: done first, then running, then idle.
func (s State) Priority() int {
	switch s {
	case StateDone:
		return 0
	case StateRunning:
		return 1
	default:
		return 2
	}
}

// Execution is the state of an instance together with the timestamps that
// state implies. Fields are unexported so only the three constructors can
// build a value:
//
//	Idle()              no timestamps
//	Running(start)      start only
//	Done(start, stop)   both
//
// The zero value is Idle.
type Execution struct {
	state State
	start time.Time
	stop  time.Time
}

// Idle returns the idle execution.
func Idle() Execution {
	return Execution{state: StateIdle}
}

// Running returns a running execution started at start.
func Running(start time.Time) Execution {
	return Execution{state: StateRunning, start: start}
}

// Done returns a completed execution.
func Done(start, stop time.Time) Execution {
	return Execution{state: StateDone, start: start, stop: stop}
}

// State returns the execution state.
func (e Execution) State() State {
	if e.state == "" {
		return StateIdle
	}
	return e.state
}

// Start returns the start time; ok is false when idle.
func (e Execution) Start() (time.Time, bool) {
	return e.start, e.State() != StateIdle
}

// Stop returns the stop time; ok is false unless done.
func (e Execution) Stop() (time.Time, bool) {
	return e.stop, e.State() == StateDone
}

// StartTime returns the start time or the zero time.
func (e Execution) StartTime() time.Time {
	t, _ := e.Start()
	return t
}

// StopTime returns the stop time or the zero time.
func (e Execution) StopTime() time.Time {
	t, _ := e.Stop()
	return t
}
