// Package engine composes the registry, the order allocator and the execution
// lifecycle into the action surface for one viewed date.
//
// A Session is built by Load and mutated in place by every action. Actions
// check their preconditions before touching anything; once past them the
// in-memory session is updated even when a write fails, and the failure is
// returned wrapped in ErrStorageWrite. The next Load reconciles.
//
// Import rules:
//   - CAN import: internal/clock, internal/domain, internal/errors, internal/execution,
//     internal/order, internal/registry, internal/timeslot, std lib
//   - MUST NOT import: internal/store, internal/cli, internal/tui
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
)

// TemplateStore reads templates and writes back the fields the engine owns.
type TemplateStore interface {
	LoadTemplates(ctx context.Context) ([]*domain.Template, error)
	SetTargetDate(ctx context.Context, path, date string) error
	SetRoutine(ctx context.Context, path string, cfg domain.RoutineConfig) error
	ClearRoutine(ctx context.Context, path, removedOn string) error
	DeleteTemplate(ctx context.Context, path string) error
}

// RecordStore persists execution entries, running records and day state.
type RecordStore interface {
	Entries(ctx context.Context, date string) ([]domain.ExecutionEntry, error)
	ReplaceEntry(ctx context.Context, date string, match domain.EntryMatch, entry domain.ExecutionEntry) error
	MarkIncomplete(ctx context.Context, date string, match domain.EntryMatch) (int, error)
	DeleteEntries(ctx context.Context, date string, match domain.EntryMatch) (int, error)

	LoadRunning(ctx context.Context) ([]domain.RunningRecord, error)
	SaveRunning(ctx context.Context, rec domain.RunningRecord) error
	ClearRunning(ctx context.Context, instanceID string) (bool, error)

	LoadDay(ctx context.Context, date string) (*domain.DayState, error)
	SaveDay(ctx context.Context, date string, day *domain.DayState) error
}

// StatsRecomputer refreshes the daily summary of a date.
type StatsRecomputer interface {
	Recompute(ctx context.Context, date string) error
}

// Engine holds the collaborators shared by every session.
type Engine struct {
	templates TemplateStore
	records   RecordStore
	stats     StatsRecomputer
	clock     clock.Clock
	loc       *time.Location
	logger    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStats enables the daily statistics recompute after stops and resets.
func WithStats(r StatsRecomputer) Option {
	return func(e *Engine) { e.stats = r }
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLocation sets the time zone dates and slots are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine.
func New(templates TemplateStore, records RecordStore, opts ...Option) *Engine {
	e := &Engine{
		templates: templates,
		records:   records,
		clock:     clock.RealClock{},
		loc:       time.Local,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "engine").Logger()
	return e
}

// Now returns the current instant in the engine's location.
func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.loc)
}

// Today returns the current date key.
func (e *Engine) Today() string {
	return clock.DateKey(e.Now())
}

// Location returns the engine's time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) withLogger(ctx context.Context) context.Context {
	return e.logger.WithContext(ctx)
}
