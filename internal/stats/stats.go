// Package stats maintains the per-date summary stored next to a month's
// execution entries.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Store is the subset of the record store the recomputer needs.
type Store interface {
	Entries(ctx context.Context, date string) ([]domain.ExecutionEntry, error)
	SaveSummary(ctx context.Context, date string, summary domain.DailySummary) error
}

// Recomputer rebuilds daily summaries from the logged entries.
type Recomputer struct {
	store Store
	clock clock.Clock
}

// NewRecomputer creates a Recomputer. A nil clock uses the system clock.
func NewRecomputer(store Store, c clock.Clock) *Recomputer {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Recomputer{store: store, clock: c}
}

// Summarize computes the summary of one date's entries. Entries reset to
// idle count towards the task total only.
func Summarize(entries []domain.ExecutionEntry) domain.DailySummary {
	summary := domain.DailySummary{SlotMinutes: map[timeslot.Key]int{}}
	tasks := make(map[string]struct{})
	var total time.Duration

	for _, e := range entries {
		tasks[e.TaskPath] = struct{}{}
		if !e.IsCompleted {
			continue
		}
		summary.CompletedTasks++
		total += e.Duration()

		slot := e.Slot
		if !slot.IsValid() {
			slot = timeslot.ClassifyTime(e.StartTime)
		}
		summary.SlotMinutes[slot] += int(e.Duration() / time.Minute)
	}

	summary.TotalTasks = len(tasks)
	summary.TotalMinutes = int(total / time.Minute)
	return summary
}

// Recompute summarizes date and stores the result.
func (r *Recomputer) Recompute(ctx context.Context, date string) error {
	entries, err := r.store.Entries(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to recompute statistics for %s: %w", date, err)
	}

	summary := Summarize(entries)
	summary.UpdatedAt = r.clock.Now().UTC()

	if err := r.store.SaveSummary(ctx, date, summary); err != nil {
		return fmt.Errorf("failed to recompute statistics for %s: %w", date, err)
	}
	return nil
}
