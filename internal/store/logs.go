package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

func (s *FileStore) monthFile(month string) string {
	return filepath.Join(s.root, constants.ExecutionLogsDir, month+constants.RecordExtension)
}

// LoadMonth reads the execution log of month (YYYY-MM). A missing file yields
// an empty log; a malformed one yields an empty log and ErrCorruptRecord.
func (s *FileStore) LoadMonth(ctx context.Context, month string) (*domain.MonthLog, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if _, err := time.Parse(clock.MonthLayout, month); err != nil {
		return nil, fmt.Errorf("%w: month %q", dperrors.ErrInvalidDate, month)
	}

	log := domain.NewMonthLog()
	if _, err := readJSON(s.monthFile(month), log); err != nil {
		return domain.NewMonthLog(), err
	}
	if log.TaskExecutions == nil {
		log.TaskExecutions = map[string][]domain.ExecutionEntry{}
	}
	if log.DailySummary == nil {
		log.DailySummary = map[string]domain.DailySummary{}
	}
	return log, nil
}

// Entries returns the execution entries logged for date.
func (s *FileStore) Entries(ctx context.Context, date string) ([]domain.ExecutionEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	log, err := s.LoadMonth(ctx, clock.MonthOf(date))
	if err != nil {
		return nil, err
	}
	return log.TaskExecutions[date], nil
}

// UpdateMonth applies fn to the month log holding date under the month's
// lock and writes the result. A malformed file is not overwritten.
func (s *FileStore) UpdateMonth(ctx context.Context, date string, fn func(*domain.MonthLog) error) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := validateDate(date); err != nil {
		return err
	}
	month := clock.MonthOf(date)
	path := s.monthFile(month)

	return s.withLock(ctx, path, func() error {
		log := domain.NewMonthLog()
		if _, err := readJSON(path, log); err != nil {
			return fmt.Errorf("failed to update month log %s: %w", month, err)
		}
		if log.TaskExecutions == nil {
			log.TaskExecutions = map[string][]domain.ExecutionEntry{}
		}
		if log.DailySummary == nil {
			log.DailySummary = map[string]domain.DailySummary{}
		}

		if err := fn(log); err != nil {
			return err
		}

		log.SchemaVersion = constants.RecordSchemaVersion
		if err := writeJSON(path, log); err != nil {
			return fmt.Errorf("failed to write month log %s: %w", month, err)
		}
		return nil
	})
}

// UpsertEntry replaces the entry with the same instance id on date, or
// appends it.
func (s *FileStore) UpsertEntry(ctx context.Context, date string, entry domain.ExecutionEntry) error {
	return s.ReplaceEntry(ctx, date, domain.EntryMatch{InstanceID: entry.InstanceID}, entry)
}

// ReplaceEntry stores entry in place of the first entry on date selected by
// match, dropping any further matches, or appends it when nothing matches.
func (s *FileStore) ReplaceEntry(ctx context.Context, date string, match domain.EntryMatch, entry domain.ExecutionEntry) error {
	return s.UpdateMonth(ctx, date, func(log *domain.MonthLog) error {
		entries := log.TaskExecutions[date]
		out := make([]domain.ExecutionEntry, 0, len(entries)+1)
		replaced := false
		for _, e := range entries {
			if !match.Matches(e) {
				out = append(out, e)
				continue
			}
			if !replaced {
				out = append(out, entry)
				replaced = true
			}
		}
		if !replaced {
			out = append(out, entry)
		}
		log.TaskExecutions[date] = out
		return nil
	})
}

// MarkIncomplete flags the matching entries on date as not completed, keeping
// their rating and comment. It returns how many entries changed.
func (s *FileStore) MarkIncomplete(ctx context.Context, date string, match domain.EntryMatch) (int, error) {
	changed := 0
	err := s.UpdateMonth(ctx, date, func(log *domain.MonthLog) error {
		entries := log.TaskExecutions[date]
		for i := range entries {
			if match.Matches(entries[i]) && entries[i].IsCompleted {
				entries[i].IsCompleted = false
				changed++
			}
		}
		return nil
	})
	return changed, err
}

// DeleteEntries removes the matching entries on date. It returns how many
// entries were removed.
func (s *FileStore) DeleteEntries(ctx context.Context, date string, match domain.EntryMatch) (int, error) {
	removed := 0
	err := s.UpdateMonth(ctx, date, func(log *domain.MonthLog) error {
		entries := log.TaskExecutions[date]
		kept := entries[:0]
		for _, e := range entries {
			if match.Matches(e) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(log.TaskExecutions, date)
		} else {
			log.TaskExecutions[date] = kept
		}
		return nil
	})
	return removed, err
}

// SaveSummary stores the daily summary of date.
func (s *FileStore) SaveSummary(ctx context.Context, date string, summary domain.DailySummary) error {
	return s.UpdateMonth(ctx, date, func(log *domain.MonthLog) error {
		log.DailySummary[date] = summary
		return nil
	})
}

func validateDate(date string) error {
	if date == "" {
		return fmt.Errorf("date %w", dperrors.ErrEmptyValue)
	}
	if _, err := time.Parse(clock.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", dperrors.ErrInvalidDate, date)
	}
	return nil
}
