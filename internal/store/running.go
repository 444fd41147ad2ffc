package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

func (s *FileStore) runningFile() string {
	return filepath.Join(s.root, constants.RunningFileName)
}

// LoadRunning returns the persisted running records. A missing file yields
// none; a malformed one yields none and ErrCorruptRecord.
func (s *FileStore) LoadRunning(ctx context.Context) ([]domain.RunningRecord, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	var records []domain.RunningRecord
	if _, err := readJSON(s.runningFile(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRunning replaces every running record with rec. At most one instance
// runs at a time, so older records are dropped.
func (s *FileStore) SaveRunning(ctx context.Context, rec domain.RunningRecord) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if rec.InstanceID == "" {
		return fmt.Errorf("failed to save running record: instance id %w", dperrors.ErrEmptyValue)
	}
	path := s.runningFile()
	return s.withLock(ctx, path, func() error {
		if err := writeJSON(path, []domain.RunningRecord{rec}); err != nil {
			return fmt.Errorf("failed to save running record: %w", err)
		}
		return nil
	})
}

// ClearRunning removes the records of instanceID and reports whether any
// existed. An empty instanceID clears every record. Nothing is written when
// no record matches.
func (s *FileStore) ClearRunning(ctx context.Context, instanceID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}
	path := s.runningFile()
	removed := false
	err := s.withLock(ctx, path, func() error {
		var records []domain.RunningRecord
		// A malformed file is replaced: running state is always recreatable.
		_, _ = readJSON(path, &records)

		kept := make([]domain.RunningRecord, 0, len(records))
		for _, rec := range records {
			if instanceID == "" || rec.InstanceID == instanceID {
				removed = true
				continue
			}
			kept = append(kept, rec)
		}
		if !removed {
			return nil
		}
		if err := writeJSON(path, kept); err != nil {
			return fmt.Errorf("failed to clear running record: %w", err)
		}
		return nil
	})
	return removed, err
}
