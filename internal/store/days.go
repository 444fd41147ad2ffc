package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

func (s *FileStore) dayFile(date string) string {
	return filepath.Join(s.root, constants.DaysDir, date+constants.RecordExtension)
}

// LoadDay reads the markers and saved orders of date. A missing file yields an
// empty state; a malformed one yields an empty state and ErrCorruptRecord.
func (s *FileStore) LoadDay(ctx context.Context, date string) (*domain.DayState, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	day := domain.NewDayState()
	if _, err := readJSON(s.dayFile(date), day); err != nil {
		return domain.NewDayState(), err
	}
	if day.Orders == nil {
		day.Orders = map[string]domain.SavedOrder{}
	}
	return day, nil
}

// SaveDay writes the full day state of date.
func (s *FileStore) SaveDay(ctx context.Context, date string, day *domain.DayState) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := validateDate(date); err != nil {
		return err
	}
	if day == nil {
		return fmt.Errorf("failed to save day %s: state %w", date, dperrors.ErrEmptyValue)
	}

	path := s.dayFile(date)
	return s.withLock(ctx, path, func() error {
		day.SchemaVersion = constants.RecordSchemaVersion
		if err := writeJSON(path, day); err != nil {
			return fmt.Errorf("failed to save day %s: %w", date, err)
		}
		return nil
	})
}
