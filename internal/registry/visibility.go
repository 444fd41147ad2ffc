package registry

import (
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
)

// VisibilityInput is what IsVisible needs to know about the viewed date.
type VisibilityInput struct {
	Date         string
	HasHistory   bool
	HasDuplicate bool
}

// IsVisible reports whether tpl has an occurrence on in.Date.
//
// One-off tasks show on dates with history, on their target date, on dates
// they were duplicated on, on their creation date when no target date is set,
// and on the date their routine flag was removed. Routines show on dates
// inside their window that match the schedule, on their creation date, and on
// dates with history.
func IsVisible(tpl *domain.Template, in VisibilityInput) bool {
	if in.HasHistory {
		return true
	}
	if !tpl.IsRoutine {
		switch {
		case tpl.TargetDate == in.Date:
			return true
		case in.HasDuplicate:
			return true
		case tpl.TargetDate == "" && tpl.CreatedDate == in.Date:
			return true
		case tpl.RoutineRemovedOn != "" && tpl.RoutineRemovedOn == in.Date:
			return true
		}
		return false
	}

	if tpl.CreatedDate == in.Date {
		return true
	}
	if tpl.RoutineStart != "" && clock.CompareDates(in.Date, tpl.RoutineStart) < 0 {
		return false
	}
	if tpl.RoutineEnd != "" && clock.CompareDates(in.Date, tpl.RoutineEnd) > 0 {
		return false
	}
	return scheduleMatches(tpl, in.Date)
}

func scheduleMatches(tpl *domain.Template, date string) bool {
	day, err := clock.ParseDate(date, time.UTC)
	if err != nil {
		return false
	}

	switch tpl.RoutineType {
	case domain.RoutineWeekly, domain.RoutineCustom:
		if len(tpl.Weekdays) > 0 {
			return tpl.HasWeekday(day.Weekday())
		}
		// A weekly routine without weekdays repeats on the weekday it began.
		anchor := tpl.RoutineStart
		if anchor == "" {
			anchor = tpl.CreatedDate
		}
		first, err := clock.ParseDate(anchor, time.UTC)
		if err != nil {
			return false
		}
		return first.Weekday() == day.Weekday()
	default:
		return true
	}
}
