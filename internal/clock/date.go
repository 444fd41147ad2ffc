package clock

import (
	"fmt"
	"time"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// Date and month key layouts used by every persisted record.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey formats t as YYYY-MM in t's own location.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// MonthOf returns the YYYY-MM prefix of a date key.
func MonthOf(dateKey string) string {
	if len(dateKey) < len(MonthLayout) {
		return dateKey
	}
	return dateKey[:len(MonthLayout)]
}

// ParseDate parses a YYYY-MM-DD key as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", dperrors.ErrInvalidDate, s)
	}
	return t, nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the date key of c.Now().
func Today(c Clock) string {
	return DateKey(c.Now())
}

// CompareDates compares two date keys. YYYY-MM-DD sorts lexically.
func CompareDates(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MinutesOfDay returns the wall-clock minutes since midnight of t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SecondsOfDay returns the wall-clock seconds since midnight of t.
func SecondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// OnDate returns the instant hour:minute on dateKey in loc.
// Used by time editing, where the user types a clock time for a given day.
func OnDate(dateKey string, hour, minute int, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(dateKey, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}
