package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

//nolint:gochecknoglobals // Read-only lookup table
var slotAliases = map[string]timeslot.Key{
	"none":        timeslot.None,
	"unscheduled": timeslot.None,
	"night":       timeslot.Night,
	"morning":     timeslot.Morning,
	"afternoon":   timeslot.Afternoon,
	"evening":     timeslot.Evening,
}

// parseSlot accepts a slot key ("8:00-12:00") or its name ("morning").
func parseSlot(s string) (timeslot.Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return timeslot.None, fmt.Errorf("%w: slot is empty", errors.ErrInvalidSlot)
	}
	if k, ok := slotAliases[strings.ToLower(s)]; ok {
		return k, nil
	}
	return timeslot.Parse(s)
}

// parseIndex parses a zero-based display index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: index %q must be a non-negative integer", errors.ErrInvalidArgument, s)
	}
	return n, nil
}

// clockOnDate resolves "HH:MM" on dateKey in loc.
func clockOnDate(dateKey, hhmm string, loc *time.Location) (time.Time, error) {
	minutes, err := timeslot.ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return clock.OnDate(dateKey, minutes/60, minutes%60, loc)
}

// stopOnOrAfter resolves a stop clock time relative to start: a clock time
// earlier than start is taken to be on the following day.
func stopOnOrAfter(start time.Time, hhmm string) (time.Time, error) {
	stop, err := clockOnDate(clock.DateKey(start), hhmm, start.Location())
	if err != nil {
		return time.Time{}, err
	}
	if stop.Before(start) {
		stop = stop.AddDate(0, 0, 1)
	}
	return stop, nil
}

//nolint:gochecknoglobals // Read-only lookup table
var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// parseWeekdays parses day names or numbers (0 = Sunday). Duplicates are
// dropped and unknown values rejected.
func parseWeekdays(values []string) ([]time.Weekday, error) {
	var out []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, raw := range values {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		var (
			d  time.Weekday
			ok bool
		)
		if n, err := strconv.Atoi(v); err == nil {
			d, ok = time.Weekday(n), n >= 0 && n <= 6
		} else if len(v) >= 3 {
			d, ok = weekdayNames[v[:3]]
		}
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", errors.ErrInvalidArgument, raw)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

// parseRoutineType accepts daily, weekly or custom.
func parseRoutineType(s string) (domain.RoutineType, error) {
	t := domain.RoutineType(strings.ToLower(strings.TrimSpace(s)))
	if t == domain.RoutineNone || !t.IsValid() {
		return domain.RoutineNone, fmt.Errorf("%w: routine type %q must be daily, weekly or custom", errors.ErrInvalidArgument, s)
	}
	return t, nil
}

// parseOptionalDate validates a YYYY-MM-DD value; empty is allowed.
func parseOptionalDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := clock.ParseDate(s, time.UTC); err != nil {
		return "", err
	}
	return s, nil
}
