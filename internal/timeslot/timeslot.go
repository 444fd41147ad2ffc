// Package timeslot classifies clock times into the four fixed day buckets
// used for display and ordering.
//
// The buckets partition the 24h day with no gaps or overlaps:
//
//	0:00-8:00   [0, 480)
//	8:00-12:00  [480, 720)
//	12:00-16:00 [720, 960)
//	16:00-0:00  [960, 1440)
//
// Instances without a time live in the "none" bucket, which is shown first.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// Key identifies a time-of-day bucket.
type Key string

// Slot keys. The string values are persisted and must not change.
const (
	None      Key = "none"
	Night     Key = "0:00-8:00"
	Morning   Key = "8:00-12:00"
	Afternoon Key = "12:00-16:00"
	Evening   Key = "16:00-0:00"
)

const minutesPerDay = 24 * 60

// bucket boundaries in minutes of day; bucket i covers [starts[i], starts[i+1]).
//
//nolint:gochecknoglobals // Read-only lookup table
var (
	slots  = [...]Key{Night, Morning, Afternoon, Evening}
	starts = [...]int{0, 8 * 60, 12 * 60, 16 * 60, minutesPerDay}
)

// String returns the persisted form of the key.
func (k Key) String() string {
	return string(k)
}

// IsValid reports whether k is one of the four buckets or None.
func (k Key) IsValid() bool {
	return k == None || k.index() >= 0
}

// IsTimed reports whether k is one of the four clock buckets.
func (k Key) IsTimed() bool {
	return k.index() >= 0
}

// Rank returns the display position: None first, then chronological.
// Unknown keys sort last.
func (k Key) Rank() int {
	if k == None || k == "" {
		return 0
	}
	if i := k.index(); i >= 0 {
		return i + 1
	}
	return len(slots) + 1
}

// StartMinutes returns the first minute of day covered by k.
func (k Key) StartMinutes() (int, bool) {
	i := k.index()
	if i < 0 {
		return 0, false
	}
	return starts[i], true
}

func (k Key) index() int {
	for i, s := range slots {
		if s == k {
			return i
		}
	}
	return -1
}

// All returns the four timed buckets in chronological order.
func All() []Key {
	return slots[:]
}

// DisplayOrder returns every key in display order, None first.
func DisplayOrder() []Key {
	return append([]Key{None}, slots[:]...)
}

// Parse validates a persisted or user-supplied slot key.
// An empty string maps to None.
func Parse(s string) (Key, error) {
	k := Key(strings.TrimSpace(s))
	if k == "" {
		return None, nil
	}
	if !k.IsValid() {
		return None, fmt.Errorf("%w: %q", dperrors.ErrInvalidSlot, s)
	}
	return k, nil
}

// Classify maps minutes since midnight to exactly one timed bucket.
// Inputs outside [0, 1440) wrap around the day.
func Classify(minutesOfDay int) Key {
	m := minutesOfDay % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	for i := range slots {
		if m < starts[i+1] {
			return slots[i]
		}
	}
	return Evening
}

// ClassifyTime classifies the wall-clock time of t.
func ClassifyTime(t time.Time) Key {
	return Classify(clock.MinutesOfDay(t))
}

// ParseClock parses "H:MM" or "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", dperrors.ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", dperrors.ErrInvalidClock, s)
	}
	// Tolerate "HH:MM:SS" by ignoring seconds.
	mm, _, _ = strings.Cut(mm, ":")
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", dperrors.ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// ClassifyClock classifies an "HH:MM" string; empty or malformed input is None.
func ClassifyClock(s string) Key {
	m, err := ParseClock(s)
	if err != nil {
		return None
	}
	return Classify(m)
}

// Current returns the bucket of the real current time.
func Current(c clock.Clock) Key {
	return ClassifyTime(c.Now())
}

// Before reports whether timed bucket a ends before timed bucket b starts.
// None is never before anything.
func Before(a, b Key) bool {
	ai, bi := a.index(), b.index()
	return ai >= 0 && bi >= 0 && ai < bi
}
