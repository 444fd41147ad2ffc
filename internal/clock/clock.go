// Package clock provides an abstraction for time operations to improve testability.
// Instead of calling time.Now() directly, scheduling code uses the Clock interface
// so tests can pin "now" to a fixed instant, including instants just before or
// after midnight.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// InLocation wraps a Clock and reports every instant in Loc.
// A nil Loc leaves the wrapped clock's location untouched.
type InLocation struct {
	Clock Clock
	Loc   *time.Location
}

// Now returns the wrapped clock's time converted to Loc.
func (c InLocation) Now() time.Time {
	now := c.Clock.Now()
	if c.Loc == nil {
		return now
	}
	return now.In(c.Loc)
}

// Fixed is a Clock that always returns the same instant.
// It is used by tests and by replay tooling that evaluates a past day.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant.
func (f *Fixed) Now() time.Time {
	return f.At
}

// Advance moves the fixed instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}

// Ensure implementations satisfy Clock.
var (
	_ Clock = RealClock{}
	_ Clock = InLocation{}
	_ Clock = (*Fixed)(nil)
)
