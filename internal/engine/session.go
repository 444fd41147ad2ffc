package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Session is the mutable state of one viewed date. It is not safe for
// concurrent use.
type Session struct {
	// Date is the viewed date (YYYY-MM-DD).
	Date string

	// Instances is kept in display order after every action.
	Instances []*domain.Instance

	// Templates are the templates known at load time, by path.
	Templates map[string]*domain.Template

	// Day holds the markers and saved orders of Date.
	Day *domain.DayState

	running     *domain.Instance
	runningDate string
}

// Running returns the running instance, or nil.
func (s *Session) Running() *domain.Instance {
	return s.running
}

// RunningDate returns the date bucket the running instance will be logged
// under: the date it was started on.
func (s *Session) RunningDate() string {
	return s.runningDate
}

// Find returns the instance with the given id. An id that matches no
// instance exactly may be a unique suffix of one.
func (s *Session) Find(id string) (*domain.Instance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("instance id %w", dperrors.ErrEmptyValue)
	}

	var matches []*domain.Instance
	for _, inst := range s.Instances {
		if inst.ID == id {
			return inst, nil
		}
		if strings.HasSuffix(inst.ID, id) {
			matches = append(matches, inst)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", dperrors.ErrInstanceNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d instances", dperrors.ErrAmbiguousInstance, id, len(matches))
	}
}

func (s *Session) byID(id string) *domain.Instance {
	if id == "" {
		return nil
	}
	for _, inst := range s.Instances {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// InSlot returns the instances of slot in display order.
func (s *Session) InSlot(slot timeslot.Key) []*domain.Instance {
	var out []*domain.Instance
	for _, inst := range s.Instances {
		if inst.Slot == slot {
			out = append(out, inst)
		}
	}
	return out
}

func (s *Session) remove(inst *domain.Instance) {
	s.Instances = slices.DeleteFunc(s.Instances, func(i *domain.Instance) bool { return i == inst })
	if s.running == inst {
		s.running = nil
		s.runningDate = ""
	}
}

func (s *Session) hasOtherOccurrence(inst *domain.Instance) bool {
	for _, other := range s.Instances {
		if other != inst && other.Path() == inst.Path() {
			return true
		}
	}
	return false
}

// Sort orders instances for display: the "none" group first, then the four
// slots chronologically. Within a slot done comes before running before
// idle; done and running by start time, idle by order.
func Sort(instances []*domain.Instance) {
	slices.SortStableFunc(instances, func(a, b *domain.Instance) int {
		if c := cmp.Compare(a.Slot.Rank(), b.Slot.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.State().Priority(), b.State().Priority()); c != 0 {
			return c
		}
		if a.State() != domain.StateIdle {
			if c := a.StartTime().Compare(b.StartTime()); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Order, b.Order)
	})
}
