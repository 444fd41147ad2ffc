// Package order assigns and repairs the integer positions of instances inside
// their (slot, state) group.
//
// Orders are spaced in steps of 100 so a move or duplicate usually takes the
// midpoint of its neighbours and leaves every sibling untouched. When a gap is
// exhausted the group is renormalized to (i+1)*100 and the insertion retried.
package order

import (
	"cmp"
	"slices"

	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Group returns the instances of one (slot, state) group sorted for display:
// done and running by start time, idle by order. Ties keep input order.
func Group(instances []*domain.Instance, slot timeslot.Key, state domain.State) []*domain.Instance {
	var group []*domain.Instance
	for _, inst := range instances {
		if inst.Slot == slot && inst.State() == state {
			group = append(group, inst)
		}
	}
	slices.SortStableFunc(group, compareInGroup)
	return group
}

func compareInGroup(a, b *domain.Instance) int {
	if a.State() != domain.StateIdle {
		if c := a.StartTime().Compare(b.StartTime()); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Order, b.Order)
}

// OtherMax returns the highest order used in slot by instances whose state
// differs from state. It returns 0 when there are none.
func OtherMax(instances []*domain.Instance, slot timeslot.Key, state domain.State) int {
	highest := 0
	for _, inst := range instances {
		if inst.Slot == slot && inst.State() != state {
			highest = max(highest, inst.Order)
		}
	}
	return highest
}

// AssignInitial gives every instance an order for a freshly built date.
// Per slot, done instances take 100, 200, ... by start time and running ones
// continue the sequence. Idle instances first take their saved order when the
// saved slot matches; the rest follow by scheduled time, unset last, then name.
func AssignInitial(instances []*domain.Instance, saved map[string]domain.SavedOrder) {
	for _, slot := range timeslot.DisplayOrder() {
		next := constants.OrderStep

		for _, state := range []domain.State{domain.StateDone, domain.StateRunning} {
			for _, inst := range Group(instances, slot, state) {
				inst.Order = next
				next += constants.OrderStep
			}
		}

		highest := next - constants.OrderStep
		var pending []*domain.Instance
		var restored []*domain.Instance
		for _, inst := range instances {
			if inst.Slot != slot || inst.State() != domain.StateIdle {
				continue
			}
			if s, ok := saved[inst.OrderKey()]; ok && s.Slot == slot && s.Order > 0 {
				inst.Order = s.Order
				restored = append(restored, inst)
				highest = max(highest, s.Order)
				continue
			}
			pending = append(pending, inst)
		}

		if hasTies(restored) {
			Renormalize(restored)
			highest = max(next-constants.OrderStep, len(restored)*constants.OrderStep)
		}

		slices.SortStableFunc(pending, compareBySchedule)
		next = (highest/constants.OrderStep + 1) * constants.OrderStep
		for _, inst := range pending {
			inst.Order = next
			next += constants.OrderStep
		}
	}
}

func compareBySchedule(a, b *domain.Instance) int {
	am, aok := scheduledMinutes(a)
	bm, bok := scheduledMinutes(b)
	switch {
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	case aok && bok && am != bm:
		return cmp.Compare(am, bm)
	}
	return cmp.Compare(a.Name(), b.Name())
}

func scheduledMinutes(inst *domain.Instance) (int, bool) {
	if inst.Template == nil {
		return 0, false
	}
	return inst.Template.ScheduledMinutes()
}

func hasTies(group []*domain.Instance) bool {
	seen := make(map[int]struct{}, len(group))
	for _, inst := range group {
		if _, ok := seen[inst.Order]; ok {
			return true
		}
		seen[inst.Order] = struct{}{}
	}
	return false
}

// Renormalize stable-sorts group by its current order and reassigns
// (i+1)*100. The slice is reordered in place.
func Renormalize(group []*domain.Instance) {
	slices.SortStableFunc(group, func(a, b *domain.Instance) int {
		return cmp.Compare(a.Order, b.Order)
	})
	for i, inst := range group {
		inst.Order = (i + 1) * constants.OrderStep
	}
}

// RenormalizeAll renormalizes every (slot, state) group.
func RenormalizeAll(instances []*domain.Instance) {
	for _, slot := range timeslot.DisplayOrder() {
		for _, state := range []domain.State{domain.StateDone, domain.StateRunning, domain.StateIdle} {
			Renormalize(Group(instances, slot, state))
		}
	}
}

// Insert returns the order for a new member at targetIndex of group, which
// must be sorted and must not contain the member itself. otherMax is the
// highest order among the other state groups of the slot. When the gap at
// targetIndex is exhausted the group is renormalized first, so the members'
// orders may change.
func Insert(group []*domain.Instance, targetIndex, otherMax int) int {
	n := len(group)
	targetIndex = min(max(targetIndex, 0), n)

	switch {
	case n == 0:
		return max(constants.OrderStep, otherMax+constants.OrderStep)

	case targetIndex == 0:
		first := group[0].Order
		candidate := max(first-constants.OrderStep, otherMax+constants.OrderMinGapAboveOthers, constants.OrderFloor)
		if candidate < first {
			return candidate
		}

	case targetIndex == n:
		return max(group[n-1].Order+constants.OrderStep, otherMax+constants.OrderStep)

	default:
		prev, next := group[targetIndex-1].Order, group[targetIndex].Order
		if next-prev > 1 {
			return (prev + next) / 2
		}
	}

	Renormalize(group)
	return afterRenormalize(group, targetIndex, otherMax)
}

// afterRenormalize picks targetIndex*100+50, raised above otherMax only while
// it stays strictly between the new neighbours.
func afterRenormalize(group []*domain.Instance, targetIndex, otherMax int) int {
	candidate := targetIndex*constants.OrderStep + constants.OrderHalfStep
	clamped := max(candidate, otherMax+constants.OrderMinGapAboveOthers)

	upper := group[targetIndex].Order
	if clamped < upper {
		return clamped
	}
	return candidate
}

// PlaceDuplicate returns the order for a new idle copy of source, placed right
// after it in source's slot. instances must not contain the copy yet.
func PlaceDuplicate(source *domain.Instance, instances []*domain.Instance) int {
	group := Group(instances, source.Slot, domain.StateIdle)

	idx := 0
	if source.State() == domain.StateIdle {
		idx = slices.Index(group, source) + 1
	} else {
		for idx < len(group) && group[idx].Order <= source.Order {
			idx++
		}
	}

	prev := source.Order
	if idx == len(group) {
		return prev + constants.OrderStep
	}
	if next := group[idx].Order; next-prev > 1 {
		return (prev + next) / 2
	}

	return Insert(group, idx, OtherMax(instances, source.Slot, domain.StateIdle))
}

// Snapshot returns the saved-order map for every idle instance with an order.
func Snapshot(instances []*domain.Instance) map[string]domain.SavedOrder {
	out := make(map[string]domain.SavedOrder, len(instances))
	for _, inst := range instances {
		if inst.State() != domain.StateIdle || !inst.HasOrder() {
			continue
		}
		out[inst.OrderKey()] = domain.SavedOrder{Slot: inst.Slot, Order: inst.Order}
	}
	return out
}
