package order

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

var base = time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)

func idle(name string, slot timeslot.Key, order int) *domain.Instance {
	return &domain.Instance{
		ID:       name + "-id",
		Template: &domain.Template{Path: "tasks/" + name + ".md", Name: name},
		Exec:     domain.Idle(),
		Slot:     slot,
		Order:    order,
	}
}

func done(name string, slot timeslot.Key, startHour int) *domain.Instance {
	inst := idle(name, slot, 0)
	start := base.Add(time.Duration(startHour) * time.Hour)
	inst.Exec = domain.Done(start, start.Add(20*time.Minute))
	return inst
}

func orders(group []*domain.Instance) []int {
	out := make([]int, len(group))
	for i, inst := range group {
		out[i] = inst.Order
	}
	return out
}

func assertStrictlyIncreasing(t *testing.T, values []int) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		require.Less(t, values[i-1], values[i], "orders %v", values)
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		group    []int
		index    int
		otherMax int
		want     int
	}{
		{name: "empty group", want: 100},
		{name: "empty group above others", otherMax: 300, want: 400},
		{name: "before first", group: []int{300, 400}, index: 0, want: 200},
		{name: "before first clamped to floor", group: []int{120}, index: 0, want: 50},
		{name: "before first above others", group: []int{300}, index: 0, otherMax: 250, want: 260},
		{name: "after last", group: []int{100, 200}, index: 2, want: 300},
		{name: "after last above others", group: []int{100}, index: 1, otherMax: 500, want: 600},
		{name: "between uses midpoint", group: []int{100, 200}, index: 1, want: 150},
		{name: "between floors midpoint", group: []int{100, 103}, index: 1, want: 101},
		{name: "index clamped high", group: []int{100}, index: 9, want: 200},
		{name: "index clamped low", group: []int{300}, index: -4, want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var group []*domain.Instance
			for i, o := range tt.group {
				group = append(group, idle(fmt.Sprintf("t%d", i), timeslot.Morning, o))
			}

			got := Insert(group, tt.index, tt.otherMax)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.group, orders(group), "gap was available, siblings untouched")
		})
	}
}

func TestInsert_RenormalizesExhaustedGap(t *testing.T) {
	a := idle("a", timeslot.Morning, 100)
	b := idle("b", timeslot.Morning, 101)
	group := []*domain.Instance{a, b}

	c := Insert(group, 1, 0)

	assert.Equal(t, 100, a.Order)
	assert.Equal(t, 200, b.Order)
	assert.Equal(t, 150, c)
	assert.Less(t, a.Order, c)
	assert.Less(t, c, b.Order)
}

func TestInsert_BeforeFirstWithoutRoom(t *testing.T) {
	a := idle("a", timeslot.Morning, 50)
	b := idle("b", timeslot.Morning, 60)
	group := []*domain.Instance{a, b}

	got := Insert(group, 0, 0)

	assert.Equal(t, []int{100, 200}, orders(group))
	assert.Equal(t, 50, got)
}

func TestInsert_RetryStaysBetweenNeighbours(t *testing.T) {
	a := idle("a", timeslot.Morning, 55)
	group := []*domain.Instance{a}

	// otherMax+10 would land on the renormalized first member, so the plain
	// retry value wins.
	got := Insert(group, 0, 95)

	assert.Equal(t, 100, a.Order)
	assert.Equal(t, 50, got)
}

func TestInsert_RandomSequencesStayStrictlyIncreasing(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		var group []*domain.Instance

		for i := range 200 {
			idx := rng.IntN(len(group) + 1)
			inst := idle(fmt.Sprintf("n%d", i), timeslot.Afternoon, 0)
			inst.Order = Insert(group, idx, 0)
			group = slices.Insert(group, idx, inst)

			assertStrictlyIncreasing(t, orders(group))
		}
	}
}

func TestRenormalize_RestoresGaps(t *testing.T) {
	group := []*domain.Instance{
		idle("c", timeslot.Evening, 7),
		idle("a", timeslot.Evening, 3),
		idle("b", timeslot.Evening, 5),
	}

	Renormalize(group)

	assert.Equal(t, []int{100, 200, 300}, orders(group))
	assert.Equal(t, "a", group[0].Name())
	for i := 1; i < len(group); i++ {
		assert.GreaterOrEqual(t, group[i].Order-group[i-1].Order, 99)
	}
}

func TestRenormalizeAll(t *testing.T) {
	a := idle("a", timeslot.Morning, 101)
	b := idle("b", timeslot.Morning, 102)
	c := idle("c", timeslot.Evening, 7)

	RenormalizeAll([]*domain.Instance{b, c, a})

	assert.Equal(t, 100, a.Order)
	assert.Equal(t, 200, b.Order)
	assert.Equal(t, 100, c.Order)
}

func TestAssignInitial(t *testing.T) {
	d1 := done("late", timeslot.Morning, 10)
	d2 := done("early", timeslot.Morning, 8)

	running := idle("run", timeslot.Morning, 0)
	running.Exec = domain.Running(base.Add(11 * time.Hour))

	saved := idle("saved", timeslot.Morning, 0)
	nine := idle("nine", timeslot.Morning, 0)
	nine.Template.ScheduledTime = "09:00"
	eight := idle("eight", timeslot.Morning, 0)
	eight.Template.ScheduledTime = "08:30"
	unset := idle("zzz", timeslot.Morning, 0)
	moved := idle("moved", timeslot.Morning, 0)

	instances := []*domain.Instance{d1, unset, nine, d2, running, saved, eight, moved}
	AssignInitial(instances, map[string]domain.SavedOrder{
		saved.OrderKey(): {Slot: timeslot.Morning, Order: 450},
		moved.OrderKey(): {Slot: timeslot.Evening, Order: 50},
	})

	assert.Equal(t, 100, d2.Order)
	assert.Equal(t, 200, d1.Order)
	assert.Equal(t, 300, running.Order)
	assert.Equal(t, 450, saved.Order)

	// Remaining idle continue after the highest order in the slot, by
	// scheduled time with unset last and names breaking ties.
	assert.Equal(t, 500, eight.Order)
	assert.Equal(t, 600, nine.Order)
	assert.Equal(t, 700, moved.Order)
	assert.Equal(t, 800, unset.Order)
}

func TestAssignInitial_SavedTiesRenormalized(t *testing.T) {
	a := idle("a", timeslot.Night, 0)
	b := idle("b", timeslot.Night, 0)
	c := idle("c", timeslot.Night, 0)

	AssignInitial([]*domain.Instance{a, b, c}, map[string]domain.SavedOrder{
		a.OrderKey(): {Slot: timeslot.Night, Order: 300},
		b.OrderKey(): {Slot: timeslot.Night, Order: 300},
	})

	assert.Equal(t, 100, a.Order)
	assert.Equal(t, 200, b.Order)
	assert.Equal(t, 300, c.Order)
}

func TestPlaceDuplicate(t *testing.T) {
	t.Run("idle source with following sibling", func(t *testing.T) {
		src := idle("src", timeslot.Morning, 100)
		next := idle("next", timeslot.Morning, 200)

		assert.Equal(t, 150, PlaceDuplicate(src, []*domain.Instance{next, src}))
	})

	t.Run("idle source last", func(t *testing.T) {
		first := idle("first", timeslot.Morning, 100)
		src := idle("src", timeslot.Morning, 200)

		assert.Equal(t, 300, PlaceDuplicate(src, []*domain.Instance{first, src}))
	})

	t.Run("exhausted gap renormalizes", func(t *testing.T) {
		src := idle("src", timeslot.Morning, 100)
		next := idle("next", timeslot.Morning, 101)

		got := PlaceDuplicate(src, []*domain.Instance{src, next})

		assert.Equal(t, 100, src.Order)
		assert.Equal(t, 200, next.Order)
		assert.Equal(t, 150, got)
	})

	t.Run("done source", func(t *testing.T) {
		src := done("src", timeslot.Evening, 19)
		src.Order = 100
		later := idle("later", timeslot.Evening, 300)

		got := PlaceDuplicate(src, []*domain.Instance{src, later})
		assert.Equal(t, 200, got)
		assert.Greater(t, got, src.Order)
	})

	t.Run("done source alone", func(t *testing.T) {
		src := done("src", timeslot.Evening, 19)
		src.Order = 100

		assert.Equal(t, 200, PlaceDuplicate(src, []*domain.Instance{src}))
	})
}

func TestSnapshot(t *testing.T) {
	primary := idle("a", timeslot.Morning, 100)
	dup := idle("a", timeslot.Morning, 150)
	dup.ID = "a-dup"
	dup.Duplicate = true
	finished := done("b", timeslot.Morning, 9)
	finished.Order = 100
	unassigned := idle("c", timeslot.None, 0)

	got := Snapshot([]*domain.Instance{primary, dup, finished, unassigned})

	assert.Equal(t, map[string]domain.SavedOrder{
		"tasks/a.md": {Slot: timeslot.Morning, Order: 100},
		"a-dup":      {Slot: timeslot.Morning, Order: 150},
	}, got)
}

func TestGroupAndOtherMax(t *testing.T) {
	d := done("d", timeslot.Morning, 9)
	d.Order = 400
	i1 := idle("i1", timeslot.Morning, 200)
	i2 := idle("i2", timeslot.Morning, 100)
	other := idle("o", timeslot.Evening, 900)

	instances := []*domain.Instance{d, i1, i2, other}

	group := Group(instances, timeslot.Morning, domain.StateIdle)
	assert.Equal(t, []int{100, 200}, orders(group))
	assert.Equal(t, 400, OtherMax(instances, timeslot.Morning, domain.StateIdle))
	assert.Equal(t, 0, OtherMax(instances, timeslot.Evening, domain.StateIdle))
}

func TestResolveDropTarget(t *testing.T) {
	bounds := []Bounds{
		{Top: 0, Height: 40},
		{Top: 40, Height: 40},
		{Top: 80, Height: 40},
	}

	tests := []struct {
		name    string
		pointer float64
		want    int
	}{
		{name: "above everything", pointer: -5, want: 0},
		{name: "upper half of first", pointer: 10, want: 0},
		{name: "lower half of first", pointer: 30, want: 1},
		{name: "exactly on midpoint", pointer: 60, want: 2},
		{name: "below everything", pointer: 500, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDropTarget(tt.pointer, bounds))
		})
	}

	assert.Equal(t, 0, ResolveDropTarget(10, nil))
}
