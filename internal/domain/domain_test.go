package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dayplan/internal/timeslot"
)

func TestExecution_Constructors(t *testing.T) {
	start := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	stop := start.Add(30 * time.Minute)

	tests := []struct {
		name      string
		exec      Execution
		state     State
		hasStart  bool
		hasStop   bool
		wantStart time.Time
		wantStop  time.Time
	}{
		{name: "zero value is idle", exec: Execution{}, state: StateIdle},
		{name: "idle", exec: Idle(), state: StateIdle},
		{name: "running", exec: Running(start), state: StateRunning, hasStart: true, wantStart: start},
		{name: "done", exec: Done(start, stop), state: StateDone, hasStart: true, hasStop: true, wantStart: start, wantStop: stop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.state, tt.exec.State())

			s, ok := tt.exec.Start()
			assert.Equal(t, tt.hasStart, ok)
			assert.True(t, tt.wantStart.Equal(s))

			e, ok := tt.exec.Stop()
			assert.Equal(t, tt.hasStop, ok)
			assert.True(t, tt.wantStop.Equal(e))
		})
	}
}

func TestState_Priority(t *testing.T) {
	assert.Less(t, StateDone.Priority(), StateRunning.Priority())
	assert.Less(t, StateRunning.Priority(), StateIdle.Priority())
}

func TestInstance_OrderKey(t *testing.T) {
	tpl := &Template{Path: "tasks/email.md", Name: "email"}

	primary := &Instance{ID: "tasks/email.md_1_aaaa", Template: tpl}
	dup := &Instance{ID: "tasks/email.md_2_bbbb", Template: tpl, Duplicate: true}

	assert.Equal(t, "tasks/email.md", primary.OrderKey())
	assert.Equal(t, "tasks/email.md_2_bbbb", dup.OrderKey())
	assert.Equal(t, "email", dup.Name())
	assert.False(t, primary.HasOrder())
}

func TestInstance_NilTemplate(t *testing.T) {
	inst := &Instance{}
	assert.Empty(t, inst.Path())
	assert.Empty(t, inst.Name())
	assert.False(t, inst.IsRoutine())
}

func TestTemplate_Schedule(t *testing.T) {
	tpl := &Template{ScheduledTime: "09:00", Weekdays: []time.Weekday{time.Monday, time.Friday}}

	assert.Equal(t, timeslot.Morning, tpl.ScheduledSlot())
	m, ok := tpl.ScheduledMinutes()
	require.True(t, ok)
	assert.Equal(t, 540, m)
	assert.True(t, tpl.HasWeekday(time.Friday))
	assert.False(t, tpl.HasWeekday(time.Sunday))

	tpl.ScheduledTime = ""
	assert.Equal(t, timeslot.None, tpl.ScheduledSlot())
	_, ok = tpl.ScheduledMinutes()
	assert.False(t, ok)
}

func TestSynthesize(t *testing.T) {
	tpl := Synthesize("tasks/gone.md", "")
	assert.True(t, tpl.Synthetic)
	assert.Equal(t, "tasks/gone.md", tpl.Name)
}

func TestExecutionEntry_LegacyDefaultsCompleted(t *testing.T) {
	var legacy ExecutionEntry
	require.NoError(t, json.Unmarshal([]byte(`{"taskPath":"a.md","taskName":"a"}`), &legacy))
	assert.True(t, legacy.IsCompleted)

	var reset ExecutionEntry
	require.NoError(t, json.Unmarshal([]byte(`{"taskPath":"a.md","isCompleted":false}`), &reset))
	assert.False(t, reset.IsCompleted)
}

func TestDayState_DecodesLegacyAndCurrentMarkers(t *testing.T) {
	raw := `{
		"duplicatedInstances": ["tasks/a.md", {"path":"tasks/b.md","instanceId":"tasks/b.md_1_ff"}],
		"deletedInstances": ["tasks/c.md", {"path":"tasks/d.md","instanceId":"x","deletionType":"temporary"}, {"path":"tasks/e.md"}],
		"hiddenRoutines": ["tasks/f.md"],
		"orders": {"tasks/a.md": {"slot":"8:00-12:00","order":200}}
	}`

	var day DayState
	require.NoError(t, json.Unmarshal([]byte(raw), &day))

	require.Len(t, day.Duplicates, 2)
	assert.Equal(t, MarkerLegacy, day.Duplicates[0].Kind)
	assert.Equal(t, MarkerCurrent, day.Duplicates[1].Kind)
	assert.Equal(t, "tasks/b.md_1_ff", day.Duplicates[1].InstanceID)

	require.Len(t, day.Deletions, 3)
	assert.Equal(t, DeletionPermanent, day.Deletions[0].Type)
	assert.Equal(t, DeletionTemporary, day.Deletions[1].Type)
	assert.Equal(t, DeletionTemporary, day.Deletions[2].Type)

	assert.True(t, day.HasLegacyMarkers())
	assert.True(t, day.IsPermanentlyDeleted("tasks/c.md"))
	assert.True(t, day.IsHiddenTemplate("tasks/f.md"))
	assert.Equal(t, SavedOrder{Slot: timeslot.Morning, Order: 200}, day.Orders["tasks/a.md"])
}

func TestDayState_RewritesInObjectForm(t *testing.T) {
	day := NewDayState()
	day.Deletions = append(day.Deletions, DeletionMarker{Marker: LegacyMarker("tasks/c.md"), Type: DeletionPermanent})

	data, err := json.Marshal(day)
	require.NoError(t, err)

	var back DayState
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Deletions, 1)
	assert.Equal(t, MarkerCurrent, back.Deletions[0].Kind)
	assert.Equal(t, DeletionPermanent, back.Deletions[0].Type)
	assert.False(t, back.HasLegacyMarkers())
}

func TestMarker_RejectsEmptyObject(t *testing.T) {
	var m Marker
	require.Error(t, json.Unmarshal([]byte(`{}`), &m))
}

func TestDayState_Suppresses(t *testing.T) {
	day := NewDayState()
	day.AddDeletion(DeletionMarker{Marker: PathMarker("tasks/a.md"), Type: DeletionTemporary})
	day.AddDeletion(DeletionMarker{Marker: PathMarker("tasks/a.md"), Type: DeletionTemporary})
	day.AddDeletion(DeletionMarker{Marker: InstanceMarker("tasks/b.md", "b-2"), Type: DeletionTemporary})
	day.AddHidden(InstanceMarker("tasks/r.md", "r-1"))

	assert.Len(t, day.Deletions, 2)
	assert.True(t, day.Suppresses("tasks/a.md", "a-1", false))
	assert.False(t, day.Suppresses("tasks/a.md", "a-2", true))
	assert.True(t, day.Suppresses("tasks/b.md", "b-2", true))
	assert.False(t, day.Suppresses("tasks/b.md", "b-1", false))
	assert.True(t, day.Suppresses("tasks/r.md", "r-1", false))
}

func TestDayState_Duplicates(t *testing.T) {
	day := NewDayState()
	day.AddDuplicate("tasks/a.md", "a-2")
	day.AddDuplicate("tasks/b.md", "b-2")
	day.AddDuplicate("tasks/a.md", "a-3")

	got := day.DuplicatesOf("tasks/a.md")
	require.Len(t, got, 2)
	assert.Equal(t, "a-2", got[0].InstanceID)

	day.RemoveDuplicate("a-2")
	assert.Len(t, day.DuplicatesOf("tasks/a.md"), 1)
}

func TestDayState_SuppressesIDIgnoresPathMarkers(t *testing.T) {
	day := NewDayState()
	day.AddDeletion(DeletionMarker{Marker: PathMarker("tasks/a.md"), Type: DeletionTemporary})
	day.AddHidden(InstanceMarker("tasks/r.md", "r-1"))
	day.AddDuplicate("tasks/a.md", "a-2")

	assert.False(t, day.SuppressesID("a-1"))
	assert.False(t, day.SuppressesID(""))
	assert.True(t, day.SuppressesID("r-1"))
	assert.True(t, day.IsDuplicateID("a-2"))
	assert.False(t, day.IsDuplicateID("a-1"))
}

func TestEntryMatch(t *testing.T) {
	start := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)

	assert.True(t, EntryMatch{InstanceID: "x"}.Matches(ExecutionEntry{InstanceID: "x"}))
	assert.False(t, EntryMatch{InstanceID: "x"}.Matches(ExecutionEntry{InstanceID: "y"}))
	assert.True(t, EntryMatch{Path: "a.md", Start: start}.Matches(ExecutionEntry{TaskPath: "a.md", StartTime: start}))
	assert.False(t, EntryMatch{Path: "a.md", Start: start}.Matches(ExecutionEntry{InstanceID: "z", TaskPath: "a.md", StartTime: start}))
	assert.False(t, EntryMatch{Path: "a.md"}.Matches(ExecutionEntry{TaskPath: "a.md"}))
}
