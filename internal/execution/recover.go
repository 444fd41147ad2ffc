package execution

import (
	"slices"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// RecoverInput is the state restart recovery works on.
type RecoverInput struct {
	Records   []domain.RunningRecord
	Instances []*domain.Instance
	// Templates resolves records whose instance was not built for the date.
	Templates map[string]*domain.Template
	ViewDate  string
	Today     string
	Location  *time.Location
}

// Recovered describes how one running record was applied.
type Recovered struct {
	Record    domain.RunningRecord
	Instance  *domain.Instance
	Synthetic bool
}

// RecoverResult is the outcome of Recover.
type RecoverResult struct {
	// Instances is the input list plus any fabricated instance.
	Instances []*domain.Instance

	// Running is the applied record, nil when none applied.
	Running *Recovered

	// Stale lists records that applied to the date but could not be made
	// running: older concurrent records or records whose instance is done.
	Stale []domain.RunningRecord
}

// Applies reports whether a record started on recordDate shows as running
// while viewing viewDate. A run that began before today still shows on today.
func Applies(recordDate, viewDate, today string) bool {
	if recordDate == viewDate {
		return true
	}
	return viewDate == today && clock.CompareDates(recordDate, today) < 0
}

// Recover turns the applicable running record into a running instance.
// Matching tries the record's instance id, then an idle instance of the same
// template in the record's slot, then any idle instance of that template
// (moved to the record's slot). Failing all three a synthetic instance is
// fabricated from the record. When several records apply only the most
// recently started one is used.
func Recover(in RecoverInput) RecoverResult {
	res := RecoverResult{Instances: in.Instances}

	var applicable []domain.RunningRecord
	for _, rec := range in.Records {
		if Applies(rec.Date, in.ViewDate, in.Today) {
			applicable = append(applicable, rec)
		}
	}
	if len(applicable) == 0 {
		return res
	}

	slices.SortStableFunc(applicable, func(a, b domain.RunningRecord) int {
		return a.StartTime.Compare(b.StartTime)
	})
	rec := applicable[len(applicable)-1]
	res.Stale = append(res.Stale, applicable[:len(applicable)-1]...)

	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	start := rec.StartTime.In(loc)

	inst, found := match(in.Instances, rec)
	if found && inst.State() != domain.StateIdle {
		res.Stale = append(res.Stale, rec)
		return res
	}

	synthetic := false
	if inst == nil {
		tpl := in.Templates[rec.TaskPath]
		if tpl == nil {
			tpl = domain.Synthesize(rec.TaskPath, rec.TaskName)
		}
		inst = &domain.Instance{Template: tpl, Date: in.ViewDate, Slot: timeslot.ClassifyTime(start)}
		res.Instances = append(res.Instances, inst)
		synthetic = true
	}

	if rec.InstanceID != "" {
		inst.ID = rec.InstanceID
	}
	inst.OriginalSlot = rec.OriginalSlot
	if inst.OriginalSlot == "" {
		inst.OriginalSlot = inst.Slot
	}
	if rec.Slot != "" {
		inst.Slot = rec.Slot
	}
	inst.Exec = domain.Running(start)

	res.Running = &Recovered{Record: rec, Instance: inst, Synthetic: synthetic}
	return res
}

// match returns the instance a record belongs to. found is true when the
// record's instance id matched directly, whatever that instance's state.
func match(instances []*domain.Instance, rec domain.RunningRecord) (*domain.Instance, bool) {
	if rec.InstanceID != "" {
		for _, inst := range instances {
			if inst.ID == rec.InstanceID {
				return inst, true
			}
		}
	}
	var fallback *domain.Instance
	for _, inst := range instances {
		if inst.Path() != rec.TaskPath || inst.State() != domain.StateIdle {
			continue
		}
		if inst.Slot == rec.Slot {
			return inst, false
		}
		if fallback == nil {
			fallback = inst
		}
	}
	return fallback, false
}
