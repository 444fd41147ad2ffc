// Package registry rebuilds the instances of one date from templates,
// execution entries and the date's markers.
package registry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Input carries everything Build reads. Day may be mutated: legacy duplicate
// markers receive instance ids.
type Input struct {
	Date      string
	Templates []*domain.Template
	Entries   []domain.ExecutionEntry
	Day       *domain.DayState
	Now       time.Time
	Location  *time.Location
}

// Result is the rebuilt instance set.
type Result struct {
	Instances []*domain.Instance

	// DayMigrated is true when legacy markers were upgraded and the day state
	// should be written back.
	DayMigrated bool
}

type builder struct {
	in     Input
	loc    *time.Location
	byPath map[string][]domain.ExecutionEntry
	seen   map[string]struct{}
	out    []*domain.Instance
}

// Build reconciles the input into instances for in.Date. Instances are
// returned in template order, done before idle, duplicates after the primary.
// When two instances would share an id the first one wins.
func Build(ctx context.Context, in Input) Result {
	log := zerolog.Ctx(ctx)

	if in.Day == nil {
		in.Day = domain.NewDayState()
	}
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}

	b := &builder{
		in:     in,
		loc:    loc,
		byPath: make(map[string][]domain.ExecutionEntry),
		seen:   make(map[string]struct{}),
	}
	for _, e := range in.Entries {
		b.byPath[e.TaskPath] = append(b.byPath[e.TaskPath], e)
	}

	migrated := migrateLegacy(in.Day, in.Now)
	if migrated {
		log.Debug().Str("date", in.Date).Msg("upgraded legacy markers")
	}

	known := make(map[string]struct{}, len(in.Templates))
	for _, tpl := range in.Templates {
		known[tpl.Path] = struct{}{}

		if in.Day.IsPermanentlyDeleted(tpl.Path) || in.Day.IsHiddenTemplate(tpl.Path) {
			log.Debug().Str("path", tpl.Path).Str("date", in.Date).Msg("template suppressed for date")
			continue
		}
		b.addTemplate(tpl)
	}

	b.addOrphans(known)

	return Result{Instances: b.out, DayMigrated: migrated}
}

func (b *builder) addTemplate(tpl *domain.Template) {
	day := b.in.Day
	entries := b.byPath[tpl.Path]
	duplicates := day.DuplicatesOf(tpl.Path)

	if !IsVisible(tpl, VisibilityInput{
		Date:         b.in.Date,
		HasHistory:   len(entries) > 0,
		HasDuplicate: len(duplicates) > 0,
	}) {
		return
	}

	primaryDone := false
	reusableID := ""
	completedIDs := make(map[string]struct{})
	for _, e := range entries {
		isDuplicate := day.IsDuplicateID(e.InstanceID)
		if !e.IsCompleted {
			if !isDuplicate && e.InstanceID != "" {
				reusableID = e.InstanceID
			}
			continue
		}
		if !isDuplicate {
			primaryDone = true
		}
		completedIDs[e.InstanceID] = struct{}{}
		if day.SuppressesID(e.InstanceID) {
			continue
		}
		b.add(b.doneInstance(tpl, e, isDuplicate))
	}

	if !primaryDone {
		id := reusableID
		if id == "" {
			id = NewInstanceID(tpl.Path, b.in.Now)
		}
		if !day.Suppresses(tpl.Path, id, false) {
			b.add(b.idleInstance(tpl, id, false))
		}
	}

	for _, m := range duplicates {
		if _, done := completedIDs[m.InstanceID]; done {
			continue
		}
		if day.Suppresses(tpl.Path, m.InstanceID, true) {
			continue
		}
		b.add(b.idleInstance(tpl, m.InstanceID, true))
	}
}

func (b *builder) doneInstance(tpl *domain.Template, e domain.ExecutionEntry, duplicate bool) *domain.Instance {
	id := e.InstanceID
	if id == "" {
		id = NewInstanceID(tpl.Path, b.in.Now)
	}

	start := e.StartTime.In(b.loc)
	slot := e.Slot
	if tpl.IsRoutine || !slot.IsValid() {
		slot = timeslot.ClassifyTime(start)
	}

	return &domain.Instance{
		ID:        id,
		Template:  tpl,
		Exec:      domain.Done(start, e.StopTime.In(b.loc)),
		Slot:      slot,
		Date:      b.in.Date,
		Duplicate: duplicate,
		Rating:    e.Rating,
		Comment:   e.Comment,
	}
}

func (b *builder) idleInstance(tpl *domain.Template, id string, duplicate bool) *domain.Instance {
	inst := &domain.Instance{
		ID:        id,
		Template:  tpl,
		Exec:      domain.Idle(),
		Date:      b.in.Date,
		Duplicate: duplicate,
	}
	if saved, ok := b.in.Day.Orders[inst.OrderKey()]; ok && saved.Slot.IsValid() {
		inst.Slot = saved.Slot
	} else {
		inst.Slot = tpl.ScheduledSlot()
	}
	return inst
}

func (b *builder) add(inst *domain.Instance) {
	if _, dup := b.seen[inst.ID]; dup {
		return
	}
	b.seen[inst.ID] = struct{}{}
	b.out = append(b.out, inst)
}

// addOrphans turns completed entries of unknown templates into done instances
// backed by synthetic templates, so history of renamed or deleted tasks stays
// visible.
func (b *builder) addOrphans(known map[string]struct{}) {
	synthetic := make(map[string]*domain.Template)
	for _, e := range b.in.Entries {
		if _, ok := known[e.TaskPath]; ok || !e.IsCompleted {
			continue
		}
		if b.in.Day.SuppressesID(e.InstanceID) {
			continue
		}
		tpl, ok := synthetic[e.TaskPath]
		if !ok {
			tpl = domain.Synthesize(e.TaskPath, e.TaskName)
			synthetic[e.TaskPath] = tpl
		}
		b.add(b.doneInstance(tpl, e, false))
	}
}

// migrateLegacy gives legacy duplicate markers an instance id and marks every
// marker as current so the next write stores the object form.
func migrateLegacy(day *domain.DayState, now time.Time) bool {
	changed := false
	for i := range day.Duplicates {
		m := &day.Duplicates[i]
		if m.Kind != domain.MarkerLegacy {
			continue
		}
		if m.InstanceID == "" {
			m.InstanceID = NewInstanceID(m.Path, now)
		}
		m.Kind = domain.MarkerCurrent
		changed = true
	}
	for i := range day.Deletions {
		if day.Deletions[i].Kind == domain.MarkerLegacy {
			day.Deletions[i].Kind = domain.MarkerCurrent
			changed = true
		}
	}
	for i := range day.Hidden {
		if day.Hidden[i].Kind == domain.MarkerLegacy {
			day.Hidden[i].Kind = domain.MarkerCurrent
			changed = true
		}
	}
	return changed
}
