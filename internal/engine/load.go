package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/execution"
	"github.com/mrz1836/dayplan/internal/order"
	"github.com/mrz1836/dayplan/internal/registry"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Load rebuilds the session for date from storage. Read failures fall back
// to empty data and are logged; only an invalid date or a canceled context
// fails the load.
func (e *Engine) Load(ctx context.Context, date string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := clock.ParseDate(date, e.loc); err != nil {
		return nil, err
	}
	ctx = e.withLogger(ctx)
	log := e.logger.With().Str("date", date).Logger()

	templates, err := e.templates.LoadTemplates(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read templates, continuing without")
		templates = nil
	}
	entries, err := e.records.Entries(ctx, date)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read execution log, continuing without")
		entries = nil
	}
	day, err := e.records.LoadDay(ctx, date)
	if err != nil || day == nil {
		log.Warn().Err(err).Msg("failed to read day state, continuing without")
		day = domain.NewDayState()
	}
	records, err := e.records.LoadRunning(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read running record, continuing without")
		records = nil
	}

	now := e.Now()
	today := clock.DateKey(now)

	built := registry.Build(ctx, registry.Input{
		Date:      date,
		Templates: templates,
		Entries:   entries,
		Day:       day,
		Now:       now,
		Location:  e.loc,
	})

	byPath := make(map[string]*domain.Template, len(templates))
	for _, tpl := range templates {
		byPath[tpl.Path] = tpl
	}

	recovered := execution.Recover(execution.RecoverInput{
		Records:   records,
		Instances: built.Instances,
		Templates: byPath,
		ViewDate:  date,
		Today:     today,
		Location:  e.loc,
	})
	for _, stale := range recovered.Stale {
		log.Warn().Str("instance_id", stale.InstanceID).Str("record_date", stale.Date).
			Msg("ignoring stale running record")
	}

	s := &Session{
		Date:      date,
		Instances: recovered.Instances,
		Templates: byPath,
		Day:       day,
	}
	if r := recovered.Running; r != nil {
		s.running = r.Instance
		s.runningDate = r.Record.Date
		if r.Synthetic {
			log.Debug().Str("instance_id", r.Instance.ID).Msg("running record restored without a built instance")
		}
	}

	order.AssignInitial(s.Instances, day.Orders)

	moved := false
	if date == today {
		moved = migrateStale(s, timeslot.ClassifyTime(now))
	}
	Sort(s.Instances)

	if moved || built.DayMigrated {
		if err := e.saveOrders(ctx, s); err != nil {
			log.Error().Err(err).Msg("failed to persist repaired day state")
		}
	}

	log.Debug().Int("instances", len(s.Instances)).Bool("running", s.running != nil).Msg("session loaded")
	return s, nil
}

// migrateStale moves idle instances sitting in a slot that has already
// passed into current, after the idle instances already there. Their
// relative order is kept.
func migrateStale(s *Session, current timeslot.Key) bool {
	var stale []*domain.Instance
	for _, inst := range s.Instances {
		if inst.State() == domain.StateIdle && timeslot.Before(inst.Slot, current) {
			stale = append(stale, inst)
		}
	}
	if len(stale) == 0 {
		return false
	}

	slices.SortStableFunc(stale, func(a, b *domain.Instance) int {
		if c := a.Slot.Rank() - b.Slot.Rank(); c != 0 {
			return c
		}
		return a.Order - b.Order
	})

	for _, inst := range stale {
		group := order.Group(s.Instances, current, domain.StateIdle)
		inst.Order = order.Insert(group, len(group), order.OtherMax(s.Instances, current, domain.StateIdle))
		inst.Slot = current
	}
	return true
}

// saveOrders rewrites the saved-order map and writes the day state.
func (e *Engine) saveOrders(ctx context.Context, s *Session) error {
	s.Day.Orders = order.Snapshot(s.Instances)
	if err := e.records.SaveDay(ctx, s.Date, s.Day); err != nil {
		return dperrors.StorageWrite(err, fmt.Sprintf("day state %s", s.Date))
	}
	return nil
}
