package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/execution"
	"github.com/mrz1836/dayplan/internal/order"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Start begins the instance with the given id now. A running instance is
// stopped first. Starting a one-off task while viewing another date moves the
// task to today.
func (e *Engine) Start(ctx context.Context, s *Session, id string) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	now := e.Now()
	today := clock.DateKey(now)

	if clock.CompareDates(s.Date, today) > 0 {
		e.logger.Debug().Str("date", s.Date).Msg("start rejected for future date")
		return nil, fmt.Errorf("%w: %s", dperrors.ErrFutureDateStart, s.Date)
	}
	switch inst.State() {
	case domain.StateRunning:
		return nil, fmt.Errorf("%w: %s", dperrors.ErrAlreadyRunning, inst.Name())
	case domain.StateDone:
		return nil, fmt.Errorf("%w: %s", dperrors.ErrAlreadyDone, inst.Name())
	}

	ctx = e.withLogger(ctx)
	var errs []error

	if prev := s.running; prev != nil && prev != inst {
		if err := e.stop(ctx, s, prev, now); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, e.stopOtherRuns(ctx, s, inst, now)...)

	if !inst.IsRoutine() && s.Date != today && !inst.Template.Synthetic {
		if err := e.templates.SetTargetDate(ctx, inst.Path(), today); err != nil {
			errs = append(errs, e.writeFailed(err, "template target date", inst))
		}
		inst.Template.TargetDate = today
	}

	if err := execution.Start(inst, now); err != nil {
		return nil, errors.Join(append(errs, err)...)
	}
	s.running = inst
	s.runningDate = today
	placeLast(s, inst)

	if err := e.records.SaveRunning(ctx, runningRecord(inst, today)); err != nil {
		errs = append(errs, e.writeFailed(err, "running record", inst))
	}

	Sort(s.Instances)
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}

	e.logger.Info().Str("instance_id", inst.ID).Str("task", inst.Name()).Str("slot", inst.Slot.String()).Msg("started")
	return inst, errors.Join(errs...)
}

// Stop completes the instance with the given id at *at, or now when at is nil.
// Stopping an instance that is not running does nothing and writes nothing.
func (e *Engine) Stop(ctx context.Context, s *Session, id string, at *time.Time) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if inst.State() != domain.StateRunning {
		e.logger.Debug().Str("instance_id", inst.ID).Msg("stop ignored, not running")
		return inst, nil
	}

	stopAt := e.Now()
	if at != nil {
		stopAt = at.In(e.loc)
	}

	ctx = e.withLogger(ctx)
	if err := e.stop(ctx, s, inst, stopAt); err != nil {
		return inst, err
	}
	return inst, nil
}

// stop completes a running instance, logs it under the date it was started,
// clears the running record, refreshes statistics and re-persists orders.
func (e *Engine) stop(ctx context.Context, s *Session, inst *domain.Instance, at time.Time) error {
	date := s.Date
	if s.running == inst && s.runningDate != "" {
		date = s.runningDate
	}

	if err := execution.Stop(inst, at); err != nil {
		return err
	}
	if s.running == inst {
		s.running = nil
		s.runningDate = ""
	}

	var errs []error
	entry := entryFor(inst)
	if err := e.records.ReplaceEntry(ctx, date, domain.EntryMatch{InstanceID: inst.ID}, entry); err != nil {
		errs = append(errs, e.writeFailed(err, "execution entry", inst))
	}
	if _, err := e.records.ClearRunning(ctx, inst.ID); err != nil {
		errs = append(errs, e.writeFailed(err, "running record", inst))
	}
	e.recomputeStats(ctx, date)

	renumberFinished(s, inst)
	Sort(s.Instances)
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}

	e.logger.Info().Str("instance_id", inst.ID).Str("task", inst.Name()).Str("log_date", date).
		Dur("duration", execution.Duration(inst.StartTime(), at)).Msg("stopped")
	return errors.Join(errs...)
}

// stopOtherRuns completes the persisted runs the session does not hold, such
// as one started while another date was viewed. Each is logged under the date
// it was started and its record is cleared. A record whose instance is
// already done in the session is only cleared.
func (e *Engine) stopOtherRuns(ctx context.Context, s *Session, keep *domain.Instance, now time.Time) []error {
	records, err := e.records.LoadRunning(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("running records unreadable, replacing")
		return nil
	}

	var errs []error
	for _, rec := range records {
		if rec.InstanceID == keep.ID {
			continue
		}
		if held := s.byID(rec.InstanceID); held == nil || held.State() != domain.StateDone {
			entry := entryForRecord(rec, now, e.loc)
			match := domain.EntryMatch{InstanceID: rec.InstanceID, Path: rec.TaskPath, Start: rec.StartTime}
			if err := e.records.ReplaceEntry(ctx, rec.Date, match, entry); err != nil {
				e.logger.Error().Err(err).Str("instance_id", rec.InstanceID).Msg("write failed")
				errs = append(errs, dperrors.StorageWrite(err, "execution entry"))
			}
			e.recomputeStats(ctx, rec.Date)
			e.logger.Info().Str("instance_id", rec.InstanceID).Str("task", rec.TaskName).Str("log_date", rec.Date).
				Dur("duration", time.Duration(entry.DurationSec)*time.Second).Msg("stopped run from another date")
		}
		if _, err := e.records.ClearRunning(ctx, rec.InstanceID); err != nil {
			e.logger.Error().Err(err).Str("instance_id", rec.InstanceID).Msg("write failed")
			errs = append(errs, dperrors.StorageWrite(err, "running record"))
		}
	}
	return errs
}

// ResetToIdle discards the run of an instance. A running instance loses its
// running record; a completed one keeps its log entry, flagged as not
// completed, so rating and comment survive.
func (e *Engine) ResetToIdle(ctx context.Context, s *Session, id string) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if inst.State() == domain.StateIdle {
		return inst, nil
	}
	ctx = e.withLogger(ctx)
	return inst, e.reset(ctx, s, inst)
}

func (e *Engine) reset(ctx context.Context, s *Session, inst *domain.Instance) error {
	var errs []error
	wasRunning := inst.State() == domain.StateRunning
	match := inst.EntryMatch()

	if err := execution.Reset(inst); err != nil {
		return err
	}

	if wasRunning {
		if s.running == inst {
			s.running = nil
			s.runningDate = ""
		}
		if _, err := e.records.ClearRunning(ctx, inst.ID); err != nil {
			errs = append(errs, e.writeFailed(err, "running record", inst))
		}
	} else {
		if _, err := e.records.MarkIncomplete(ctx, s.Date, match); err != nil {
			errs = append(errs, e.writeFailed(err, "execution entry", inst))
		}
		e.recomputeStats(ctx, s.Date)
	}

	placeLast(s, inst)
	Sort(s.Instances)
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}
	e.logger.Info().Str("instance_id", inst.ID).Str("task", inst.Name()).Msg("reset to idle")
	return errors.Join(errs...)
}

// TimeEdit is a change to the start and stop times of an instance.
type TimeEdit struct {
	Start      *time.Time
	Stop       *time.Time
	ClearStart bool
	ClearStop  bool
}

// EditTimes applies a time edit.
//
//	clear start             → reset to idle
//	done, clear stop        → running again from the (new) start
//	done, new start/stop    → completed entry rewritten
//	running, new stop       → stopped at that time
//	running, new start      → running record rewritten
func (e *Engine) EditTimes(ctx context.Context, s *Session, id string, edit TimeEdit) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if edit.Start == nil && edit.Stop == nil && !edit.ClearStart && !edit.ClearStop {
		return nil, fmt.Errorf("%w: nothing to change", dperrors.ErrInvalidArgument)
	}
	if inst.State() == domain.StateIdle {
		return nil, fmt.Errorf("%w: %s has no recorded times", dperrors.ErrInvalidTransition, inst.Name())
	}
	ctx = e.withLogger(ctx)

	if edit.ClearStart {
		return inst, e.reset(ctx, s, inst)
	}

	start := inst.StartTime()
	if edit.Start != nil {
		start = edit.Start.In(e.loc)
	}

	if inst.State() == domain.StateRunning {
		inst.Exec = domain.Running(start)
		if edit.Stop != nil {
			return inst, e.stop(ctx, s, inst, edit.Stop.In(e.loc))
		}
		date := s.runningDate
		if date == "" {
			date = s.Date
		}
		if err := e.records.SaveRunning(ctx, runningRecord(inst, date)); err != nil {
			return inst, e.writeFailed(err, "running record", inst)
		}
		return inst, nil
	}

	if edit.ClearStop {
		return inst, e.resume(ctx, s, inst, start)
	}

	stop := inst.Exec.StopTime()
	if edit.Stop != nil {
		stop = edit.Stop.In(e.loc)
	}
	match := inst.EntryMatch()
	if err := execution.Retime(inst, start, stop); err != nil {
		return nil, err
	}

	var errs []error
	if err := e.records.ReplaceEntry(ctx, s.Date, match, entryFor(inst)); err != nil {
		errs = append(errs, e.writeFailed(err, "execution entry", inst))
	}
	e.recomputeStats(ctx, s.Date)
	renumberFinished(s, inst)
	Sort(s.Instances)
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}
	return inst, errors.Join(errs...)
}

// resume turns a completed instance back into the running one.
func (e *Engine) resume(ctx context.Context, s *Session, inst *domain.Instance, start time.Time) error {
	var errs []error
	match := inst.EntryMatch()

	now := e.Now()
	if prev := s.running; prev != nil && prev != inst {
		if err := e.stop(ctx, s, prev, now); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, e.stopOtherRuns(ctx, s, inst, now)...)

	if err := execution.Resume(inst, start); err != nil {
		return errors.Join(append(errs, err)...)
	}
	inst.OriginalSlot = inst.Slot
	s.running = inst
	s.runningDate = s.Date

	if _, err := e.records.MarkIncomplete(ctx, s.Date, match); err != nil {
		errs = append(errs, e.writeFailed(err, "execution entry", inst))
	}
	if err := e.records.SaveRunning(ctx, runningRecord(inst, s.Date)); err != nil {
		errs = append(errs, e.writeFailed(err, "running record", inst))
	}
	e.recomputeStats(ctx, s.Date)

	placeLast(s, inst)
	Sort(s.Instances)
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) recomputeStats(ctx context.Context, date string) {
	if e.stats == nil {
		return
	}
	if err := e.stats.Recompute(ctx, date); err != nil {
		e.logger.Warn().Err(err).Str("date", date).Msg("statistics recompute failed")
	}
}

func (e *Engine) writeFailed(err error, what string, inst *domain.Instance) error {
	e.logger.Error().Err(err).Str("instance_id", inst.ID).Str("record", what).Msg("write failed")
	return dperrors.StorageWrite(err, what)
}

// placeLast gives inst the next order at the end of its (slot, state) group.
func placeLast(s *Session, inst *domain.Instance) {
	var group []*domain.Instance
	for _, other := range order.Group(s.Instances, inst.Slot, inst.State()) {
		if other != inst {
			group = append(group, other)
		}
	}
	other := 0
	if inst.State() == domain.StateIdle {
		other = order.OtherMax(s.Instances, inst.Slot, domain.StateIdle)
	}
	inst.Order = order.Insert(group, len(group), other)
}

// renumberFinished reassigns the done group of inst's slot in start order.
func renumberFinished(s *Session, inst *domain.Instance) {
	for i, done := range order.Group(s.Instances, inst.Slot, domain.StateDone) {
		done.Order = (i + 1) * 100
	}
}

func runningRecord(inst *domain.Instance, date string) domain.RunningRecord {
	return domain.RunningRecord{
		InstanceID:   inst.ID,
		TaskPath:     inst.Path(),
		TaskName:     inst.Name(),
		Date:         date,
		Slot:         inst.Slot,
		OriginalSlot: inst.OriginalSlot,
		StartTime:    inst.StartTime(),
		IsRoutine:    inst.IsRoutine(),
		Project:      inst.Template.Project,
	}
}

func entryFor(inst *domain.Instance) domain.ExecutionEntry {
	start := inst.StartTime()
	stop := inst.Exec.StopTime()
	return domain.ExecutionEntry{
		InstanceID:  inst.ID,
		TaskPath:    inst.Path(),
		TaskName:    inst.Name(),
		Slot:        inst.Slot,
		IsCompleted: true,
		StartTime:   start,
		StopTime:    stop,
		DurationSec: int64(execution.Duration(start, stop) / time.Second),
		Project:     inst.Template.Project,
		Rating:      inst.Rating,
		Comment:     inst.Comment,
	}
}

// entryForRecord completes a running record at stop.
func entryForRecord(rec domain.RunningRecord, stop time.Time, loc *time.Location) domain.ExecutionEntry {
	start := rec.StartTime.In(loc)
	stop = stop.In(loc)
	slot := rec.Slot
	if slot == "" {
		slot = timeslot.ClassifyTime(start)
	}
	return domain.ExecutionEntry{
		InstanceID:  rec.InstanceID,
		TaskPath:    rec.TaskPath,
		TaskName:    rec.TaskName,
		Slot:        slot,
		IsCompleted: true,
		StartTime:   start,
		StopTime:    stop,
		DurationSec: int64(execution.Duration(start, stop) / time.Second),
		Project:     rec.Project,
	}
}
