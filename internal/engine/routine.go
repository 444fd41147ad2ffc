package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// SetRoutine turns the template of the instance into a routine, or changes
// its routine configuration.
func (e *Engine) SetRoutine(ctx context.Context, s *Session, id string, cfg domain.RoutineConfig) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if cfg.RoutineType == domain.RoutineNone || !cfg.RoutineType.IsValid() {
		return nil, fmt.Errorf("%w: routine type %q", dperrors.ErrInvalidArgument, cfg.RoutineType)
	}
	if cfg.ScheduledTime != "" {
		if _, err := timeslot.ParseClock(cfg.ScheduledTime); err != nil {
			return nil, err
		}
	}
	if inst.Template.Synthetic {
		return nil, fmt.Errorf("%w: %s", dperrors.ErrTemplateNotFound, inst.Path())
	}

	ctx = e.withLogger(ctx)
	if err := e.templates.SetRoutine(ctx, inst.Path(), cfg); err != nil {
		return inst, e.writeFailed(err, "template routine", inst)
	}

	tpl := inst.Template
	tpl.IsRoutine = true
	tpl.RoutineType = cfg.RoutineType
	tpl.ScheduledTime = cfg.ScheduledTime
	tpl.Weekdays = slices.Clone(cfg.Weekdays)
	tpl.RoutineStart = cfg.Start
	tpl.RoutineEnd = cfg.End
	tpl.RoutineRemovedOn = ""

	e.logger.Info().Str("task", inst.Name()).Str("routine_type", string(cfg.RoutineType)).Msg("routine set")
	return inst, nil
}

// ClearRoutine turns the template of the instance back into a one-off task.
// The viewed date is recorded so the task stays visible there.
func (e *Engine) ClearRoutine(ctx context.Context, s *Session, id string) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if !inst.IsRoutine() {
		return inst, nil
	}

	ctx = e.withLogger(ctx)
	if err := e.templates.ClearRoutine(ctx, inst.Path(), s.Date); err != nil {
		return inst, e.writeFailed(err, "template routine", inst)
	}
	inst.Template.IsRoutine = false
	inst.Template.RoutineRemovedOn = s.Date

	e.logger.Info().Str("task", inst.Name()).Str("date", s.Date).Msg("routine cleared")
	return inst, nil
}
