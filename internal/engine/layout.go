package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/order"
	"github.com/mrz1836/dayplan/internal/registry"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// Move places an idle instance in slot at displayIndex, an index into the
// slot's full display list. Done and running items always stay on top, so an
// index pointing among them is rejected. An index past the end appends.
func (e *Engine) Move(ctx context.Context, s *Session, id string, slot timeslot.Key, displayIndex int) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if !slot.IsValid() {
		return nil, fmt.Errorf("%w: %q", dperrors.ErrInvalidSlot, slot)
	}
	if inst.State() != domain.StateIdle {
		e.logger.Debug().Str("instance_id", inst.ID).Str("state", inst.State().String()).Msg("move rejected")
		return nil, fmt.Errorf("%w: %s is %s", dperrors.ErrMoveNotIdle, inst.Name(), inst.State())
	}

	pinned := 0
	var idle []*domain.Instance
	for _, other := range s.InSlot(slot) {
		if other == inst {
			continue
		}
		if other.State() == domain.StateIdle {
			idle = append(idle, other)
		} else {
			pinned++
		}
	}
	if displayIndex < pinned {
		return nil, fmt.Errorf("%w: index %d is above %d finished or running items",
			dperrors.ErrInvalidDropPosition, displayIndex, pinned)
	}
	target := min(displayIndex-pinned, len(idle))

	ctx = e.withLogger(ctx)
	otherMax := order.OtherMax(s.Instances, slot, domain.StateIdle)
	inst.Order = order.Insert(order.Group(idle, slot, domain.StateIdle), target, otherMax)
	inst.Slot = slot

	Sort(s.Instances)
	if err := e.saveOrders(ctx, s); err != nil {
		e.logger.Error().Err(err).Str("instance_id", inst.ID).Msg("failed to persist order")
		return inst, err
	}
	e.logger.Debug().Str("instance_id", inst.ID).Str("slot", slot.String()).Int("order", inst.Order).Msg("moved")
	return inst, nil
}

// MoveToDate reschedules a one-off task to date. Routines, duplicates and
// anything already started stay where they are.
func (e *Engine) MoveToDate(ctx context.Context, s *Session, id, date string) (*domain.Instance, error) {
	inst, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if _, err := clock.ParseDate(date, e.loc); err != nil {
		return nil, err
	}
	switch {
	case inst.IsRoutine():
		return nil, fmt.Errorf("%w: %s", dperrors.ErrRoutineMove, inst.Name())
	case inst.State() != domain.StateIdle:
		return nil, fmt.Errorf("%w: %s is %s", dperrors.ErrMoveNotIdle, inst.Name(), inst.State())
	case inst.Duplicate:
		return nil, fmt.Errorf("%w: duplicates belong to their date", dperrors.ErrInvalidArgument)
	case inst.Template.Synthetic:
		return nil, fmt.Errorf("%w: %s", dperrors.ErrTemplateNotFound, inst.Path())
	}

	ctx = e.withLogger(ctx)
	if err := e.templates.SetTargetDate(ctx, inst.Path(), date); err != nil {
		return inst, e.writeFailed(err, "template target date", inst)
	}
	inst.Template.TargetDate = date

	if date == s.Date {
		return inst, nil
	}
	s.remove(inst)
	if err := e.saveOrders(ctx, s); err != nil {
		return inst, err
	}
	e.logger.Info().Str("task", inst.Name()).Str("from", s.Date).Str("to", date).Msg("moved to date")
	return inst, nil
}

// Duplicate adds an idle copy of the instance right after it in the same
// slot. The copy has a fresh id and is remembered in the day state.
func (e *Engine) Duplicate(ctx context.Context, s *Session, id string) (*domain.Instance, error) {
	src, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if src.Template == nil || src.Template.Synthetic {
		return nil, fmt.Errorf("%w: %s", dperrors.ErrTemplateNotFound, src.Path())
	}

	ctx = e.withLogger(ctx)
	dup := &domain.Instance{
		ID:        registry.NewInstanceID(src.Path(), e.Now()),
		Template:  src.Template,
		Exec:      domain.Idle(),
		Slot:      src.Slot,
		Date:      s.Date,
		Duplicate: true,
	}
	dup.Order = order.PlaceDuplicate(src, s.Instances)

	s.Day.AddDuplicate(src.Path(), dup.ID)
	s.Instances = append(s.Instances, dup)
	Sort(s.Instances)

	var errs []error
	if err := e.saveOrders(ctx, s); err != nil {
		e.logger.Error().Err(err).Str("instance_id", dup.ID).Msg("failed to persist duplicate")
		errs = append(errs, err)
	}
	e.logger.Info().Str("instance_id", dup.ID).Str("source", src.ID).Msg("duplicated")
	return dup, errors.Join(errs...)
}
