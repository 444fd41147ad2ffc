package engine

import (
	"context"
	"errors"

	"github.com/mrz1836/dayplan/internal/domain"
)

// DeleteOccurrence removes one occurrence from the viewed date. The template
// and every other date are untouched.
func (e *Engine) DeleteOccurrence(ctx context.Context, s *Session, id string) error {
	inst, err := s.Find(id)
	if err != nil {
		return err
	}
	ctx = e.withLogger(ctx)
	now := e.Now()
	var errs []error

	switch inst.State() {
	case domain.StateRunning:
		if _, err := e.records.ClearRunning(ctx, inst.ID); err != nil {
			errs = append(errs, e.writeFailed(err, "running record", inst))
		}
	case domain.StateDone:
		if _, err := e.records.DeleteEntries(ctx, s.Date, inst.EntryMatch()); err != nil {
			errs = append(errs, e.writeFailed(err, "execution entry", inst))
		}
		e.recomputeStats(ctx, s.Date)
	}

	temporary := func(m domain.Marker) domain.DeletionMarker {
		return domain.DeletionMarker{Marker: m, Type: domain.DeletionTemporary, DeletedAt: now}
	}
	switch {
	case inst.Duplicate:
		s.Day.AddDeletion(temporary(domain.InstanceMarker(inst.Path(), inst.ID)))
	case inst.IsRoutine():
		s.Day.AddHidden(domain.PathMarker(inst.Path()))
		if inst.State() != domain.StateIdle {
			s.Day.AddHidden(domain.InstanceMarker(inst.Path(), inst.ID))
		}
	default:
		s.Day.AddDeletion(temporary(domain.PathMarker(inst.Path())))
		if inst.State() != domain.StateIdle {
			s.Day.AddDeletion(temporary(domain.InstanceMarker(inst.Path(), inst.ID)))
		}
	}

	s.remove(inst)
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}
	e.logger.Info().Str("instance_id", inst.ID).Str("task", inst.Name()).Msg("occurrence deleted")
	return errors.Join(errs...)
}

// DeletePermanently removes the occurrence and its log entries. When no other
// occurrence of the template is left on the date the template file is deleted
// too and the date keeps a permanent path marker, so nothing brings the task
// back.
func (e *Engine) DeletePermanently(ctx context.Context, s *Session, id string) error {
	inst, err := s.Find(id)
	if err != nil {
		return err
	}
	ctx = e.withLogger(ctx)
	now := e.Now()
	var errs []error

	switch inst.State() {
	case domain.StateRunning:
		if _, err := e.records.ClearRunning(ctx, inst.ID); err != nil {
			errs = append(errs, e.writeFailed(err, "running record", inst))
		}
	case domain.StateDone:
		if _, err := e.records.DeleteEntries(ctx, s.Date, inst.EntryMatch()); err != nil {
			errs = append(errs, e.writeFailed(err, "execution entry", inst))
		}
		e.recomputeStats(ctx, s.Date)
	}

	removeTemplate := !inst.Template.Synthetic && !s.hasOtherOccurrence(inst)

	if inst.Duplicate {
		s.Day.RemoveDuplicate(inst.ID)
	}
	s.Day.AddDeletion(domain.DeletionMarker{
		Marker:    domain.InstanceMarker(inst.Path(), inst.ID),
		Type:      domain.DeletionPermanent,
		DeletedAt: now,
	})
	switch {
	case removeTemplate:
		s.Day.AddDeletion(domain.DeletionMarker{
			Marker:    domain.PathMarker(inst.Path()),
			Type:      domain.DeletionPermanent,
			DeletedAt: now,
		})
	case !inst.Duplicate:
		// Other occurrences survive; only the primary is kept off the date.
		s.Day.AddDeletion(domain.DeletionMarker{
			Marker:    domain.PathMarker(inst.Path()),
			Type:      domain.DeletionTemporary,
			DeletedAt: now,
		})
	}
	s.remove(inst)

	if removeTemplate {
		if err := e.templates.DeleteTemplate(ctx, inst.Path()); err != nil {
			errs = append(errs, e.writeFailed(err, "template", inst))
		}
		delete(s.Templates, inst.Path())
	}
	if err := e.saveOrders(ctx, s); err != nil {
		errs = append(errs, err)
	}
	e.logger.Info().Str("instance_id", inst.ID).Str("task", inst.Name()).Bool("template_removed", removeTemplate).
		Msg("deleted permanently")
	return errors.Join(errs...)
}
