package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/engine"
	"github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/tui"
)

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the day's tasks by time slot",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout()).Plan(a.plan(s))
		},
	})
}

// AddStartCommand adds the start command to the root command.
func AddStartCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "start <id>",
		Short: "Start a task, stopping whatever is running",
		Long: `Start a task now. A task that is already running is stopped first.

Starting a one-off task while viewing a past date moves it to today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.Start(cmd.Context(), s, id)
			if inst != nil {
				a.output(cmd.OutOrStdout()).Success("Started " + label(inst))
			}
			return err
		},
	})
}

// AddStopCommand adds the stop command to the root command.
func AddStopCommand(root *cobra.Command, a *app) {
	var at string

	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop the running task",
		Long: `Stop the running task now, or at --at HH:MM. A clock time earlier than the
start time is taken to be on the following day.

Stopping a task that is not running does nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			out := a.output(cmd.OutOrStdout())

			inst, err := a.find(s, args[0])
			if err != nil {
				return err
			}
			if inst.State() != domain.StateRunning {
				out.Info(label(inst) + " is not running")
				return nil
			}

			var stopAt *time.Time
			if at != "" {
				t, err := stopOnOrAfter(inst.StartTime().In(a.engine.Location()), at)
				if err != nil {
					return err
				}
				stopAt = &t
			}

			inst, err = a.engine.Stop(ctx, s, inst.ID, stopAt)
			if inst != nil {
				out.Success("Stopped " + label(inst))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "stop time (HH:MM)")

	root.AddCommand(cmd)
}

// AddMoveCommand adds the move command to the root command.
func AddMoveCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "move <id> <slot> <index>",
		Short: "Move an idle task to a slot and position",
		Long: `Move an idle task within the day. <slot> is a slot key such as 8:00-12:00 or
one of none, night, morning, afternoon, evening. <index> is the zero-based
position in the slot's listing and must not be above running or completed
tasks.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[1])
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.Move(cmd.Context(), s, id, slot, index)
			if inst != nil && err == nil {
				a.output(cmd.OutOrStdout()).Success(fmt.Sprintf("Moved %s to %s", label(inst), tui.SlotLabel(slot)))
			}
			return err
		},
	})
}

// AddMoveDateCommand adds the move-date command to the root command.
func AddMoveDateCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "move-date <id> <YYYY-MM-DD>",
		Short: "Move a one-off task to another date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.MoveToDate(cmd.Context(), s, id, args[1])
			if inst != nil && err == nil {
				a.output(cmd.OutOrStdout()).Success(fmt.Sprintf("Moved %s to %s", label(inst), args[1]))
			}
			return err
		},
	})
}

// AddDuplicateCommand adds the duplicate command to the root command.
func AddDuplicateCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "duplicate <id>",
		Short: "Add another occurrence of a task for the day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.Duplicate(cmd.Context(), s, id)
			if inst != nil {
				a.output(cmd.OutOrStdout()).Success("Duplicated as " + label(inst))
			}
			return err
		},
	})
}

// AddDeleteCommand adds the delete command to the root command.
func AddDeleteCommand(root *cobra.Command, a *app) {
	var permanent bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a task occurrence from the day",
		Long: `Remove a task occurrence from the viewed day. Its execution record for the day
is deleted too.

With --permanent the task is removed for good. The template file is deleted
unless other occurrences of it remain on the day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			inst, err := a.find(s, args[0])
			if err != nil {
				return err
			}
			if permanent {
				err = a.engine.DeletePermanently(ctx, s, inst.ID)
			} else {
				err = a.engine.DeleteOccurrence(ctx, s, inst.ID)
			}
			if err != nil && errors.IsPrecondition(err) {
				return err
			}
			a.output(cmd.OutOrStdout()).Success("Deleted " + label(inst))
			return err
		},
	}
	cmd.Flags().BoolVar(&permanent, "permanent", false, "delete the task permanently")

	root.AddCommand(cmd)
}

// AddResetCommand adds the reset command to the root command.
func AddResetCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "reset <id>",
		Short: "Return a running or completed task to idle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.ResetToIdle(cmd.Context(), s, id)
			if inst != nil {
				a.output(cmd.OutOrStdout()).Success("Reset " + label(inst))
			}
			return err
		},
	})
}

// AddEditTimesCommand adds the edit-times command to the root command.
func AddEditTimesCommand(root *cobra.Command, a *app) {
	var (
		start, stop           string
		clearStart, clearStop bool
	)

	cmd := &cobra.Command{
		Use:   "edit-times <id>",
		Short: "Correct the start or stop time of a task",
		Long: `Correct recorded times. Clock times are HH:MM on the day the task started; a
stop time earlier than the start is taken to be on the following day.

--clear-start returns the task to idle. --clear-stop resumes a completed task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			inst, err := a.find(s, args[0])
			if err != nil {
				return err
			}

			edit, err := a.timeEdit(s, inst, start, stop)
			if err != nil {
				return err
			}
			edit.ClearStart = clearStart
			edit.ClearStop = clearStop

			inst, err = a.engine.EditTimes(ctx, s, inst.ID, edit)
			if inst != nil {
				a.output(cmd.OutOrStdout()).Success("Updated times of " + label(inst))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "new start time (HH:MM)")
	cmd.Flags().StringVar(&stop, "stop", "", "new stop time (HH:MM)")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "clear the start time (reset to idle)")
	cmd.Flags().BoolVar(&clearStop, "clear-stop", false, "clear the stop time (resume)")
	cmd.MarkFlagsMutuallyExclusive("start", "clear-start")
	cmd.MarkFlagsMutuallyExclusive("stop", "clear-stop")

	root.AddCommand(cmd)
}

// timeEdit resolves the clock-time flags of edit-times against the day the
// instance started.
func (a *app) timeEdit(s *engine.Session, inst *domain.Instance, start, stop string) (engine.TimeEdit, error) {
	var edit engine.TimeEdit

	day := s.Date
	if t := inst.StartTime(); !t.IsZero() {
		day = clock.DateKey(t.In(a.engine.Location()))
	}

	var startAt time.Time
	if start != "" {
		t, err := a.onDate(day, start)
		if err != nil {
			return edit, err
		}
		startAt = t
		edit.Start = &t
	} else {
		startAt = inst.StartTime()
	}

	if stop != "" {
		var (
			t   time.Time
			err error
		)
		if startAt.IsZero() {
			t, err = a.onDate(day, stop)
		} else {
			t, err = stopOnOrAfter(startAt.In(a.engine.Location()), stop)
		}
		if err != nil {
			return edit, err
		}
		edit.Stop = &t
	}
	return edit, nil
}

// AddRoutineCommand adds the routine command group to the root command.
func AddRoutineCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Configure recurring tasks",
	}
	cmd.AddCommand(newRoutineSetCmd(a), newRoutineClearCmd(a))
	root.AddCommand(cmd)
}

func newRoutineSetCmd(a *app) *cobra.Command {
	var (
		routineType   string
		scheduledTime string
		weekdays      []string
		start, end    string
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Make a task recur",
		Long: `Make a task recur daily, weekly or on custom weekdays.

Examples:
  dayplan routine set a1b2c3d4 --type daily --time 07:30
  dayplan routine set a1b2c3d4 --type weekly --weekdays mon
  dayplan routine set a1b2c3d4 --type custom --weekdays mon,wed,fri --end 2026-12-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := parseRoutineType(routineType)
			if err != nil {
				return err
			}
			days, err := parseWeekdays(weekdays)
			if err != nil {
				return err
			}
			if start, err = parseOptionalDate(start); err != nil {
				return err
			}
			if end, err = parseOptionalDate(end); err != nil {
				return err
			}

			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.SetRoutine(cmd.Context(), s, id, domain.RoutineConfig{
				RoutineType:   rt,
				ScheduledTime: scheduledTime,
				Weekdays:      days,
				Start:         start,
				End:           end,
			})
			if inst != nil && err == nil {
				a.output(cmd.OutOrStdout()).Success(fmt.Sprintf("%s now recurs %s", label(inst), tui.RoutineLabel(rt)))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&routineType, "type", string(domain.RoutineDaily), "routine type (daily|weekly|custom)")
	cmd.Flags().StringVar(&scheduledTime, "time", "", "scheduled time (HH:MM), which sets the slot")
	cmd.Flags().StringSliceVar(&weekdays, "weekdays", nil, "weekdays for weekly and custom routines (mon,tue,... or 0-6)")
	cmd.Flags().StringVar(&start, "start", "", "first date the routine applies (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last date the routine applies (YYYY-MM-DD)")

	return cmd
}

func newRoutineClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Stop a task from recurring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.resolve(s, args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.ClearRoutine(cmd.Context(), s, id)
			if inst != nil && err == nil {
				a.output(cmd.OutOrStdout()).Success(label(inst) + " no longer recurs")
			}
			return err
		},
	}
}

// label names an instance in confirmation messages.
func label(inst *domain.Instance) string {
	return fmt.Sprintf("%q (%s)", inst.Name(), tui.ShortID(inst.ID))
}
