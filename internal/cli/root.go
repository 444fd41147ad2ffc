package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// newRootCmd creates the root command and its subcommands around a.
func newRootCmd(a *app, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dayplan",
		Short: "Plan the day across four time slots and track what you work on",
		Long: `dayplan lists today's tasks in four time-of-day slots
(0:00-8:00, 8:00-12:00, 12:00-16:00, 16:00-0:00), tracks start and stop
times, and keeps routines, one-off tasks and manual reordering in plain files
under ~/.dayplan.

Commands take an instance id, the short id shown by "dayplan list", or a
task name. Idle tasks get a new id on every run, so names are the stable way
to script them.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, a.flags)

			if !IsValidOutputFormat(a.flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, a.flags.Output, ValidOutputFormats())
			}

			// The bare root only prints help.
			if cmd == cmd.Root() {
				return nil
			}

			tui.CheckNoColor()
			return a.setup(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, a.flags)

	AddListCommand(cmd, a)
	AddStartCommand(cmd, a)
	AddStopCommand(cmd, a)
	AddMoveCommand(cmd, a)
	AddMoveDateCommand(cmd, a)
	AddDuplicateCommand(cmd, a)
	AddDeleteCommand(cmd, a)
	AddResetCommand(cmd, a)
	AddEditTimesCommand(cmd, a)
	AddRoutineCommand(cmd, a)
	AddWatchCommand(cmd, a)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// Errors are printed in the selected output format before being returned.
func Execute(ctx context.Context, info BuildInfo) error {
	a := &app{flags: &GlobalFlags{}}
	defer a.close()

	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(a, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(a, err)
	}
	return err
}

// reportError prints err for the user. Rejected actions are logged at debug
// level only.
func reportError(a *app, err error) {
	format := a.flags.Output
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(os.Stderr, format).Error(err)

	log := a.log()
	if errors.IsPrecondition(err) {
		log.Debug().Err(err).Msg("action rejected")
		return
	}
	log.Error().Err(err).Msg("command failed")
}
