// Package cli provides the command-line interface for dayplan.
package cli

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/dayplan/internal/errors"
)

// Process exit codes.
const (
	ExitSuccess = 0
	// ExitError covers storage, lock and config failures.
	ExitError = 1
	// ExitInvalidInput covers bad arguments and actions the engine refused.
	ExitInvalidInput = 2
)

// Values of --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// GlobalFlags holds the persistent flags of the root command.
type GlobalFlags struct {
	Output  string
	Verbose bool
	// Quiet raises the log level to warn and drops the watch footer.
	Quiet bool
	// Date is the viewed date as YYYY-MM-DD; empty means today.
	Date string
	// Config overrides config file discovery.
	Config string
}

// AddGlobalFlags registers the persistent flags on cmd.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "log debug detail")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "log warnings and errors only")
	pf.StringVarP(&flags.Date, "date", "d", "", "date to plan (YYYY-MM-DD, default today)")
	pf.StringVar(&flags.Config, "config", "", "config file (default .dayplan/config.yaml or ~/.dayplan/config.yaml)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// boundFlags are the flags that DAYPLAN_* environment variables can set.
//
//nolint:gochecknoglobals // fixed list
var boundFlags = []string{"output", "verbose", "quiet", "date"}

// BindGlobalFlags lets DAYPLAN_OUTPUT, DAYPLAN_VERBOSE, DAYPLAN_QUIET and
// DAYPLAN_DATE stand in for flags left unset.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	for _, name := range boundFlags {
		if err := v.BindPFlag(name, pf.Lookup(name)); err != nil {
			return err
		}
	}
	v.SetEnvPrefix("DAYPLAN")
	v.AutomaticEnv()
	return nil
}

func applyBoundFlags(v *viper.Viper, flags *GlobalFlags) {
	flags.Output = v.GetString("output")
	flags.Verbose = v.GetBool("verbose")
	flags.Quiet = v.GetBool("quiet")
	flags.Date = v.GetString("date")
}

// ValidOutputFormats lists the accepted --output values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat reports whether format is an accepted --output value.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// ExitCodeForError maps err to the process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.IsExitCode2Error(err),
		errors.IsPrecondition(err),
		stderrors.Is(err, errors.ErrInvalidOutputFormat),
		isUsageError(err):
		return ExitInvalidInput
	default:
		return ExitError
	}
}

// usageMessages are fragments of the errors cobra and pflag return for a
// malformed command line. They carry no sentinel to match on.
//
//nolint:gochecknoglobals // fixed list
var usageMessages = []string{
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"required flag",
	"unknown command",
	"accepts ",
	"requires at least",
}

func isUsageError(err error) bool {
	msg := err.Error()
	return slices.ContainsFunc(usageMessages, func(m string) bool {
		return strings.Contains(msg, m)
	})
}
