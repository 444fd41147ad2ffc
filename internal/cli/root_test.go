package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/testutil"
	"github.com/mrz1836/dayplan/internal/timeslot"
	"github.com/mrz1836/dayplan/internal/tui"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&app{flags: &GlobalFlags{}}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "dayplan")
	assert.Contains(t, output, "--output")
	assert.Contains(t, output, "--date")
	assert.Contains(t, output, "--config")
	assert.Contains(t, output, "watch")
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(&app{flags: &GlobalFlags{}}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, want := range tc.expectContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

// cliEnv runs commands against a data directory in t.TempDir with a pinned
// clock.
type cliEnv struct {
	dataDir string
	config  string
	clock   *clock.Fixed
}

func newCLIEnv(t *testing.T, now time.Time) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	env := &cliEnv{
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "config.yaml"),
		clock:   &clock.Fixed{At: now},
	}
	content := "data_dir: " + env.dataDir + "\ntimezone: UTC\n"
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0o600))
	return env
}

func (env *cliEnv) template(t *testing.T, name, frontmatter string) {
	t.Helper()
	testutil.WriteTemplate(t, filepath.Join(env.dataDir, "tasks"), name, frontmatter)
}

func (env *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{flags: &GlobalFlags{}, clock: env.clock}
	defer a.close()

	cmd := newRootCmd(a, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", env.config, "--quiet"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func (env *cliEnv) plan(t *testing.T, args ...string) tui.Plan {
	t.Helper()
	out, err := env.run(t, append([]string{"list", "--output", "json"}, args...)...)
	require.NoError(t, err)

	var p tui.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	return p
}

func findItem(t *testing.T, p tui.Plan, name string) tui.PlanItem {
	t.Helper()
	for _, slot := range p.Slots {
		for _, item := range slot.Items {
			if item.Name == name {
				return item
			}
		}
	}
	require.Failf(t, "item not listed", "%s", name)
	return tui.PlanItem{}
}

func TestCLI_ListJSON(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))
	env.template(t, "Stretch.md", testutil.Daily("09:00"))

	p := env.plan(t)

	assert.Equal(t, "2026-05-12", p.Date)
	assert.True(t, p.Today)
	require.Len(t, p.Slots, 5)
	assert.Equal(t, timeslot.None, p.Slots[0].Slot)
	assert.Equal(t, timeslot.None, findItem(t, p, "Email").Slot)

	stretch := findItem(t, p, "Stretch")
	assert.Equal(t, timeslot.Morning, stretch.Slot)
	assert.Equal(t, "Daily", stretch.Routine)
}

func TestCLI_ListText(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	out, err := env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-05-12 (today)")
	assert.Contains(t, out, "Unscheduled")
	assert.Contains(t, out, "Email")
}

func TestCLI_StartStopByName(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	out, err := env.run(t, "start", "email")
	require.NoError(t, err)
	assert.Contains(t, out, "Started")

	p := env.plan(t)
	require.NotNil(t, p.Running)
	assert.Equal(t, "Email", p.Running.Name)
	assert.Equal(t, timeslot.Morning, p.Running.Slot)

	env.clock.Advance(30 * time.Minute)
	_, err = env.run(t, "stop", p.Running.ShortID)
	require.NoError(t, err)

	p = env.plan(t)
	assert.Nil(t, p.Running)
	item := findItem(t, p, "Email")
	assert.Equal(t, domain.StateDone, item.State)
	assert.Equal(t, "30m", item.Elapsed)
}

func TestCLI_StopAtClockTime(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	_, err := env.run(t, "start", "Email")
	require.NoError(t, err)
	env.clock.Advance(2 * time.Hour)

	_, err = env.run(t, "stop", "Email", "--at", "10:45")
	require.NoError(t, err)

	item := findItem(t, env.plan(t), "Email")
	require.NotNil(t, item.Stop)
	assert.Equal(t, 10, item.Stop.Hour())
	assert.Equal(t, 45, item.Stop.Minute())
	assert.Equal(t, "45m", item.Elapsed)
}

func TestCLI_StopNotRunningIsNoop(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	out, err := env.run(t, "stop", "Email")
	require.NoError(t, err)
	assert.Contains(t, out, "is not running")

	_, statErr := os.Stat(filepath.Join(env.dataDir, "running.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCLI_MoveToNamedSlot(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	_, err := env.run(t, "move", "Email", "afternoon", "0")
	require.NoError(t, err)

	assert.Equal(t, timeslot.Afternoon, findItem(t, env.plan(t), "Email").Slot)
}

func TestCLI_RoutineSet(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	_, err := env.run(t, "routine", "set", "Email", "--type", "daily", "--time", "17:30")
	require.NoError(t, err)

	content := testutil.ReadFile(t, filepath.Join(env.dataDir, "tasks", "Email.md"))
	assert.Contains(t, content, "routine_type: daily")

	item := findItem(t, env.plan(t), "Email")
	assert.Equal(t, "Daily", item.Routine)
	assert.Equal(t, timeslot.Evening, item.Slot)
}

func TestCLI_Errors(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Stretch.md", testutil.Daily("09:00"))

	tests := []struct {
		name     string
		args     []string
		sentinel error
	}{
		{name: "unknown task", args: []string{"start", "Nope"}, sentinel: errors.ErrInstanceNotFound},
		{name: "future date", args: []string{"--date", "2026-05-13", "start", "Stretch"}, sentinel: errors.ErrFutureDateStart},
		{name: "bad slot", args: []string{"move", "Stretch", "lunch", "0"}, sentinel: errors.ErrInvalidSlot},
		{name: "bad index", args: []string{"move", "Stretch", "morning", "-1"}, sentinel: errors.ErrInvalidArgument},
		{name: "bad date", args: []string{"--date", "12/05/2026", "list"}, sentinel: errors.ErrInvalidDate},
		{name: "routine move", args: []string{"move-date", "Stretch", "2026-05-14"}, sentinel: errors.ErrRoutineMove},
		{name: "bad output", args: []string{"list", "--output", "xml"}, sentinel: errors.ErrInvalidOutputFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.run(t, tc.args...)
			require.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		})
	}
}
