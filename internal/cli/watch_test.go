package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dayplan/internal/testutil"
)

func TestRelevantEvent(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "data")
	logDir := filepath.Join(root, "log")

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"template written", fsnotify.Event{Name: filepath.Join(root, "tasks", "Email.md"), Op: fsnotify.Write}, true},
		{"day state renamed", fsnotify.Event{Name: filepath.Join(root, "days", "2026-05-12.json"), Op: fsnotify.Create}, true},
		{"template removed", fsnotify.Event{Name: filepath.Join(root, "tasks", "Email.md"), Op: fsnotify.Remove}, true},
		{"lock file", fsnotify.Event{Name: filepath.Join(root, "days", "2026-05-12.json.lock"), Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: filepath.Join(root, "running.json.tmp"), Op: fsnotify.Create}, false},
		{"hidden file", fsnotify.Event{Name: filepath.Join(root, "tasks", ".DS_Store"), Op: fsnotify.Create}, false},
		{"chmod only", fsnotify.Event{Name: filepath.Join(root, "running.json"), Op: fsnotify.Chmod}, false},
		{"application log", fsnotify.Event{Name: filepath.Join(logDir, "dayplan.log"), Op: fsnotify.Write}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, relevantEvent(tc.ev, logDir))
		})
	}
}

func TestIsUnder(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(string(filepath.Separator), "data", "log")
	assert.True(t, isUnder(dir, dir))
	assert.True(t, isUnder(filepath.Join(dir, "dayplan.log"), dir))
	assert.False(t, isUnder(filepath.Join(string(filepath.Separator), "data", "logs", "2026-05.json"), dir))
	assert.False(t, isUnder(filepath.Join(string(filepath.Separator), "data"), dir))
}

// syncBuffer is a bytes.Buffer safe to read while the watch loop writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch_ReloadsOnTemplateChange(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	a := &app{flags: &GlobalFlags{Output: OutputText, Quiet: true, Config: env.config}, clock: env.clock}
	require.NoError(t, a.setup(context.Background()))
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, a, out, tea.WithInput(nil)) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Email")
	}, 5*time.Second, 20*time.Millisecond)

	env.template(t, "Walk.md", testutil.OneOff("2026-05-12"))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Walk")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	_, err := os.Stat(filepath.Join(env.dataDir, "days"))
	assert.NoError(t, err)
}

func TestRunWatch_JSONPrintsPlan(t *testing.T) {
	env := newCLIEnv(t, time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC))
	env.template(t, "Email.md", testutil.OneOff("2026-05-12"))

	a := &app{flags: &GlobalFlags{Output: OutputJSON, Quiet: true, Config: env.config}, clock: env.clock}
	require.NoError(t, a.setup(context.Background()))
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, a, out) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"name": "Email"`)
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotContains(t, out.String(), "\x1b[")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
