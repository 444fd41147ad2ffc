package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/signal"
	"github.com/mrz1836/dayplan/internal/tui"
)

// slotBoundarySpec fires when a slot begins, so stale idle tasks move on.
const slotBoundarySpec = "0 0,8,12,16 * * *"

// AddWatchCommand adds the watch command to the root command.
func AddWatchCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Keep the day's listing on screen and up to date",
		Long: `Show the day's listing and keep it current: the running timer is redrawn
every second, the listing reloads when files under the data directory change
or a new time slot begins, and SIGHUP forces a reload. Press q to quit.

With --output json every reload prints the listing as one JSON document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), a, cmd.OutOrStdout())
		},
	})
}

// watcher turns file changes, slot boundaries and SIGHUP into reloads.
type watcher struct {
	a       *app
	log     zerolog.Logger
	logDir  string
	limiter *rate.Limiter
	dirty   bool
}

// runWatch shows the listing until ctx is canceled or the view quits. Text
// output runs a Bubble Tea program; JSON output prints one plan per reload.
func runWatch(ctx context.Context, a *app, w io.Writer, opts ...tea.ProgramOption) error {
	h := signal.NewHandler(ctx)
	defer h.Stop()
	ctx = h.Context()

	wt := &watcher{
		a:       a,
		log:     a.log().With().Str("component", "watch").Logger(),
		logDir:  filepath.Join(a.dataDir, constants.LogsDir),
		limiter: rate.NewLimiter(rate.Every(constants.ReloadCoalesceInterval), a.cfg.Watch.ReloadBurst),
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	for _, dir := range wt.watchDirs() {
		wt.addTree(fsw, dir)
	}

	boundaries := make(chan struct{}, 1)
	c := cron.New(cron.WithLocation(a.engine.Location()))
	if _, err := c.AddFunc(slotBoundarySpec, func() {
		select {
		case boundaries <- struct{}{}:
		default:
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule slot boundaries: %w", err)
	}
	c.Start()
	defer c.Stop()

	if a.flags.Output == OutputJSON {
		out := a.output(w)
		emit := func() error {
			p, err := wt.loadPlan(ctx)
			if err != nil {
				return err
			}
			return out.Plan(p)
		}
		if err := emit(); err != nil {
			return err
		}
		wt.listen(ctx, h, fsw, boundaries, func() {
			if err := emit(); err != nil {
				wt.log.Warn().Err(err).Msg("reload failed")
			}
		})
		return nil
	}

	model := tui.NewWatchModel(ctx, wt.loadPlan, a.engine.Now, tui.WatchConfig{
		Interval: a.cfg.Watch.RefreshInterval,
		Quiet:    a.flags.Quiet,
	})
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	}, opts...)
	program := tea.NewProgram(model, opts...)

	listenCtx, stopListening := context.WithCancel(ctx)
	listening := make(chan struct{})
	go func() {
		defer close(listening)
		wt.listen(listenCtx, h, fsw, boundaries, func() { program.Send(tui.ReloadMsg{}) })
	}()

	_, err = program.Run()
	stopListening()
	<-listening
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("watch view failed: %w", err)
	}
	return nil
}

// listen calls reload for every event that can change the listing until ctx
// is done. File changes beyond the limiter's burst are coalesced.
func (wt *watcher) listen(ctx context.Context, h *signal.Handler, fsw *fsnotify.Watcher, boundaries <-chan struct{}, reload func()) {
	coalesce := time.NewTicker(constants.ReloadCoalesceInterval)
	defer coalesce.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-h.Reload():
			wt.log.Debug().Msg("reload requested")
			wt.dirty = false
			reload()

		case <-boundaries:
			wt.log.Debug().Msg("slot boundary")
			wt.dirty = false
			reload()

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevantEvent(ev, wt.logDir) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				wt.addTree(fsw, ev.Name)
			}
			wt.dirty = true
			if wt.limiter.Allow() {
				wt.dirty = false
				reload()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			wt.log.Warn().Err(err).Msg("file watcher error")

		case <-coalesce.C:
			if wt.dirty && wt.limiter.Allow() {
				wt.dirty = false
				reload()
			}
		}
	}
}

// loadPlan loads the working date and builds its listing.
func (wt *watcher) loadPlan(ctx context.Context) (tui.Plan, error) {
	s, err := wt.a.session(ctx)
	if err != nil {
		return tui.Plan{}, err
	}
	return wt.a.plan(s), nil
}

// watchDirs returns the directories whose changes affect the listing. They
// are created so a fresh data directory can be watched.
func (wt *watcher) watchDirs() []string {
	root := wt.a.dataDir
	dirs := []string{
		root,
		filepath.Join(root, constants.DaysDir),
		filepath.Join(root, constants.ExecutionLogsDir),
		wt.a.store.TasksDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			wt.log.Warn().Err(err).Str("dir", dir).Msg("failed to create directory")
		}
	}
	return dirs
}

// addTree watches dir and every directory below it. Template folders nest.
func (wt *watcher) addTree(fsw *fsnotify.Watcher, dir string) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() || isUnder(dir, wt.logDir) {
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if isUnder(path, wt.logDir) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			wt.log.Warn().Err(err).Str("dir", path).Msg("failed to watch directory")
		}
		return nil
	})
}

// relevantEvent reports whether ev can change the listing. Lock files, temp
// files from atomic writes, permission changes and the application log are
// ignored.
func relevantEvent(ev fsnotify.Event, logDir string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasSuffix(base, ".lock") || strings.HasSuffix(base, ".tmp") || strings.HasPrefix(base, ".") {
		return false
	}
	return !isUnder(ev.Name, logDir)
}

// isUnder reports whether path is dir or inside it.
func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
