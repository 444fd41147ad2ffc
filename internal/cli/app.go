package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dayplan/internal/clock"
	"github.com/mrz1836/dayplan/internal/config"
	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/engine"
	"github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/logging"
	"github.com/mrz1836/dayplan/internal/stats"
	"github.com/mrz1836/dayplan/internal/store"
	"github.com/mrz1836/dayplan/internal/tui"
)

// app holds what every command shares once the root command has set it up.
type app struct {
	flags *GlobalFlags

	cfg     *config.Config
	logger  *logging.Logger
	store   *store.FileStore
	engine  *engine.Engine
	dataDir string

	// clock overrides the system clock; tests pin it.
	clock clock.Clock
}

// setup loads configuration and builds the logger, store and engine.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.LoadWithOverrides(ctx, a.flags.Config, nil)
	if err != nil {
		return err
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Verbose:    a.flags.Verbose,
		Quiet:      a.flags.Quiet,
		Dir:        filepath.Join(dataDir, constants.LogsDir),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("file logging disabled")
	}

	fs, err := store.NewFileStore(dataDir,
		store.WithTasksDir(cfg.ResolveTemplatesDir(dataDir)),
		store.WithLockTimeout(cfg.LockTimeout),
		store.WithLocation(loc),
	)
	if err != nil {
		_ = logger.Close()
		return err
	}

	var clk clock.Clock = clock.InLocation{Clock: clock.RealClock{}, Loc: loc}
	if a.clock != nil {
		clk = a.clock
	}

	opts := []engine.Option{
		engine.WithClock(clk),
		engine.WithLocation(loc),
		engine.WithLogger(logger.Logger),
	}
	if cfg.Stats.Enabled {
		opts = append(opts, engine.WithStats(stats.NewRecomputer(fs, clk)))
	}

	a.cfg = cfg
	a.logger = logger
	a.store = fs
	a.engine = engine.New(fs, fs, opts...)
	a.dataDir = dataDir

	logger.Debug().
		Str("data_dir", dataDir).
		Str("timezone", loc.String()).
		Bool("stats", cfg.Stats.Enabled).
		Msg("dayplan initialized")
	return nil
}

// close releases the log file.
func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// date returns the date commands operate on.
func (a *app) date() string {
	if a.flags.Date != "" {
		return a.flags.Date
	}
	return a.engine.Today()
}

// session loads the working date.
func (a *app) session(ctx context.Context) (*engine.Session, error) {
	ctx = a.log().WithContext(ctx)
	return a.engine.Load(ctx, a.date())
}

func (a *app) log() zerolog.Logger {
	if a.logger == nil {
		return zerolog.Nop()
	}
	return a.logger.Logger
}

// output returns the formatter for the selected output format.
func (a *app) output(w io.Writer) tui.Output {
	return tui.NewOutput(w, a.flags.Output)
}

// plan builds the listing of s.
func (a *app) plan(s *engine.Session) tui.Plan {
	return tui.BuildPlan(s.Date, s.Date == a.engine.Today(), s.Instances, a.engine.Now())
}

// onDate resolves an HH:MM clock time on dateKey in the engine's location.
func (a *app) onDate(dateKey, hhmm string) (time.Time, error) {
	return clockOnDate(dateKey, hhmm, a.engine.Location())
}

// find resolves a command-line reference to an instance. Besides the ids
// accepted by Session.Find it takes a template path or task name, which stay
// stable across runs while idle instance ids do not. A name shared by several
// occurrences matches the primary one.
func (a *app) find(s *engine.Session, ref string) (*domain.Instance, error) {
	inst, err := s.Find(ref)
	if err == nil || !stderrors.Is(err, errors.ErrInstanceNotFound) {
		return inst, err
	}

	want := strings.TrimSpace(ref)
	var matches []*domain.Instance
	for _, cand := range s.Instances {
		if cand.Duplicate {
			continue
		}
		if cand.Path() == want || strings.EqualFold(cand.Name(), want) {
			matches = append(matches, cand)
		}
	}
	switch len(matches) {
	case 0:
		return nil, err
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q names %d tasks", errors.ErrAmbiguousInstance, ref, len(matches))
	}
}

// resolve is find returning the instance id.
func (a *app) resolve(s *engine.Session, ref string) (string, error) {
	inst, err := a.find(s, ref)
	if err != nil {
		return "", err
	}
	return inst.ID, nil
}
