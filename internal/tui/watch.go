package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrz1836/dayplan/internal/constants"
	"github.com/mrz1836/dayplan/internal/domain"
)

// WatchConfig holds configuration for the watch view.
type WatchConfig struct {
	// Interval is how often the running timer is redrawn.
	Interval time.Duration
	// Quiet drops the update time and key hint below the listing.
	Quiet bool
}

// DefaultWatchConfig returns the default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{Interval: constants.DisplayRefreshInterval}
}

// PlanLoader loads the listing shown by the watch view.
type PlanLoader func(ctx context.Context) (Plan, error)

// WatchModel is the Bubble Tea model of the watch view. The listing is
// reloaded on ReloadMsg; TickMsg only redraws the running timer.
type WatchModel struct {
	plan       Plan
	loaded     bool
	lastUpdate time.Time
	now        time.Time
	config     WatchConfig
	styles     *PlanStyles
	quitting   bool
	err        error

	load  PlanLoader
	clock func() time.Time

	// baseCtx is passed to the loader from async Bubble Tea commands.
	baseCtx context.Context //nolint:containedctx // Required for Bubble Tea async commands
}

// TickMsg signals time to redraw the timer.
type TickMsg time.Time

// ReloadMsg asks the view to load the listing again.
type ReloadMsg struct{}

// RefreshMsg carries the result of a reload.
type RefreshMsg struct {
	Plan Plan
	Err  error
}

// NewWatchModel creates a WatchModel. clock supplies the time the running
// timer is measured against; nil means time.Now.
func NewWatchModel(ctx context.Context, load PlanLoader, clock func() time.Time, cfg WatchConfig) *WatchModel {
	if clock == nil {
		clock = time.Now
	}
	if cfg.Interval <= 0 {
		cfg.Interval = constants.DisplayRefreshInterval
	}
	return &WatchModel{
		config:  cfg,
		styles:  NewPlanStyles(),
		load:    load,
		clock:   clock,
		now:     clock(),
		baseCtx: ctx,
	}
}

// Init loads the listing and starts the timer.
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.refreshData(), m.tick())
}

// Update handles messages and returns the updated model and any commands.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case TickMsg:
		m.now = m.clock()
		return m, m.tick()

	case ReloadMsg:
		return m, m.refreshData()

	case RefreshMsg:
		m.now = m.clock()
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.plan = msg.Plan
		m.loaded = true
		m.lastUpdate = m.now
		m.err = nil
	}

	return m, nil
}

// View renders the listing and the running timer.
func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.err != nil {
		fmt.Fprintf(&b, "Error: %v\n", m.err)
	}
	if !m.loaded {
		if m.err == nil {
			b.WriteString("Loading...\n")
		}
		return b.String()
	}

	_ = RenderPlan(&b, m.plan, m.styles)
	if line := TimerLine(m.plan, m.now); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !m.config.Quiet {
		fmt.Fprintf(&b, "\nLast updated: %s", m.lastUpdate.Format("15:04:05"))
		b.WriteString("\nPress 'q' to quit")
	}
	return b.String()
}

// Plan returns the listing on screen.
func (m *WatchModel) Plan() Plan {
	return m.plan
}

// Error returns the error of the last reload.
func (m *WatchModel) Error() error {
	return m.err
}

// IsQuitting returns true once the view was asked to quit.
func (m *WatchModel) IsQuitting() bool {
	return m.quitting
}

func (m *WatchModel) tick() tea.Cmd {
	return tea.Tick(m.config.Interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *WatchModel) refreshData() tea.Cmd {
	return func() tea.Msg {
		ctx := m.baseCtx
		if ctx == nil {
			ctx = context.Background()
		}
		p, err := m.load(ctx)
		if err != nil {
			return RefreshMsg{Err: fmt.Errorf("failed to load listing: %w", err)}
		}
		return RefreshMsg{Plan: p}
	}
}

// TimerLine describes the running instance of p at now, or returns "" when
// none runs.
func TimerLine(p Plan, now time.Time) string {
	if p.Running == nil || p.Running.Start == nil {
		return ""
	}
	return fmt.Sprintf("%s %s  %s", StateIcon(domain.StateRunning), p.Running.Name, FormatTimer(now.Sub(*p.Running.Start)))
}
