// Package tui renders dayplan output for terminals and scripts.
//
// Colors use AdaptiveColor for light and dark terminals. Call CheckNoColor
// once per command to honor NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/dayplan/internal/domain"
)

//nolint:gochecknoglobals // Package-level styling palette
var (
	// ColorPrimary is blue, used for running items and slot headers.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed items.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for ids and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// OutputStyles holds common message styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates the message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// PlanStyles holds the styles of the day listing.
type PlanStyles struct {
	Header lipgloss.Style
	Empty  lipgloss.Style
	ID     lipgloss.Style
	States map[domain.State]lipgloss.Style
}

// NewPlanStyles creates the day listing styles.
func NewPlanStyles() *PlanStyles {
	return &PlanStyles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Empty:  lipgloss.NewStyle().Faint(true),
		ID:     lipgloss.NewStyle().Foreground(ColorMuted),
		States: map[domain.State]lipgloss.Style{
			domain.StateDone:    lipgloss.NewStyle().Foreground(ColorSuccess),
			domain.StateRunning: lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
			domain.StateIdle:    lipgloss.NewStyle(),
		},
	}
}

// StateIcon returns the icon shown next to an instance.
func StateIcon(s domain.State) string {
	switch s {
	case domain.StateDone:
		return "✓"
	case domain.StateRunning:
		return "▶"
	default:
		return "○"
	}
}

// CheckNoColor drops to plain ASCII output when colors are unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false when NO_COLOR is set (to any value) or
// TERM=dumb.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
