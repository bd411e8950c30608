package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/stopwatch/internal/domain/stopwatch"
)

//nolint:gochecknoglobals // Styles are shared by every render.
var (
	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")). // dark gray
			Padding(1, 4)

	displayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // white

	runningStyle = displayStyle.
			Foreground(lipgloss.Color("10")) // green

	pausedStyle = displayStyle.
			Foreground(lipgloss.Color("11")) // yellow

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // light gray

	lapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // red
)

// styleFor returns the display style of a run state.
func styleFor(state stopwatch.RunState) lipgloss.Style {
	switch state {
	case stopwatch.Running:
		return runningStyle
	case stopwatch.Paused:
		return pausedStyle
	default:
		return displayStyle
	}
}
