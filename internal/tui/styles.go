package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorIris  = lipgloss.Color("#8B5CF6")
	colorSlate = lipgloss.Color("#667085")
	colorWhite = lipgloss.Color("#FFFFFF")
	colorGreen = lipgloss.Color("#22A06B")
	colorRed   = lipgloss.Color("#D93025")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorIris).
			Foreground(colorWhite)

	runningStyle   = lipgloss.NewStyle().Foreground(colorIris).Bold(true)
	completedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	failedStyle    = lipgloss.NewStyle().Foreground(colorRed)
	cachedStyle    = lipgloss.NewStyle().Foreground(colorSlate).Faint(true)
	logStyle       = lipgloss.NewStyle().Foreground(colorSlate).PaddingLeft(4)
)

const (
	iconCompleted = "✓"
	iconFailed    = "✗"
	iconCached    = "⚡"
)
