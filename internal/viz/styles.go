package viz

import "github.com/charmbracelet/lipgloss"

// Style definitions for operator-facing terminal output.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ccff"))

	// Warn flags fallback paths and missing-field consequences.
	Warn = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))

	// Prompt styles the abort/continue question line.
	Prompt = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ff88"))

	// Errline echoes rejected prompt input.
	Errline = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff4444"))

	// Subtle renders secondary detail such as units and notes.
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))
)
