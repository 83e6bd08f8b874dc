// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// Variable names omit the "Style" suffix since they're accessed via the
// style package (style.Title, not style.TitleStyle).
var (
	// Title is used for the patch name header.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Error is used for error messages.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// LCD frames the character display emulation.
	LCD = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("34")).
		Foreground(lipgloss.Color("46")).
		Padding(0, 1)

	// Focused marks the row the encoder edits.
	Focused = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Row is used for unfocused parameter rows.
	Row = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	// Label is used for inline labels (e.g., "OP2", "0x60").
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Muted is used for de-emphasized text such as register bytes.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Panel groups the row list and register readout.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)
)
