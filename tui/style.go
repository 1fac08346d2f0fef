package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleHPLow = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleTimestamp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
