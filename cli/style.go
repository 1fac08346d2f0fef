package cli

import "github.com/charmbracelet/lipgloss"

// Styles used by the console and the terminal UI.
var (
	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleChat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTell = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleZone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleSpawn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTimestamp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

var channelStyles = map[string]lipgloss.Style{
	"shout":   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	"ooc":     lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
	"auction": lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
	"group":   lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	"guild":   lipgloss.NewStyle().Foreground(lipgloss.Color("77")),
	"raid":    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// Style returns the style a line is rendered with.
func Style(l Line) lipgloss.Style {
	switch l.Kind {
	case KindChat:
		if s, ok := channelStyles[l.Channel]; ok {
			return s
		}
		return styleChat
	case KindTell:
		return styleTell
	case KindCombat:
		return styleCombat
	case KindZone:
		return styleZone
	case KindSpawn:
		return styleSpawn
	case KindError:
		return styleError
	case KindInput:
		return styleInput
	default:
		return styleSystem
	}
}

// Render styles text as line l would be.
func Render(l Line, text string) string { return Style(l).Render(text) }
