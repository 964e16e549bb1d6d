package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusAlert = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("231")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleAlarm = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleBoard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Tile styles for the board.
var (
	styleEmpty    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	stylePath     = lipgloss.NewStyle().Foreground(lipgloss.Color("137"))
	styleEntry    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	styleExit     = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)
	styleResource = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	styleBlocked  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	styleCreature = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleCarrier  = lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true)
	styleFlyer    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	styleRoute    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindReward
	kindAlarm
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.Contains(lower, "breached"),
		strings.Contains(lower, "destroyed the"),
		strings.Contains(lower, "escaped"),
		strings.HasPrefix(line, "Game over"):
		return kindAlarm
	case strings.Contains(lower, "was slain"),
		strings.HasPrefix(line, "Victory"),
		strings.Contains(lower, "income"):
		return kindReward
	case strings.HasPrefix(lower, "unknown"),
		strings.Contains(lower, "not enough"),
		strings.Contains(lower, "cannot"),
		strings.Contains(lower, "expected"),
		strings.Contains(lower, "can only be placed"),
		strings.HasPrefix(lower, "no tower at"),
		strings.Contains(lower, "max level"),
		strings.HasSuffix(line, "?"):
		return kindError
	default:
		return kindNarrative
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
