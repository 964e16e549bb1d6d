package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/towercore/engine"
)

// renderStatusBar produces a full-width status line: title, materials and
// crystal on the left; wave, tick and the run state on the right. The bar
// turns red once a third or less of the crystal is left.
func (m Model) renderStatusBar() string {
	s := m.engine.Snapshot()

	left := fmt.Sprintf(" %s | %s | Crystal %d/%d", s.Title, s.Materials.Short(), s.ResourceUnits, s.MaxUnits)
	right := fmt.Sprintf("Wave %d/%d%s | T:%d %s ", s.Wave, s.TotalWaves, pendingTag(s), s.Tick, m.runState(s))

	// Show the passive-income bar if it fits.
	if bar := progressBar(s.PassiveProgress, 10); lipgloss.Width(left)+lipgloss.Width(bar)+lipgloss.Width(right)+4 < m.width {
		left += " | " + bar
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	style := styleStatusBar
	if s.Over || s.ResourceUnits*3 <= s.MaxUnits {
		style = styleStatusAlert
	}
	return style.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func pendingTag(s engine.Snapshot) string {
	if s.PendingWaves == 0 {
		return ""
	}
	return fmt.Sprintf(" (+%d)", s.PendingWaves)
}

func (m Model) runState(s engine.Snapshot) string {
	switch {
	case s.Won:
		return "WON"
	case s.Over:
		return "LOST"
	case m.running:
		return ">>"
	}
	return "||"
}

// progressBar renders f in [0,1] as a bar of width cells.
func progressBar(f float64, width int) string {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	filled := int(f * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
