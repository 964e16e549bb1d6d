package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/types"
)

// glyph picks the rune and style for one board cell. A creature hides the
// tile under it; a tower shows its level.
func glyph(tile rune, t *types.TowerView, c *types.CreatureView, towerColor string, onRoute bool) (rune, lipgloss.Style) {
	switch {
	case c != nil && c.Carrying:
		return 'L', styleCarrier
	case c != nil && c.Flying:
		return 'C', styleFlyer
	case c != nil:
		return 'C', styleCreature
	case t != nil:
		st := lipgloss.NewStyle().Bold(true)
		if towerColor != "" {
			st = st.Foreground(lipgloss.Color(towerColor))
		}
		return rune('1' + t.Level%9), st
	}

	switch tile {
	case 'E':
		return tile, styleEntry
	case 'X':
		return tile, styleExit
	case 'R':
		return tile, styleResource
	case 'B':
		return tile, styleBlocked
	case '#':
		if onRoute {
			return tile, styleRoute
		}
		return tile, stylePath
	}
	return tile, styleEmpty
}

// renderBoard draws the snapshot's map with towers and creatures overlaid.
// showRoute highlights the current entry route.
func renderBoard(s engine.Snapshot, defs *catalog.Defs, showRoute bool) string {
	towers := make(map[types.GridPosition]*types.TowerView, len(s.Towers))
	for i := range s.Towers {
		towers[s.Towers[i].Position] = &s.Towers[i]
	}
	creatures := make(map[types.GridPosition]*types.CreatureView, len(s.Creatures))
	for i := range s.Creatures {
		c := &s.Creatures[i]
		// Carriers win the cell so stolen loot stays visible.
		if prev, ok := creatures[c.Position]; !ok || (!prev.Carrying && c.Carrying) {
			creatures[c.Position] = c
		}
	}
	route := make(map[types.GridPosition]bool)
	if showRoute {
		for _, p := range s.EntryPath {
			route[p] = true
		}
	}

	var b strings.Builder
	for y, row := range s.Rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, tile := range []rune(row) {
			p := types.GridPosition{X: x, Y: y}
			t := towers[p]
			color := ""
			if t != nil {
				if a, ok := defs.Tower(t.Type); ok {
					color = a.Color
				}
			}
			r, st := glyph(tile, t, creatures[p], color, route[p])
			b.WriteString(st.Render(string(r)))
		}
	}
	return styleBoard.Render(b.String())
}

// renderLegend lists the tower catalog with each tower's color and cost.
func renderLegend(defs *catalog.Defs) string {
	var lines []string
	for i, a := range defs.Archetypes() {
		swatch := lipgloss.NewStyle()
		if a.Color != "" {
			swatch = swatch.Foreground(lipgloss.Color(a.Color))
		}
		lines = append(lines, swatch.Render("■")+" "+
			strconv.Itoa(i+1)+". "+a.ID+" "+styleSystem.Render(a.Levels[0].BuildCost.Short()))
	}
	lines = append(lines, "", styleSystem.Render("C creature  L looter  1-9 tower level"))
	return strings.Join(lines, "\n")
}
