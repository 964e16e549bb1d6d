package engine

import (
	"strings"

	"github.com/nathoo/towercore/engine/economy"
	"github.com/nathoo/towercore/types"
)

// Snapshot is a read-only copy of everything a front end needs to draw one
// frame. It shares no memory with the engine.
type Snapshot struct {
	ID       string
	Tick     int
	Title    string
	Width    int
	Height   int
	Rows     []string
	Entries  []types.GridPosition
	Exits    []types.GridPosition
	Resource types.GridPosition

	Towers    []types.TowerView
	Creatures []types.CreatureView

	Materials     types.Materials
	ResourceUnits int
	MaxUnits      int

	Wave           int
	TotalWaves     int
	PendingWaves   int
	WavesRemaining int

	Transactions    []economy.Transaction
	LastWaveIncome  *economy.WaveIncomeSummary
	Upcoming        *economy.Requirement
	PassiveProgress float64
	EntryPath       []types.GridPosition

	Over bool
	Won  bool
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		ID:              e.ID,
		Tick:            e.tick,
		Title:           e.Defs.Game.Title,
		Width:           e.grid.Width(),
		Height:          e.grid.Height(),
		Rows:            e.grid.Rows(),
		Entries:         e.grid.Entries(),
		Exits:           e.grid.Exits(),
		Resource:        e.resource,
		Materials:       e.econ.Materials(),
		ResourceUnits:   e.resourceUnits,
		MaxUnits:        e.opts.ResourceUnits,
		Wave:            e.waveIndex,
		TotalWaves:      e.waves.Total(),
		PendingWaves:    len(e.pending),
		WavesRemaining:  e.waves.Remaining(),
		Transactions:    e.econ.Transactions(),
		PassiveProgress: e.econ.PassiveProgress(),
		Over:            e.IsOver(),
		Won:             e.Won(),
	}
	for _, t := range e.towers {
		s.Towers = append(s.Towers, t.View())
	}
	for _, c := range e.creatures {
		if !c.Active() {
			continue
		}
		x, y := c.InterpolatedPosition()
		s.Creatures = append(s.Creatures, types.CreatureView{
			Serial:    c.Serial,
			Type:      c.ID(),
			Name:      c.Name(),
			Health:    c.Health(),
			MaxHealth: c.MaxHealth(),
			Shield:    c.Shield(),
			Armor:     c.Armor(),
			Position:  c.Position(),
			X:         x,
			Y:         y,
			Carrying:  c.Carrying(),
			Flying:    c.Flying(),
			Slowed:    c.Slowed(),
			Behaviors: c.Behaviors(),
		})
	}
	if w, ok := e.econ.LastWaveIncome(); ok {
		s.LastWaveIncome = &w
	}
	if r, ok := e.econ.UpcomingRequirement(); ok {
		s.Upcoming = &r
	}
	if p, ok := e.EntryPath(); ok {
		s.EntryPath = p
	}
	return s
}

// Render draws the map with creatures overlaid: 'C' for a creature and
// 'L' for one carrying loot.
func (s Snapshot) Render() string {
	grid := make([][]rune, len(s.Rows))
	for y, row := range s.Rows {
		grid[y] = []rune(row)
	}
	for _, c := range s.Creatures {
		p := c.Position
		if p.Y < 0 || p.Y >= len(grid) || p.X < 0 || p.X >= len(grid[p.Y]) {
			continue
		}
		if c.Carrying {
			grid[p.Y][p.X] = 'L'
		} else {
			grid[p.Y][p.X] = 'C'
		}
	}
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
