// Package catalog holds the immutable game definitions: the map, tower
// archetypes, creature blueprints, scripted waves and the ambient pool.
package catalog

import (
	"sort"
	"strings"

	"github.com/nathoo/towercore/types"
)

// Defs holds the immutable game definitions loaded from Lua or built in.
type Defs struct {
	Game       types.GameDef
	Map        types.MapDef
	Towers     map[string]types.TowerArchetype
	TowerOrder []string // display order of tower IDs
	Creatures  map[string]types.CreatureBlueprint
	Waves      []types.WaveDefinition
	Ambient    []string // blueprint IDs for ambient spawns
}

// NormalizeID lowercases and trims a definition ID.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Tower looks up an archetype by ID, case-insensitively.
func (d *Defs) Tower(id string) (types.TowerArchetype, bool) {
	a, ok := d.Towers[NormalizeID(id)]
	return a, ok
}

// Archetypes returns every tower archetype in display order. IDs missing
// from TowerOrder follow in sorted order.
func (d *Defs) Archetypes() []types.TowerArchetype {
	seen := make(map[string]bool, len(d.Towers))
	var out []types.TowerArchetype
	for _, id := range d.TowerOrder {
		if a, ok := d.Towers[id]; ok && !seen[id] {
			out = append(out, a)
			seen[id] = true
		}
	}
	var rest []string
	for id := range d.Towers {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, d.Towers[id])
	}
	return out
}

// AmbientPool returns the blueprints named by Ambient, skipping unknown IDs.
func (d *Defs) AmbientPool() []types.CreatureBlueprint {
	var out []types.CreatureBlueprint
	for _, id := range d.Ambient {
		if bp, ok := d.Creatures[id]; ok {
			out = append(out, bp)
		}
	}
	return out
}

// FillDefaults supplies any empty section from the built-in catalog.
func (d *Defs) FillDefaults() {
	def := Default()
	if len(d.Map.Rows) == 0 {
		d.Map = def.Map
	}
	if len(d.Towers) == 0 {
		d.Towers, d.TowerOrder = def.Towers, def.TowerOrder
	}
	if len(d.Creatures) == 0 {
		d.Creatures = def.Creatures
	}
	if len(d.Waves) == 0 {
		d.Waves = def.Waves
	}
	if len(d.Ambient) == 0 {
		d.Ambient = def.Ambient
	}
}
