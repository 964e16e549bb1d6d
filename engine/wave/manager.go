package wave

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/types"
)

// Preparer accepts a materialized wave. The game engine implements it.
type Preparer interface {
	PrepareWave(w *Wave)
}

// Manager walks an ordered list of wave definitions and turns each one into
// a Wave of creatures.
type Manager struct {
	blueprints map[string]types.CreatureBlueprint
	defs       []types.WaveDefinition
	next       int
}

// NewManager returns a manager over defs using blueprints for creature stats.
func NewManager(blueprints map[string]types.CreatureBlueprint, defs []types.WaveDefinition) *Manager {
	return &Manager{blueprints: blueprints, defs: slices.Clone(defs)}
}

// QueueNext materializes the next definition that yields at least one
// creature and hands it to p. Exhausted managers return false.
func (m *Manager) QueueNext(p Preparer) (types.WaveDefinition, bool) {
	for m.next < len(m.defs) {
		def := m.defs[m.next]
		m.next++
		w := m.Build(def)
		if w.Empty() {
			continue
		}
		p.PrepareWave(w)
		return def, true
	}
	return types.WaveDefinition{}, false
}

// Build turns def into a Wave. Groups naming unknown blueprints are skipped.
func (m *Manager) Build(def types.WaveDefinition) *Wave {
	w := New(def.SpawnInterval, def.InitialDelay)
	w.Name = def.Name
	waveReward := def.RewardMultiplier
	if waveReward <= 0 {
		waveReward = 1
	}
	for _, g := range def.Groups {
		bp, ok := m.blueprints[g.Blueprint]
		if !ok {
			continue
		}
		bp = applyGroup(bp, g, waveReward)
		for i := 0; i < max(1, g.Count); i++ {
			c, err := creature.New(bp)
			if err != nil {
				break
			}
			if g.SpawnInterval > 0 {
				w.AddWithInterval(c, g.SpawnInterval)
			} else {
				w.Add(c)
			}
		}
	}
	return w
}

func orOne(f float64) float64 {
	if f <= 0 {
		return 1
	}
	return f
}

func applyGroup(bp types.CreatureBlueprint, g types.EnemyGroupDefinition, waveReward float64) types.CreatureBlueprint {
	bp.MaxHealth = max(1, int(math.Round(float64(bp.MaxHealth)*orOne(g.HealthModifier))))
	bp.Speed = math.Max(0.1, bp.Speed*orOne(g.SpeedModifier))
	bp.Reward = bp.Reward.Scaled(waveReward * orOne(g.RewardMultiplier))
	bp.Armor += g.ArmorBonus
	bp.Shield += g.ShieldBonus
	if g.FlyingOverride != nil {
		bp.Flying = *g.FlyingOverride
	}
	bp.Behaviors = append(slices.Clone(bp.Behaviors), g.ExtraBehaviors...)
	return bp
}

// Preview returns the definition offset waves ahead of the next one.
func (m *Manager) Preview(offset int) (types.WaveDefinition, bool) {
	i := m.next + offset
	if offset < 0 || i >= len(m.defs) {
		return types.WaveDefinition{}, false
	}
	return m.defs[i], true
}

// Upcoming returns up to n definitions that have not been queued yet.
func (m *Manager) Upcoming(n int) []types.WaveDefinition {
	end := min(len(m.defs), m.next+max(0, n))
	return slices.Clone(m.defs[m.next:end])
}

// Remaining is the number of definitions not yet queued.
func (m *Manager) Remaining() int { return len(m.defs) - m.next }

// Total is the number of definitions.
func (m *Manager) Total() int { return len(m.defs) }

// Next is the index of the next definition to queue.
func (m *Manager) Next() int { return m.next }

// Seek moves the cursor, clamped to the definition list.
func (m *Manager) Seek(i int) { m.next = min(max(0, i), len(m.defs)) }

// Count returns the number of creatures def would spawn, ignoring groups
// whose blueprint is unknown.
func (m *Manager) Count(def types.WaveDefinition) int {
	n := 0
	for _, g := range def.Groups {
		if _, ok := m.blueprints[g.Blueprint]; ok {
			n += max(1, g.Count)
		}
	}
	return n
}

// Summary renders def for display, e.g.
// "5x Goblin Scout (fast, tough, interval:3t), 2x Orc Brute".
func (m *Manager) Summary(def types.WaveDefinition) string {
	var parts []string
	for _, g := range def.Groups {
		name := g.Blueprint
		if bp, ok := m.blueprints[g.Blueprint]; ok && bp.Name != "" {
			name = bp.Name
		}
		s := fmt.Sprintf("%dx %s", max(1, g.Count), name)
		if tags := groupTags(g); len(tags) > 0 {
			s += " (" + strings.Join(tags, ", ") + ")"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "no creatures"
	}
	return strings.Join(parts, ", ")
}

func groupTags(g types.EnemyGroupDefinition) []string {
	var tags []string
	if s := orOne(g.SpeedModifier); s > 1 {
		tags = append(tags, "fast")
	} else if s < 1 {
		tags = append(tags, "slow")
	}
	if h := orOne(g.HealthModifier); h > 1 {
		tags = append(tags, "tough")
	} else if h < 1 {
		tags = append(tags, "frail")
	}
	if g.ArmorBonus > 0 {
		tags = append(tags, fmt.Sprintf("armor+%d", g.ArmorBonus))
	}
	if g.ShieldBonus > 0 {
		tags = append(tags, fmt.Sprintf("shield+%d", g.ShieldBonus))
	}
	if g.FlyingOverride != nil && *g.FlyingOverride {
		tags = append(tags, "flying")
	}
	if g.SpawnInterval > 0 {
		tags = append(tags, fmt.Sprintf("interval:%dt", g.SpawnInterval))
	}
	tags = append(tags, g.ExtraBehaviors...)
	return tags
}
