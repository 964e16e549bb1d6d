package tower

import (
	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/types"
)

func distanceSq(a, b types.GridPosition) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return dx*dx + dy*dy
}

// InRange returns the alive creatures within range, in pool order.
func (t *Tower) InRange(pool []*creature.Creature) []*creature.Creature {
	r2 := t.Range() * t.Range()
	var out []*creature.Creature
	for _, c := range pool {
		if c.Active() && distanceSq(t.position, c.Position()) <= r2 {
			out = append(out, c)
		}
	}
	return out
}

// SelectTarget picks one candidate according to mode. Ties keep the first
// candidate for Nearest and the last one for every other mode.
func (t *Tower) SelectTarget(candidates []*creature.Creature, mode types.TargetingMode) *creature.Creature {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch mode {
		case types.TargetNearest:
			if distanceSq(t.position, c.Position()) < distanceSq(t.position, best.Position()) {
				best = c
			}
		case types.TargetFarthest:
			if distanceSq(t.position, c.Position()) >= distanceSq(t.position, best.Position()) {
				best = c
			}
		case types.TargetStrongest:
			if c.Health() >= best.Health() {
				best = c
			}
		case types.TargetWeakest:
			if c.Health() <= best.Health() {
				best = c
			}
		}
	}
	return best
}
