package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/types"
)

// towersAttack lets every tower count down and fire once if it can.
func (e *Engine) towersAttack() {
	pool := make([]*creature.Creature, 0, len(e.creatures))
	for _, c := range e.creatures {
		if c.Active() {
			pool = append(pool, c)
		}
	}
	for _, t := range e.towers {
		t.Tick()
		hit, ok := t.Attack(pool)
		if !ok || !hit.Killed {
			continue
		}
		e.emit(EventCreatureKilled, map[string]any{
			"serial": hit.Target.Serial, "type": hit.Target.ID(), "by": t.Type(),
			"x": hit.Target.Position().X, "y": hit.Target.Position().Y,
		})
	}
}

// moveCreatures advances creatures and resolves arrivals and tunneling.
func (e *Engine) moveCreatures() {
	for _, c := range e.creatures {
		if !c.Active() {
			continue
		}
		c.Tick()
		e.resolveArrival(c)
		if c.Active() && c.CanTunnel() {
			e.tunnel(c)
		}
	}
}

func (e *Engine) resolveArrival(c *creature.Creature) {
	if !c.AtPathEnd() {
		return
	}
	p := c.Position()
	switch {
	case !c.Carrying() && p == e.resource:
		e.breach(c)
	case c.Carrying():
		if tile, _ := e.grid.At(p); tile == types.TileExit {
			c.MarkExited()
			e.emit(EventCreatureExited, map[string]any{"serial": c.Serial, "type": c.ID()})
		}
	}
}

// breach costs one crystal unit and lets the creature rob the treasury.
func (e *Engine) breach(c *creature.Creature) {
	e.resourceUnits = max(0, e.resourceUnits-1)
	e.breached = true
	c.MarkGoalReached()
	stolen := e.econ.Steal(c.Theft(), c.Name(), e.waveIndex)

	e.emit(EventBreach, map[string]any{
		"serial": c.Serial, "type": c.ID(), "stolen": stolen.Short(), "units": e.resourceUnits,
	})
	e.log.WithFields(logrus.Fields{"creature": c.Name(), "stolen": stolen.Short(), "units": e.resourceUnits}).Info("crystal breached")
	if e.resourceUnits == 0 {
		e.emit(EventGameOver, map[string]any{"won": false})
	}

	if e.opts.CarriersReturn {
		path, ok := e.finder.Nearest(c.Position(), e.grid.Exits(), c.CanTunnel())
		if ok && c.StartReturning(path) == nil {
			return
		}
	}
	c.MarkForRemoval()
}

// tunnel destroys a tower the creature is standing on. No refund is paid.
func (e *Engine) tunnel(c *creature.Creature) {
	t := e.TowerAt(c.Position())
	if t == nil {
		return
	}
	e.removeTower(t)
	e.updateRequirement()
	e.emit(EventTowerDestroyed, map[string]any{
		"type": t.Type(), "x": t.Position().X, "y": t.Position().Y, "by": c.ID(),
	})
	e.log.WithFields(logrus.Fields{"tower": t.Type(), "pos": t.Position().String(), "creature": c.Name()}).Info("tower destroyed")
}

// cleanup drops dead, exited and removed creatures, paying bounties for
// the dead.
func (e *Engine) cleanup() {
	kept := e.creatures[:0]
	for _, c := range e.creatures {
		switch {
		case !c.IsAlive():
			e.econ.AddIncome(c.Reward(), "Defeated "+c.Name(), e.waveIndex)
		case c.Exited(), c.Removed():
		default:
			kept = append(kept, c)
		}
	}
	clear(e.creatures[len(kept):])
	e.creatures = kept
}
