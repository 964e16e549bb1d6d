package tower

import (
	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/types"
)

const (
	frostSlow    = 0.4
	entangleSlow = 0.6
)

func knownEffect(e types.AttackEffect) bool {
	switch e {
	case types.EffectPiercing, types.EffectDirect, types.EffectFrost, types.EffectFocus, types.EffectEntangle:
		return true
	}
	return false
}

// Hit describes one resolved attack.
type Hit struct {
	Target *creature.Creature
	Damage int // health actually removed
	Killed bool
}

// Attack fires at a creature in pool if the tower is ready and something
// is in range. A successful attack resets the cooldown.
func (t *Tower) Attack(pool []*creature.Creature) (Hit, bool) {
	if !t.CanAttack() {
		return Hit{}, false
	}
	candidates := t.InRange(pool)
	if len(candidates) == 0 {
		return Hit{}, false
	}

	var target *creature.Creature
	dmg := t.Damage()
	switch t.archetype.Effect {
	case types.EffectPiercing:
		target = t.SelectTarget(candidates, t.Targeting())
		if target.Carrying() {
			dmg += max(1, dmg/2)
		}
	case types.EffectDirect:
		target = t.SelectTarget(candidates, t.Targeting())
	case types.EffectFrost:
		target = t.SelectTarget(candidates, t.Targeting())
		target.ApplySlow(frostSlow, 2+t.level)
	case types.EffectFocus:
		target = t.SelectTarget(candidates, types.TargetStrongest)
	case types.EffectEntangle:
		target = t.SelectTarget(candidates, types.TargetWeakest)
		target.ApplySlow(entangleSlow, 2+t.level)
	default:
		return Hit{}, false
	}

	dealt := target.ApplyDamage(dmg)
	t.cooldown = t.FireRate()
	return Hit{Target: target, Damage: dealt, Killed: !target.IsAlive()}, true
}
