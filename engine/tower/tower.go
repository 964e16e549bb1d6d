// Package tower implements placed towers: level progression, cooldowns,
// target selection and attack effects.
package tower

import (
	"fmt"
	"math"

	"github.com/nathoo/towercore/types"
)

// DefaultRefundRatio is the share of invested materials returned on sale.
const DefaultRefundRatio = 0.75

// Tower is a placed instance of an archetype.
type Tower struct {
	archetype types.TowerArchetype
	position  types.GridPosition
	level     int
	cooldown  int
	invested  types.Materials
}

// Validate checks that an archetype can be built.
func Validate(a types.TowerArchetype) error {
	if len(a.Levels) == 0 {
		return fmt.Errorf("tower %q: no levels", a.ID)
	}
	base := a.Levels[0]
	if base.Damage <= 0 || base.Range <= 0 || base.FireRate <= 0 {
		return fmt.Errorf("tower %q: level 1 needs positive damage, range and fire rate", a.ID)
	}
	switch a.Targeting {
	case types.TargetNearest, types.TargetFarthest, types.TargetStrongest, types.TargetWeakest:
	default:
		return fmt.Errorf("tower %q: unknown targeting mode %q", a.ID, a.Targeting)
	}
	if !knownEffect(a.Effect) {
		return fmt.Errorf("tower %q: unknown attack effect %q", a.ID, a.Effect)
	}
	return nil
}

// New places a tower of archetype a at p. The level-0 build cost is
// recorded as invested.
func New(a types.TowerArchetype, p types.GridPosition) (*Tower, error) {
	if err := Validate(a); err != nil {
		return nil, err
	}
	a.Levels = append([]types.TowerLevel(nil), a.Levels...)
	return &Tower{archetype: a, position: p, invested: a.Levels[0].BuildCost}, nil
}

func (t *Tower) Type() string { return t.archetype.ID }
func (t *Tower) Name() string { return t.archetype.Name }
func (t *Tower) Position() types.GridPosition { return t.position }
func (t *Tower) Level() int { return t.level }
func (t *Tower) MaxLevel() int { return len(t.archetype.Levels) - 1 }
func (t *Tower) Cooldown() int { return t.cooldown }
func (t *Tower) Invested() types.Materials { return t.invested }
func (t *Tower) Targeting() types.TargetingMode { return t.archetype.Targeting }
func (t *Tower) Effect() types.AttackEffect { return t.archetype.Effect }

func (t *Tower) stats() types.TowerLevel { return t.archetype.Levels[t.level] }

// Damage is the level damage scaled by a factor that grows with level,
// 0.4 at the first level up to 0.8, and never below 1.
func (t *Tower) Damage() int {
	scale := math.Min(0.8, math.Max(0.4, 0.4+0.08*float64(t.level)))
	return max(1, int(math.Round(float64(t.stats().Damage)*scale)))
}

// Range is the attack radius in tiles.
func (t *Tower) Range() float64 { return t.stats().Range }

// FireRate is the number of ticks between attacks.
func (t *Tower) FireRate() int { return t.stats().FireRate }

// Tick counts the cooldown down toward zero.
func (t *Tower) Tick() {
	if t.cooldown > 0 {
		t.cooldown--
	}
}

// CanAttack reports whether the cooldown has elapsed.
func (t *Tower) CanAttack() bool { return t.cooldown == 0 }

// ResetCooldown makes the tower ready to fire immediately.
func (t *Tower) ResetCooldown() { t.cooldown = 0 }

// NextUpgrade returns the stats of the next level, if any.
func (t *Tower) NextUpgrade() (types.TowerLevel, bool) {
	if t.level >= t.MaxLevel() {
		return types.TowerLevel{}, false
	}
	return t.archetype.Levels[t.level+1], true
}

// Upgrade advances one level and records the upgrade cost as invested.
// Payment is the caller's job.
func (t *Tower) Upgrade() bool {
	next, ok := t.NextUpgrade()
	if !ok {
		return false
	}
	t.level++
	t.invested.Add(next.UpgradeCost)
	return true
}

// SellValue returns invested materials scaled by ratio.
func (t *Tower) SellValue(ratio float64) types.Materials {
	return t.invested.Scaled(ratio)
}

// View returns a read-only snapshot.
func (t *Tower) View() types.TowerView {
	return types.TowerView{
		Type:      t.Type(),
		Name:      t.Name(),
		Position:  t.position,
		Level:     t.level,
		MaxLevel:  t.MaxLevel(),
		Damage:    t.Damage(),
		Range:     t.Range(),
		FireRate:  t.FireRate(),
		Cooldown:  t.cooldown,
		Targeting: t.Targeting(),
		Invested:  t.invested,
	}
}
