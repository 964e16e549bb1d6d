package tower

import (
	"testing"

	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/types"
)

func pos(x, y int) types.GridPosition { return types.GridPosition{X: x, Y: y} }

func testArchetype(effect types.AttackEffect, mode types.TargetingMode) types.TowerArchetype {
	return types.TowerArchetype{
		ID:        "test",
		Name:      "Test Tower",
		Targeting: mode,
		Effect:    effect,
		Levels: []types.TowerLevel{
			{Label: "I", Damage: 10, Range: 3, FireRate: 3, BuildCost: types.Materials{Wood: 4, Stone: 2, Crystal: 1}},
			{Label: "II", Damage: 15, Range: 4, FireRate: 2, UpgradeCost: types.Materials{Wood: 2, Stone: 2}},
		},
	}
}

func newTower(t *testing.T, effect types.AttackEffect, mode types.TargetingMode) *Tower {
	t.Helper()
	tw, err := New(testArchetype(effect, mode), pos(0, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tw
}

// spawnAt makes a creature standing on p.
func spawnAt(t *testing.T, p types.GridPosition, health int) *creature.Creature {
	t.Helper()
	c, err := creature.New(types.CreatureBlueprint{ID: "dummy", Name: "Dummy", MaxHealth: health, Speed: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.AssignPath([]types.GridPosition{p})
	return c
}

func TestValidate(t *testing.T) {
	good := testArchetype(types.EffectDirect, types.TargetNearest)
	if err := Validate(good); err != nil {
		t.Errorf("valid archetype rejected: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*types.TowerArchetype)
	}{
		{"no levels", func(a *types.TowerArchetype) { a.Levels = nil }},
		{"zero damage", func(a *types.TowerArchetype) { a.Levels[0].Damage = 0 }},
		{"zero range", func(a *types.TowerArchetype) { a.Levels[0].Range = 0 }},
		{"zero fire rate", func(a *types.TowerArchetype) { a.Levels[0].FireRate = 0 }},
		{"bad targeting", func(a *types.TowerArchetype) { a.Targeting = "random" }},
		{"bad effect", func(a *types.TowerArchetype) { a.Effect = "laser" }},
	}
	for _, tt := range tests {
		a := testArchetype(types.EffectDirect, types.TargetNearest)
		tt.mutate(&a)
		if _, err := New(a, pos(0, 0)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestDamageScalesWithLevel(t *testing.T) {
	tw := newTower(t, types.EffectDirect, types.TargetNearest)
	if got := tw.Damage(); got != 4 {
		t.Errorf("level 0 damage = %d, want 4", got)
	}
	tw.Upgrade()
	// 15 * 0.48 = 7.2
	if got := tw.Damage(); got != 7 {
		t.Errorf("level 1 damage = %d, want 7", got)
	}
}

func TestDamageNeverBelowOne(t *testing.T) {
	a := testArchetype(types.EffectDirect, types.TargetNearest)
	a.Levels[0].Damage = 1
	tw, _ := New(a, pos(0, 0))
	if got := tw.Damage(); got != 1 {
		t.Errorf("damage = %d, want 1", got)
	}
}

func TestUpgradeAndSellValue(t *testing.T) {
	tw := newTower(t, types.EffectDirect, types.TargetNearest)
	if got, want := tw.SellValue(DefaultRefundRatio), (types.Materials{Wood: 3, Stone: 2, Crystal: 1}); got != want {
		t.Errorf("sell value = %v, want %v", got, want)
	}
	if !tw.Upgrade() {
		t.Fatal("first upgrade should succeed")
	}
	if tw.Upgrade() {
		t.Error("upgrade past max level should fail")
	}
	if tw.Level() != 1 || tw.Range() != 4 || tw.FireRate() != 2 {
		t.Errorf("level %d range %v rate %d", tw.Level(), tw.Range(), tw.FireRate())
	}
	if got, want := tw.Invested(), (types.Materials{Wood: 6, Stone: 4, Crystal: 1}); got != want {
		t.Errorf("invested = %v, want %v", got, want)
	}
	if _, ok := tw.NextUpgrade(); ok {
		t.Error("NextUpgrade at max level should report false")
	}
}

func TestCooldownCycle(t *testing.T) {
	tw := newTower(t, types.EffectDirect, types.TargetNearest)
	target := spawnAt(t, pos(1, 0), 100)
	pool := []*creature.Creature{target}

	shots := 0
	for tick := 0; tick < 9; tick++ {
		tw.Tick()
		if _, ok := tw.Attack(pool); ok {
			shots++
		}
	}
	// Fires on ticks 0, 3 and 6.
	if shots != 3 {
		t.Errorf("shots = %d, want 3", shots)
	}
	tw.ResetCooldown()
	if !tw.CanAttack() {
		t.Error("ResetCooldown should make the tower ready")
	}
}

func TestNoTargetKeepsCooldown(t *testing.T) {
	tw := newTower(t, types.EffectDirect, types.TargetNearest)
	far := spawnAt(t, pos(9, 9), 10)
	if _, ok := tw.Attack([]*creature.Creature{far}); ok {
		t.Error("out-of-range creature should not be attacked")
	}
	if !tw.CanAttack() {
		t.Error("failed attack must not start cooldown")
	}
}

func TestTargetingTieBreaks(t *testing.T) {
	tw := newTower(t, types.EffectDirect, types.TargetNearest)
	a := spawnAt(t, pos(1, 0), 5)
	b := spawnAt(t, pos(0, 1), 5)
	c := spawnAt(t, pos(2, 0), 9)
	tests := []struct {
		mode types.TargetingMode
		pool []*creature.Creature
		want *creature.Creature
	}{
		{types.TargetNearest, []*creature.Creature{a, b}, a},
		{types.TargetNearest, []*creature.Creature{c, b}, b},
		{types.TargetFarthest, []*creature.Creature{a, b}, b},
		{types.TargetFarthest, []*creature.Creature{c, a}, c},
		{types.TargetStrongest, []*creature.Creature{a, b}, b},
		{types.TargetStrongest, []*creature.Creature{c, a}, c},
		{types.TargetWeakest, []*creature.Creature{a, b}, b},
		{types.TargetWeakest, []*creature.Creature{a, c}, a},
	}
	for _, tt := range tests {
		if got := tw.SelectTarget(tt.pool, tt.mode); got != tt.want {
			t.Errorf("%s: picked %v, want %v", tt.mode, got, tt.want)
		}
	}
	if tw.SelectTarget(nil, types.TargetNearest) != nil {
		t.Error("empty candidates should yield nil")
	}
}

func TestPiercingBonusAgainstCarriers(t *testing.T) {
	tw := newTower(t, types.EffectPiercing, types.TargetNearest)
	c := spawnAt(t, pos(1, 0), 50)
	c.StartReturning([]types.GridPosition{pos(1, 0)})
	hit, ok := tw.Attack([]*creature.Creature{c})
	if !ok {
		t.Fatal("expected attack")
	}
	// 4 base + max(1, 4/2).
	if hit.Damage != 6 {
		t.Errorf("damage = %d, want 6", hit.Damage)
	}
}

func TestFrostSlows(t *testing.T) {
	tw := newTower(t, types.EffectFrost, types.TargetNearest)
	c := spawnAt(t, pos(1, 0), 50)
	tw.Attack([]*creature.Creature{c})
	if c.SlowFactor() != 0.4 || !c.Slowed() {
		t.Errorf("slow factor = %v, want 0.4", c.SlowFactor())
	}
}

func TestFocusAndEntangleOverrideMode(t *testing.T) {
	weak := spawnAt(t, pos(1, 0), 5)
	strong := spawnAt(t, pos(2, 0), 40)
	pool := []*creature.Creature{weak, strong}

	focus := newTower(t, types.EffectFocus, types.TargetNearest)
	hit, _ := focus.Attack(pool)
	if hit.Target != strong {
		t.Errorf("focus hit %v, want strongest", hit.Target)
	}

	entangle := newTower(t, types.EffectEntangle, types.TargetStrongest)
	hit, _ = entangle.Attack(pool)
	if hit.Target != weak {
		t.Errorf("entangle hit %v, want weakest", hit.Target)
	}
	if weak.SlowFactor() != 0.6 {
		t.Errorf("entangle slow = %v, want 0.6", weak.SlowFactor())
	}
}

func TestKillReported(t *testing.T) {
	tw := newTower(t, types.EffectDirect, types.TargetNearest)
	c := spawnAt(t, pos(1, 0), 3)
	hit, ok := tw.Attack([]*creature.Creature{c})
	if !ok || !hit.Killed || hit.Damage != 3 {
		t.Errorf("hit = %+v, ok = %v", hit, ok)
	}
}
