package creature

import (
	"errors"
	"math"
	"testing"

	"github.com/nathoo/towercore/types"
)

func pos(x, y int) types.GridPosition { return types.GridPosition{X: x, Y: y} }

func line(n int) []types.GridPosition {
	p := make([]types.GridPosition, n)
	for i := range p {
		p[i] = pos(i, 0)
	}
	return p
}

func newCreature(t *testing.T, bp types.CreatureBlueprint) *Creature {
	t.Helper()
	if bp.MaxHealth == 0 {
		bp.MaxHealth = 10
	}
	if bp.Speed == 0 {
		bp.Speed = 1
	}
	c, err := New(bp)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsInvalidStats(t *testing.T) {
	if _, err := New(types.CreatureBlueprint{ID: "x", MaxHealth: 0, Speed: 1}); err == nil {
		t.Error("zero health should be rejected")
	}
	if _, err := New(types.CreatureBlueprint{ID: "x", MaxHealth: 5, Speed: 0}); err == nil {
		t.Error("zero speed should be rejected")
	}
}

func TestReachesEndOfShortCorridor(t *testing.T) {
	// E###R is four moves at one tile per tick.
	c := newCreature(t, types.CreatureBlueprint{MaxHealth: 5, Speed: 1})
	if err := c.AssignPath(line(5)); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 4; i++ {
		if c.AtPathEnd() {
			t.Fatalf("at end after %d ticks, want 4", i-1)
		}
		c.Tick()
	}
	if !c.AtPathEnd() || c.Position() != pos(4, 0) {
		t.Errorf("position = %v, want (4,0)", c.Position())
	}
	c.Tick()
	if c.Position() != pos(4, 0) {
		t.Errorf("moved past end: %v", c.Position())
	}
}

func TestFractionalSpeedAccumulates(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{Speed: 0.5})
	c.AssignPath(line(4))
	c.Tick()
	if c.Position() != pos(0, 0) {
		t.Errorf("after 1 tick = %v, want (0,0)", c.Position())
	}
	x, _ := c.InterpolatedPosition()
	if math.Abs(x-0.5) > 1e-9 {
		t.Errorf("interpolated x = %v, want 0.5", x)
	}
	c.Tick()
	if c.Position() != pos(1, 0) {
		t.Errorf("after 2 ticks = %v, want (1,0)", c.Position())
	}
}

func TestFastCreatureSkipsCells(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{Speed: 2.5})
	c.AssignPath(line(10))
	c.Tick()
	if c.Position() != pos(2, 0) {
		t.Errorf("position = %v, want (2,0)", c.Position())
	}
	c.Tick()
	if c.Position() != pos(5, 0) {
		t.Errorf("position = %v, want (5,0)", c.Position())
	}
}

func TestDamagePipeline(t *testing.T) {
	tests := []struct {
		name       string
		shield     int
		armor      int
		damage     int
		wantHealth int
		wantShield int
	}{
		{"shield then armor", 3, 2, 10, 15, 0},
		{"shield absorbs all", 5, 0, 4, 20, 1},
		{"armor floor of one", 0, 9, 3, 19, 0},
		{"zero damage", 2, 0, 0, 20, 2},
		{"negative damage", 0, 0, -5, 20, 0},
		{"overkill floors at zero", 0, 0, 50, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCreature(t, types.CreatureBlueprint{MaxHealth: 20, Shield: tt.shield, Armor: tt.armor})
			c.ApplyDamage(tt.damage)
			if c.Health() != tt.wantHealth {
				t.Errorf("health = %d, want %d", c.Health(), tt.wantHealth)
			}
			if c.Shield() != tt.wantShield {
				t.Errorf("shield = %d, want %d", c.Shield(), tt.wantShield)
			}
		})
	}
}

func TestDeadCreatureIgnoresDamage(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{MaxHealth: 3})
	c.ApplyDamage(10)
	if c.IsAlive() {
		t.Fatal("should be dead")
	}
	if got := c.ApplyDamage(5); got != 0 || c.Health() != 0 {
		t.Errorf("damage on corpse = %d, health %d", got, c.Health())
	}
}

func TestSlowClampsAndExpires(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{Speed: 1})
	c.AssignPath(line(20))
	c.ApplySlow(0.01, 2)
	if c.SlowFactor() != 0.1 {
		t.Errorf("factor = %v, want 0.1", c.SlowFactor())
	}
	c.ApplySlow(5, 1)
	if c.SlowFactor() != 1 {
		t.Errorf("factor = %v, want 1", c.SlowFactor())
	}

	c.ApplySlow(0.5, 2)
	c.Tick()
	c.Tick()
	// Two slowed ticks at 0.5 cover one cell.
	if c.Position() != pos(1, 0) {
		t.Errorf("after slowed ticks = %v, want (1,0)", c.Position())
	}
	c.Tick()
	if c.SlowFactor() != 1 {
		t.Errorf("slow did not expire: %v", c.SlowFactor())
	}
	if c.Position() != pos(2, 0) {
		t.Errorf("after recovery = %v, want (2,0)", c.Position())
	}
}

func TestSlowDurationKeepsLonger(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{})
	c.ApplySlow(0.5, 5)
	c.ApplySlow(0.8, 2)
	if c.slowDuration != 5 {
		t.Errorf("duration = %d, want 5", c.slowDuration)
	}
	if c.SlowFactor() != 0.8 {
		t.Errorf("factor = %v, want latest 0.8", c.SlowFactor())
	}
}

func TestReturningAndFlags(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{Reward: types.Materials{Wood: 2}})
	if err := c.AssignPath(nil); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("AssignPath(nil) = %v", err)
	}
	c.AssignPath(line(3))
	c.MarkGoalReached()
	if err := c.StartReturning([]types.GridPosition{pos(2, 0), pos(1, 0), pos(0, 0)}); err != nil {
		t.Fatal(err)
	}
	if !c.Carrying() || c.ReachedGoal() {
		t.Errorf("carrying=%v reached=%v after StartReturning", c.Carrying(), c.ReachedGoal())
	}
	if c.Theft() != c.Reward() {
		t.Errorf("theft = %v, want reward %v", c.Theft(), c.Reward())
	}
	c.MarkExited()
	if c.Active() {
		t.Error("exited creature should be inactive")
	}
}

func TestTunneling(t *testing.T) {
	tests := []struct {
		behaviors []string
		want      bool
	}{
		{nil, false},
		{[]string{"nimble"}, false},
		{[]string{BehaviorBurrower}, true},
		{[]string{"fast", BehaviorDestroyer}, true},
	}
	for _, tt := range tests {
		c := newCreature(t, types.CreatureBlueprint{Behaviors: tt.behaviors})
		if got := c.CanTunnel(); got != tt.want {
			t.Errorf("CanTunnel(%v) = %v, want %v", tt.behaviors, got, tt.want)
		}
	}
}

func TestScaleHealth(t *testing.T) {
	c := newCreature(t, types.CreatureBlueprint{MaxHealth: 6})
	c.ScaleHealth(1.5)
	if c.MaxHealth() != 9 || c.Health() != 9 {
		t.Errorf("scaled = %d/%d, want 9/9", c.Health(), c.MaxHealth())
	}
	c.ScaleHealth(0.01)
	if c.MaxHealth() != 1 || c.Health() != 1 {
		t.Errorf("floored = %d/%d, want 1/1", c.Health(), c.MaxHealth())
	}
}
