package wave

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/types"
)

func testBlueprints() map[string]types.CreatureBlueprint {
	return map[string]types.CreatureBlueprint{
		"goblin": {ID: "goblin", Name: "Goblin Scout", MaxHealth: 6, Speed: 1.0, Reward: types.Materials{Wood: 1}, Behaviors: []string{"nimble"}},
		"brute":  {ID: "brute", Name: "Orc Brute", MaxHealth: 14, Speed: 0.75, Reward: types.Materials{Stone: 2}, Armor: 1},
	}
}

func mustCreature(t *testing.T) *creature.Creature {
	t.Helper()
	c, err := creature.New(types.CreatureBlueprint{ID: "x", MaxHealth: 1, Speed: 1})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

type collector struct{ waves []*Wave }

func (c *collector) PrepareWave(w *Wave) { c.waves = append(c.waves, w) }

func TestWaveCooldown(t *testing.T) {
	w := New(2, 1)
	w.Add(mustCreature(t))
	w.AddWithInterval(mustCreature(t), 4)
	w.Add(mustCreature(t))

	var spawnedAt []int
	for tick := 1; tick <= 12 && !w.Empty(); tick++ {
		w.Tick()
		for w.ReadyToSpawn() {
			if _, err := w.Spawn(); err != nil {
				t.Fatal(err)
			}
			spawnedAt = append(spawnedAt, tick)
		}
	}
	// Delay 1, then default interval 2, then the override of 4.
	want := []int{1, 3, 7}
	if len(spawnedAt) != len(want) {
		t.Fatalf("spawned at %v, want %v", spawnedAt, want)
	}
	for i := range want {
		if spawnedAt[i] != want[i] {
			t.Errorf("spawned at %v, want %v", spawnedAt, want)
			break
		}
	}
}

func TestSpawnEmpty(t *testing.T) {
	w := New(1, 0)
	if w.ReadyToSpawn() {
		t.Error("empty wave should not be ready")
	}
	if _, err := w.Spawn(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Spawn err = %v, want ErrEmpty", err)
	}
}

func TestBuildAppliesModifiers(t *testing.T) {
	m := NewManager(testBlueprints(), nil)
	fly := true
	w := m.Build(types.WaveDefinition{
		Name:          "Test",
		SpawnInterval: 2,
		Groups: []types.EnemyGroupDefinition{{
			Blueprint:      "goblin",
			Count:          5,
			HealthModifier: 1.2,
			SpeedModifier:  0.9,
			ArmorBonus:     2,
			ShieldBonus:    1,
			FlyingOverride: &fly,
			ExtraBehaviors: []string{"burrower"},
		}},
	})
	if w.Remaining() != 5 {
		t.Fatalf("remaining = %d, want 5", w.Remaining())
	}
	c, _ := w.Spawn()
	if c.MaxHealth() != 7 {
		t.Errorf("health = %d, want 7", c.MaxHealth())
	}
	if math.Abs(c.Speed()-0.9) > 1e-9 {
		t.Errorf("speed = %v, want 0.9", c.Speed())
	}
	if c.Armor() != 2 || c.Shield() != 1 || !c.Flying() {
		t.Errorf("armor %d shield %d flying %v", c.Armor(), c.Shield(), c.Flying())
	}
	if !c.HasBehavior("nimble") || !c.CanTunnel() {
		t.Errorf("behaviors = %v", c.Behaviors())
	}
}

func TestBuildScalesReward(t *testing.T) {
	m := NewManager(testBlueprints(), nil)
	w := m.Build(types.WaveDefinition{
		RewardMultiplier: 2,
		Groups:           []types.EnemyGroupDefinition{{Blueprint: "brute", Count: 1, RewardMultiplier: 1.5}},
	})
	c, _ := w.Spawn()
	if got := c.Reward(); got != (types.Materials{Stone: 6}) {
		t.Errorf("reward = %v, want 6 stone", got)
	}
}

func TestBuildFloorsHealthAndSpeed(t *testing.T) {
	m := NewManager(testBlueprints(), nil)
	w := m.Build(types.WaveDefinition{Groups: []types.EnemyGroupDefinition{
		{Blueprint: "goblin", Count: 1, HealthModifier: 0.01, SpeedModifier: 0.01},
	}})
	c, _ := w.Spawn()
	if c.MaxHealth() != 1 || c.Speed() != 0.1 {
		t.Errorf("health %d speed %v, want 1 and 0.1", c.MaxHealth(), c.Speed())
	}
}

func TestQueueNextSkipsEmptyAndUnknown(t *testing.T) {
	defs := []types.WaveDefinition{
		{Name: "Ghosts", Groups: []types.EnemyGroupDefinition{{Blueprint: "ghost", Count: 3}}},
		{Name: "Mixed", Groups: []types.EnemyGroupDefinition{
			{Blueprint: "ghost", Count: 3},
			{Blueprint: "goblin", Count: 2},
		}},
	}
	m := NewManager(testBlueprints(), defs)
	var col collector
	def, ok := m.QueueNext(&col)
	if !ok || def.Name != "Mixed" {
		t.Fatalf("queued %q, %v; want Mixed", def.Name, ok)
	}
	if len(col.waves) != 1 || col.waves[0].Remaining() != 2 {
		t.Errorf("prepared waves = %d", len(col.waves))
	}
	if _, ok := m.QueueNext(&col); ok {
		t.Error("exhausted manager queued a wave")
	}
	if m.Remaining() != 0 {
		t.Errorf("remaining = %d", m.Remaining())
	}
}

func TestPreviewAndUpcoming(t *testing.T) {
	defs := []types.WaveDefinition{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	m := NewManager(testBlueprints(), defs)
	m.Seek(1)
	if d, ok := m.Preview(0); !ok || d.Name != "B" {
		t.Errorf("Preview(0) = %q, %v", d.Name, ok)
	}
	if _, ok := m.Preview(2); ok {
		t.Error("Preview past end should fail")
	}
	if up := m.Upcoming(5); len(up) != 2 || up[1].Name != "C" {
		t.Errorf("Upcoming = %v", up)
	}
	if m.Remaining() != 2 || m.Total() != 3 {
		t.Errorf("remaining %d total %d", m.Remaining(), m.Total())
	}
}

func TestSummary(t *testing.T) {
	m := NewManager(testBlueprints(), nil)
	def := types.WaveDefinition{Groups: []types.EnemyGroupDefinition{
		{Blueprint: "goblin", Count: 5, SpeedModifier: 1.2, HealthModifier: 1.5, SpawnInterval: 3},
		{Blueprint: "brute", Count: 2},
	}}
	got := m.Summary(def)
	want := "5x Goblin Scout (fast, tough, interval:3t), 2x Orc Brute"
	if got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if n := m.Count(def); n != 7 {
		t.Errorf("Count = %d, want 7", n)
	}
	if !strings.Contains(m.Summary(types.WaveDefinition{}), "no creatures") {
		t.Error("empty summary")
	}
}
