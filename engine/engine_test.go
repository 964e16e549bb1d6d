package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/types"
)

func mats(w, s, c int) types.Materials { return types.Materials{Wood: w, Stone: s, Crystal: c} }

func at(x, y int) types.GridPosition { return types.GridPosition{X: x, Y: y} }

// testDefs builds a tiny game on rows: one goblin per wave, one cheap
// tower type that one-shots goblins.
func testDefs(rows ...string) *catalog.Defs {
	return &catalog.Defs{
		Game: types.GameDef{Title: "Test Keep"},
		Map:  types.MapDef{Rows: rows},
		Towers: map[string]types.TowerArchetype{
			"bolt": {
				ID: "bolt", Name: "Bolt", Targeting: types.TargetNearest, Effect: types.EffectDirect,
				Levels: []types.TowerLevel{
					{Label: "I", Damage: 100, Range: 1.5, FireRate: 5, BuildCost: mats(4, 3, 1)},
					{Label: "II", Damage: 120, Range: 1.5, FireRate: 5, UpgradeCost: mats(2, 2, 2)},
				},
			},
		},
		Creatures: map[string]types.CreatureBlueprint{
			"goblin":    {ID: "goblin", Name: "Goblin", MaxHealth: 10, Speed: 1, Reward: mats(1, 0, 0)},
			"destroyer": {ID: "destroyer", Name: "Destroyer", MaxHealth: 1000, Speed: 1, Reward: mats(1, 1, 1), Behaviors: []string{"destroyer"}},
		},
		Waves: []types.WaveDefinition{
			{Name: "First", SpawnInterval: 1, Groups: []types.EnemyGroupDefinition{{Blueprint: "goblin", Count: 1}}},
			{Name: "Second", SpawnInterval: 1, Groups: []types.EnemyGroupDefinition{{Blueprint: "goblin", Count: 1}}},
		},
	}
}

// testOptions disables randomness that would make tick counts unstable.
func testOptions() Options {
	opts := DefaultOptions()
	opts.Ambient.Enabled = false
	opts.Toughness = NeutralToughness()
	return opts
}

func newTestEngine(t *testing.T, defs *catalog.Defs, opts Options) *Engine {
	t.Helper()
	e, err := New(defs, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func outputContains(output []string, substr string) bool {
	for _, line := range output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func hasEvent(events []types.Event, typ string) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func TestNew_DefaultCatalog(t *testing.T) {
	e := newTestEngine(t, catalog.Default(), DefaultOptions())
	if e.ID == "" {
		t.Error("expected a game ID")
	}
	if e.ResourceUnits() != 10 {
		t.Errorf("ResourceUnits = %d, want 10", e.ResourceUnits())
	}
	if got := e.Materials(); got != mats(34, 34, 34) {
		t.Errorf("Materials = %v, want 34 of each", got)
	}
	if _, ok := e.Economy().UpcomingRequirement(); !ok {
		t.Error("expected an upcoming requirement hint")
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want error
	}{
		{"no route", []string{"E.#R"}, ErrNoRoute},
		{"no entry", []string{"##R"}, nil},
		{"no resource", []string{"E##"}, nil},
	}
	for _, tt := range tests {
		_, err := New(testDefs(tt.rows...), testOptions())
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestNew_GameOverrides(t *testing.T) {
	defs := testDefs("E###R")
	start := mats(5, 6, 7)
	maze := true
	defs.Game.Starting = &start
	defs.Game.ResourceUnits = 3
	defs.Game.MazeMode = &maze

	e := newTestEngine(t, defs, testOptions())
	if e.Materials() != start {
		t.Errorf("Materials = %v, want %v", e.Materials(), start)
	}
	if e.ResourceUnits() != 3 {
		t.Errorf("ResourceUnits = %d, want 3", e.ResourceUnits())
	}
	if !e.Options().MazeMode {
		t.Error("expected maze mode from game definition")
	}
}

func TestCreatureReachesResourceInFourTicks(t *testing.T) {
	e := newTestEngine(t, testDefs("E###R"), testOptions())
	if _, ok := e.QueueNextWave(); !ok {
		t.Fatal("expected a wave")
	}

	for i := 1; i <= 3; i++ {
		e.Tick()
		cs := e.Creatures()
		if len(cs) != 1 {
			t.Fatalf("tick %d: %d creatures, want 1", i, len(cs))
		}
		if got := cs[0].Position(); got != at(i, 0) {
			t.Errorf("tick %d: position = %v, want %v", i, got, at(i, 0))
		}
	}
	if e.ResourceUnits() != 10 {
		t.Fatalf("breached early: units = %d", e.ResourceUnits())
	}

	e.Tick()
	if e.ResourceUnits() != 9 {
		t.Errorf("ResourceUnits = %d, want 9", e.ResourceUnits())
	}
	if n := len(e.Creatures()); n != 0 {
		t.Errorf("%d creatures left, want 0", n)
	}
	if !hasEvent(e.DrainEvents(), EventBreach) {
		t.Error("expected a breach event")
	}
}

func TestFlawlessWaveIncome(t *testing.T) {
	e := newTestEngine(t, testDefs("E###R"), testOptions())
	e.QueueNextWave()
	e.Tick()

	w, ok := e.Economy().LastWaveIncome()
	if !ok {
		t.Fatal("expected wave income after the wave spawned out")
	}
	if w.Income != mats(3, 2, 2) {
		t.Errorf("income = %v, want 3W 2S 2C", w.Income.Short())
	}
	if !w.Flawless || w.EarlyCall {
		t.Errorf("flawless=%v early=%v, want true/false", w.Flawless, w.EarlyCall)
	}
	if e.Materials() != mats(37, 36, 36) {
		t.Errorf("Materials = %v", e.Materials().Short())
	}
	if e.WaveIndex() != 1 {
		t.Errorf("WaveIndex = %d, want 1", e.WaveIndex())
	}
}

func TestBreachSpoilsNextWaveBonus(t *testing.T) {
	e := newTestEngine(t, testDefs("E###R"), testOptions())
	e.QueueNextWave()
	e.Run(4)
	if e.ResourceUnits() != 9 {
		t.Fatalf("expected a breach, units = %d", e.ResourceUnits())
	}
	// Theft defaults to the reward.
	if e.Materials() != mats(36, 36, 36) {
		t.Errorf("Materials after theft = %v", e.Materials().Short())
	}

	e.QueueNextWave()
	e.Tick()
	w, _ := e.Economy().LastWaveIncome()
	if w.Flawless {
		t.Error("wave after a breach should not be flawless")
	}
	if w.Income != mats(2, 1, 1) {
		t.Errorf("income = %v, want 2W 1S 1C", w.Income.Short())
	}
}

func TestEarlyCallBonus(t *testing.T) {
	e := newTestEngine(t, testDefs("E###R"), testOptions())
	e.QueueNextWave()
	e.Tick()
	e.QueueNextWave()
	e.Tick()

	w, _ := e.Economy().LastWaveIncome()
	if !w.EarlyCall {
		t.Fatal("second wave called with creatures on the field should be early")
	}
	if w.Income != mats(4, 2, 3) {
		t.Errorf("income = %v, want 4W 2S 3C", w.Income.Short())
	}
}

func TestPathLengthBonus(t *testing.T) {
	e := newTestEngine(t, testDefs("E##########R"), testOptions())
	e.QueueNextWave()
	e.Tick()

	txs := e.Economy().Transactions()
	found := false
	for _, tx := range txs {
		if tx.Description == "Path length bonus" {
			found = true
			if tx.Delta != mats(2, 0, 0) {
				t.Errorf("bonus = %v, want 2W", tx.Delta.Short())
			}
		}
	}
	if !found {
		t.Error("expected a path length bonus for a 12-cell route")
	}
}

func TestGameOverAndVictory(t *testing.T) {
	opts := testOptions()
	opts.ResourceUnits = 1
	e := newTestEngine(t, testDefs("E###R"), opts)
	e.QueueNextWave()
	n := e.Run(100)

	if n != 4 {
		t.Errorf("Run stopped after %d ticks, want 4", n)
	}
	if !e.IsOver() || e.Won() {
		t.Errorf("IsOver=%v Won=%v, want true/false", e.IsOver(), e.Won())
	}

	e = newTestEngine(t, testDefs("E###R"), testOptions())
	e.QueueNextWave()
	e.Run(10)
	e.QueueNextWave()
	e.Run(10)
	if !e.Won() {
		t.Error("expected victory once every wave is spent with units left")
	}
}

func TestNotOverWhileWavesRemain(t *testing.T) {
	e := newTestEngine(t, testDefs("E###R"), testOptions())
	if e.IsOver() {
		t.Error("game should not be over before any wave is called")
	}
}

func TestAmbientSpawnsBetweenWaves(t *testing.T) {
	opts := testOptions()
	opts.Ambient = AmbientOptions{Enabled: true, FirstDelay: 2, MinTicks: 5, MaxTicks: 5, MinBatch: 1, MaxBatch: 1}
	defs := testDefs("E#########R")
	defs.Ambient = []string{"goblin"}
	defs.Waves[0].InitialDelay = 20
	e := newTestEngine(t, defs, opts)

	e.Tick()
	if len(e.Creatures()) != 0 {
		t.Fatal("ambient spawn fired before its delay")
	}
	e.Tick()
	if len(e.Creatures()) != 1 {
		t.Fatalf("creatures = %d after first delay, want 1", len(e.Creatures()))
	}

	e.QueueNextWave()
	e.DrainEvents()
	e.Run(8)
	if e.PendingWaves() != 1 {
		t.Fatalf("PendingWaves = %d, want 1", e.PendingWaves())
	}
	for _, ev := range e.DrainEvents() {
		if ev.Type == EventCreatureSpawned && ev.Data["source"] == "ambient" {
			t.Error("ambient spawn while a wave was pending")
		}
	}
}

func ambientSpawned(events []types.Event) bool {
	for _, ev := range events {
		if ev.Type == EventCreatureSpawned && ev.Data["source"] == "ambient" {
			return true
		}
	}
	return false
}

func TestAmbientCooldownRestartsAfterWave(t *testing.T) {
	opts := testOptions()
	opts.Ambient = AmbientOptions{Enabled: true, FirstDelay: 1, MinTicks: 4, MaxTicks: 4, MinBatch: 1, MaxBatch: 1}
	defs := testDefs("E#########R")
	defs.Ambient = []string{"goblin"}
	defs.Waves[0].InitialDelay = 3
	e := newTestEngine(t, defs, opts)

	e.QueueNextWave()
	for i := 0; e.PendingWaves() > 0; i++ {
		if i > 20 {
			t.Fatal("wave never finished spawning")
		}
		e.Tick()
	}
	if ambientSpawned(e.DrainEvents()) {
		t.Fatal("ambient spawn while a wave was pending")
	}
	if e.ambientTimer != 4 {
		t.Errorf("ambientTimer = %d, want 4 after the wave", e.ambientTimer)
	}

	e.Run(3)
	if ambientSpawned(e.DrainEvents()) {
		t.Error("ambient spawn before the cooldown elapsed")
	}
	e.Tick()
	if !ambientSpawned(e.DrainEvents()) {
		t.Error("expected an ambient spawn once the cooldown elapsed")
	}
}

func TestReloadCatalogKeepsMapAndCursor(t *testing.T) {
	e := newTestEngine(t, testDefs("E###R"), testOptions())
	e.QueueNextWave()

	next := testDefs("E#R")
	next.Waves = append(next.Waves, types.WaveDefinition{
		Name: "Third", Groups: []types.EnemyGroupDefinition{{Blueprint: "goblin", Count: 2}},
	})
	if err := e.ReloadCatalog(next); err != nil {
		t.Fatalf("ReloadCatalog: %v", err)
	}
	if e.Waves().Next() != 1 || e.Waves().Total() != 3 {
		t.Errorf("cursor %d of %d, want 1 of 3", e.Waves().Next(), e.Waves().Total())
	}
	if got := e.Defs.Map.Rows[0]; got != "E###R" {
		t.Errorf("map row = %q, want the original map", got)
	}
	if !hasEvent(e.DrainEvents(), EventCatalogReloaded) {
		t.Error("expected a catalog_reloaded event")
	}

	bad := testDefs("E###R")
	bad.Towers["bolt"] = types.TowerArchetype{ID: "bolt"}
	if err := e.ReloadCatalog(bad); err == nil {
		t.Error("expected invalid archetype to be rejected")
	}
}

func TestSnapshotRender(t *testing.T) {
	defs := testDefs("E###R", ".....")
	goblin := defs.Creatures["goblin"]
	goblin.Behaviors = []string{"nimble"}
	defs.Creatures["goblin"] = goblin
	e := newTestEngine(t, defs, testOptions())
	if _, err := e.PlaceTower("bolt", at(2, 1)); err != nil {
		t.Fatalf("PlaceTower: %v", err)
	}
	e.QueueNextWave()
	e.Tick()

	s := e.Snapshot()
	if s.Title != "Test Keep" || s.Width != 5 || s.Height != 2 {
		t.Errorf("snapshot header = %q %dx%d", s.Title, s.Width, s.Height)
	}
	if len(s.Towers) != 1 || len(s.Creatures) != 1 {
		t.Fatalf("towers=%d creatures=%d, want 1/1", len(s.Towers), len(s.Creatures))
	}
	if got := s.Creatures[0].Behaviors; len(got) != 1 || got[0] != "nimble" {
		t.Errorf("creature Behaviors = %v, want [nimble]", got)
	}
	want := "EC##R\n..T.."
	if got := s.Render(); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
	if len(s.EntryPath) != 5 {
		t.Errorf("EntryPath length = %d, want 5", len(s.EntryPath))
	}
}
