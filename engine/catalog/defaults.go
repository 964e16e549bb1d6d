package catalog

import "github.com/nathoo/towercore/types"

func m(w, s, c int) types.Materials { return types.Materials{Wood: w, Stone: s, Crystal: c} }

func lvl(label string, damage int, rng float64, rate int, build, upgrade types.Materials) types.TowerLevel {
	return types.TowerLevel{Label: label, Damage: damage, Range: rng, FireRate: rate, BuildCost: build, UpgradeCost: upgrade}
}

// DefaultMap is a single winding road from the west gate past the crystal
// to the east exit.
var DefaultMap = []string{
	"BBB...........",
	"E######.......",
	"......#.......",
	"......####....",
	".........#....",
	"..R#######....",
	"..#...........",
	"..###########X",
	"..............",
}

// Default returns the built-in catalog.
func Default() *Defs {
	towers := []types.TowerArchetype{
		{ID: "ballista", Name: "Ballista", Targeting: types.TargetNearest, Effect: types.EffectPiercing, Color: "#dc9650", Levels: []types.TowerLevel{
			lvl("I", 10, 3.5, 3, m(6, 2, 0), m(0, 0, 0)),
			lvl("II", 14, 4, 3, m(0, 0, 0), m(4, 2, 1)),
			lvl("III", 18, 4.5, 2, m(0, 0, 0), m(6, 4, 2)),
		}},
		{ID: "mortar", Name: "Mortar", Targeting: types.TargetFarthest, Effect: types.EffectDirect, Color: "#a0a0a0", Levels: []types.TowerLevel{
			lvl("I", 16, 4.5, 6, m(4, 6, 0), m(0, 0, 0)),
			lvl("II", 22, 5, 6, m(0, 0, 0), m(3, 5, 1)),
			lvl("III", 30, 5.5, 5, m(0, 0, 0), m(4, 6, 3)),
		}},
		{ID: "frostspire", Name: "Frostspire", Targeting: types.TargetNearest, Effect: types.EffectFrost, Color: "#78c8ff", Levels: []types.TowerLevel{
			lvl("I", 6, 3, 3, m(2, 3, 3), m(0, 0, 0)),
			lvl("II", 8, 3.5, 3, m(0, 0, 0), m(2, 3, 3)),
			lvl("III", 10, 4, 2, m(0, 0, 0), m(3, 4, 4)),
		}},
		{ID: "storm_totem", Name: "Storm Totem", Targeting: types.TargetStrongest, Effect: types.EffectDirect, Color: "#b4a0ff", Levels: []types.TowerLevel{
			lvl("I", 12, 3.5, 4, m(3, 2, 4), m(0, 0, 0)),
			lvl("II", 16, 4, 3, m(0, 0, 0), m(2, 3, 4)),
		}},
		{ID: "arcane_prism", Name: "Arcane Prism", Targeting: types.TargetStrongest, Effect: types.EffectFocus, Color: "#ff78dc", Levels: []types.TowerLevel{
			lvl("I", 14, 4, 4, m(2, 2, 6), m(0, 0, 0)),
			lvl("II", 20, 4.5, 4, m(0, 0, 0), m(2, 3, 6)),
		}},
		{ID: "tesla_coil", Name: "Tesla Coil", Targeting: types.TargetNearest, Effect: types.EffectDirect, Color: "#fff078", Levels: []types.TowerLevel{
			lvl("I", 8, 2.5, 2, m(2, 4, 4), m(0, 0, 0)),
			lvl("II", 11, 3, 2, m(0, 0, 0), m(2, 4, 4)),
		}},
		{ID: "druid_grove", Name: "Druid Grove", Targeting: types.TargetWeakest, Effect: types.EffectEntangle, Color: "#64c864", Levels: []types.TowerLevel{
			lvl("I", 6, 3, 3, m(5, 1, 2), m(0, 0, 0)),
			lvl("II", 9, 3.5, 3, m(0, 0, 0), m(4, 2, 2)),
		}},
	}

	d := &Defs{
		Game: types.GameDef{
			Title:   "Crystal Keep",
			Author:  "TowerCore",
			Version: "1.0",
			Intro:   "Raiders are coming for the crystal. Build along the road and hold the line.",
		},
		Map:       types.MapDef{Rows: append([]string(nil), DefaultMap...)},
		Towers:    make(map[string]types.TowerArchetype, len(towers)),
		Creatures: make(map[string]types.CreatureBlueprint),
		Ambient:   []string{"goblin", "brute", "burrower", "destroyer", "wyvern"},
	}
	for _, t := range towers {
		d.Towers[t.ID] = t
		d.TowerOrder = append(d.TowerOrder, t.ID)
	}
	for _, bp := range []types.CreatureBlueprint{
		{ID: "goblin", Name: "Goblin Scout", MaxHealth: 6, Speed: 1.0, Reward: m(1, 0, 0), Behaviors: []string{"nimble"}},
		{ID: "brute", Name: "Orc Brute", MaxHealth: 14, Speed: 0.75, Reward: m(0, 1, 0), Armor: 1},
		{ID: "wyvern", Name: "Wyvern", MaxHealth: 18, Speed: 1.2, Reward: m(0, 0, 1), Shield: 4, Flying: true},
		{ID: "burrower", Name: "Burrower", MaxHealth: 8, Speed: 0.7, Reward: m(0, 1, 0), Behaviors: []string{"burrower"}},
		{ID: "destroyer", Name: "Destroyer", MaxHealth: 18, Speed: 0.65, Reward: m(0, 1, 1), Armor: 1, Shield: 2, Behaviors: []string{"destroyer"}},
	} {
		d.Creatures[bp.ID] = bp
	}
	d.Waves = []types.WaveDefinition{
		{Name: "Scouting Party", SpawnInterval: 2, RewardMultiplier: 1, Groups: []types.EnemyGroupDefinition{
			{Blueprint: "goblin", Count: 5},
		}},
		{Name: "Orcish Charge", SpawnInterval: 2, RewardMultiplier: 1, Groups: []types.EnemyGroupDefinition{
			{Blueprint: "goblin", Count: 4},
			{Blueprint: "brute", Count: 2, HealthModifier: 1.2, SpeedModifier: 0.9},
		}},
		{Name: "Sky Hunters", SpawnInterval: 2, InitialDelay: 2, RewardMultiplier: 1, Groups: []types.EnemyGroupDefinition{
			{Blueprint: "wyvern", Count: 3, HealthModifier: 1.1, SpeedModifier: 1.1, SpawnInterval: 3},
		}},
	}
	return d
}
