// Package types defines the shared data structures for the TowerCore engine.
// Apart from Materials arithmetic and a few small enum helpers this package
// contains only type definitions.
package types

import "fmt"

// GridPosition is an integer cell coordinate. X grows to the right, Y grows down.
type GridPosition struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// TileType classifies a map cell.
type TileType int

const (
	TileEmpty TileType = iota
	TilePath
	TileResource
	TileEntry
	TileExit
	TileTower
	TileBlocked
)

var tileChars = map[TileType]rune{
	TileEmpty:    '.',
	TilePath:     '#',
	TileResource: 'R',
	TileEntry:    'E',
	TileExit:     'X',
	TileTower:    'T',
	TileBlocked:  'B',
}

// Char returns the single-character map notation for t.
func (t TileType) Char() rune {
	if c, ok := tileChars[t]; ok {
		return c
	}
	return '?'
}

func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TilePath:
		return "path"
	case TileResource:
		return "resource"
	case TileEntry:
		return "entry"
	case TileExit:
		return "exit"
	case TileTower:
		return "tower"
	case TileBlocked:
		return "blocked"
	}
	return fmt.Sprintf("tile(%d)", int(t))
}

// ParseTile maps a map character back to its tile type.
func ParseTile(c rune) (TileType, bool) {
	for t, r := range tileChars {
		if r == c {
			return t, true
		}
	}
	return TileEmpty, false
}

// TargetingMode selects which in-range creature a tower shoots.
type TargetingMode string

const (
	TargetNearest   TargetingMode = "nearest"
	TargetFarthest  TargetingMode = "farthest"
	TargetStrongest TargetingMode = "strongest"
	TargetWeakest   TargetingMode = "weakest"
)

// AttackEffect names the behavior a tower applies when it fires.
type AttackEffect string

const (
	// EffectPiercing deals bonus damage to creatures carrying the resource.
	EffectPiercing AttackEffect = "piercing"
	// EffectDirect is plain single-target damage.
	EffectDirect AttackEffect = "direct"
	// EffectFrost damages and slows; the slow lasts longer at higher levels.
	EffectFrost AttackEffect = "frost"
	// EffectFocus ignores the targeting mode and hits the healthiest creature.
	EffectFocus AttackEffect = "focus"
	// EffectEntangle hits the weakest creature and slows it.
	EffectEntangle AttackEffect = "entangle"
)

// TowerLevel holds the stats for one upgrade level.
type TowerLevel struct {
	Label       string    `yaml:"label"`
	Damage      int       `yaml:"damage"`
	Range       float64   `yaml:"range"`
	FireRate    int       `yaml:"fire_rate"` // ticks between shots
	BuildCost   Materials `yaml:"build_cost"`
	UpgradeCost Materials `yaml:"upgrade_cost"` // cost to reach this level from the previous one
}

// TowerArchetype is the immutable definition of a tower type.
type TowerArchetype struct {
	ID        string
	Name      string
	Targeting TargetingMode
	Effect    AttackEffect
	Color     string // display color, "#rrggbb"
	Levels    []TowerLevel
}

// CreatureBlueprint is the template a creature is built from.
type CreatureBlueprint struct {
	ID        string
	Name      string
	MaxHealth int
	Speed     float64 // tiles per tick
	Reward    Materials
	Theft     Materials // taken on breach; zero means "same as Reward"
	Armor     int
	Shield    int
	Flying    bool
	Behaviors []string
}

// EnemyGroupDefinition describes one batch of identical creatures in a wave.
// Zero-valued modifiers mean "unchanged".
type EnemyGroupDefinition struct {
	Blueprint        string
	Count            int
	HealthModifier   float64
	SpeedModifier    float64
	RewardMultiplier float64
	SpawnInterval    int // per-creature interval override, 0 for none
	ArmorBonus       int
	ShieldBonus      int
	FlyingOverride   *bool
	ExtraBehaviors   []string
}

// WaveDefinition is an ordered list of groups plus wave timing.
type WaveDefinition struct {
	Name             string
	Groups           []EnemyGroupDefinition
	SpawnInterval    int
	InitialDelay     int
	RewardMultiplier float64
}

// MapDef holds the raw rows of a map as authored.
type MapDef struct {
	Rows []string
}

// GameDef holds game metadata and per-game overrides from Lua.
type GameDef struct {
	Title         string
	Author        string
	Version       string
	Intro         string
	Starting      *Materials // nil keeps the engine default
	ResourceUnits int        // 0 keeps the engine default
	MazeMode      *bool
}

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // tower type or ability name, optional
	Args   []int  // numeric arguments in order (coordinates, counts)
}

// Event is emitted by the engine as the simulation advances.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine step.
type Result struct {
	Events []Event
	Output []string
}

// TowerView is a read-only snapshot of a placed tower.
type TowerView struct {
	Type      string
	Name      string
	Position  GridPosition
	Level     int // zero-based
	MaxLevel  int // zero-based
	Damage    int
	Range     float64
	FireRate  int
	Cooldown  int
	Targeting TargetingMode
	Invested  Materials
}

// CreatureView is a read-only snapshot of a live creature.
type CreatureView struct {
	Serial    int
	Type      string
	Name      string
	Health    int
	MaxHealth int
	Shield    int
	Armor     int
	Position  GridPosition
	X, Y      float64 // interpolated between path cells
	Carrying  bool
	Flying    bool
	Slowed    bool
	Behaviors []string
}
