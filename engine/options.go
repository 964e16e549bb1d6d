package engine

import (
	"github.com/nathoo/towercore/engine/economy"
	"github.com/nathoo/towercore/engine/tower"
	"github.com/nathoo/towercore/types"
)

// AmbientOptions controls the random trickle of creatures between waves.
type AmbientOptions struct {
	Enabled    bool `yaml:"enabled"`
	FirstDelay int  `yaml:"first_delay"`
	MinTicks   int  `yaml:"min_ticks"`
	MaxTicks   int  `yaml:"max_ticks"`
	MinBatch   int  `yaml:"min_batch"`
	MaxBatch   int  `yaml:"max_batch"`
}

// ToughnessOptions scales spawned creatures with wave progress.
// Health is multiplied by HealthBase + HealthPerWave*wave and a variance
// drawn from [HealthVarianceMin, HealthVarianceMax); speed by SpeedScale and
// a variance drawn from [SpeedVarianceMin, SpeedVarianceMax).
type ToughnessOptions struct {
	HealthBase        float64 `yaml:"health_base"`
	HealthPerWave     float64 `yaml:"health_per_wave"`
	HealthVarianceMin float64 `yaml:"health_variance_min"`
	HealthVarianceMax float64 `yaml:"health_variance_max"`
	SpeedScale        float64 `yaml:"speed_scale"`
	SpeedVarianceMin  float64 `yaml:"speed_variance_min"`
	SpeedVarianceMax  float64 `yaml:"speed_variance_max"`
}

// NeutralToughness leaves blueprint stats untouched.
func NeutralToughness() ToughnessOptions {
	return ToughnessOptions{
		HealthBase: 1, HealthVarianceMin: 1, HealthVarianceMax: 1,
		SpeedScale: 1, SpeedVarianceMin: 1, SpeedVarianceMax: 1,
	}
}

// Options configures a game. Zero values are not meaningful; start from
// DefaultOptions.
type Options struct {
	Seed              int64           `yaml:"seed"`
	StartingMaterials types.Materials `yaml:"starting_materials"`
	ResourceUnits     int             `yaml:"resource_units"`
	// MazeMode allows towers on Path tiles as well as Empty ones.
	MazeMode bool `yaml:"maze_mode"`
	// CarriersReturn sends breaching creatures back to an exit with the
	// loot instead of removing them at the resource.
	CarriersReturn   bool             `yaml:"carriers_return"`
	RefundRatio      float64          `yaml:"refund_ratio"`
	PathBonusDivisor int              `yaml:"path_bonus_divisor"`
	AbilityCost      types.Materials  `yaml:"ability_cost"`
	Economy          economy.Config   `yaml:"economy"`
	Ambient          AmbientOptions   `yaml:"ambient"`
	Toughness        ToughnessOptions `yaml:"toughness"`
}

// DefaultOptions returns the stock game settings.
func DefaultOptions() Options {
	return Options{
		Seed:              1,
		StartingMaterials: types.Materials{Wood: 34, Stone: 34, Crystal: 34},
		ResourceUnits:     10,
		RefundRatio:       tower.DefaultRefundRatio,
		PathBonusDivisor:  6,
		AbilityCost:       types.Materials{Wood: 1, Stone: 1, Crystal: 1},
		Economy:           economy.DefaultConfig(),
		Ambient: AmbientOptions{
			Enabled:    true,
			FirstDelay: 50,
			MinTicks:   40,
			MaxTicks:   80,
			MinBatch:   2,
			MaxBatch:   5,
		},
		Toughness: ToughnessOptions{
			HealthBase:        1.5,
			HealthPerWave:     0.25,
			HealthVarianceMin: 0.8,
			HealthVarianceMax: 1.25,
			SpeedScale:        0.5,
			SpeedVarianceMin:  0.85,
			SpeedVarianceMax:  1.05,
		},
	}
}

// withGame applies per-game overrides from the catalog.
func (o Options) withGame(g types.GameDef) Options {
	if g.Starting != nil {
		o.StartingMaterials = *g.Starting
	}
	if g.ResourceUnits > 0 {
		o.ResourceUnits = g.ResourceUnits
	}
	if g.MazeMode != nil {
		o.MazeMode = *g.MazeMode
	}
	return o
}
