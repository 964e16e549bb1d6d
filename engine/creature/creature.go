// Package creature models a single hostile unit walking a path.
package creature

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/nathoo/towercore/types"
)

// Tunneling behavior tags. Creatures carrying one may path through towers
// and destroy a tower they finish a tick on.
const (
	BehaviorBurrower  = "burrower"
	BehaviorDestroyer = "destroyer"
)

const minSlowFactor = 0.1

// ErrEmptyPath is returned when a path with no cells is assigned.
var ErrEmptyPath = errors.New("creature: empty path")

// Creature is a live unit. It is created from a blueprint, walks the cells
// of its assigned path and is removed once it dies, exits or is flagged.
type Creature struct {
	Serial int // assigned by the engine at spawn

	id, name  string
	maxHealth int
	health    int
	shield    int
	armor     int
	speed     float64
	flying    bool
	behaviors []string
	reward    types.Materials
	theft     types.Materials

	path     []types.GridPosition
	segment  int
	progress float64
	position types.GridPosition

	slowFactor   float64
	slowDuration int

	reachedGoal bool
	carrying    bool
	exited      bool
	removed     bool
}

// New builds a creature from bp. Health and speed must be positive.
func New(bp types.CreatureBlueprint) (*Creature, error) {
	if bp.MaxHealth <= 0 {
		return nil, fmt.Errorf("creature %q: max health must be positive, got %d", bp.ID, bp.MaxHealth)
	}
	if bp.Speed <= 0 {
		return nil, fmt.Errorf("creature %q: speed must be positive, got %g", bp.ID, bp.Speed)
	}
	theft := bp.Theft
	if theft.IsZero() {
		theft = bp.Reward
	}
	return &Creature{
		id:         bp.ID,
		name:       bp.Name,
		maxHealth:  bp.MaxHealth,
		health:     bp.MaxHealth,
		shield:     max(0, bp.Shield),
		armor:      max(0, bp.Armor),
		speed:      bp.Speed,
		flying:     bp.Flying,
		behaviors:  slices.Clone(bp.Behaviors),
		reward:     bp.Reward,
		theft:      theft,
		slowFactor: 1,
	}, nil
}

func (c *Creature) ID() string { return c.id }
func (c *Creature) Name() string { return c.name }
func (c *Creature) Health() int { return c.health }
func (c *Creature) MaxHealth() int { return c.maxHealth }
func (c *Creature) Shield() int { return c.shield }
func (c *Creature) Armor() int { return c.armor }
func (c *Creature) Speed() float64 { return c.speed }
func (c *Creature) Flying() bool { return c.flying }
func (c *Creature) Reward() types.Materials { return c.reward }
func (c *Creature) Theft() types.Materials { return c.theft }
func (c *Creature) Position() types.GridPosition { return c.position }
func (c *Creature) SlowFactor() float64 { return c.slowFactor }
func (c *Creature) Carrying() bool { return c.carrying }
func (c *Creature) ReachedGoal() bool { return c.reachedGoal }
func (c *Creature) Exited() bool { return c.exited }
func (c *Creature) Removed() bool { return c.removed }

// Behaviors returns a copy of the behavior tags.
func (c *Creature) Behaviors() []string { return slices.Clone(c.behaviors) }

// HasBehavior reports whether the creature carries tag.
func (c *Creature) HasBehavior(tag string) bool { return slices.Contains(c.behaviors, tag) }

// CanTunnel reports whether the creature ignores towers when pathing.
func (c *Creature) CanTunnel() bool {
	return c.HasBehavior(BehaviorBurrower) || c.HasBehavior(BehaviorDestroyer)
}

// IsAlive reports whether health is above zero.
func (c *Creature) IsAlive() bool { return c.health > 0 }

// Active reports whether the creature still takes part in the simulation.
func (c *Creature) Active() bool { return c.IsAlive() && !c.exited && !c.removed }

// Path returns a copy of the assigned path.
func (c *Creature) Path() []types.GridPosition { return slices.Clone(c.path) }

// AssignPath replaces the route and restarts movement from its first cell.
func (c *Creature) AssignPath(path []types.GridPosition) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	c.path = slices.Clone(path)
	c.segment = 0
	c.progress = 0
	c.position = path[0]
	c.reachedGoal = false
	return nil
}

// StartReturning picks up the resource and sets off along an exit path.
func (c *Creature) StartReturning(path []types.GridPosition) error {
	if err := c.AssignPath(path); err != nil {
		return err
	}
	c.carrying = true
	return nil
}

// AtPathEnd reports whether the creature stands on the last path cell.
func (c *Creature) AtPathEnd() bool {
	return len(c.path) > 0 && c.segment >= len(c.path)-1
}

// ApplyDamage runs amount through shield, then armor, and returns the
// health actually lost. Dead creatures and non-positive amounts are ignored.
func (c *Creature) ApplyDamage(amount int) int {
	if amount <= 0 || !c.IsAlive() {
		return 0
	}
	absorbed := min(c.shield, amount)
	c.shield -= absorbed
	remaining := amount - absorbed
	if remaining <= 0 {
		return 0
	}
	dealt := max(1, remaining-c.armor)
	dealt = min(dealt, c.health)
	c.health -= dealt
	return dealt
}

// ApplySlow sets the movement multiplier, clamped to [0.1, 1], and extends
// the slow to at least duration ticks.
func (c *Creature) ApplySlow(factor float64, duration int) {
	c.slowFactor = math.Max(minSlowFactor, math.Min(1, factor))
	c.slowDuration = max(c.slowDuration, duration)
}

// Slowed reports whether a slow is in effect.
func (c *Creature) Slowed() bool { return c.slowDuration > 0 && c.slowFactor < 1 }

// Tick counts down the slow and advances along the path.
func (c *Creature) Tick() {
	if !c.Active() || len(c.path) == 0 {
		return
	}
	if c.slowDuration > 0 {
		c.slowDuration--
	} else {
		c.slowFactor = 1
	}
	c.progress += c.speed * c.slowFactor
	for c.progress >= 1 && c.segment+1 < len(c.path) {
		c.progress -= 1
		c.segment++
		c.position = c.path[c.segment]
	}
	if c.segment+1 >= len(c.path) {
		c.position = c.path[len(c.path)-1]
		c.progress = 0
	}
}

// InterpolatedPosition returns a fractional position between the current
// cell and the next one, for smooth rendering.
func (c *Creature) InterpolatedPosition() (x, y float64) {
	x, y = float64(c.position.X), float64(c.position.Y)
	if c.segment+1 >= len(c.path) {
		return x, y
	}
	next := c.path[c.segment+1]
	x += (float64(next.X) - x) * c.progress
	y += (float64(next.Y) - y) * c.progress
	return x, y
}

// ScaleHealth multiplies maximum and current health by f (minimum 1).
func (c *Creature) ScaleHealth(f float64) {
	if f <= 0 {
		return
	}
	c.maxHealth = max(1, int(math.Round(float64(c.maxHealth)*f)))
	c.health = min(c.maxHealth, max(1, int(math.Round(float64(c.health)*f))))
}

// ScaleSpeed multiplies speed by f, keeping it positive.
func (c *Creature) ScaleSpeed(f float64) {
	if f <= 0 {
		return
	}
	c.speed = math.Max(0.01, c.speed*f)
}

// MarkGoalReached records arrival at the resource.
func (c *Creature) MarkGoalReached() { c.reachedGoal = true }

// MarkExited records arrival at an exit while carrying.
func (c *Creature) MarkExited() { c.exited = true }

// MarkForRemoval flags the creature for cleanup without killing it.
func (c *Creature) MarkForRemoval() { c.removed = true }

func (c *Creature) String() string {
	return fmt.Sprintf("%s#%d %d/%d hp at %s", c.name, c.Serial, c.health, c.maxHealth, c.position)
}
