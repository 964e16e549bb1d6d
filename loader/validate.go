package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/engine/grid"
	"github.com/nathoo/towercore/engine/pathfind"
	"github.com/nathoo/towercore/engine/tower"
	"github.com/nathoo/towercore/logger"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// knownBehaviors lists the tags the engine acts on plus descriptive ones
// the built-in catalog uses.
var knownBehaviors = map[string]bool{
	creature.BehaviorBurrower:  true,
	creature.BehaviorDestroyer: true,
	"nimble":                   true,
}

// validate checks the compiled defs for consistency. Warnings are logged;
// errors are returned as a *ValidationError.
func validate(defs *catalog.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Game.ResourceUnits < 0 {
		ve.Errors = append(ve.Errors, "Game.resource_units must not be negative")
	}
	if s := defs.Game.Starting; s != nil && !s.Valid() {
		ve.Errors = append(ve.Errors, "Game.starting must not be negative")
	}

	validateMap(defs, ve)

	for _, a := range defs.Archetypes() {
		if err := tower.Validate(a); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
			continue
		}
		for i, l := range a.Levels {
			if i > 0 && l.UpgradeCost.IsZero() {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"tower %q level %s is free to upgrade", a.ID, l.Label))
			}
		}
		if a.Levels[0].BuildCost.IsZero() {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("tower %q is free to build", a.ID))
		}
	}

	for id, bp := range defs.Creatures {
		if bp.MaxHealth <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("creature %q: health must be positive", id))
		}
		if bp.Speed <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("creature %q: speed must be positive", id))
		}
		checkBehaviors(fmt.Sprintf("creature %q", id), bp.Behaviors, ve)
	}

	for _, w := range defs.Waves {
		if len(w.Groups) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("wave %q has no groups", w.Name))
		}
		for _, g := range w.Groups {
			if _, ok := defs.Creatures[g.Blueprint]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"wave %q references undefined creature %q", w.Name, g.Blueprint))
			}
			if g.Count <= 0 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"wave %q group %q has count %d; one creature will spawn", w.Name, g.Blueprint, g.Count))
			}
			checkBehaviors(fmt.Sprintf("wave %q group %q", w.Name, g.Blueprint), g.ExtraBehaviors, ve)
		}
	}

	for _, id := range defs.Ambient {
		if _, ok := defs.Creatures[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("ambient pool references undefined creature %q", id))
		}
	}

	for _, w := range ve.Warnings {
		logger.Log.Warn(w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateMap checks the rows parse and that every entry has a tower-free
// route to the resource.
func validateMap(defs *catalog.Defs, ve *ValidationError) {
	m, err := grid.FromRows(defs.Map.Rows)
	if err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("map: %v", err))
		return
	}
	entries := m.Entries()
	if len(entries) == 0 {
		ve.Errors = append(ve.Errors, "map: no entry tile (E)")
		return
	}
	res, err := m.Resource()
	if err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("map: %v", err))
		return
	}
	f := pathfind.New(m)
	for _, e := range entries {
		if _, ok := f.Search(e, res, false); !ok {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("map: entry %s cannot reach the resource", e))
		}
	}
	if !f.Reachable(entries, res) {
		ve.Errors = append(ve.Errors, "map: no entry can reach the resource")
	}
	if exits := m.Exits(); len(exits) > 0 && !f.Reachable(exits, res) {
		ve.Warnings = append(ve.Warnings, "map: no exit is reachable from the resource")
	}
}

func checkBehaviors(owner string, tags []string, ve *ValidationError) {
	for _, tag := range tags {
		if !knownBehaviors[tag] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s has unknown behavior %q", owner, tag))
		}
	}
}
