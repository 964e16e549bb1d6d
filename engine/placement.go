package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/towercore/engine/pathfind"
	"github.com/nathoo/towercore/engine/tower"
	"github.com/nathoo/towercore/types"
)

// Command rejections. State is unchanged whenever one is returned.
var (
	ErrUnknownTower          = errors.New("unknown tower type")
	ErrOutOfBounds           = errors.New("cannot place tower outside map bounds")
	ErrTileOccupied          = errors.New("towers can only be placed on empty tiles")
	ErrInsufficientMaterials = errors.New("not enough materials")
	ErrPathBlocked           = errors.New("cannot block the last route to the crystal")
	ErrNoTower               = errors.New("no tower at that position")
	ErrMaxLevel              = errors.New("tower is already at max level")
	ErrUnknownAbility        = errors.New("unknown ability")
)

// CanBuildOn reports whether tile t accepts a tower under the current mode.
func (e *Engine) CanBuildOn(t types.TileType) bool {
	return t == types.TileEmpty || (e.opts.MazeMode && t == types.TilePath)
}

// PlaceTower builds a tower of the given type at p.
func (e *Engine) PlaceTower(typeID string, p types.GridPosition) (*tower.Tower, error) {
	a, ok := e.Defs.Tower(typeID)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTower, typeID)
	}
	if !e.grid.InBounds(p) {
		return nil, ErrOutOfBounds
	}
	tile, _ := e.grid.At(p)
	if !e.CanBuildOn(tile) {
		return nil, ErrTileOccupied
	}
	cost := a.Levels[0].BuildCost
	if !e.econ.CanAfford(cost) {
		return nil, fmt.Errorf("%w to build %s", ErrInsufficientMaterials, a.Name)
	}
	if e.wouldBlock(p) {
		return nil, ErrPathBlocked
	}
	t, err := tower.New(a, p)
	if err != nil {
		return nil, err
	}
	if err := e.grid.Set(p, types.TileTower); err != nil {
		return nil, err
	}
	e.econ.Spend(cost, "Build "+a.Name, e.waveIndex)
	e.tileRestore[p] = tile
	e.towers = append(e.towers, t)
	e.finder.Invalidate()
	e.updateRequirement()

	e.emit(EventTowerBuilt, map[string]any{"type": a.ID, "x": p.X, "y": p.Y})
	e.log.WithFields(logrus.Fields{"type": a.ID, "pos": p.String(), "cost": cost.Short()}).Info("tower built")
	return t, nil
}

// wouldBlock tests a tower at p on a copy of the map. Placement must leave
// some entry a tower-free route to the resource and, when the map has
// exits, the resource a route to some exit.
func (e *Engine) wouldBlock(p types.GridPosition) bool {
	h := e.grid.Clone()
	if err := h.Set(p, types.TileTower); err != nil {
		return true
	}
	f := pathfind.New(h)
	if !f.Reachable(h.Entries(), e.resource) {
		return true
	}
	if exits := h.Exits(); len(exits) > 0 && !f.Reachable(exits, e.resource) {
		return true
	}
	return false
}

// TowerAt returns the tower at p, or nil.
func (e *Engine) TowerAt(p types.GridPosition) *tower.Tower {
	for _, t := range e.towers {
		if t.Position() == p {
			return t
		}
	}
	return nil
}

// UpgradeTower pays for and applies the next level of the tower at p.
func (e *Engine) UpgradeTower(p types.GridPosition) (*tower.Tower, error) {
	t := e.TowerAt(p)
	if t == nil {
		return nil, fmt.Errorf("%w %s", ErrNoTower, p)
	}
	next, ok := t.NextUpgrade()
	if !ok {
		return nil, ErrMaxLevel
	}
	if !e.econ.Spend(next.UpgradeCost, "Upgrade "+t.Name(), e.waveIndex) {
		return nil, fmt.Errorf("%w to upgrade %s", ErrInsufficientMaterials, t.Name())
	}
	t.Upgrade()
	e.updateRequirement()

	e.emit(EventTowerUpgraded, map[string]any{"type": t.Type(), "x": p.X, "y": p.Y, "level": t.Level()})
	e.log.WithFields(logrus.Fields{"type": t.Type(), "pos": p.String(), "level": t.Level() + 1}).Info("tower upgraded")
	return t, nil
}

// SellTower removes the tower at p, refunds part of its investment and
// restores the tile it was built on.
func (e *Engine) SellTower(p types.GridPosition) (types.Materials, error) {
	t := e.TowerAt(p)
	if t == nil {
		return types.Materials{}, fmt.Errorf("%w %s", ErrNoTower, p)
	}
	refund := t.SellValue(e.opts.RefundRatio)
	e.econ.Refund(refund, "Sell "+t.Name(), e.waveIndex)
	e.removeTower(t)
	e.updateRequirement()

	e.emit(EventTowerSold, map[string]any{"type": t.Type(), "x": p.X, "y": p.Y, "refund": refund.Short()})
	e.log.WithFields(logrus.Fields{"type": t.Type(), "pos": p.String(), "refund": refund.Short()}).Info("tower sold")
	return refund, nil
}

// removeTower drops t and puts back the tile it replaced.
func (e *Engine) removeTower(t *tower.Tower) {
	p := t.Position()
	for i, other := range e.towers {
		if other == t {
			e.towers = append(e.towers[:i], e.towers[i+1:]...)
			break
		}
	}
	prev, ok := e.tileRestore[p]
	if !ok {
		prev = types.TileEmpty
	}
	delete(e.tileRestore, p)
	if err := e.grid.Set(p, prev); err != nil {
		e.log.WithError(err).Warn("restore tile")
	}
	e.finder.Invalidate()
}

// UseAbility spends materials on a named ability.
func (e *Engine) UseAbility(name string) error {
	switch name {
	case "overdrive":
		if !e.econ.SpendForAbility(e.opts.AbilityCost, "Overdrive", e.waveIndex) {
			return fmt.Errorf("%w for overdrive", ErrInsufficientMaterials)
		}
		for _, t := range e.towers {
			t.ResetCooldown()
		}
		e.emit(EventAbilityUsed, map[string]any{"ability": name, "towers": len(e.towers)})
		e.log.WithField("ability", name).Info("ability used")
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownAbility, name)
}

// updateRequirement points the economy hint at the cheapest pending
// upgrade, or the cheapest tower when nothing can be upgraded.
func (e *Engine) updateRequirement() {
	total := func(m types.Materials) int { return m.Wood + m.Stone + m.Crystal }
	var best types.Materials
	desc := ""
	found := false
	for _, t := range e.towers {
		next, ok := t.NextUpgrade()
		if ok && (!found || total(next.UpgradeCost) < total(best)) {
			best, desc, found = next.UpgradeCost, fmt.Sprintf("Upgrade %s at %s", t.Name(), t.Position()), true
		}
	}
	if !found {
		for _, a := range e.Defs.Archetypes() {
			cost := a.Levels[0].BuildCost
			if !found || total(cost) < total(best) {
				best, desc, found = cost, "Build "+a.Name, true
			}
		}
	}
	e.econ.SetUpcomingRequirement(best, desc)
}
