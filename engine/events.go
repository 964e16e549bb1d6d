package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/nathoo/towercore/types"
)

// Event types emitted by the engine.
const (
	EventTowerBuilt      = "tower_built"
	EventTowerUpgraded   = "tower_upgraded"
	EventTowerSold       = "tower_sold"
	EventTowerDestroyed  = "tower_destroyed"
	EventCreatureSpawned = "creature_spawned"
	EventCreatureKilled  = "creature_killed"
	EventBreach          = "creature_breached"
	EventCreatureExited  = "creature_exited"
	EventWaveQueued      = "wave_queued"
	EventWaveComplete    = "wave_complete"
	EventAbilityUsed     = "ability_used"
	EventCatalogReloaded = "catalog_reloaded"
	EventGameOver        = "game_over"
)

// emit records an event for the current step and mirrors it to the log.
func (e *Engine) emit(typ string, data map[string]any) {
	e.events = append(e.events, types.Event{Type: typ, Data: data})
	fields := logrus.Fields{"event": typ, "tick": e.tick}
	for k, v := range data {
		fields[k] = v
	}
	e.log.WithFields(fields).Debug("event")
}

// DrainEvents returns the events recorded since the last drain.
func (e *Engine) DrainEvents() []types.Event {
	out := e.events
	e.events = nil
	return out
}
