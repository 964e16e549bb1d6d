// Package engine runs a tower-defense game: it owns the map, towers,
// creatures, economy and wave queue, advances them one tick at a time and
// exposes Step for text commands.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/engine/economy"
	"github.com/nathoo/towercore/engine/grid"
	"github.com/nathoo/towercore/engine/pathfind"
	"github.com/nathoo/towercore/engine/tower"
	"github.com/nathoo/towercore/engine/wave"
	"github.com/nathoo/towercore/logger"
	"github.com/nathoo/towercore/types"
)

// ErrNoRoute is returned when the map gives no entry a route to the resource.
var ErrNoRoute = errors.New("no entry can reach the resource")

type pendingWave struct {
	w     *wave.Wave
	early bool
}

// Engine holds the game definitions and all mutable simulation state.
// It is not safe for concurrent use; drive it from one goroutine.
type Engine struct {
	ID   string
	Defs *catalog.Defs
	RNG  *RNG

	opts     Options
	log      logrus.FieldLogger
	grid     *grid.Map
	finder   *pathfind.Finder
	econ     *economy.Manager
	waves    *wave.Manager
	resource types.GridPosition

	towers      []*tower.Tower
	tileRestore map[types.GridPosition]types.TileType
	creatures   []*creature.Creature
	pending     []pendingWave

	resourceUnits int
	waveIndex     int
	tick          int
	serial        int
	entryCursor   int
	breached      bool
	seenVersion   uint64
	ambientTimer  int
	events        []types.Event
}

// New creates an engine from definitions. Per-game overrides in
// defs.Game take precedence over opts.
func New(defs *catalog.Defs, opts Options) (*Engine, error) {
	if defs == nil {
		return nil, errors.New("engine: nil definitions")
	}
	opts = opts.withGame(defs.Game)
	if opts.ResourceUnits <= 0 {
		return nil, fmt.Errorf("engine: resource units must be positive, got %d", opts.ResourceUnits)
	}
	if !opts.StartingMaterials.Valid() {
		return nil, fmt.Errorf("engine: negative starting materials %v", opts.StartingMaterials)
	}
	for _, a := range defs.Archetypes() {
		if err := tower.Validate(a); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	m, err := grid.FromRows(defs.Map.Rows)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if len(m.Entries()) == 0 {
		return nil, errors.New("engine: map has no entry tiles")
	}
	res, err := m.Resource()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	finder := pathfind.New(m)
	if !finder.Reachable(m.Entries(), res) {
		return nil, fmt.Errorf("engine: %w", ErrNoRoute)
	}

	id := uuid.New().String()
	e := &Engine{
		ID:            id,
		Defs:          defs,
		RNG:           NewRNG(opts.Seed),
		opts:          opts,
		log:           logger.Log.WithField("game_id", id),
		grid:          m,
		finder:        finder,
		econ:          economy.New(opts.StartingMaterials, opts.Economy),
		waves:         wave.NewManager(defs.Creatures, defs.Waves),
		resource:      res,
		tileRestore:   make(map[types.GridPosition]types.TileType),
		resourceUnits: opts.ResourceUnits,
		seenVersion:   m.Version(),
		ambientTimer:  opts.Ambient.FirstDelay,
	}
	e.updateRequirement()
	e.log.WithFields(logrus.Fields{
		"title": defs.Game.Title,
		"size":  fmt.Sprintf("%dx%d", m.Width(), m.Height()),
		"waves": e.waves.Total(),
		"seed":  opts.Seed,
	}).Info("game created")
	return e, nil
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l logrus.FieldLogger) {
	e.log = l.WithField("game_id", e.ID)
}

// Options returns the effective settings.
func (e *Engine) Options() Options { return e.opts }

// Map returns the live map. Callers must not mutate it.
func (e *Engine) Map() *grid.Map { return e.grid }

// Economy returns the resource manager.
func (e *Engine) Economy() *economy.Manager { return e.econ }

// Waves returns the scripted wave manager.
func (e *Engine) Waves() *wave.Manager { return e.waves }

// Materials returns the current balance.
func (e *Engine) Materials() types.Materials { return e.econ.Materials() }

// ResourceUnits returns how many crystal units remain.
func (e *Engine) ResourceUnits() int { return e.resourceUnits }

// WaveIndex is the number of scripted waves fully spawned.
func (e *Engine) WaveIndex() int { return e.waveIndex }

// TickCount is the number of ticks simulated.
func (e *Engine) TickCount() int { return e.tick }

// Towers returns the placed towers in build order.
func (e *Engine) Towers() []*tower.Tower { return append([]*tower.Tower(nil), e.towers...) }

// Creatures returns the creatures still tracked, in spawn order.
func (e *Engine) Creatures() []*creature.Creature {
	return append([]*creature.Creature(nil), e.creatures...)
}

// PendingWaves is the number of queued scripted waves still spawning.
func (e *Engine) PendingWaves() int { return len(e.pending) }

// IsOver reports whether the crystal is lost, or whether every wave has
// been spawned and no creature remains.
func (e *Engine) IsOver() bool {
	if e.resourceUnits <= 0 {
		return true
	}
	return len(e.pending) == 0 && e.waves.Remaining() == 0 && e.activeCount() == 0
}

// Won reports whether the game ended with the crystal intact.
func (e *Engine) Won() bool { return e.IsOver() && e.resourceUnits > 0 }

func (e *Engine) activeCount() int {
	n := 0
	for _, c := range e.creatures {
		if c.Active() {
			n++
		}
	}
	return n
}

// Tick advances the simulation by one step: repath after map changes,
// economy, ambient spawns, scripted spawns, tower attacks, movement and
// cleanup, in that order.
func (e *Engine) Tick() {
	e.tick++
	if v := e.grid.Version(); v != e.seenVersion {
		e.seenVersion = v
		e.repath()
	}
	e.econ.Tick(e.waveIndex)
	e.spawnAmbient()
	e.spawnScripted()
	e.towersAttack()
	e.moveCreatures()
	e.cleanup()
}

// Run advances up to n ticks, stopping early when the game ends.
// It returns the number of ticks simulated.
func (e *Engine) Run(n int) int {
	done := 0
	for ; done < n && !e.IsOver(); done++ {
		e.Tick()
	}
	return done
}

// repath gives every active creature a fresh route on the current map.
// Creatures with no route keep the one they have.
func (e *Engine) repath() {
	exits := e.grid.Exits()
	updated := 0
	for _, c := range e.creatures {
		if !c.Active() {
			continue
		}
		var path []types.GridPosition
		var ok bool
		if c.Carrying() {
			path, ok = e.finder.Nearest(c.Position(), exits, c.CanTunnel())
		} else {
			path, ok = e.finder.ShortestPath(c.Position(), e.resource, c.CanTunnel())
		}
		if ok && c.AssignPath(path) == nil {
			updated++
		}
	}
	e.log.WithField("creatures", updated).Debug("paths recomputed")
}

// EntryPath returns the current best route from any entry to the resource
// that avoids towers.
func (e *Engine) EntryPath() ([]types.GridPosition, bool) {
	var best []types.GridPosition
	for _, entry := range e.grid.Entries() {
		p, ok := e.finder.Search(entry, e.resource, false)
		if ok && (best == nil || len(p) < len(best)) {
			best = p
		}
	}
	return best, best != nil
}

// ReloadCatalog swaps tower archetypes, blueprints and waves for future use.
// The map, placed towers and the wave cursor are kept.
func (e *Engine) ReloadCatalog(defs *catalog.Defs) error {
	if defs == nil {
		return errors.New("engine: nil definitions")
	}
	for _, a := range defs.Archetypes() {
		if err := tower.Validate(a); err != nil {
			return fmt.Errorf("engine: reload: %w", err)
		}
	}
	next := *defs
	next.Map = e.Defs.Map
	waves := wave.NewManager(next.Creatures, next.Waves)
	waves.Seek(e.waves.Next())
	e.Defs = &next
	e.waves = waves
	e.updateRequirement()
	e.emit(EventCatalogReloaded, map[string]any{"towers": len(next.Towers), "waves": waves.Total()})
	return nil
}
