package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/towercore/engine/creature"
	"github.com/nathoo/towercore/engine/wave"
	"github.com/nathoo/towercore/types"
)

// QueueNextWave materializes the next scripted wave and queues it.
func (e *Engine) QueueNextWave() (types.WaveDefinition, bool) {
	return e.waves.QueueNext(e)
}

// PrepareWave queues w. A wave called while creatures are still on the
// field counts as an early call.
func (e *Engine) PrepareWave(w *wave.Wave) {
	early := e.activeCount() > 0
	e.pending = append(e.pending, pendingWave{w: w, early: early})
	e.emit(EventWaveQueued, map[string]any{"name": w.Name, "creatures": w.Remaining(), "early": early})
	e.log.WithFields(logrus.Fields{"name": w.Name, "creatures": w.Remaining(), "early": early}).Info("wave queued")
}

// nextEntry cycles through the entries.
func (e *Engine) nextEntry() types.GridPosition {
	entries := e.grid.Entries()
	p := entries[e.entryCursor%len(entries)]
	e.entryCursor++
	return p
}

// toughen applies the wave-progress health and speed scaling.
func (e *Engine) toughen(c *creature.Creature) {
	t := e.opts.Toughness
	health := (t.HealthBase + t.HealthPerWave*float64(e.waveIndex)) *
		e.RNG.FloatRange(t.HealthVarianceMin, t.HealthVarianceMax)
	speed := t.SpeedScale * e.RNG.FloatRange(t.SpeedVarianceMin, t.SpeedVarianceMax)
	c.ScaleHealth(health)
	c.ScaleSpeed(speed)
}

func (e *Engine) addCreature(c *creature.Creature, source string) {
	e.serial++
	c.Serial = e.serial
	e.creatures = append(e.creatures, c)
	e.emit(EventCreatureSpawned, map[string]any{
		"serial": c.Serial, "type": c.ID(), "source": source,
		"x": c.Position().X, "y": c.Position().Y, "health": c.MaxHealth(),
	})
}

// spawnScripted releases creatures from the front pending wave and pays
// out when it runs dry.
func (e *Engine) spawnScripted() {
	if len(e.pending) == 0 {
		return
	}
	front := e.pending[0]
	front.w.Tick()
	for front.w.ReadyToSpawn() {
		c, err := front.w.Spawn()
		if err != nil {
			break
		}
		e.toughen(c)
		entry := e.nextEntry()
		path, ok := e.finder.ShortestPath(entry, e.resource, c.CanTunnel())
		if !ok {
			path = []types.GridPosition{entry, e.resource}
		}
		if err := c.AssignPath(path); err != nil {
			continue
		}
		e.addCreature(c, "wave")
	}
	if front.w.Empty() {
		e.completeWave(front)
		e.pending = e.pending[1:]
	}
}

// completeWave credits the path-length bonus, then the wave income.
func (e *Engine) completeWave(pw pendingWave) {
	number := e.waveIndex + 1
	if path, ok := e.EntryPath(); ok && e.opts.PathBonusDivisor > 0 {
		if bonus := len(path) / e.opts.PathBonusDivisor; bonus > 0 {
			e.econ.AddIncome(types.Materials{Wood: bonus}, "Path length bonus", number)
		}
	}
	income := e.econ.AwardWaveIncome(number, !e.breached, pw.early)
	e.emit(EventWaveComplete, map[string]any{
		"wave": number, "name": pw.w.Name, "income": income.Short(),
		"flawless": !e.breached, "early": pw.early,
	})
	e.log.WithFields(logrus.Fields{"wave": number, "income": income.Short(), "flawless": !e.breached}).Info("wave complete")
	e.breached = false
	e.waveIndex++
}

// spawnAmbient trickles random creatures in between scripted waves.
func (e *Engine) spawnAmbient() {
	a := e.opts.Ambient
	if !a.Enabled {
		return
	}
	// A scripted wave holds the trickle back for a full cooldown after it
	// finishes spawning.
	if len(e.pending) > 0 {
		e.ambientTimer = max(1, a.MinTicks)
		return
	}
	pool := e.Defs.AmbientPool()
	if len(pool) == 0 {
		return
	}
	if e.ambientTimer > 0 {
		e.ambientTimer--
		if e.ambientTimer > 0 {
			return
		}
	}
	e.ambientTimer = max(1, e.RNG.IntRange(a.MinTicks, a.MaxTicks))

	count := e.RNG.IntRange(a.MinBatch, a.MaxBatch)
	spawned := 0
	for i := 0; i < count; i++ {
		bp := pool[e.RNG.Intn(len(pool))]
		c, err := creature.New(bp)
		if err != nil {
			e.log.WithError(err).Warn("ambient blueprint rejected")
			continue
		}
		e.toughen(c)
		entry := e.nextEntry()
		path, ok := e.finder.ShortestPath(entry, e.resource, c.CanTunnel())
		if !ok || c.AssignPath(path) != nil {
			continue
		}
		e.addCreature(c, "ambient")
		spawned++
	}
	e.log.WithField("creatures", spawned).Debug(fmt.Sprintf("ambient spawn, next in %d ticks", e.ambientTimer))
}
