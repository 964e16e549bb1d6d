// Package wave holds spawn queues and the scripted wave sequence.
package wave

import (
	"errors"

	"github.com/nathoo/towercore/engine/creature"
)

// ErrEmpty is returned by Spawn on an exhausted wave.
var ErrEmpty = errors.New("wave: no creatures left")

type entry struct {
	creature *creature.Creature
	interval int
	override bool
}

// Wave is a FIFO of creatures released on a cooldown.
type Wave struct {
	Name     string
	queue    []entry
	interval int
	cooldown int
}

// New returns an empty wave. The first creature is released after
// initialDelay ticks, later ones every interval ticks unless overridden.
func New(interval, initialDelay int) *Wave {
	return &Wave{interval: max(0, interval), cooldown: max(0, initialDelay)}
}

// Add queues c with the default interval.
func (w *Wave) Add(c *creature.Creature) {
	w.queue = append(w.queue, entry{creature: c})
}

// AddWithInterval queues c; after it spawns the next one waits interval ticks.
func (w *Wave) AddWithInterval(c *creature.Creature, interval int) {
	w.queue = append(w.queue, entry{creature: c, interval: max(0, interval), override: true})
}

// Tick counts the cooldown toward zero.
func (w *Wave) Tick() {
	if w.cooldown > 0 {
		w.cooldown--
	}
}

// ReadyToSpawn reports whether the front creature may be released.
func (w *Wave) ReadyToSpawn() bool { return w.cooldown == 0 && len(w.queue) > 0 }

// Spawn pops the front creature and restarts the cooldown.
func (w *Wave) Spawn() (*creature.Creature, error) {
	if len(w.queue) == 0 {
		return nil, ErrEmpty
	}
	e := w.queue[0]
	w.queue[0] = entry{}
	w.queue = w.queue[1:]
	if e.override {
		w.cooldown = e.interval
	} else {
		w.cooldown = w.interval
	}
	return e.creature, nil
}

// Empty reports whether every creature has been released.
func (w *Wave) Empty() bool { return len(w.queue) == 0 }

// Remaining is the number of creatures still queued.
func (w *Wave) Remaining() int { return len(w.queue) }
