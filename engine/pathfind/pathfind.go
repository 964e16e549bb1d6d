// Package pathfind computes shortest walkable routes on a grid.Map with a
// version-keyed result cache.
package pathfind

import (
	"github.com/nathoo/towercore/engine/grid"
	"github.com/nathoo/towercore/types"
)

// Neighbor order is fixed so that ties between equal-length routes resolve
// the same way on every run.
var directions = [4]types.GridPosition{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

type cacheKey struct {
	start, goal  types.GridPosition
	ignoreTowers bool
	version      uint64
}

// Finder runs breadth-first searches against a map and caches the results,
// including failures. The cache is keyed by the finder's version counter, so
// Invalidate and any map mutation make older entries unreachable.
type Finder struct {
	m          *grid.Map
	cache      map[cacheKey][]types.GridPosition
	version    uint64
	mapVersion uint64
	searches   int // cache misses, for tests
}

// New returns a finder bound to m.
func New(m *grid.Map) *Finder {
	return &Finder{
		m:          m,
		cache:      make(map[cacheKey][]types.GridPosition),
		mapVersion: m.Version(),
	}
}

// maxCacheEntries bounds the cache; stale-version entries are swept once it
// is reached.
const maxCacheEntries = 4096

// Invalidate bumps the cache version. Entries stamped with older versions
// are never matched again.
func (f *Finder) Invalidate() {
	f.version++
}

// sweep drops entries from older versions.
func (f *Finder) sweep() {
	for k := range f.cache {
		if k.version != f.version {
			delete(f.cache, k)
		}
	}
}

// Version returns the current cache version.
func (f *Finder) Version() uint64 { return f.version }

// ShortestPath returns the shortest route from start to goal inclusive.
// Non-tunneling callers get a route that avoids towers when one exists and
// fall back to a route through towers otherwise. Tunneling callers always get
// the route that treats towers as open ground.
func (f *Finder) ShortestPath(start, goal types.GridPosition, allowTunnel bool) ([]types.GridPosition, bool) {
	if !allowTunnel {
		if p, ok := f.Search(start, goal, false); ok {
			return p, true
		}
	}
	return f.Search(start, goal, true)
}

// Search is a single cached lookup with an explicit tower policy.
func (f *Finder) Search(start, goal types.GridPosition, ignoreTowers bool) ([]types.GridPosition, bool) {
	if v := f.m.Version(); v != f.mapVersion {
		f.mapVersion = v
		f.Invalidate()
	}
	key := cacheKey{start: start, goal: goal, ignoreTowers: ignoreTowers, version: f.version}
	if p, ok := f.cache[key]; ok {
		return clonePath(p), p != nil
	}
	f.searches++
	if len(f.cache) >= maxCacheEntries {
		f.sweep()
	}
	p := bfs(f.m, start, goal, ignoreTowers)
	f.cache[key] = p
	return clonePath(p), p != nil
}

// Reachable reports whether any source reaches goal without crossing towers.
func (f *Finder) Reachable(sources []types.GridPosition, goal types.GridPosition) bool {
	for _, s := range sources {
		if _, ok := f.Search(s, goal, false); ok {
			return true
		}
	}
	return false
}

// Nearest returns the shortest route from start to any of the goals.
// Earlier goals win ties.
func (f *Finder) Nearest(start types.GridPosition, goals []types.GridPosition, allowTunnel bool) ([]types.GridPosition, bool) {
	var best []types.GridPosition
	for _, g := range goals {
		p, ok := f.ShortestPath(start, g, allowTunnel)
		if ok && (best == nil || len(p) < len(best)) {
			best = p
		}
	}
	return best, best != nil
}

func bfs(m *grid.Map, start, goal types.GridPosition, ignoreTowers bool) []types.GridPosition {
	if !m.IsWalkable(start, ignoreTowers) || !m.IsWalkable(goal, ignoreTowers) {
		return nil
	}
	if start == goal {
		return []types.GridPosition{start}
	}
	w := m.Width()
	index := func(p types.GridPosition) int { return p.Y*w + p.X }
	prev := make([]int, w*m.Height())
	for i := range prev {
		prev[i] = -1
	}
	prev[index(start)] = index(start)
	queue := []types.GridPosition{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			next := types.GridPosition{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !m.InBounds(next) || prev[index(next)] != -1 {
				continue
			}
			if !m.IsWalkable(next, ignoreTowers) {
				continue
			}
			prev[index(next)] = index(cur)
			if next == goal {
				return walkBack(prev, index(start), index(goal), w)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func walkBack(prev []int, start, goal, width int) []types.GridPosition {
	var path []types.GridPosition
	for i := goal; ; i = prev[i] {
		path = append(path, types.GridPosition{X: i % width, Y: i / width})
		if i == start {
			break
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func clonePath(p []types.GridPosition) []types.GridPosition {
	if p == nil {
		return nil
	}
	return append([]types.GridPosition(nil), p...)
}
