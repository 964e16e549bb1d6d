// Package mapgen produces random maps in tile notation.
package mapgen

import (
	"math"
	"strings"

	"github.com/nathoo/towercore/types"
)

// Source supplies random integers in [0, n).
type Source interface {
	Intn(n int) int
}

// Preset selects a layout style.
type Preset int

const (
	Simple Preset = iota
	Maze
	MultiPath
)

// PresetInfo describes a preset for menus and help text.
type PresetInfo struct {
	Preset      Preset
	Key         string
	Name        string
	Description string
}

var presets = []PresetInfo{
	{Simple, "simple", "Simple", "Single winding path"},
	{Maze, "maze", "Maze", "Dense maze with one exit"},
	{MultiPath, "multi", "Multi-Path", "Multiple entry and exit points"},
}

// Presets lists the available layouts.
func Presets() []PresetInfo { return append([]PresetInfo(nil), presets...) }

func (p Preset) String() string {
	for _, info := range presets {
		if info.Preset == p {
			return info.Key
		}
	}
	return "simple"
}

// ParsePreset resolves a preset key, case-insensitively.
func ParsePreset(name string) (Preset, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "multi-path", "multipath":
		return MultiPath, true
	}
	for _, info := range presets {
		if info.Key == key {
			return info.Preset, true
		}
	}
	return Simple, false
}

const (
	simpleW, simpleH = 12, 12
	mazeW, mazeH     = 21, 15
	multiW, multiH   = 16, 12
)

// Generate builds a map for preset p. Every result has one resource, at
// least one entry and one exit, and a corridor joining them.
func Generate(p Preset, src Source) []string {
	g := &generator{src: src}
	switch p {
	case Maze:
		g.maze()
	case MultiPath:
		g.multi()
	default:
		g.simple()
	}
	return g.rows()
}

type generator struct {
	src   Source
	cells [][]byte
}

func (g *generator) fill(w, h int, c byte) {
	g.cells = make([][]byte, h)
	for y := range g.cells {
		g.cells[y] = []byte(strings.Repeat(string(c), w))
	}
}

func (g *generator) width() int  { return len(g.cells[0]) }
func (g *generator) height() int { return len(g.cells) }

func (g *generator) rows() []string {
	out := make([]string, len(g.cells))
	for y, row := range g.cells {
		out[y] = string(row)
	}
	return out
}

// between returns a random integer in [lo, hi].
func (g *generator) between(lo, hi int) int {
	return lo + g.src.Intn(hi-lo+1)
}

func (g *generator) set(p types.GridPosition, c byte) { g.cells[p.Y][p.X] = c }
func (g *generator) at(p types.GridPosition) byte     { return g.cells[p.Y][p.X] }

func (g *generator) special(p types.GridPosition) bool {
	switch g.at(p) {
	case 'R', 'E', 'X':
		return true
	}
	return false
}

func (g *generator) mark(p types.GridPosition) {
	if !g.special(p) {
		g.set(p, '#')
	}
}

func (g *generator) clamp(p types.GridPosition) types.GridPosition {
	p.X = min(max(0, p.X), g.width()-1)
	p.Y = min(max(0, p.Y), g.height()-1)
	return p
}

// carve digs a wandering corridor from one cell to another. A quarter of
// the steps may stray in any direction; after a step budget the walk goes
// straight to the target.
func (g *generator) carve(from, to types.GridPosition) {
	cur, target := g.clamp(from), g.clamp(to)
	g.mark(cur)
	budget := g.width() * g.height() * 4
	for steps := 0; cur != target; steps++ {
		var options []types.GridPosition
		if cur.X < target.X {
			options = append(options, types.GridPosition{X: cur.X + 1, Y: cur.Y})
		}
		if cur.X > target.X {
			options = append(options, types.GridPosition{X: cur.X - 1, Y: cur.Y})
		}
		if cur.Y < target.Y {
			options = append(options, types.GridPosition{X: cur.X, Y: cur.Y + 1})
		}
		if cur.Y > target.Y {
			options = append(options, types.GridPosition{X: cur.X, Y: cur.Y - 1})
		}
		if steps < budget && g.src.Intn(100) < 25 {
			for _, d := range [4]types.GridPosition{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
				n := types.GridPosition{X: cur.X + d.X, Y: cur.Y + d.Y}
				if n == g.clamp(n) {
					options = append(options, n)
				}
			}
		}
		cur = options[g.src.Intn(len(options))]
		g.mark(cur)
	}
}

func (g *generator) scatterBlockers(lo, hi int, avoid types.GridPosition) {
	for i, n := 0, g.between(lo, hi); i < n; i++ {
		p := types.GridPosition{X: g.between(1, g.width()-2), Y: g.between(0, g.height()-1)}
		if g.at(p) == '.' && p != avoid {
			g.set(p, 'B')
		}
	}
}

func (g *generator) simple() {
	g.fill(simpleW, simpleH, '.')
	entry := types.GridPosition{X: 0, Y: g.between(0, simpleH-1)}
	exit := types.GridPosition{X: simpleW - 1, Y: g.between(0, simpleH-1)}
	resource := types.GridPosition{X: simpleW / 2, Y: simpleH / 2}
	g.set(entry, 'E')
	g.set(exit, 'X')
	g.set(resource, 'R')

	g.carve(types.GridPosition{X: 1, Y: entry.Y}, resource)
	g.carve(resource, types.GridPosition{X: exit.X - 1, Y: exit.Y})
	for i, n := 0, g.between(1, 3); i < n; i++ {
		g.carve(resource, types.GridPosition{X: g.between(1, simpleW-2), Y: g.between(0, simpleH-1)})
	}
	g.scatterBlockers(5, 9, resource)
}

func (g *generator) maze() {
	g.fill(mazeW, mazeH, 'B')
	odd := func(limit int) int { return g.between(0, (limit-2)/2)*2 + 1 }
	start := types.GridPosition{X: odd(mazeW), Y: odd(mazeH)}
	g.set(start, '#')

	// Recursive backtracker over odd cells.
	stack := []types.GridPosition{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		var options []types.GridPosition
		for _, d := range [4]types.GridPosition{{X: 2}, {X: -2}, {Y: 2}, {Y: -2}} {
			n := types.GridPosition{X: cur.X + d.X, Y: cur.Y + d.Y}
			if n.X <= 0 || n.Y <= 0 || n.X >= mazeW || n.Y >= mazeH {
				continue
			}
			if g.at(n) == 'B' {
				options = append(options, n)
			}
		}
		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := options[g.src.Intn(len(options))]
		g.set(types.GridPosition{X: (cur.X + next.X) / 2, Y: (cur.Y + next.Y) / 2}, '#')
		g.set(next, '#')
		stack = append(stack, next)
	}

	var corridor []types.GridPosition
	eastmost := start
	for y := range g.cells {
		for x := range g.cells[y] {
			p := types.GridPosition{X: x, Y: y}
			if g.at(p) != '#' {
				continue
			}
			corridor = append(corridor, p)
			if p.X > eastmost.X {
				eastmost = p
			}
		}
	}

	entry := types.GridPosition{X: 0, Y: start.Y}
	g.set(entry, 'E')
	g.carve(types.GridPosition{X: 1, Y: start.Y}, start)

	exit := types.GridPosition{X: mazeW - 1, Y: eastmost.Y}
	g.carve(eastmost, types.GridPosition{X: mazeW - 2, Y: eastmost.Y})
	g.set(exit, 'X')

	center := types.GridPosition{X: mazeW / 2, Y: mazeH / 2}
	resource, best := start, math.MaxFloat64
	for _, c := range corridor {
		if d := math.Hypot(float64(center.X-c.X), float64(center.Y-c.Y)); d < best {
			resource, best = c, d
		}
	}
	g.set(resource, 'R')
}

func (g *generator) multi() {
	g.fill(multiW, multiH, '.')
	resource := types.GridPosition{X: multiW / 2, Y: multiH / 2}
	g.set(resource, 'R')
	entries := []types.GridPosition{{X: 0, Y: multiH / 4}, {X: 0, Y: multiH - multiH/4 - 1}}
	exits := []types.GridPosition{{X: multiW - 1, Y: multiH / 3}, {X: multiW - 1, Y: multiH - multiH/3 - 1}}

	for _, e := range entries {
		g.set(e, 'E')
		g.carve(types.GridPosition{X: 1, Y: e.Y}, resource)
	}
	for _, x := range exits {
		g.set(x, 'X')
		g.carve(resource, types.GridPosition{X: x.X - 1, Y: x.Y})
	}
	for i, n := 0, g.between(2, 4); i < n; i++ {
		g.carve(resource, types.GridPosition{X: g.between(1, multiW-2), Y: g.between(1, multiH-2)})
	}
	g.scatterBlockers(4, 8, resource)
}
