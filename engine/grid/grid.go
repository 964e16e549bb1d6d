// Package grid holds the tile map the simulation runs on.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/towercore/types"
)

var (
	// ErrOutOfBounds is returned for coordinates outside the map.
	ErrOutOfBounds = errors.New("position outside map bounds")
	// ErrNoResource is returned when the map has no resource tile.
	ErrNoResource = errors.New("map has no resource tile")
	// ErrResourceFixed is returned when a write would move or erase the resource.
	ErrResourceFixed = errors.New("resource tile cannot be changed")
)

// Map is a rectangular grid of tiles. Every successful Set bumps Version,
// which downstream caches use to detect staleness.
type Map struct {
	width, height int
	tiles         []types.TileType
	entries       []types.GridPosition
	exits         []types.GridPosition
	resource      types.GridPosition
	hasResource   bool
	version       uint64
}

// New builds a map from a row-major tile slice. Entries and exits are
// recorded in scan order. Exactly one resource tile is required.
func New(width, height int, tiles []types.TileType) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", width, height)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("grid: have %d tiles, want %d", len(tiles), width*height)
	}
	m := &Map{width: width, height: height, tiles: make([]types.TileType, len(tiles))}
	copy(m.tiles, tiles)
	for i, t := range m.tiles {
		p := types.GridPosition{X: i % width, Y: i / width}
		switch t {
		case types.TileEntry:
			m.entries = append(m.entries, p)
		case types.TileExit:
			m.exits = append(m.exits, p)
		case types.TileResource:
			if m.hasResource {
				return nil, fmt.Errorf("grid: second resource tile at %s (first at %s)", p, m.resource)
			}
			m.resource, m.hasResource = p, true
		}
	}
	if !m.hasResource {
		return nil, fmt.Errorf("grid: %w", ErrNoResource)
	}
	return m, nil
}

// FromRows parses map rows written in tile notation ('.', '#', 'R', 'E', 'X', 'T', 'B').
func FromRows(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, errors.New("grid: no rows")
	}
	width := len([]rune(rows[0]))
	tiles := make([]types.TileType, 0, width*len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d", y, len(runes), width)
		}
		for x, c := range runes {
			t, ok := types.ParseTile(c)
			if !ok {
				return nil, fmt.Errorf("grid: unknown tile %q at (%d,%d)", c, x, y)
			}
			tiles = append(tiles, t)
		}
	}
	return New(width, len(rows), tiles)
}

func (m *Map) Width() int { return m.width }
func (m *Map) Height() int { return m.height }

// Version counts successful mutations.
func (m *Map) Version() uint64 { return m.version }

// InBounds reports whether p lies on the map.
func (m *Map) InBounds(p types.GridPosition) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.width && p.Y < m.height
}

// At returns the tile at p.
func (m *Map) At(p types.GridPosition) (types.TileType, error) {
	if !m.InBounds(p) {
		return types.TileEmpty, fmt.Errorf("grid: read %s: %w", p, ErrOutOfBounds)
	}
	return m.tiles[p.Y*m.width+p.X], nil
}

// Set writes a tile and bumps the version. The resource tile is fixed for
// the lifetime of the map.
func (m *Map) Set(p types.GridPosition, t types.TileType) error {
	if !m.InBounds(p) {
		return fmt.Errorf("grid: write %s: %w", p, ErrOutOfBounds)
	}
	if (m.hasResource && p == m.resource) != (t == types.TileResource) {
		return fmt.Errorf("grid: write %s: %w", p, ErrResourceFixed)
	}
	m.tiles[p.Y*m.width+p.X] = t
	m.version++
	return nil
}

// IsWalkable reports whether a creature may stand on p. Tower tiles only
// count when towersWalkable is set.
func (m *Map) IsWalkable(p types.GridPosition, towersWalkable bool) bool {
	if !m.InBounds(p) {
		return false
	}
	switch m.tiles[p.Y*m.width+p.X] {
	case types.TilePath, types.TileEntry, types.TileExit, types.TileResource:
		return true
	case types.TileTower:
		return towersWalkable
	}
	return false
}

// Entries returns spawn points in scan order.
func (m *Map) Entries() []types.GridPosition {
	return append([]types.GridPosition(nil), m.entries...)
}

// Exits returns exit points in scan order.
func (m *Map) Exits() []types.GridPosition {
	return append([]types.GridPosition(nil), m.exits...)
}

// Resource returns the resource position.
func (m *Map) Resource() (types.GridPosition, error) {
	if !m.hasResource {
		return types.GridPosition{}, ErrNoResource
	}
	return m.resource, nil
}

// Clone returns an independent copy carrying the same version.
func (m *Map) Clone() *Map {
	c := *m
	c.tiles = append([]types.TileType(nil), m.tiles...)
	c.entries = m.Entries()
	c.exits = m.Exits()
	return &c
}

// Rows renders the map in tile notation.
func (m *Map) Rows() []string {
	rows := make([]string, m.height)
	var b strings.Builder
	for y := 0; y < m.height; y++ {
		b.Reset()
		for x := 0; x < m.width; x++ {
			b.WriteRune(m.tiles[y*m.width+x].Char())
		}
		rows[y] = b.String()
	}
	return rows
}
