package engine

import (
	"math"
	"sort"
)

type cellCoord struct {
	x, y int
}

type pairKey struct {
	a, b Handle
}

// grid is the broad-phase spatial index: a hash grid of entity handles
// keyed by cell coordinate. It holds no owning references and is rebuilt
// from entity positions every step.
type grid struct {
	cellSize float64
	cells    map[cellCoord][]Handle
	seen     map[pairKey]struct{}
	pairs    []pairKey
}

func newGrid(cellSize float64) *grid {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &grid{
		cellSize: cellSize,
		cells:    make(map[cellCoord][]Handle),
		seen:     make(map[pairKey]struct{}),
	}
}

// rebuild clears the grid and reinserts every active collidable entity
// into each cell its AABB overlaps.
func (g *grid) rebuild(s *store) {
	for k, c := range g.cells {
		if len(c) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = c[:0]
	}
	s.each(func(e *Entity) {
		if !e.Collidable {
			return
		}
		b := e.Bounds()
		if b.Empty() {
			return
		}
		minX := int(math.Floor(b.X / g.cellSize))
		maxX := int(math.Floor((b.MaxX() - epsilon) / g.cellSize))
		minY := int(math.Floor(b.Y / g.cellSize))
		maxY := int(math.Floor((b.MaxY() - epsilon) / g.cellSize))
		for cy := minY; cy <= maxY; cy++ {
			for cx := minX; cx <= maxX; cx++ {
				key := cellCoord{x: cx, y: cy}
				g.cells[key] = append(g.cells[key], e.handle)
			}
		}
	})
}

// candidatePairs returns every unordered pair of handles sharing at least
// one cell, each pair exactly once, sorted so resolution order is
// deterministic across runs.
func (g *grid) candidatePairs() []pairKey {
	clear(g.seen)
	g.pairs = g.pairs[:0]
	for _, cell := range g.cells {
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				a, b := cell[i], cell[j]
				if b < a {
					a, b = b, a
				}
				key := pairKey{a: a, b: b}
				if _, dup := g.seen[key]; dup {
					continue
				}
				g.seen[key] = struct{}{}
				g.pairs = append(g.pairs, key)
			}
		}
	}
	sort.Slice(g.pairs, func(i, j int) bool {
		if g.pairs[i].a != g.pairs[j].a {
			return g.pairs[i].a < g.pairs[j].a
		}
		return g.pairs[i].b < g.pairs[j].b
	})
	return g.pairs
}

// epsilon keeps an AABB whose edge sits exactly on a cell boundary from
// being inserted into the next cell over.
const epsilon = 1e-9
