// Package systems provides the per-tick simulation systems.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// DefaultNeighborCap bounds how many neighbors one fish considers per tick.
const DefaultNeighborCap = 18

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float64 // Delta from query origin to the neighbor
	DistSq float64 // Squared distance (avoid sqrt in hot path)
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
// It is rebuilt from scratch every tick.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]ecs.Entity // flat grid of entity lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{cellSize: cellSize}
	g.Resize(width, height)
	return g
}

// Resize re-derives the grid dimensions for a new world size and empties the grid.
func (g *SpatialGrid) Resize(width, height float64) {
	cols, rows := config.GridDims(width, height, g.cellSize)
	g.cols = cols
	g.rows = rows

	if cap(g.cells) >= cols*rows {
		g.cells = g.cells[:cols*rows]
	} else {
		g.cells = make([][]ecs.Entity, cols*rows)
	}
	for i := range g.cells {
		if g.cells[i] == nil {
			g.cells[i] = make([]ecs.Entity, 0, 8) // pre-allocate small capacity
		}
	}
	g.Clear()
}

// Dims returns the number of columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// CellSize returns the cell edge length.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float64) {
	col, row := g.cellCoords(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// Cell returns the entities bucketed in the given cell. The slice is owned by the grid.
func (g *SpatialGrid) Cell(col, row int) []ecs.Entity {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return g.cells[row*g.cols+col]
}

// CellOf returns the clamped cell coordinates for a world position.
func (g *SpatialGrid) CellOf(x, y float64) (col, row int) {
	return g.cellCoords(x, y)
}

// QueryInto finds entities within radius of (x, y) and appends them to dst.
// Only the 3x3 block of cells around the query cell is scanned, so radius must
// not exceed the cell size. The scan stops once limit neighbors have been
// collected; neighbors are taken in bucket order, so the result past the cap is
// an insertion-order subset rather than the nearest ones. limit <= 0 disables the cap.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []Neighbor, x, y, radius float64, exclude ecs.Entity, limit int, posMap *ecs.Map[components.Position]) []Neighbor {
	centerCol, centerRow := g.cellCoords(x, y)
	radiusSq := radius * radius
	found := 0

	for dr := -1; dr <= 1; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}

			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}

				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dy := pos.Y - y
				distSq := dx*dx + dy*dy
				if distSq > radiusSq {
					continue
				}

				dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
				found++
				// Early exit if we hit the cap
				if limit > 0 && found >= limit {
					return dst
				}
			}
		}
	}

	return dst
}

// cellCoords returns the clamped cell for a world position.
func (g *SpatialGrid) cellCoords(x, y float64) (col, row int) {
	// Non-finite positions land in cell 0 rather than an arbitrary int conversion
	if !finite(x) {
		x = 0
	}
	if !finite(y) {
		y = 0
	}
	col = clampInt(int(math.Floor(x/g.cellSize)), 0, g.cols-1)
	row = clampInt(int(math.Floor(y/g.cellSize)), 0, g.rows-1)
	return col, row
}
