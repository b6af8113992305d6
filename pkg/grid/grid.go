package grid

import (
	"math"

	"github.com/ChicagoDave/gridcity/pkg/geo"
)

// CellSize is the world-space edge length of one grid cell.
const CellSize = 16.0

// Default grid dimensions for a standard map.
const (
	DefaultWidth  = 256
	DefaultHeight = 256
)

// Grid is a dense row-major array of cells.
type Grid struct {
	Width  int
	Height int
	Cells  []Cell
}

// New creates a grid of the given dimensions with default cells:
// Grass, unzoned, no district, no utilities, elevation zero.
func New(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	for i := range g.Cells {
		g.Cells[i].District = NoDistrict
	}
	return g
}

// Index returns the linear index of (x, y). Row-major: y*Width + x.
func (g *Grid) Index(x, y int) int {
	return y*g.Width + x
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y), which must be in bounds.
func (g *Grid) At(x, y int) *Cell {
	return &g.Cells[y*g.Width+x]
}

// Neighbors4 returns the cardinal neighbors of (x, y) that are in bounds.
// The first count entries of the returned array are valid.
func (g *Grid) Neighbors4(x, y int) ([4][2]int, int) {
	var out [4][2]int
	count := 0
	if x > 0 {
		out[count] = [2]int{x - 1, y}
		count++
	}
	if x < g.Width-1 {
		out[count] = [2]int{x + 1, y}
		count++
	}
	if y > 0 {
		out[count] = [2]int{x, y - 1}
		count++
	}
	if y < g.Height-1 {
		out[count] = [2]int{x, y + 1}
		count++
	}
	return out, count
}

// WorldToGrid maps a world position to grid coordinates by flooring.
// Out-of-bounds world positions produce out-of-bounds grid coordinates;
// callers check InBounds.
func WorldToGrid(wx, wy float64) (int, int) {
	return int(math.Floor(wx / CellSize)), int(math.Floor(wy / CellSize))
}

// GridToWorld returns the world-space center of the cell at (gx, gy).
func GridToWorld(gx, gy int) geo.Point2D {
	return geo.Point2D{
		X: (float64(gx) + 0.5) * CellSize,
		Y: (float64(gy) + 0.5) * CellSize,
	}
}
