package routing

import (
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// maxSearchRadius bounds the ring search for NearestRoad. Buildings farther
// than this from any road are treated as unreachable.
const maxSearchRadius = 12

// NearestRoad resolves a grid cell to the closest road cell by expanding
// square rings outward from (gx, gy). Returns false when no road cell lies
// within the search radius. The cell itself counts if it is a road.
func NearestRoad(g *grid.Grid, gx, gy int) (roads.Node, bool) {
	if g.InBounds(gx, gy) && g.At(gx, gy).Type == grid.Road {
		return roads.Node{X: gx, Y: gy}, true
	}

	for r := 1; r <= maxSearchRadius; r++ {
		best := roads.Node{}
		bestDist := -1
		check := func(x, y int) {
			if !g.InBounds(x, y) || g.At(x, y).Type != grid.Road {
				return
			}
			dx := x - gx
			dy := y - gy
			d := dx*dx + dy*dy
			if bestDist < 0 || d < bestDist {
				best = roads.Node{X: x, Y: y}
				bestDist = d
			}
		}
		for x := gx - r; x <= gx+r; x++ {
			check(x, gy-r)
			check(x, gy+r)
		}
		for y := gy - r + 1; y < gy+r; y++ {
			check(gx-r, y)
			check(gx+r, y)
		}
		if bestDist >= 0 {
			return best, true
		}
	}
	return roads.Node{}, false
}
