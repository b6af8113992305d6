package zones

import "github.com/ChicagoDave/gridcity/pkg/grid"

// zoningReach is how many cells a zonable cell may sit from its road,
// measured along the cardinal axes.
const zoningReach = 2

// AdjacentToRoad reports whether (x, y) lies within zoning reach of a road
// cell whose class opens adjacent land for zoning. Highways, one-ways, and
// footpaths do not.
func AdjacentToRoad(g *grid.Grid, x, y int) bool {
	for d := 1; d <= zoningReach; d++ {
		if roadOpensZoning(g, x-d, y) || roadOpensZoning(g, x+d, y) ||
			roadOpensZoning(g, x, y-d) || roadOpensZoning(g, x, y+d) {
			return true
		}
	}
	return false
}

func roadOpensZoning(g *grid.Grid, x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	cell := g.At(x, y)
	return cell.Type == grid.Road && cell.Road.AllowsZoning()
}
