package grid

// starterCoastWidth is the number of water columns on the western edge of a
// new map.
const starterCoastWidth = 4

// cellNoise returns a deterministic pseudo-noise value in [0,1) for a cell.
func cellNoise(x, y int) float64 {
	return float64((x*7919+y*6271)%100) / 100.0
}

// GenerateStarterTerrain fills the grid with the new-game map: a water strip
// along the western edge and grass rising gently eastward. Deterministic for
// a given grid size.
func GenerateStarterTerrain(g *Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			noise := cellNoise(x, y)
			cell := g.At(x, y)
			if x < starterCoastWidth {
				cell.Type = Water
				cell.Elevation = 0.15 + noise*0.1
			} else {
				cell.Type = Grass
				distFromCoast := float64(x - starterCoastWidth)
				rise := distFromCoast * 0.002
				if rise > 0.3 {
					rise = 0.3
				}
				cell.Elevation = 0.35 + rise + noise*0.05
			}
		}
	}
}
