package routing

// TrafficGrid tracks per-cell vehicle density. Citizens increment cells as
// they cross them; the slow tick halves everything so stale congestion
// fades. Pathfinding workers never touch the live grid, only the copy
// embedded in the snapshot.
type TrafficGrid struct {
	Width   int
	Height  int
	Density []uint16
}

// NewTrafficGrid creates an empty traffic grid of the given dimensions.
func NewTrafficGrid(width, height int) *TrafficGrid {
	return &TrafficGrid{
		Width:   width,
		Height:  height,
		Density: make([]uint16, width*height),
	}
}

// At returns the density at (x, y), or zero when out of bounds.
func (t *TrafficGrid) At(x, y int) uint16 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return 0
	}
	return t.Density[y*t.Width+x]
}

// Increment bumps the density at (x, y) by one, saturating at the uint16
// maximum.
func (t *TrafficGrid) Increment(x, y int) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	i := y*t.Width + x
	if t.Density[i] < 0xFFFF {
		t.Density[i]++
	}
}

// Decay divides every cell's density by the given divisor. A divisor below
// two is treated as two.
func (t *TrafficGrid) Decay(divisor int) {
	if divisor < 2 {
		divisor = 2
	}
	d := uint16(divisor)
	for i, v := range t.Density {
		if v > 0 {
			t.Density[i] = v / d
		}
	}
}

// Reset clears all densities.
func (t *TrafficGrid) Reset() {
	for i := range t.Density {
		t.Density[i] = 0
	}
}
