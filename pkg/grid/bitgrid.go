package grid

// BitGrid is a dense boolean overlay with the same dimensions as a cell grid.
// Used for per-cell presence flags kept outside the Cell struct, such as
// planted trees.
type BitGrid struct {
	Width  int
	Height int
	bits   []bool
}

// NewBitGrid creates an all-false overlay of the given dimensions.
func NewBitGrid(width, height int) *BitGrid {
	return &BitGrid{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

// InBounds reports whether (x, y) lies inside the overlay.
func (b *BitGrid) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Get returns the flag at (x, y); false when out of bounds.
func (b *BitGrid) Get(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	return b.bits[y*b.Width+x]
}

// Set writes the flag at (x, y). Out-of-bounds writes are ignored.
func (b *BitGrid) Set(x, y int, v bool) {
	if !b.InBounds(x, y) {
		return
	}
	b.bits[y*b.Width+x] = v
}

// Count returns the number of set flags.
func (b *BitGrid) Count() int {
	n := 0
	for _, v := range b.bits {
		if v {
			n++
		}
	}
	return n
}
