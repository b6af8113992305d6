package grid

import "sort"

// DirtyTracker accumulates cells whose appearance changed since the last
// drain. Downstream consumers (mesh rebuild, clients) read the drained list;
// the simulation core only marks.
type DirtyTracker struct {
	cells map[[2]int]struct{}
}

// NewDirtyTracker returns an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{cells: make(map[[2]int]struct{})}
}

// Mark records the cell at (x, y) as changed. Duplicate marks collapse.
func (d *DirtyTracker) Mark(x, y int) {
	d.cells[[2]int{x, y}] = struct{}{}
}

// MarkRect records every cell in the inclusive rectangle.
func (d *DirtyTracker) MarkRect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d.cells[[2]int{x, y}] = struct{}{}
		}
	}
}

// Len returns the number of pending dirty cells.
func (d *DirtyTracker) Len() int {
	return len(d.cells)
}

// Drain returns all pending dirty cells sorted by (y, x) and clears the
// tracker. Sorting keeps the output deterministic for tests and clients.
func (d *DirtyTracker) Drain() [][2]int {
	if len(d.cells) == 0 {
		return nil
	}
	out := make([][2]int, 0, len(d.cells))
	for c := range d.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	d.cells = make(map[[2]int]struct{})
	return out
}
