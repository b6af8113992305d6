package roads

import (
	"math"

	"github.com/ChicagoDave/gridcity/pkg/geo"
	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// DefaultSnapDistance is the node-merge radius in world units: endpoints
// within one cell of an existing segment node reuse it.
const DefaultSnapDistance = grid.CellSize

// Sample spacing along a curve when rasterizing, in world units.
const rasterStep = grid.CellSize / 2

type SegmentID uint32

type SegmentNodeID uint32

// SegmentNode is a shared endpoint in the segment graph.
type SegmentNode struct {
	ID       SegmentNodeID `json:"id"`
	Position geo.Point2D   `json:"position"`
	Segments []SegmentID   `json:"segments"`
}

// Segment is a drawn road: a cubic Bezier between two nodes, plus the grid
// cells it produced when rasterized.
type Segment struct {
	ID    SegmentID       `json:"id"`
	Start SegmentNodeID   `json:"start"`
	End   SegmentNodeID   `json:"end"`
	Curve geo.CubicBezier `json:"curve"`
	Road  grid.RoadType   `json:"road"`
	// ArcLength is cached at creation; the curve never changes afterward.
	ArcLength float64  `json:"arc_length"`
	Cells     [][2]int `json:"cells"`
}

// Store holds the drawn road segments and their shared endpoint nodes.
// Segments are the durable editing representation: the cell network is
// derived from them by rasterization and can be rebuilt at any time.
type Store struct {
	Nodes    []SegmentNode
	Segments []Segment

	nextNode    SegmentNodeID
	nextSegment SegmentID
}

// NewStore creates an empty segment store.
func NewStore() *Store {
	return &Store{}
}

// StoreFromParts rebuilds a store from restored nodes and segments,
// re-deriving the ID counters so later additions do not collide.
func StoreFromParts(nodes []SegmentNode, segments []Segment) *Store {
	s := &Store{Nodes: nodes, Segments: segments}
	s.rebuildCounters()
	return s
}

func (s *Store) rebuildCounters() {
	s.nextNode = 0
	for i := range s.Nodes {
		if s.Nodes[i].ID >= s.nextNode {
			s.nextNode = s.Nodes[i].ID + 1
		}
	}
	s.nextSegment = 0
	for i := range s.Segments {
		if s.Segments[i].ID >= s.nextSegment {
			s.nextSegment = s.Segments[i].ID + 1
		}
	}
}

// Node returns the node with the given ID, or nil.
func (s *Store) Node(id SegmentNodeID) *SegmentNode {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Segment returns the segment with the given ID, or nil.
func (s *Store) Segment(id SegmentID) *Segment {
	for i := range s.Segments {
		if s.Segments[i].ID == id {
			return &s.Segments[i]
		}
	}
	return nil
}

// FindOrCreateNode returns an existing node within snapDist of pos, or
// creates a new one there.
func (s *Store) FindOrCreateNode(pos geo.Point2D, snapDist float64) SegmentNodeID {
	for i := range s.Nodes {
		if s.Nodes[i].Position.Distance(pos) < snapDist {
			return s.Nodes[i].ID
		}
	}
	id := s.nextNode
	s.nextNode++
	s.Nodes = append(s.Nodes, SegmentNode{ID: id, Position: pos})
	return id
}

// AddSegment adds a segment with explicit control points, rasterizes it onto
// the grid and network, and connects it to its endpoint nodes.
func (s *Store) AddSegment(start, end SegmentNodeID, curve geo.CubicBezier, rt grid.RoadType, g *grid.Grid, net *Network) SegmentID {
	id := s.nextSegment
	s.nextSegment++

	seg := Segment{
		ID:        id,
		Start:     start,
		End:       end,
		Curve:     curve,
		Road:      rt,
		ArcLength: curve.ArcLength(),
	}
	seg.Cells = rasterize(&seg, g, net)

	if node := s.Node(start); node != nil {
		node.Segments = append(node.Segments, id)
	}
	if node := s.Node(end); node != nil {
		node.Segments = append(node.Segments, id)
	}

	s.Segments = append(s.Segments, seg)
	return id
}

// AddStraightSegment adds a straight road between two world positions,
// snapping endpoints to existing nodes. Returns the new segment's ID and
// the cells it rasterized.
func (s *Store) AddStraightSegment(from, to geo.Point2D, rt grid.RoadType, snapDist float64, g *grid.Grid, net *Network) (SegmentID, [][2]int) {
	startNode := s.FindOrCreateNode(from, snapDist)
	endNode := s.FindOrCreateNode(to, snapDist)
	id := s.AddSegment(startNode, endNode, geo.StraightBezier(from, to), rt, g, net)
	if seg := s.Segment(id); seg != nil {
		return id, seg.Cells
	}
	return id, nil
}

// RemoveSegment removes the segment and un-rasterizes its cells, keeping
// any cell still covered by another segment.
func (s *Store) RemoveSegment(id SegmentID, g *grid.Grid, net *Network) {
	idx := -1
	for i := range s.Segments {
		if s.Segments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	seg := s.Segments[idx]
	s.Segments = append(s.Segments[:idx], s.Segments[idx+1:]...)

	for _, cell := range seg.Cells {
		covered := false
		for i := range s.Segments {
			if containsCell(s.Segments[i].Cells, cell) {
				covered = true
				break
			}
		}
		if !covered {
			net.RemoveRoad(g, cell[0], cell[1])
		}
	}

	for i := range s.Nodes {
		connected := s.Nodes[i].Segments
		for j, sid := range connected {
			if sid == id {
				s.Nodes[i].Segments = append(connected[:j], connected[j+1:]...)
				break
			}
		}
	}
}

// UpgradeSegment changes the segment's road type, re-typing its existing
// road cells and rasterizing any cells not yet covered. Connectivity does
// not change. Returns false if the segment does not exist.
func (s *Store) UpgradeSegment(id SegmentID, rt grid.RoadType, g *grid.Grid, net *Network) bool {
	seg := s.Segment(id)
	if seg == nil {
		return false
	}
	seg.Road = rt
	for _, cell := range seg.Cells {
		if g.InBounds(cell[0], cell[1]) && g.At(cell[0], cell[1]).Type == grid.Road {
			g.At(cell[0], cell[1]).Road = rt
		}
	}
	seg.Cells = rasterize(seg, g, net)
	return true
}

// SegmentNear returns the segment whose curve passes closest to pos within
// maxDist, sampling each curve.
func (s *Store) SegmentNear(pos geo.Point2D, maxDist float64) (SegmentID, bool) {
	bestDist := maxDist
	var bestID SegmentID
	found := false

	for i := range s.Segments {
		seg := &s.Segments[i]
		samples := int(math.Ceil(seg.ArcLength/grid.CellSize)) + 1
		if samples < 4 {
			samples = 4
		}
		for j := 0; j <= samples; j++ {
			t := float64(j) / float64(samples)
			d := seg.Curve.Evaluate(t).Distance(pos)
			if d < bestDist {
				bestDist = d
				bestID = seg.ID
				found = true
			}
		}
	}
	return bestID, found
}

// RasterizeAll re-rasterizes every segment. Called after a restore, when
// the store has been rebuilt but the grid's road cells have not.
func (s *Store) RasterizeAll(g *grid.Grid, net *Network) {
	for i := range s.Segments {
		s.Segments[i].Cells = rasterize(&s.Segments[i], g, net)
	}
}

// rasterize samples the curve and places road cells along it, skipping
// water and cells that are already roads. The returned list holds every
// grid cell the curve crossed in visit order, deduplicated.
func rasterize(seg *Segment, g *grid.Grid, net *Network) [][2]int {
	count := int(math.Ceil(seg.ArcLength / rasterStep))
	if count < 4 {
		count = 4
	}
	points := seg.Curve.SampleUniform(count)

	var cells [][2]int
	for _, pt := range points {
		gx, gy := grid.WorldToGrid(pt.X, pt.Y)
		if !g.InBounds(gx, gy) {
			continue
		}
		cell := [2]int{gx, gy}
		if containsCell(cells, cell) {
			continue
		}
		cells = append(cells, cell)

		if c := g.At(gx, gy); c.Type != grid.Water && c.Type != grid.Road {
			net.PlaceRoadTyped(g, gx, gy, seg.Road)
		}
	}
	return cells
}

func containsCell(cells [][2]int, target [2]int) bool {
	for _, c := range cells {
		if c == target {
			return true
		}
	}
	return false
}
