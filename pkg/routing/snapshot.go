package routing

import (
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// Snapshot is the self-contained, immutable bundle a pathfinding worker
// needs: CSR topology, per-node road types, and a copy of the traffic
// density array. Workers share it by pointer; the builder replaces the
// whole snapshot each tick instead of mutating it, so no locking is needed.
type Snapshot struct {
	Graph            *Graph
	NodeRoadTypes    []grid.RoadType
	Traffic          []uint16
	TrafficWidth     int
	CongestionFactor float64
	// Version increments each rebuild; tests and diagnostics use it to
	// confirm a fresh snapshot was taken.
	Version uint64

	minWeight float64
}

// EmptySnapshot returns a snapshot with no nodes, usable before the first
// rebuild.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Graph: &Graph{NodeOffsets: []uint32{0}},
	}
}

// BuildSnapshot packs the road network, grid road types, and traffic
// densities into a fresh snapshot. The traffic array is copied; the graph
// is newly built, so the caller may keep mutating the live network.
func BuildSnapshot(network *roads.Network, g *grid.Grid, traffic *TrafficGrid, p *params.Params, version uint64) *Snapshot {
	cg := BuildGraph(network, g, &p.Roads)

	types := make([]grid.RoadType, len(cg.Nodes))
	for i, n := range cg.Nodes {
		types[i] = g.At(n.X, n.Y).Road
	}

	density := make([]uint16, len(traffic.Density))
	copy(density, traffic.Density)

	return &Snapshot{
		Graph:            cg,
		NodeRoadTypes:    types,
		Traffic:          density,
		TrafficWidth:     traffic.Width,
		CongestionFactor: p.Pathfinding.CongestionFactor,
		Version:          version,
		minWeight:        minBaseWeight(&p.Roads),
	}
}

// trafficAt returns the snapshotted density at grid position (x, y).
func (s *Snapshot) trafficAt(x, y int) uint16 {
	i := y*s.TrafficWidth + x
	if i < 0 || i >= len(s.Traffic) {
		return 0
	}
	return s.Traffic[i]
}

// edgeCost returns the congestion-adjusted cost of entering the node at
// edge position pos: the base road-class weight scaled up by the traffic
// density at the destination cell.
func (s *Snapshot) edgeCost(pos int, to uint32) float64 {
	base := s.Graph.Weights[pos]
	node := s.Graph.Nodes[to]
	volume := float64(s.trafficAt(node.X, node.Y))
	return base * (1 + s.CongestionFactor*volume)
}
