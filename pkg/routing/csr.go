// Package routing builds the per-tick pathfinding snapshot and runs
// traffic-weighted A* over it. The road network's adjacency map is packed
// into a compressed sparse row (CSR) graph once per tick; workers only ever
// see the immutable snapshot, never the live grid.
package routing

import (
	"sort"

	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// weightScale converts a road-class speed into a per-cell base cost. Faster
// classes get proportionally cheaper edges, so the pathfinder prefers
// highways over locals and locals over footpaths.
const weightScale = 100.0

// Graph is the CSR packing of the road network. Nodes are sorted by (y, x)
// so node lookup is a binary search. The neighbor indices of node i are
// Edges[NodeOffsets[i]:NodeOffsets[i+1]], with the matching base costs at
// the same positions in Weights.
type Graph struct {
	Nodes       []roads.Node
	NodeOffsets []uint32
	Edges       []uint32
	Weights     []float64
}

// BuildGraph packs the road network into CSR form. Edge weights are the
// base per-cell cost of the destination node's road class; traffic is
// layered on top later, by the snapshot.
func BuildGraph(network *roads.Network, g *grid.Grid, classes *params.RoadParams) *Graph {
	nodes := network.Nodes()

	index := make(map[roads.Node]uint32, len(nodes))
	for i, n := range nodes {
		index[n] = uint32(i)
	}

	cg := &Graph{
		Nodes:       nodes,
		NodeOffsets: make([]uint32, 0, len(nodes)+1),
	}
	for _, node := range nodes {
		cg.NodeOffsets = append(cg.NodeOffsets, uint32(len(cg.Edges)))
		neighbors := network.Neighbors(node)
		// Adjacency lists come out of a map; sort for deterministic edge order.
		sorted := make([]roads.Node, len(neighbors))
		copy(sorted, neighbors)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Y != sorted[j].Y {
				return sorted[i].Y < sorted[j].Y
			}
			return sorted[i].X < sorted[j].X
		})
		for _, nb := range sorted {
			idx, ok := index[nb]
			if !ok {
				continue
			}
			rt := g.At(nb.X, nb.Y).Road
			cg.Edges = append(cg.Edges, idx)
			cg.Weights = append(cg.Weights, baseWeight(classes, rt))
		}
	}
	cg.NodeOffsets = append(cg.NodeOffsets, uint32(len(cg.Edges)))
	return cg
}

// NodeCount returns the number of nodes in the graph.
func (cg *Graph) NodeCount() int {
	return len(cg.Nodes)
}

// EdgeCount returns the number of directed edges in the graph.
func (cg *Graph) EdgeCount() int {
	return len(cg.Edges)
}

// FindNodeIndex finds a node by binary search over the (y, x) ordering.
// Returns false if the node is not in the graph.
func (cg *Graph) FindNodeIndex(node roads.Node) (uint32, bool) {
	i := sort.Search(len(cg.Nodes), func(i int) bool {
		n := cg.Nodes[i]
		if n.Y != node.Y {
			return n.Y >= node.Y
		}
		return n.X >= node.X
	})
	if i < len(cg.Nodes) && cg.Nodes[i] == node {
		return uint32(i), true
	}
	return 0, false
}

// Neighbors returns the neighbor indices of the node at idx.
func (cg *Graph) Neighbors(idx uint32) []uint32 {
	return cg.Edges[cg.NodeOffsets[idx]:cg.NodeOffsets[idx+1]]
}

func baseWeight(classes *params.RoadParams, rt grid.RoadType) float64 {
	speed := classes.ForType(rt).Speed
	if speed <= 0 {
		speed = 1
	}
	return weightScale / speed
}

// minBaseWeight returns the cheapest per-cell cost across all road classes,
// used to keep the A* heuristic admissible.
func minBaseWeight(classes *params.RoadParams) float64 {
	min := baseWeight(classes, grid.RoadLocal)
	for _, rt := range []grid.RoadType{
		grid.RoadAvenue, grid.RoadBoulevard, grid.RoadHighway,
		grid.RoadOneWay, grid.RoadPath,
	} {
		if w := baseWeight(classes, rt); w < min {
			min = w
		}
	}
	return min
}
