package roads

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// Node identifies a road cell in the network by its grid coordinates.
type Node struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Network is the cell-level road graph. Adjacency is 4-connected and kept
// symmetric; intersections are the nodes with degree 3 or more. Removed
// nodes accumulate in a log until the movement layer drains it to invalidate
// stale citizen paths.
type Network struct {
	edges           map[Node][]Node
	intersections   map[Node]struct{}
	recentlyRemoved []Node
}

// NewNetwork creates an empty road network.
func NewNetwork() *Network {
	return &Network{
		edges:         make(map[Node][]Node),
		intersections: make(map[Node]struct{}),
	}
}

// PlaceRoad places a Local road at (x, y). Returns false if the cell is out
// of bounds, water, or already a road.
func (n *Network) PlaceRoad(g *grid.Grid, x, y int) bool {
	return n.PlaceRoadTyped(g, x, y, grid.RoadLocal)
}

// PlaceRoadTyped places a road of the given type at (x, y), marks the cell,
// and connects the new node to adjacent road nodes.
func (n *Network) PlaceRoadTyped(g *grid.Grid, x, y int, rt grid.RoadType) bool {
	if !g.InBounds(x, y) {
		return false
	}
	cell := g.At(x, y)
	if cell.Type == grid.Water || cell.Type == grid.Road {
		return false
	}

	cell.Type = grid.Road
	cell.Road = rt

	node := Node{X: x, Y: y}
	if _, ok := n.edges[node]; !ok {
		n.edges[node] = nil
	}

	neighbors, count := g.Neighbors4(x, y)
	for i := 0; i < count; i++ {
		adj := Node{X: neighbors[i][0], Y: neighbors[i][1]}
		if _, ok := n.edges[adj]; ok {
			n.link(node, adj)
			n.refreshIntersection(adj)
		}
	}
	n.refreshIntersection(node)
	return true
}

// RemoveRoad removes the road at (x, y): the cell reverts to grass with its
// zone and building reference cleared, the node is disconnected, and the
// removal is logged for path invalidation. Returns false if no road exists
// there.
func (n *Network) RemoveRoad(g *grid.Grid, x, y int) bool {
	node := Node{X: x, Y: y}
	adjacent, ok := n.edges[node]
	if !ok {
		return false
	}

	for _, adj := range adjacent {
		n.unlink(adj, node)
		n.refreshIntersection(adj)
	}
	delete(n.edges, node)
	delete(n.intersections, node)
	n.recentlyRemoved = append(n.recentlyRemoved, node)

	if g.InBounds(x, y) {
		cell := g.At(x, y)
		cell.Type = grid.Grass
		cell.Road = grid.RoadLocal
		cell.Zone = grid.ZoneNone
		cell.Building = ecs.Entity{}
	}
	return true
}

// IsRoad reports whether the network has a node at (x, y).
func (n *Network) IsRoad(x, y int) bool {
	_, ok := n.edges[Node{X: x, Y: y}]
	return ok
}

// Neighbors returns the nodes adjacent to the given node. The returned
// slice is owned by the network and must not be modified.
func (n *Network) Neighbors(node Node) []Node {
	return n.edges[node]
}

// NodeCount returns the number of road nodes.
func (n *Network) NodeCount() int {
	return len(n.edges)
}

// Nodes returns all road nodes sorted by (y, x) for deterministic iteration.
func (n *Network) Nodes() []Node {
	nodes := make([]Node, 0, len(n.edges))
	for node := range n.edges {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Y != nodes[j].Y {
			return nodes[i].Y < nodes[j].Y
		}
		return nodes[i].X < nodes[j].X
	})
	return nodes
}

// IsIntersection reports whether the node has three or more neighbors.
func (n *Network) IsIntersection(node Node) bool {
	_, ok := n.intersections[node]
	return ok
}

// IntersectionCount returns the number of intersection nodes.
func (n *Network) IntersectionCount() int {
	return len(n.intersections)
}

// DrainRemoved returns the nodes removed since the last drain and clears
// the log.
func (n *Network) DrainRemoved() []Node {
	if len(n.recentlyRemoved) == 0 {
		return nil
	}
	removed := n.recentlyRemoved
	n.recentlyRemoved = nil
	return removed
}

// PendingRemovals returns the size of the removal log without draining it.
func (n *Network) PendingRemovals() int {
	return len(n.recentlyRemoved)
}

// Rebuild re-derives the full adjacency from the grid's road cells. Used
// after a restore, when the grid already carries road state but the network
// is empty. The removal log is left untouched.
func (n *Network) Rebuild(g *grid.Grid) {
	n.edges = make(map[Node][]Node)
	n.intersections = make(map[Node]struct{})

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y).Type == grid.Road {
				n.edges[Node{X: x, Y: y}] = nil
			}
		}
	}
	for node := range n.edges {
		neighbors, count := g.Neighbors4(node.X, node.Y)
		for i := 0; i < count; i++ {
			adj := Node{X: neighbors[i][0], Y: neighbors[i][1]}
			if _, ok := n.edges[adj]; ok {
				n.link(node, adj)
			}
		}
	}
	for node := range n.edges {
		n.refreshIntersection(node)
	}
}

func (n *Network) link(a, b Node) {
	if !containsNode(n.edges[a], b) {
		n.edges[a] = append(n.edges[a], b)
	}
	if !containsNode(n.edges[b], a) {
		n.edges[b] = append(n.edges[b], a)
	}
}

func (n *Network) unlink(a, b Node) {
	adj := n.edges[a]
	for i, node := range adj {
		if node == b {
			n.edges[a] = append(adj[:i], adj[i+1:]...)
			return
		}
	}
}

func (n *Network) refreshIntersection(node Node) {
	if len(n.edges[node]) >= 3 {
		n.intersections[node] = struct{}{}
	} else {
		delete(n.intersections, node)
	}
}

func containsNode(nodes []Node, target Node) bool {
	for _, n := range nodes {
		if n == target {
			return true
		}
	}
	return false
}
