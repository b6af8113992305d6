package routing

import (
	"container/heap"
	"math"

	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// FindPath runs weighted A* from start to goal over the snapshot and
// returns the node sequence including both endpoints. Returns nil when
// either endpoint is not a road node or no route exists. Safe for
// concurrent use: the snapshot is never written.
func (s *Snapshot) FindPath(start, goal roads.Node) []roads.Node {
	startIdx, ok := s.Graph.FindNodeIndex(start)
	if !ok {
		return nil
	}
	goalIdx, ok := s.Graph.FindNodeIndex(goal)
	if !ok {
		return nil
	}
	if startIdx == goalIdx {
		return []roads.Node{start}
	}

	n := len(s.Graph.Nodes)
	gScore := make([]float64, n)
	cameFrom := make([]int32, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		cameFrom[i] = -1
	}
	gScore[startIdx] = 0

	goalNode := s.Graph.Nodes[goalIdx]

	open := &nodeQueue{}
	heap.Init(open)
	heap.Push(open, queued{idx: startIdx, priority: s.heuristic(start, goalNode)})

	for open.Len() > 0 {
		current := heap.Pop(open).(queued)
		if current.idx == goalIdx {
			return s.reconstruct(cameFrom, goalIdx)
		}
		if closed[current.idx] {
			continue
		}
		closed[current.idx] = true

		from := int(s.Graph.NodeOffsets[current.idx])
		to := int(s.Graph.NodeOffsets[current.idx+1])
		for pos := from; pos < to; pos++ {
			nb := s.Graph.Edges[pos]
			if closed[nb] {
				continue
			}
			tentative := gScore[current.idx] + s.edgeCost(pos, nb)
			if tentative < gScore[nb] {
				gScore[nb] = tentative
				cameFrom[nb] = int32(current.idx)
				f := tentative + s.heuristic(s.Graph.Nodes[nb], goalNode)
				heap.Push(open, queued{idx: nb, priority: f})
			}
		}
	}
	return nil
}

// heuristic is the Euclidean distance to the goal scaled by the cheapest
// per-cell cost, which keeps it admissible under every road class.
func (s *Snapshot) heuristic(from, goal roads.Node) float64 {
	dx := float64(from.X - goal.X)
	dy := float64(from.Y - goal.Y)
	return math.Sqrt(dx*dx+dy*dy) * s.minWeight
}

func (s *Snapshot) reconstruct(cameFrom []int32, goalIdx uint32) []roads.Node {
	var path []roads.Node
	for at := int32(goalIdx); at >= 0; at = cameFrom[at] {
		path = append(path, s.Graph.Nodes[at])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type queued struct {
	idx      uint32
	priority float64
}

type nodeQueue []queued

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queued)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
