package movement

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// Invalidator cancels routes that cross roads removed since the last tick.
// Affected commuters lose their path and fall back to AtHome; the state
// machine replans them on its next pass.
type Invalidator struct {
	commuters ecs.Filter2[citizen.PathCache, citizen.StateComp]
}

// NewInvalidator creates the path invalidator for a world.
func NewInvalidator(w *ecs.World) *Invalidator {
	return &Invalidator{
		commuters: *ecs.NewFilter2[citizen.PathCache, citizen.StateComp](w),
	}
}

// Update drains the network's removal log and clears every stale path.
// Returns how many paths were cancelled.
func (iv *Invalidator) Update(network *roads.Network) int {
	removed := network.DrainRemoved()
	if len(removed) == 0 {
		return 0
	}
	gone := make(map[roads.Node]struct{}, len(removed))
	for _, node := range removed {
		gone[node] = struct{}{}
	}

	cancelled := 0
	query := iv.commuters.Query()
	for query.Next() {
		path, st := query.Get()
		if len(path.Waypoints) == 0 {
			continue
		}
		stale := false
		for _, wp := range path.Waypoints[min(path.CurrentIndex, len(path.Waypoints)):] {
			if _, hit := gone[wp]; hit {
				stale = true
				break
			}
		}
		if !stale {
			continue
		}
		path.Clear()
		if st.State.IsCommuting() {
			st.State = citizen.AtHome
		}
		cancelled++
	}
	return cancelled
}
