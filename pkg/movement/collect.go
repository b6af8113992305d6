package movement

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// Collector drains finished path computations back into the world. Results
// are received without blocking; a computation still running simply waits
// another tick.
type Collector struct {
	computing ecs.Filter1[ComputingPath]
	compMap   ecs.Map[ComputingPath]
	paths     ecs.Map[citizen.PathCache]
	states    ecs.Map[citizen.StateComp]
}

// NewCollector creates the result collector for a world.
func NewCollector(w *ecs.World) *Collector {
	return &Collector{
		computing: *ecs.NewFilter1[ComputingPath](w),
		compMap:   ecs.NewMap[ComputingPath](w),
		paths:     ecs.NewMap[citizen.PathCache](w),
		states:    ecs.NewMap[citizen.StateComp](w),
	}
}

type pathResult struct {
	entity ecs.Entity
	path   []roads.Node
	target citizen.State
}

// Collect applies every finished computation: the path lands in the
// citizen's PathCache and the commute state begins. A failed computation
// abandons the trip and leaves the citizen in their current state.
func (c *Collector) Collect() int {
	var done []pathResult

	query := c.computing.Query()
	for query.Next() {
		comp := query.Get()
		select {
		case path := <-comp.Result:
			done = append(done, pathResult{
				entity: query.Entity(),
				path:   path,
				target: comp.Target,
			})
		default:
		}
	}

	for _, r := range done {
		c.compMap.Remove(r.entity)
		if r.path == nil {
			continue
		}
		if c.paths.Has(r.entity) {
			*c.paths.Get(r.entity) = citizen.NewPathCache(r.path)
		} else {
			pc := citizen.NewPathCache(r.path)
			c.paths.Add(r.entity, &pc)
		}
		if c.states.Has(r.entity) {
			c.states.Get(r.entity).State = r.target
		}
	}
	return len(done)
}

// PendingCount reports how many computations are still in flight.
func (c *Collector) PendingCount() int {
	n := 0
	query := c.computing.Query()
	for query.Next() {
		n++
	}
	return n
}
