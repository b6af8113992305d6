package movement

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/roads"
	"github.com/ChicagoDave/gridcity/pkg/routing"
)

// ComputingPath marks a citizen whose route is being computed by a worker
// goroutine. The collector drains Result without blocking.
type ComputingPath struct {
	Result chan []roads.Node
	Target citizen.State
}

// Dispatcher turns PathRequest components into path computations against
// the current road snapshot. Each request resolves its endpoints to the
// nearest road cells, then either spawns a worker goroutine (the snapshot
// is immutable, so workers share it freely) or, in synchronous mode,
// computes inline under a small time budget.
type Dispatcher struct {
	requests  ecs.Filter2[citizen.PathRequest, citizen.StateComp]
	reqMap    ecs.Map[citizen.PathRequest]
	computing ecs.Map[ComputingPath]
	paths     ecs.Map[citizen.PathCache]
	states    ecs.Map[citizen.StateComp]

	// Sync disables worker goroutines; paths compute inline until the
	// budget runs out. Deterministic runs and tests use this.
	Sync bool
}

// NewDispatcher creates the path dispatcher for a world.
func NewDispatcher(w *ecs.World) *Dispatcher {
	return &Dispatcher{
		requests:  *ecs.NewFilter2[citizen.PathRequest, citizen.StateComp](w),
		reqMap:    ecs.NewMap[citizen.PathRequest](w),
		computing: ecs.NewMap[ComputingPath](w),
		paths:     ecs.NewMap[citizen.PathCache](w),
		states:    ecs.NewMap[citizen.StateComp](w),
	}
}

type dispatched struct {
	entity ecs.Entity
	start  roads.Node
	goal   roads.Node
	target citizen.State
	failed bool
}

// Dispatch consumes up to MaxRequestsPerTick path requests. Requests whose
// endpoints have no road within reach fail immediately and the citizen
// stays put.
func (d *Dispatcher) Dispatch(snap *routing.Snapshot, g *grid.Grid, p *params.PathfindingParams) int {
	var batch []dispatched

	query := d.requests.Query()
	for query.Next() {
		if len(batch) >= p.MaxRequestsPerTick {
			continue
		}
		req, _ := query.Get()
		item := dispatched{entity: query.Entity(), target: req.TargetState}

		start, okStart := routing.NearestRoad(g, req.FromX, req.FromY)
		goal, okGoal := routing.NearestRoad(g, req.ToX, req.ToY)
		if !okStart || !okGoal {
			item.failed = true
		} else {
			item.start, item.goal = start, goal
		}
		batch = append(batch, item)
	}

	if d.Sync {
		d.runSync(snap, batch, p)
	} else {
		d.runAsync(snap, batch)
	}
	return len(batch)
}

func (d *Dispatcher) runAsync(snap *routing.Snapshot, batch []dispatched) {
	for _, item := range batch {
		d.reqMap.Remove(item.entity)
		if item.failed {
			continue
		}
		ch := make(chan []roads.Node, 1)
		start, goal := item.start, item.goal
		go func() {
			ch <- snap.FindPath(start, goal)
		}()
		d.computing.Add(item.entity, &ComputingPath{Result: ch, Target: item.target})
	}
}

// runSync computes paths inline. Once the budget is spent the remaining
// requests are left in place for the next tick.
func (d *Dispatcher) runSync(snap *routing.Snapshot, batch []dispatched, p *params.PathfindingParams) {
	budget := time.Duration(p.SyncBudgetMillis * float64(time.Millisecond))
	deadline := time.Now().Add(budget)

	for i, item := range batch {
		if i > 0 && budget > 0 && time.Now().After(deadline) {
			break
		}
		d.reqMap.Remove(item.entity)
		if item.failed {
			continue
		}
		d.apply(item.entity, snap.FindPath(item.start, item.goal), item.target)
	}
}

// apply installs a computed path, or abandons the trip when none exists.
func (d *Dispatcher) apply(entity ecs.Entity, path []roads.Node, target citizen.State) {
	if path == nil {
		return
	}
	if d.paths.Has(entity) {
		*d.paths.Get(entity) = citizen.NewPathCache(path)
	} else {
		pc := citizen.NewPathCache(path)
		d.paths.Add(entity, &pc)
	}
	d.setState(entity, target)
}

func (d *Dispatcher) setState(entity ecs.Entity, target citizen.State) {
	if d.states.Has(entity) {
		d.states.Get(entity).State = target
	}
}
