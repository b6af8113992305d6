package movement

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/routing"
)

// arrivalSlack keeps slow walkers from orbiting a waypoint they can never
// land on exactly.
const arrivalSlack = 2.0

// laneSpacing is the world-unit offset between the three walking lanes.
const laneSpacing = 2.5

// Mover advances commuting citizens along their cached waypoints. Speed
// comes from the road class under the citizen's feet; weather scales it
// down. Each waypoint reached feeds the traffic grid, which in turn feeds
// the next snapshot's congestion weights.
type Mover struct {
	citizens ecs.Filter4[citizen.Position, citizen.Velocity, citizen.PathCache, citizen.StateComp]
	lod      ecs.Map[citizen.LOD]
}

// NewMover creates the movement system for a world.
func NewMover(w *ecs.World) *Mover {
	return &Mover{
		citizens: *ecs.NewFilter4[citizen.Position, citizen.Velocity, citizen.PathCache, citizen.StateComp](w),
		lod:      ecs.NewMap[citizen.LOD](w),
	}
}

// Update moves every commuting citizen one tick. travelMult folds weather
// into speed; zero freezes all movement. Reduced-detail citizens step
// every other tick at doubled speed, so they cover the same ground at half
// the cost.
func (m *Mover) Update(p *params.Params, g *grid.Grid, traffic *routing.TrafficGrid, travelMult float64, tick uint64) {
	ticksPerSecond := float64(p.Clock.TicksPerSecond)
	if ticksPerSecond <= 0 {
		ticksPerSecond = 1
	}

	query := m.citizens.Query()
	for query.Next() {
		pos, vel, path, st := query.Get()

		if !st.State.IsCommuting() {
			vel.X, vel.Y = 0, 0
			continue
		}

		stride := 1.0
		if m.lod.Has(query.Entity()) {
			switch m.lod.Get(query.Entity()).Tier {
			case citizen.LODAbstract:
				vel.X, vel.Y = 0, 0
				continue
			case citizen.LODReduced:
				if tick%2 != uint64(query.Entity().ID())%2 {
					continue
				}
				stride = 2.0
			}
		}

		target, ok := path.CurrentTarget()
		if !ok {
			vel.X, vel.Y = 0, 0
			continue
		}

		speed := m.speedAt(p, g, pos)
		eff := speed / ticksPerSecond * travelMult * stride
		if eff <= 0 {
			vel.X, vel.Y = 0, 0
			continue
		}

		tw := grid.GridToWorld(target.X, target.Y)
		dx, dy := tw.X-pos.X, tw.Y-pos.Y
		rawDist := math.Hypot(dx, dy)

		if rawDist <= math.Max(eff, arrivalSlack) {
			pos.X, pos.Y = tw.X, tw.Y
			path.Advance()
			traffic.Increment(target.X, target.Y)
			continue
		}

		// Aim slightly toward the following waypoint so corners round
		// off instead of snapping.
		sx, sy := tw.X, tw.Y
		if next, ok := path.PeekNext(); ok {
			nw := grid.GridToWorld(next.X, next.Y)
			sx += (nw.X - tw.X) * 0.075
			sy += (nw.Y - tw.Y) * 0.075
		}

		// Offset into one of three lanes, fading out near the waypoint.
		lane := float64(int(query.Entity().ID())%3-1) * laneSpacing
		if lane != 0 {
			fade := math.Min(1, speed/rawDist) * 0.02
			// Perpendicular of the travel direction.
			sx += -dy / rawDist * lane * fade * rawDist
			sy += dx / rawDist * lane * fade * rawDist
		}

		ddx, ddy := sx-pos.X, sy-pos.Y
		d := math.Hypot(ddx, ddy)
		if d == 0 {
			vel.X, vel.Y = 0, 0
			continue
		}
		vel.X = ddx / d * eff
		vel.Y = ddy / d * eff
		pos.X += vel.X
		pos.Y += vel.Y
	}
}

// speedAt returns the citizen's speed in world units per second at their
// current cell: the road class speed on roads, base walking speed
// elsewhere.
func (m *Mover) speedAt(p *params.Params, g *grid.Grid, pos *citizen.Position) float64 {
	gx, gy := grid.WorldToGrid(pos.X, pos.Y)
	if g.InBounds(gx, gy) {
		cell := g.At(gx, gy)
		if cell.Type == grid.Road {
			return p.Roads.ForType(cell.Road).Speed
		}
	}
	return p.Citizens.Speed
}
