package citizen

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/roads"
)

// Position is a citizen's world-space location.
type Position struct {
	X float64
	Y float64
}

// Velocity is the per-tick displacement applied last movement pass.
type Velocity struct {
	X float64
	Y float64
}

// HomeLocation ties a citizen to their residence.
type HomeLocation struct {
	GridX    int
	GridY    int
	Building ecs.Entity
}

// WorkLocation ties a citizen to their workplace. Absent on citizens who do
// not work.
type WorkLocation struct {
	GridX    int
	GridY    int
	Building ecs.Entity
}

// StateComp wraps the activity state as a component.
type StateComp struct {
	State State
}

// PathCache holds the waypoints of the citizen's current route and a cursor
// into them.
type PathCache struct {
	Waypoints    []roads.Node
	CurrentIndex int
}

// NewPathCache creates a cache positioned at the first waypoint.
func NewPathCache(waypoints []roads.Node) PathCache {
	return PathCache{Waypoints: waypoints}
}

// CurrentTarget returns the waypoint the citizen is heading for. The second
// result is false once the path is exhausted.
func (p *PathCache) CurrentTarget() (roads.Node, bool) {
	if p.CurrentIndex >= len(p.Waypoints) {
		return roads.Node{}, false
	}
	return p.Waypoints[p.CurrentIndex], true
}

// Advance moves the cursor to the next waypoint and reports whether one
// remains.
func (p *PathCache) Advance() bool {
	p.CurrentIndex++
	return p.CurrentIndex < len(p.Waypoints)
}

// IsComplete reports whether every waypoint has been consumed.
func (p *PathCache) IsComplete() bool {
	return p.CurrentIndex >= len(p.Waypoints)
}

// PeekNext returns the waypoint after the current one, used for path
// smoothing.
func (p *PathCache) PeekNext() (roads.Node, bool) {
	if p.CurrentIndex+1 >= len(p.Waypoints) {
		return roads.Node{}, false
	}
	return p.Waypoints[p.CurrentIndex+1], true
}

// Clear drops the route entirely.
func (p *PathCache) Clear() {
	p.Waypoints = nil
	p.CurrentIndex = 0
}

// Contains reports whether any remaining waypoint equals node.
func (p *PathCache) Contains(node roads.Node) bool {
	for _, wp := range p.Waypoints[min(p.CurrentIndex, len(p.Waypoints)):] {
		if wp == node {
			return true
		}
	}
	return false
}

// PathRequest asks the dispatcher for a route. The dispatcher computes the
// path, writes it into PathCache, transitions the citizen to TargetState,
// and removes this component.
type PathRequest struct {
	FromX       int
	FromY       int
	ToX         int
	ToY         int
	TargetState State
}

// ActivityTimer counts down ticks remaining in a timed activity such as
// shopping or leisure.
type ActivityTimer struct {
	RemainingTicks int
}

// LODTier controls how much simulation a citizen receives.
type LODTier uint8

const (
	// LODFull citizens move along real paths every tick.
	LODFull LODTier = 0
	// LODReduced citizens update at a lower cadence.
	LODReduced LODTier = 1
	// LODAbstract citizens skip movement and teleport on arrival windows.
	LODAbstract LODTier = 2
)

// LOD wraps the tier as a component.
type LOD struct {
	Tier LODTier
}

// Personality holds permanent traits rolled at spawn, each in [0.1, 1).
type Personality struct {
	Ambition    float64 // career and education drive
	Sociability float64 // social need weight
	Materialism float64 // money and housing weight
	Resilience  float64 // stress resistance
}

// PersonalityFromSeed derives a stable personality from a spawn seed, so
// reloading a save reproduces the same traits.
func PersonalityFromSeed(seed uint64) Personality {
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return 0.1 + 0.9*float64((seed>>16)&0xFFFF)/65536.0
	}
	return Personality{
		Ambition:    next(),
		Sociability: next(),
		Materialism: next(),
		Resilience:  next(),
	}
}

// Needs are Sims-style motives: 100 fully satisfied, 0 critical.
type Needs struct {
	Hunger  float64
	Energy  float64
	Social  float64
	Fun     float64
	Comfort float64
}

// DefaultNeeds returns the values citizens spawn with.
func DefaultNeeds() Needs {
	return Needs{Hunger: 80, Energy: 80, Social: 70, Fun: 70, Comfort: 60}
}

// OverallSatisfaction is the weighted average of all needs in [0, 1].
func (n *Needs) OverallSatisfaction() float64 {
	raw := n.Hunger*0.25 + n.Energy*0.25 + n.Social*0.15 + n.Fun*0.15 + n.Comfort*0.20
	v := raw / 100
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MostCritical returns the name and value of the lowest need.
func (n *Needs) MostCritical() (string, float64) {
	name, worst := "hunger", n.Hunger
	if n.Energy < worst {
		name, worst = "energy", n.Energy
	}
	if n.Social < worst {
		name, worst = "social", n.Social
	}
	if n.Fun < worst {
		name, worst = "fun", n.Fun
	}
	if n.Comfort < worst {
		name, worst = "comfort", n.Comfort
	}
	return name, worst
}

// Family links a citizen to their household. Zero entities mean the
// relation is absent.
type Family struct {
	Partner  ecs.Entity
	Parent   ecs.Entity
	Children []ecs.Entity
}
