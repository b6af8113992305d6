package movement

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
)

// NeedsDecay erodes citizen needs once per simulated hour. Being home
// restores rest and comfort; everything else drains slowly until low needs
// push the state machine into errands.
type NeedsDecay struct {
	citizens ecs.Filter2[citizen.Needs, citizen.StateComp]
}

// NewNeedsDecay creates the needs system for a world.
func NewNeedsDecay(w *ecs.World) *NeedsDecay {
	return &NeedsDecay{
		citizens: *ecs.NewFilter2[citizen.Needs, citizen.StateComp](w),
	}
}

// Update applies one hour of need drift.
func (n *NeedsDecay) Update() {
	query := n.citizens.Query()
	for query.Next() {
		needs, st := query.Get()

		needs.Hunger = clampNeed(needs.Hunger - 3)
		needs.Social = clampNeed(needs.Social - 1.5)

		switch st.State {
		case citizen.AtHome:
			needs.Energy = clampNeed(needs.Energy + 4)
			needs.Comfort = clampNeed(needs.Comfort + 3)
			needs.Fun = clampNeed(needs.Fun - 1)
		case citizen.AtLeisure:
			needs.Energy = clampNeed(needs.Energy - 2)
		case citizen.Working, citizen.AtSchool:
			needs.Energy = clampNeed(needs.Energy - 2)
			needs.Fun = clampNeed(needs.Fun - 3)
			needs.Comfort = clampNeed(needs.Comfort - 1)
		default:
			needs.Energy = clampNeed(needs.Energy - 2)
			needs.Fun = clampNeed(needs.Fun - 2)
			needs.Comfort = clampNeed(needs.Comfort - 1)
		}
	}
}

func clampNeed(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
