package movement

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
)

// TimeOfDay is the clock reading the state machine decides against.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// MorningCommute reports whether workers should head to work.
func (t TimeOfDay) MorningCommute() bool { return t.Hour >= 6 && t.Hour < 9 }

// EveningCommute reports whether workers should head home.
func (t TimeOfDay) EveningCommute() bool { return t.Hour >= 16 && t.Hour < 19 }

// Search radii in cells for each errand, from the citizen's current spot.
const (
	schoolSearchRadius       = 30
	shopSearchRadius         = 25
	leisureSearchRadius      = 25
	afterWorkShopRadius      = 20
	afterWorkLeisureRadius   = 20
	errandStartHour          = 10
	errandEndHour            = 20
	leisureCurfewHour        = 21
	hungerErrandThreshold    = 40
	funErrandThreshold       = 30
	hungerAfterWorkThreshold = 35
	funAfterWorkThreshold    = 25
)

// decisionInterval spreads decision checks across the hour so the whole
// population does not re-plan on the same tick.
const decisionInterval = 120

type pendingRequest struct {
	entity ecs.Entity
	req    citizen.PathRequest
}

type timerOp struct {
	entity ecs.Entity
	ticks  int
	remove bool
}

// StateMachine advances every citizen's activity state. Decisions that
// start a trip emit PathRequest components; the dispatcher resolves them
// into paths.
type StateMachine struct {
	citizens  ecs.Filter5[citizen.StateComp, citizen.Position, citizen.HomeLocation, citizen.Details, citizen.Needs]
	paths     ecs.Map[citizen.PathCache]
	work      ecs.Map[citizen.WorkLocation]
	requests  ecs.Map[citizen.PathRequest]
	computing ecs.Map[ComputingPath]
	timers    ecs.Map[citizen.ActivityTimer]
	lod       ecs.Map[citizen.LOD]
}

// NewStateMachine creates the state machine system for a world.
func NewStateMachine(w *ecs.World) *StateMachine {
	return &StateMachine{
		citizens:  *ecs.NewFilter5[citizen.StateComp, citizen.Position, citizen.HomeLocation, citizen.Details, citizen.Needs](w),
		paths:     ecs.NewMap[citizen.PathCache](w),
		work:      ecs.NewMap[citizen.WorkLocation](w),
		requests:  ecs.NewMap[citizen.PathRequest](w),
		computing: ecs.NewMap[ComputingPath](w),
		timers:    ecs.NewMap[citizen.ActivityTimer](w),
		lod:       ecs.NewMap[citizen.LOD](w),
	}
}

// Update runs one pass over all citizens. Activity timers and trip
// completions apply every tick; new trip decisions are jittered across the
// hour by entity ID.
func (m *StateMachine) Update(dest *DestinationCache, p *params.CitizenParams, now TimeOfDay) {
	var pending []pendingRequest
	var timerOps []timerOp

	query := m.citizens.Query()
	for query.Next() {
		st, pos, home, details, needs := query.Get()
		entity := query.Entity()

		if m.requests.Has(entity) || m.computing.Has(entity) {
			continue
		}

		if m.lod.Has(entity) && m.lod.Get(entity).Tier == citizen.LODAbstract {
			m.teleport(entity, st, pos, home, now)
			continue
		}

		if st.State.IsCommuting() {
			m.arrive(entity, st, pos, home, p, now, &timerOps)
			continue
		}

		switch st.State {
		case citizen.Shopping:
			if m.tickTimer(entity, &timerOps) {
				needs.Hunger = 100
				pending = m.requestHome(pending, entity, pos, home)
			}
			continue
		case citizen.AtLeisure:
			if m.tickTimer(entity, &timerOps) || now.Hour >= leisureCurfewHour {
				needs.Fun = 90
				needs.Social = min100(needs.Social + 30)
				timerOps = append(timerOps, timerOp{entity: entity, remove: true})
				pending = m.requestHome(pending, entity, pos, home)
			}
			continue
		case citizen.AtSchool:
			if now.Hour >= p.SchoolEndHour {
				pending = m.requestHome(pending, entity, pos, home)
			}
			continue
		}

		// Decision states below are jittered.
		jitter := int(entity.ID()) % decisionInterval
		if now.Minute%60 != jitter%60 {
			continue
		}

		switch st.State {
		case citizen.AtHome:
			pending = m.decideAtHome(pending, entity, pos, home, details, needs, dest, p, now)
		case citizen.Working:
			if now.EveningCommute() {
				pending = m.decideAfterWork(pending, entity, pos, home, needs, dest)
			}
		}
	}

	for _, op := range timerOps {
		if op.remove {
			if m.timers.Has(op.entity) {
				m.timers.Remove(op.entity)
			}
			continue
		}
		if m.timers.Has(op.entity) {
			m.timers.Get(op.entity).RemainingTicks = op.ticks
		} else {
			m.timers.Add(op.entity, &citizen.ActivityTimer{RemainingTicks: op.ticks})
		}
	}
	for _, pr := range pending {
		req := pr.req
		m.requests.Add(pr.entity, &req)
	}
}

func (m *StateMachine) decideAtHome(
	pending []pendingRequest,
	entity ecs.Entity,
	pos *citizen.Position,
	home *citizen.HomeLocation,
	details *citizen.Details,
	needs *citizen.Needs,
	dest *DestinationCache,
	p *params.CitizenParams,
	now TimeOfDay,
) []pendingRequest {
	gx, gy := grid.WorldToGrid(pos.X, pos.Y)

	if details.LifeStage().AttendsSchool() &&
		now.Hour >= p.SchoolStartHour && now.Hour < p.SchoolEndHour {
		if school, ok := dest.NearestSchool(gx, gy, schoolSearchRadius); ok {
			return append(pending, pendingRequest{entity, citizen.PathRequest{
				FromX: gx, FromY: gy, ToX: school.GridX, ToY: school.GridY,
				TargetState: citizen.CommutingToSchool,
			}})
		}
		return pending
	}

	if now.MorningCommute() && m.work.Has(entity) {
		work := m.work.Get(entity)
		return append(pending, pendingRequest{entity, citizen.PathRequest{
			FromX: gx, FromY: gy, ToX: work.GridX, ToY: work.GridY,
			TargetState: citizen.CommutingToWork,
		}})
	}

	if now.Hour >= errandStartHour && now.Hour <= errandEndHour {
		if needs.Hunger < hungerErrandThreshold {
			if shop, ok := dest.NearestShop(gx, gy, shopSearchRadius); ok {
				return append(pending, pendingRequest{entity, citizen.PathRequest{
					FromX: gx, FromY: gy, ToX: shop.GridX, ToY: shop.GridY,
					TargetState: citizen.CommutingToShop,
				}})
			}
		}
		if needs.Fun < funErrandThreshold || needs.Social < funErrandThreshold {
			if spot, ok := dest.NearestLeisure(gx, gy, leisureSearchRadius); ok {
				return append(pending, pendingRequest{entity, citizen.PathRequest{
					FromX: gx, FromY: gy, ToX: spot.GridX, ToY: spot.GridY,
					TargetState: citizen.CommutingToLeisure,
				}})
			}
		}
	}
	return pending
}

func (m *StateMachine) decideAfterWork(
	pending []pendingRequest,
	entity ecs.Entity,
	pos *citizen.Position,
	home *citizen.HomeLocation,
	needs *citizen.Needs,
	dest *DestinationCache,
) []pendingRequest {
	gx, gy := grid.WorldToGrid(pos.X, pos.Y)

	if needs.Hunger < hungerAfterWorkThreshold {
		if shop, ok := dest.NearestShop(gx, gy, afterWorkShopRadius); ok {
			return append(pending, pendingRequest{entity, citizen.PathRequest{
				FromX: gx, FromY: gy, ToX: shop.GridX, ToY: shop.GridY,
				TargetState: citizen.CommutingToShop,
			}})
		}
	}
	if needs.Fun < funAfterWorkThreshold || needs.Social < funAfterWorkThreshold {
		if spot, ok := dest.NearestLeisure(gx, gy, afterWorkLeisureRadius); ok {
			return append(pending, pendingRequest{entity, citizen.PathRequest{
				FromX: gx, FromY: gy, ToX: spot.GridX, ToY: spot.GridY,
				TargetState: citizen.CommutingToLeisure,
			}})
		}
	}
	return m.requestHome(pending, entity, pos, home)
}

// arrive transitions a commuting citizen whose path is exhausted into the
// destination activity.
func (m *StateMachine) arrive(
	entity ecs.Entity,
	st *citizen.StateComp,
	pos *citizen.Position,
	home *citizen.HomeLocation,
	p *params.CitizenParams,
	now TimeOfDay,
	timerOps *[]timerOp,
) {
	if !m.paths.Has(entity) {
		return
	}
	path := m.paths.Get(entity)
	if !path.IsComplete() {
		return
	}
	path.Clear()

	switch st.State {
	case citizen.CommutingToWork:
		st.State = citizen.Working
		if m.work.Has(entity) {
			work := m.work.Get(entity)
			wp := grid.GridToWorld(work.GridX, work.GridY)
			pos.X, pos.Y = wp.X, wp.Y
		}
	case citizen.CommutingHome:
		st.State = citizen.AtHome
		hp := grid.GridToWorld(home.GridX, home.GridY)
		pos.X, pos.Y = hp.X, hp.Y
	case citizen.CommutingToShop:
		st.State = citizen.Shopping
		*timerOps = append(*timerOps, timerOp{entity: entity, ticks: p.ShoppingDurationTicks})
	case citizen.CommutingToLeisure:
		st.State = citizen.AtLeisure
		*timerOps = append(*timerOps, timerOp{entity: entity, ticks: p.LeisureDurationTicks})
	case citizen.CommutingToSchool:
		st.State = citizen.AtSchool
	}
}

// teleport applies abstract-tier scheduling: no paths, just snap between
// home and work on the commute windows.
func (m *StateMachine) teleport(
	entity ecs.Entity,
	st *citizen.StateComp,
	pos *citizen.Position,
	home *citizen.HomeLocation,
	now TimeOfDay,
) {
	switch {
	case now.MorningCommute() && st.State == citizen.AtHome && m.work.Has(entity):
		work := m.work.Get(entity)
		wp := grid.GridToWorld(work.GridX, work.GridY)
		pos.X, pos.Y = wp.X, wp.Y
		st.State = citizen.Working
	case now.EveningCommute() && st.State == citizen.Working:
		hp := grid.GridToWorld(home.GridX, home.GridY)
		pos.X, pos.Y = hp.X, hp.Y
		st.State = citizen.AtHome
	}
}

// tickTimer counts the entity's activity timer down one tick and reports
// whether it just expired. An absent timer counts as expired.
func (m *StateMachine) tickTimer(entity ecs.Entity, ops *[]timerOp) bool {
	if !m.timers.Has(entity) {
		return true
	}
	timer := m.timers.Get(entity)
	timer.RemainingTicks--
	if timer.RemainingTicks > 0 {
		return false
	}
	*ops = append(*ops, timerOp{entity: entity, remove: true})
	return true
}

func (m *StateMachine) requestHome(pending []pendingRequest, entity ecs.Entity, pos *citizen.Position, home *citizen.HomeLocation) []pendingRequest {
	gx, gy := grid.WorldToGrid(pos.X, pos.Y)
	return append(pending, pendingRequest{entity, citizen.PathRequest{
		FromX: gx, FromY: gy, ToX: home.GridX, ToY: home.GridY,
		TargetState: citizen.CommutingHome,
	}})
}

func min100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
