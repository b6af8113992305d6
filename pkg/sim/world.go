package sim

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/buildings"
	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/economy"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/movement"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/roads"
	"github.com/ChicagoDave/gridcity/pkg/routing"
	"github.com/ChicagoDave/gridcity/pkg/services"
	"github.com/ChicagoDave/gridcity/pkg/weather"
	"github.com/ChicagoDave/gridcity/pkg/zones"
)

// Event is a notification published for subscribers outside the core, such
// as the websocket hub.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// World owns every simulation resource and steps the systems in a fixed
// dependency order. One World is one city.
type World struct {
	ECS      *ecs.World
	Grid     *grid.Grid
	Network  *roads.Network
	Segments *roads.Store
	Traffic  *routing.TrafficGrid
	Trees    *grid.BitGrid
	Params   *params.Params
	Clock    Clock
	Weather  *weather.Weather
	Budget   *economy.Budget
	Market   *economy.Market
	Demand   zones.Demand
	Placer   *services.Placer

	growth       *buildings.Growth
	spawner      *buildings.Spawner
	census       *buildings.Census
	coverage     *services.Coverage
	destinations *movement.DestinationCache
	stateMachine *movement.StateMachine
	dispatcher   *movement.Dispatcher
	collector    *movement.Collector
	mover        *movement.Mover
	invalidator  *movement.Invalidator
	needsDecay   *movement.NeedsDecay

	workers      ecs.Filter2[citizen.Details, citizen.WorkLocation]
	residents    ecs.Filter2[citizen.Details, citizen.Needs]
	homes        ecs.Filter1[citizen.HomeLocation]
	servicePlots ecs.Filter1[services.Building]
	workMap      ecs.Map[citizen.WorkLocation]
	serviceMap   ecs.Map[services.Building]

	Dirty *grid.DirtyTracker

	snapshot        *routing.Snapshot
	snapshotVersion uint64
	destDirty       bool
	lastHour        int
	lastStats       *zones.Stats

	events []Event
	log    *slog.Logger
}

// New builds a fresh city from the parameter set: starter terrain, the
// configured climate, a funded treasury and an empty road network.
func New(p *params.Params, logger *slog.Logger, seed int64) *World {
	if logger == nil {
		logger = slog.Default()
	}
	eworld := ecs.NewWorld()
	ew := &eworld
	g := grid.New(p.World.Width, p.World.Height)
	grid.GenerateStarterTerrain(g)

	w := &World{
		ECS:      ew,
		Grid:     g,
		Network:  roads.NewNetwork(),
		Segments: roads.NewStore(),
		Traffic:  routing.NewTrafficGrid(g.Width, g.Height),
		Trees:    grid.NewBitGrid(g.Width, g.Height),
		Params:   p,
		Clock:    NewClock(),
		Weather:  weather.New(weather.ParseZone(p.Climate)),
		Budget:   economy.NewBudget(&p.Economy),
		Market:   economy.NewMarket(),
		Placer:   services.NewPlacer(ew),

		growth:       buildings.NewGrowth(ew),
		spawner:      buildings.NewSpawner(ew, seed),
		census:       buildings.NewCensus(ew),
		coverage:     services.NewCoverage(ew),
		destinations: movement.NewDestinationCache(ew),
		stateMachine: movement.NewStateMachine(ew),
		dispatcher:   movement.NewDispatcher(ew),
		collector:    movement.NewCollector(ew),
		mover:        movement.NewMover(ew),
		invalidator:  movement.NewInvalidator(ew),
		needsDecay:   movement.NewNeedsDecay(ew),

		workers:      *ecs.NewFilter2[citizen.Details, citizen.WorkLocation](ew),
		residents:    *ecs.NewFilter2[citizen.Details, citizen.Needs](ew),
		homes:        *ecs.NewFilter1[citizen.HomeLocation](ew),
		servicePlots: *ecs.NewFilter1[services.Building](ew),
		workMap:      ecs.NewMap[citizen.WorkLocation](ew),
		serviceMap:   ecs.NewMap[services.Building](ew),

		Dirty: grid.NewDirtyTracker(),

		snapshot:  routing.EmptySnapshot(),
		lastHour:  -1,
		lastStats: &zones.Stats{},
		log:       logger,
	}
	w.log.Info("world created",
		"width", g.Width, "height", g.Height,
		"climate", w.Weather.Zone.Name(),
		"treasury", w.Budget.Treasury)
	return w
}

// Step runs one simulation tick in the fixed system order: path
// invalidation, destination cache, citizen state machine, snapshot rebuild,
// path dispatch and collection, movement, then the slow-frequency
// subsystems on slow-tick boundaries. Does nothing while paused.
func (w *World) Step() {
	if !w.Clock.Advance(&w.Params.Clock) {
		return
	}
	tick := w.Clock.Tick
	slow := w.Clock.IsSlowTick(&w.Params.Clock)

	w.invalidator.Update(w.Network)

	if w.destDirty || slow {
		w.destinations.Refresh()
		w.destDirty = false
	}

	w.stateMachine.Update(w.destinations, &w.Params.Citizens, w.Clock.TimeOfDay())

	w.snapshotVersion++
	w.snapshot = routing.BuildSnapshot(w.Network, w.Grid, w.Traffic, w.Params, w.snapshotVersion)

	w.dispatcher.Dispatch(w.snapshot, w.Grid, &w.Params.Pathfinding)
	w.collector.Collect()
	w.mover.Update(w.Params, w.Grid, w.Traffic, w.Weather.TravelMultiplier(), tick)
	w.tickConstruction(tick)

	if hour := w.Clock.HourOfDay(); hour != w.lastHour {
		w.needsDecay.Update()
		w.lastHour = hour
	}

	if slow {
		w.slowTick(tick)
	}
}

// Snapshot returns the pathfinding snapshot built during the latest tick.
func (w *World) Snapshot() *routing.Snapshot {
	return w.snapshot
}

// RefreshDerived recomputes everything derived from restored state:
// utility coverage, the destination cache, and the zone census. Save
// restore calls it once after all entities are spawned.
func (w *World) RefreshDerived() {
	w.coverage.Update(w.Grid)
	w.destinations.Refresh()
	w.destDirty = false
	w.lastStats = w.census.Collect(w.Network)
	w.Demand.Update(w.lastStats, &w.Params.Demand)
	w.lastHour = w.Clock.HourOfDay()
}

// CitizenCount returns the number of live citizen entities.
func (w *World) CitizenCount() int {
	count := 0
	query := w.homes.Query()
	for query.Next() {
		count++
	}
	return count
}

// Stats returns the zone census collected on the latest slow tick.
func (w *World) Stats() *zones.Stats {
	return w.lastStats
}

// DrainEvents returns the events published since the last drain.
func (w *World) DrainEvents() []Event {
	out := w.events
	w.events = nil
	return out
}

func (w *World) publish(kind string, payload any) {
	w.events = append(w.events, Event{Type: kind, Payload: payload})
}

// tickConstruction advances building sites, throttled by the weather's
// construction speed factor. The tick-phase compare turns a fractional
// factor into a deterministic duty cycle.
func (w *World) tickConstruction(tick uint64) {
	factor := w.Weather.ConstructionSpeedFactor()
	if float64(tick%100)/100 < factor {
		w.growth.TickConstruction()
	}
}

func (w *World) slowTick(tick uint64) {
	w.Traffic.Decay(w.Params.Pathfinding.TrafficDecayDivisor)
	w.coverage.Update(w.Grid)

	stats := w.census.Collect(w.Network)
	w.Demand.Update(stats, &w.Params.Demand)
	w.lastStats = stats

	if w.growth.Update(w.Grid, &w.Demand, &w.Params.Buildings, tick) > 0 {
		w.destDirty = true
	}
	w.growth.UpgradeFull(&w.Demand)
	w.spawner.Update(&w.Params.Spawner, tick)
	w.cullOrphans()

	production, consumption := goodsFlow(stats)
	w.Market.Update(tick, production, consumption)
	w.Budget.Treasury += tradeBalance(w.Market, production, consumption)

	if ch := w.Weather.Update(w.Clock.Day, w.Clock.HourOfDay()); ch != nil {
		w.publish("weather_change", ch)
		if ch.IsExtreme {
			w.log.Info("extreme weather",
				"condition", ch.NewCondition.String(),
				"day", w.Clock.Day)
		}
	}

	if col := w.Budget.CollectTaxes(w.Clock.Day, w.totalSalaries(), w.maintenance(), &w.Params.Economy); col != nil {
		w.publish("tax_collection", col)
		w.log.Info("taxes collected",
			"day", col.Day,
			"revenue", col.TaxRevenue,
			"maintenance", col.Maintenance,
			"treasury", w.Budget.Treasury)
	}

	w.driftHappiness()
}

// cullOrphans removes citizens whose home building was bulldozed and
// releases job slots tied to demolished workplaces.
func (w *World) cullOrphans() {
	var gone []ecs.Entity
	var jobless []ecs.Entity

	query := w.homes.Query()
	for query.Next() {
		entity := query.Entity()
		home := query.Get()
		if !w.ECS.Alive(home.Building) {
			gone = append(gone, entity)
			continue
		}
		if w.workMap.Has(entity) {
			if work := w.workMap.Get(entity); !w.ECS.Alive(work.Building) {
				jobless = append(jobless, entity)
			}
		}
	}

	for _, e := range jobless {
		w.workMap.Remove(e)
	}
	for _, e := range gone {
		w.ECS.RemoveEntity(e)
	}
}

// driftHappiness eases each citizen's happiness toward their needs
// satisfaction plus the weather's mood contribution.
func (w *World) driftHappiness() {
	mod := w.Weather.HappinessModifier()
	query := w.residents.Query()
	for query.Next() {
		details, needs := query.Get()
		target := needs.OverallSatisfaction()*100 + mod
		if target < 0 {
			target = 0
		} else if target > 100 {
			target = 100
		}
		details.Happiness += (target - details.Happiness) * 0.1
	}
}

func (w *World) totalSalaries() float64 {
	var sum float64
	query := w.workers.Query()
	for query.Next() {
		details, _ := query.Get()
		sum += details.Salary
	}
	return sum
}

// maintenance sums the monthly upkeep of every road cell and placed
// service building.
func (w *World) maintenance() float64 {
	var sum float64
	for i := range w.Grid.Cells {
		c := &w.Grid.Cells[i]
		if c.Type == grid.Road {
			sum += w.Params.Roads.ForType(c.Road).Maintenance
		}
	}
	query := w.servicePlots.Query()
	for query.Next() {
		sum += query.Get().Type.Maintenance()
	}
	return sum
}

// goodsFlow derives commodity production and consumption proxies from the
// zone census: industry produces, population consumes.
func goodsFlow(s *zones.Stats) (production, consumption [economy.GoodCount]float64) {
	ind := float64(s.IndustrialOccupants)
	pop := float64(s.Population)

	production[economy.RawFood] = ind * 0.05
	production[economy.ProcessedFood] = ind * 0.04
	production[economy.Lumber] = ind * 0.04
	production[economy.Steel] = ind * 0.03
	production[economy.Fuel] = ind * 0.03
	production[economy.Electronics] = ind * 0.02
	production[economy.ConsumerGoods] = ind * 0.03

	consumption[economy.RawFood] = pop * 0.02
	consumption[economy.ProcessedFood] = pop * 0.03
	consumption[economy.Lumber] = pop * 0.005
	consumption[economy.Steel] = pop * 0.003
	consumption[economy.Fuel] = pop * 0.01
	consumption[economy.Electronics] = pop * 0.005
	consumption[economy.ConsumerGoods] = pop * 0.02
	return production, consumption
}

// tradeBalance converts the net goods surplus at current prices into a
// small per-slow-tick treasury contribution.
func tradeBalance(m *economy.Market, production, consumption [economy.GoodCount]float64) float64 {
	var net float64
	for _, g := range economy.Goods {
		net += (production[g] - consumption[g]) * m.Price(g)
	}
	return net * 0.01
}
