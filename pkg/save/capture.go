package save

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/buildings"
	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/economy"
	"github.com/ChicagoDave/gridcity/pkg/services"
	"github.com/ChicagoDave/gridcity/pkg/sim"
)

// Capture collects a running world into a Save. The world must not be
// stepped concurrently.
func Capture(w *sim.World) *Save {
	s := &Save{Version: CurrentVersion, Extensions: map[string][]byte{}}

	captureGrid(w, s)
	captureEconomy(w, s)
	captureEntities(w, s)
	captureEnvironment(w, s)
	return s
}

func captureGrid(w *sim.World, s *Save) {
	g := w.Grid
	s.Grid.Width = g.Width
	s.Grid.Height = g.Height
	s.Grid.Cells = make([]CellRecord, len(g.Cells))
	for i := range g.Cells {
		c := &g.Cells[i]
		s.Grid.Cells[i] = CellRecord{
			Elevation: c.Elevation,
			Type:      uint8(c.Type),
			Zone:      uint8(c.Zone),
			Road:      uint8(c.Road),
			District:  c.District,
		}
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if w.Trees.Get(x, y) {
				s.Grid.Trees = append(s.Grid.Trees, [2]uint16{uint16(x), uint16(y)})
			}
		}
	}

	for _, n := range w.Segments.Nodes {
		s.Grid.SegmentNodes = append(s.Grid.SegmentNodes, SegmentNodeRecord{
			ID: uint32(n.ID), X: n.Position.X, Y: n.Position.Y,
		})
	}
	for _, seg := range w.Segments.Segments {
		s.Grid.Segments = append(s.Grid.Segments, SegmentRecord{
			ID:    uint32(seg.ID),
			Start: uint32(seg.Start),
			End:   uint32(seg.End),
			Control: [8]float64{
				seg.Curve.P0.X, seg.Curve.P0.Y,
				seg.Curve.P1.X, seg.Curve.P1.Y,
				seg.Curve.P2.X, seg.Curve.P2.Y,
				seg.Curve.P3.X, seg.Curve.P3.Y,
			},
			Road: uint8(seg.Road),
		})
	}
}

func captureEconomy(w *sim.World, s *Save) {
	s.Economy.Treasury = w.Budget.Treasury
	s.Economy.TaxRate = w.Budget.TaxRate
	s.Economy.LastCollectionDay = int32(w.Budget.LastCollectionDay)
	s.Economy.MarketCycle = w.Market.Cycle()
	for _, g := range economy.Goods {
		entry := w.Market.Prices[g]
		s.Economy.Goods[g] = MarketGoodRecord{
			Base: entry.Base, Current: entry.Current, Previous: entry.Previous,
		}
	}
	for _, ae := range w.Market.Active {
		s.Economy.Events = append(s.Economy.Events, MarketEventRecord{
			Event: uint8(ae.Event), Remaining: int32(ae.Remaining),
		})
	}
}

func captureEntities(w *sim.World, s *Save) {
	mixedMap := ecs.NewMap[buildings.MixedUse](w.ECS)
	constructionMap := ecs.NewMap[buildings.Construction](w.ECS)

	buildingIndex := map[ecs.Entity]int32{}
	buildingFilter := ecs.NewFilter1[buildings.Building](w.ECS)
	query := buildingFilter.Query()
	for query.Next() {
		b := query.Get()
		entity := query.Entity()

		rec := BuildingRecord{
			X:            int32(b.GridX),
			Y:            int32(b.GridY),
			Zone:         uint8(b.Zone),
			Level:        b.Level,
			Occupants:    int32(b.Occupants),
			Construction: -1,
		}
		if constructionMap.Has(entity) {
			rec.Construction = int32(constructionMap.Get(entity).TicksRemaining)
		}
		if mixedMap.Has(entity) {
			mu := mixedMap.Get(entity)
			rec.HasMixed = true
			rec.MixedComCap = int32(mu.CommercialCapacity)
			rec.MixedComOcc = int32(mu.CommercialOccupants)
			rec.MixedResCap = int32(mu.ResidentialCapacity)
			rec.MixedResOcc = int32(mu.ResidentialOccupants)
		}
		buildingIndex[entity] = int32(len(s.Entities.Buildings))
		s.Entities.Buildings = append(s.Entities.Buildings, rec)
	}

	serviceFilter := ecs.NewFilter1[services.Building](w.ECS)
	sq := serviceFilter.Query()
	for sq.Next() {
		sv := sq.Get()
		s.Entities.Services = append(s.Entities.Services, ServiceRecord{
			Type: uint8(sv.Type), X: int32(sv.GridX), Y: int32(sv.GridY),
		})
	}

	utilityFilter := ecs.NewFilter1[services.Source](w.ECS)
	uq := utilityFilter.Query()
	for uq.Next() {
		u := uq.Get()
		s.Entities.Utilities = append(s.Entities.Utilities, UtilityRecord{
			Type: uint8(u.Type), X: int32(u.GridX), Y: int32(u.GridY),
		})
	}

	// First pass assigns every citizen an index so family references can
	// be written as indices in the second pass.
	citizenIndex := map[ecs.Entity]int32{}
	var citizenOrder []ecs.Entity
	citizenFilter := ecs.NewFilter2[citizen.Details, citizen.HomeLocation](w.ECS)
	cq := citizenFilter.Query()
	for cq.Next() {
		citizenIndex[cq.Entity()] = int32(len(citizenOrder))
		citizenOrder = append(citizenOrder, cq.Entity())
	}

	detailsMap := ecs.NewMap[citizen.Details](w.ECS)
	personalityMap := ecs.NewMap[citizen.Personality](w.ECS)
	needsMap := ecs.NewMap[citizen.Needs](w.ECS)
	stateMap := ecs.NewMap[citizen.StateComp](w.ECS)
	posMap := ecs.NewMap[citizen.Position](w.ECS)
	velMap := ecs.NewMap[citizen.Velocity](w.ECS)
	homeMap := ecs.NewMap[citizen.HomeLocation](w.ECS)
	workMap := ecs.NewMap[citizen.WorkLocation](w.ECS)
	lodMap := ecs.NewMap[citizen.LOD](w.ECS)
	familyMap := ecs.NewMap[citizen.Family](w.ECS)

	for _, entity := range citizenOrder {
		d := detailsMap.Get(entity)
		p := personalityMap.Get(entity)
		n := needsMap.Get(entity)
		pos := posMap.Get(entity)
		vel := velMap.Get(entity)
		home := homeMap.Get(entity)

		rec := CitizenRecord{
			Age:       d.Age,
			Gender:    uint8(d.Gender),
			Education: d.Education,
			Happiness: d.Happiness,
			Health:    d.Health,
			Salary:    d.Salary,
			Savings:   d.Savings,
			Personality: [4]float64{
				p.Ambition, p.Sociability, p.Materialism, p.Resilience,
			},
			Needs: [5]float64{n.Hunger, n.Energy, n.Social, n.Fun, n.Comfort},
			State: uint8(stateMap.Get(entity).State),
			PosX:  pos.X, PosY: pos.Y,
			VelX: vel.X, VelY: vel.Y,
			HomeBuilding: entityIndex(buildingIndex, home.Building),
			HomeX:        int32(home.GridX),
			HomeY:        int32(home.GridY),
			WorkBuilding: -1,
			Partner:      -1,
			Parent:       -1,
		}
		if lodMap.Has(entity) {
			rec.LOD = uint8(lodMap.Get(entity).Tier)
		}
		if workMap.Has(entity) {
			work := workMap.Get(entity)
			rec.HasWork = true
			rec.WorkBuilding = entityIndex(buildingIndex, work.Building)
			rec.WorkX = int32(work.GridX)
			rec.WorkY = int32(work.GridY)
		}
		if familyMap.Has(entity) {
			fam := familyMap.Get(entity)
			rec.Partner = entityIndex(citizenIndex, fam.Partner)
			rec.Parent = entityIndex(citizenIndex, fam.Parent)
			for _, child := range fam.Children {
				if idx := entityIndex(citizenIndex, child); idx >= 0 {
					rec.Children = append(rec.Children, idx)
				}
			}
		}
		s.Entities.Citizens = append(s.Entities.Citizens, rec)
	}
	s.Entities.Spawned = w.Spawner().Spawned()
}

func entityIndex(index map[ecs.Entity]int32, e ecs.Entity) int32 {
	if e == (ecs.Entity{}) {
		return -1
	}
	if idx, ok := index[e]; ok {
		return idx
	}
	return -1
}

func captureEnvironment(w *sim.World, s *Save) {
	ws := w.Weather.State()
	e := &s.Environment
	e.WeatherZone = uint8(ws.Zone)
	e.Season = uint8(ws.Season)
	e.Condition = uint8(ws.Condition)
	e.Temperature = ws.Temperature
	e.CloudCover = ws.CloudCover
	e.Humidity = ws.Humidity
	e.PrecipSignal = ws.PrecipSignal
	e.PrecipIntensity = ws.PrecipitationIntensity
	e.SnowDepth = ws.SnowDepth
	e.DailyRainfall = ws.DailyRainfall
	e.RollingRainfall = ws.RollingRainfall
	e.RainHistory = ws.History
	e.EventDays = int32(ws.EventDaysRemaining)
	e.LastHour = int32(ws.LastHour)
	e.LastDay = int32(ws.LastDay)
	e.PrevExtreme = ws.PrevExtreme

	e.ClockTick = w.Clock.Tick
	e.ClockDay = int32(w.Clock.Day)
	e.ClockHour = w.Clock.Hour
	e.ClockSpeed = w.Clock.Speed
	e.ClockPaused = w.Clock.Paused
}
