package save

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/buildings"
	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/economy"
	"github.com/ChicagoDave/gridcity/pkg/geo"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/roads"
	"github.com/ChicagoDave/gridcity/pkg/services"
	"github.com/ChicagoDave/gridcity/pkg/sim"
	"github.com/ChicagoDave/gridcity/pkg/weather"
)

// Restore builds a fresh world from a Save: grid cells first, then the
// road network by replaying placements, segment re-rasterization, entity
// spawning, and finally family resolution through the citizen index map.
// The incoming world is new, so restore never mixes state.
func Restore(s *Save, base *params.Params, logger *slog.Logger, seed int64) (*sim.World, error) {
	p := *base
	p.World.Width = s.Grid.Width
	p.World.Height = s.Grid.Height

	w := sim.New(&p, logger, seed)

	if err := restoreGrid(w, s); err != nil {
		return nil, fmt.Errorf("restoring grid: %w", err)
	}
	restoreEconomy(w, s)
	if err := restoreEntities(w, s); err != nil {
		return nil, fmt.Errorf("restoring entities: %w", err)
	}
	restoreEnvironment(w, s)

	w.RefreshDerived()
	return w, nil
}

func restoreGrid(w *sim.World, s *Save) error {
	g := w.Grid
	if len(s.Grid.Cells) != len(g.Cells) {
		return fmt.Errorf("cell count %d does not match %dx%d", len(s.Grid.Cells), g.Width, g.Height)
	}

	// Lay terrain with road cells as grass; the network replay re-marks
	// them and rebuilds adjacency.
	for i := range g.Cells {
		rec := &s.Grid.Cells[i]
		cell := &g.Cells[i]
		cell.Elevation = rec.Elevation
		cell.Zone = grid.ZoneType(rec.Zone)
		cell.District = rec.District
		cell.Building = ecs.Entity{}
		if grid.CellType(rec.Type) == grid.Water {
			cell.Type = grid.Water
		} else {
			cell.Type = grid.Grass
		}
	}
	for i := range g.Cells {
		rec := &s.Grid.Cells[i]
		if grid.CellType(rec.Type) != grid.Road {
			continue
		}
		x := i % g.Width
		y := i / g.Width
		if !w.Network.PlaceRoadTyped(g, x, y, grid.RoadType(rec.Road)) {
			return fmt.Errorf("replaying road at (%d,%d)", x, y)
		}
	}
	// The replay logged every placement as a change; a fresh world has no
	// paths to invalidate.
	w.Network.DrainRemoved()

	for _, t := range s.Grid.Trees {
		w.Trees.Set(int(t[0]), int(t[1]), true)
	}

	nodes := make([]roads.SegmentNode, 0, len(s.Grid.SegmentNodes))
	for _, n := range s.Grid.SegmentNodes {
		nodes = append(nodes, roads.SegmentNode{
			ID:       roads.SegmentNodeID(n.ID),
			Position: geo.Point2D{X: n.X, Y: n.Y},
		})
	}
	segments := make([]roads.Segment, 0, len(s.Grid.Segments))
	for _, rec := range s.Grid.Segments {
		curve := geo.CubicBezier{
			P0: geo.Point2D{X: rec.Control[0], Y: rec.Control[1]},
			P1: geo.Point2D{X: rec.Control[2], Y: rec.Control[3]},
			P2: geo.Point2D{X: rec.Control[4], Y: rec.Control[5]},
			P3: geo.Point2D{X: rec.Control[6], Y: rec.Control[7]},
		}
		segments = append(segments, roads.Segment{
			ID:        roads.SegmentID(rec.ID),
			Start:     roads.SegmentNodeID(rec.Start),
			End:       roads.SegmentNodeID(rec.End),
			Curve:     curve,
			Road:      grid.RoadType(rec.Road),
			ArcLength: curve.ArcLength(),
		})
	}
	w.Segments = roads.StoreFromParts(nodes, segments)
	w.Segments.RasterizeAll(g, w.Network)
	return nil
}

func restoreEconomy(w *sim.World, s *Save) {
	w.Budget.Treasury = s.Economy.Treasury
	w.Budget.TaxRate = s.Economy.TaxRate
	w.Budget.LastCollectionDay = int(s.Economy.LastCollectionDay)

	w.Market.SetCycle(s.Economy.MarketCycle)
	for _, g := range economy.Goods {
		rec := s.Economy.Goods[g]
		w.Market.Prices[g] = economy.PriceEntry{
			Base: rec.Base, Current: rec.Current, Previous: rec.Previous,
		}
	}
	w.Market.Active = nil
	for _, ev := range s.Economy.Events {
		w.Market.Active = append(w.Market.Active, economy.ActiveEvent{
			Event:     economy.Event(ev.Event),
			Remaining: int(ev.Remaining),
		})
	}
}

func restoreEntities(w *sim.World, s *Save) error {
	buildingMapper := ecs.NewMap1[buildings.Building](w.ECS)
	mixedMap := ecs.NewMap[buildings.MixedUse](w.ECS)
	constructionMap := ecs.NewMap[buildings.Construction](w.ECS)

	buildingEntities := make([]ecs.Entity, 0, len(s.Entities.Buildings))
	for _, rec := range s.Entities.Buildings {
		if !w.Grid.InBounds(int(rec.X), int(rec.Y)) {
			return fmt.Errorf("building at (%d,%d) out of bounds", rec.X, rec.Y)
		}
		zone := grid.ZoneType(rec.Zone)
		entity := buildingMapper.NewEntity(&buildings.Building{
			Zone:      zone,
			Level:     rec.Level,
			GridX:     int(rec.X),
			GridY:     int(rec.Y),
			Capacity:  buildings.CapacityForLevel(zone, rec.Level),
			Occupants: int(rec.Occupants),
		})
		if rec.HasMixed {
			mixedMap.Add(entity, &buildings.MixedUse{
				CommercialCapacity:   int(rec.MixedComCap),
				CommercialOccupants:  int(rec.MixedComOcc),
				ResidentialCapacity:  int(rec.MixedResCap),
				ResidentialOccupants: int(rec.MixedResOcc),
			})
		}
		if rec.Construction >= 0 {
			constructionMap.Add(entity, &buildings.Construction{
				TicksRemaining: int(rec.Construction),
			})
		}
		cell := w.Grid.At(int(rec.X), int(rec.Y))
		cell.Zone = zone
		cell.Building = entity
		buildingEntities = append(buildingEntities, entity)
	}

	for _, rec := range s.Entities.Services {
		if _, ok := w.Placer.PlaceService(w.Grid, services.Type(rec.Type), int(rec.X), int(rec.Y)); !ok {
			return fmt.Errorf("placing service %d at (%d,%d)", rec.Type, rec.X, rec.Y)
		}
	}
	for _, rec := range s.Entities.Utilities {
		if _, ok := w.Placer.PlaceUtility(w.Grid, services.UtilityType(rec.Type), int(rec.X), int(rec.Y)); !ok {
			return fmt.Errorf("placing utility %d at (%d,%d)", rec.Type, rec.X, rec.Y)
		}
	}

	core := ecs.NewMap8[
		citizen.Details, citizen.Personality, citizen.Needs, citizen.StateComp,
		citizen.Position, citizen.Velocity, citizen.HomeLocation, citizen.PathCache,
	](w.ECS)
	lodMap := ecs.NewMap[citizen.LOD](w.ECS)
	workMap := ecs.NewMap[citizen.WorkLocation](w.ECS)
	familyMap := ecs.NewMap[citizen.Family](w.ECS)

	citizenEntities := make([]ecs.Entity, 0, len(s.Entities.Citizens))
	for i := range s.Entities.Citizens {
		rec := &s.Entities.Citizens[i]
		details := citizen.Details{
			Age:       rec.Age,
			Gender:    citizen.Gender(rec.Gender),
			Education: rec.Education,
			Happiness: rec.Happiness,
			Health:    rec.Health,
			Salary:    rec.Salary,
			Savings:   rec.Savings,
		}
		personality := citizen.Personality{
			Ambition:    rec.Personality[0],
			Sociability: rec.Personality[1],
			Materialism: rec.Personality[2],
			Resilience:  rec.Personality[3],
		}
		needs := citizen.Needs{
			Hunger:  rec.Needs[0],
			Energy:  rec.Needs[1],
			Social:  rec.Needs[2],
			Fun:     rec.Needs[3],
			Comfort: rec.Needs[4],
		}
		state := citizen.StateComp{State: citizen.State(rec.State)}
		pos := citizen.Position{X: rec.PosX, Y: rec.PosY}
		vel := citizen.Velocity{X: rec.VelX, Y: rec.VelY}
		home := citizen.HomeLocation{
			GridX:    int(rec.HomeX),
			GridY:    int(rec.HomeY),
			Building: refAt(buildingEntities, rec.HomeBuilding),
		}
		path := citizen.PathCache{}

		entity := core.NewEntity(&details, &personality, &needs, &state, &pos, &vel, &home, &path)
		lodMap.Add(entity, &citizen.LOD{Tier: citizen.LODTier(rec.LOD)})
		if rec.HasWork {
			workMap.Add(entity, &citizen.WorkLocation{
				GridX:    int(rec.WorkX),
				GridY:    int(rec.WorkY),
				Building: refAt(buildingEntities, rec.WorkBuilding),
			})
		}
		citizenEntities = append(citizenEntities, entity)
	}

	// Family references resolve only after every citizen exists.
	for i := range s.Entities.Citizens {
		rec := &s.Entities.Citizens[i]
		if rec.Partner < 0 && rec.Parent < 0 && len(rec.Children) == 0 {
			continue
		}
		fam := citizen.Family{
			Partner: refAt(citizenEntities, rec.Partner),
			Parent:  refAt(citizenEntities, rec.Parent),
		}
		for _, child := range rec.Children {
			if ref := refAt(citizenEntities, child); ref != (ecs.Entity{}) {
				fam.Children = append(fam.Children, ref)
			}
		}
		familyMap.Add(citizenEntities[i], &fam)
	}

	w.Spawner().SetSpawned(s.Entities.Spawned)
	return nil
}

func refAt(entities []ecs.Entity, idx int32) ecs.Entity {
	if idx < 0 || int(idx) >= len(entities) {
		return ecs.Entity{}
	}
	return entities[idx]
}

func restoreEnvironment(w *sim.World, s *Save) {
	e := &s.Environment
	w.Weather = weather.FromState(weather.State{
		Zone:                   weather.Zone(e.WeatherZone),
		Season:                 weather.Season(e.Season),
		Condition:              weather.Condition(e.Condition),
		Temperature:            e.Temperature,
		CloudCover:             e.CloudCover,
		Humidity:               e.Humidity,
		PrecipSignal:           e.PrecipSignal,
		PrecipitationIntensity: e.PrecipIntensity,
		SnowDepth:              e.SnowDepth,
		DailyRainfall:          e.DailyRainfall,
		RollingRainfall:        e.RollingRainfall,
		History:                e.RainHistory,
		EventDaysRemaining:     int(e.EventDays),
		LastHour:               int(e.LastHour),
		LastDay:                int(e.LastDay),
		PrevExtreme:            e.PrevExtreme,
	})

	w.Clock = sim.Clock{
		Tick:   e.ClockTick,
		Day:    int(e.ClockDay),
		Hour:   e.ClockHour,
		Speed:  e.ClockSpeed,
		Paused: e.ClockPaused,
	}
	if w.Clock.Speed == 0 {
		w.Clock.Speed = 1
	}
}
