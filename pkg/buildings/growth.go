package buildings

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/zones"
)

// growthHashMod converts the per-cell hash into a probability in [0, 1).
const growthHashMod = 1000

// Growth spawns buildings on zoned cells in proportion to zone demand and
// advances construction.
type Growth struct {
	spawn        ecs.Map1[Building]
	mixed        ecs.Map[MixedUse]
	construction ecs.Map[Construction]
	underway     ecs.Filter2[Building, Construction]
	built        ecs.Filter1[Building]
}

// NewGrowth creates the growth system for a world.
func NewGrowth(w *ecs.World) *Growth {
	return &Growth{
		spawn:        ecs.NewMap1[Building](w),
		mixed:        ecs.NewMap[MixedUse](w),
		construction: ecs.NewMap[Construction](w),
		underway:     *ecs.NewFilter2[Building, Construction](w),
		built:        *ecs.NewFilter1[Building](w),
	}
}

// Update attempts to start new buildings. Runs on the spawn interval; a
// zoned, road-adjacent grass cell starts construction when a deterministic
// per-cell hash falls under the zone's demand. At most MaxPerZonePerTick
// starts per zone per call.
func (gr *Growth) Update(g *grid.Grid, demand *zones.Demand, p *params.BuildingParams, tick uint64) int {
	if p.SpawnIntervalTicks > 1 && tick%uint64(p.SpawnIntervalTicks) != 0 {
		return 0
	}

	started := 0
	perZone := make(map[grid.ZoneType]int)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cell := g.At(x, y)
			if cell.Type != grid.Grass || cell.Zone == grid.ZoneNone || cell.HasBuilding() {
				continue
			}
			if perZone[cell.Zone] >= p.MaxPerZonePerTick {
				continue
			}
			d := demand.For(cell.Zone)
			if d <= 0 {
				continue
			}
			if !zones.AdjacentToRoad(g, x, y) {
				continue
			}
			h := (uint64(x)*7919 + uint64(y)*6271 + tick*2654435761) % growthHashMod
			if float64(h)/growthHashMod >= d*0.25 {
				continue
			}

			gr.place(g, x, y, cell.Zone, 1, p.ConstructionTicks)
			perZone[cell.Zone]++
			started++
		}
	}
	return started
}

func (gr *Growth) place(g *grid.Grid, x, y int, zone grid.ZoneType, level uint8, constructionTicks int) ecs.Entity {
	entity := gr.spawn.NewEntity(&Building{
		Zone:     zone,
		Level:    level,
		GridX:    x,
		GridY:    y,
		Capacity: CapacityForLevel(zone, level),
	})
	if zone.IsMixedUse() {
		comm, res := MixedUseCapacities(level)
		gr.mixed.Add(entity, &MixedUse{
			CommercialCapacity:  comm,
			ResidentialCapacity: res,
		})
	}
	if constructionTicks > 0 {
		gr.construction.Add(entity, &Construction{TicksRemaining: constructionTicks})
	}
	g.At(x, y).Building = entity
	return entity
}

// PlaceFinished creates a completed building directly, used by restore and
// by tests.
func (gr *Growth) PlaceFinished(g *grid.Grid, x, y int, zone grid.ZoneType, level uint8) ecs.Entity {
	return gr.place(g, x, y, zone, level, 0)
}

// TickConstruction advances building sites one tick and finishes those
// whose timer expires.
func (gr *Growth) TickConstruction() {
	var done []ecs.Entity

	query := gr.underway.Query()
	for query.Next() {
		_, c := query.Get()
		c.TicksRemaining--
		if c.TicksRemaining <= 0 {
			done = append(done, query.Entity())
		}
	}
	for _, e := range done {
		gr.construction.Remove(e)
	}
}

// UpgradeFull levels up fully occupied buildings while their zone's demand
// stays strong. Runs on the slow tick.
func (gr *Growth) UpgradeFull(demand *zones.Demand) int {
	upgraded := 0

	query := gr.built.Query()
	for query.Next() {
		b := query.Get()
		if b.Level >= b.Zone.MaxLevel() || b.Capacity == 0 || b.Occupants < b.Capacity {
			continue
		}
		if demand.For(b.Zone) < 0.5 {
			continue
		}
		b.Level++
		b.Capacity = CapacityForLevel(b.Zone, b.Level)
		if b.Zone.IsMixedUse() {
			entity := query.Entity()
			if gr.mixed.Has(entity) {
				mu := gr.mixed.Get(entity)
				mu.CommercialCapacity, mu.ResidentialCapacity = MixedUseCapacities(b.Level)
			}
		}
		upgraded++
	}
	return upgraded
}

// UnderConstruction reports whether the entity is still a building site.
func (gr *Growth) UnderConstruction(e ecs.Entity) bool {
	return gr.construction.Has(e)
}
