package services

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// Placer spawns service and utility entities and marks their footprints on
// the grid.
type Placer struct {
	services  ecs.Map1[Building]
	utilities ecs.Map1[Source]
}

// NewPlacer creates a placer for a world.
func NewPlacer(w *ecs.World) *Placer {
	return &Placer{
		services:  ecs.NewMap1[Building](w),
		utilities: ecs.NewMap1[Source](w),
	}
}

// PlaceService places a service building with its anchor at (gx, gy). Every
// footprint cell must be in-bounds grass with no existing building. Returns
// the zero entity and false when placement is rejected.
func (p *Placer) PlaceService(g *grid.Grid, t Type, gx, gy int) (ecs.Entity, bool) {
	fw, fh := t.Footprint()
	if !footprintFree(g, gx, gy, fw, fh) {
		return ecs.Entity{}, false
	}

	entity := p.services.NewEntity(&Building{
		Type:   t,
		GridX:  gx,
		GridY:  gy,
		Radius: t.CoverageRadius(),
	})
	for dy := 0; dy < fh; dy++ {
		for dx := 0; dx < fw; dx++ {
			g.At(gx+dx, gy+dy).Building = entity
		}
	}
	return entity, true
}

// PlaceUtility places a utility source at (gx, gy) under the same cell
// rules as services. Utilities occupy a single cell.
func (p *Placer) PlaceUtility(g *grid.Grid, t UtilityType, gx, gy int) (ecs.Entity, bool) {
	if !footprintFree(g, gx, gy, 1, 1) {
		return ecs.Entity{}, false
	}

	entity := p.utilities.NewEntity(&Source{
		Type:  t,
		GridX: gx,
		GridY: gy,
		Range: t.Range(),
	})
	g.At(gx, gy).Building = entity
	return entity, true
}

func footprintFree(g *grid.Grid, gx, gy, fw, fh int) bool {
	for dy := 0; dy < fh; dy++ {
		for dx := 0; dx < fw; dx++ {
			cx, cy := gx+dx, gy+dy
			if !g.InBounds(cx, cy) {
				return false
			}
			cell := g.At(cx, cy)
			if cell.Type != grid.Grass || cell.HasBuilding() {
				return false
			}
		}
	}
	return true
}
