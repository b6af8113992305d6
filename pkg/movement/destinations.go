// Package movement drives citizens through their day: the activity state
// machine, the asynchronous path request pipeline, and per-tick motion
// along road waypoints.
package movement

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/buildings"
	"github.com/ChicagoDave/gridcity/pkg/services"
)

// Destination is somewhere a citizen can go: a shop, a leisure spot, or a
// school.
type Destination struct {
	GridX    int
	GridY    int
	Building ecs.Entity
}

// DestinationCache indexes shops, leisure spots, and schools so the state
// machine can pick nearby targets without scanning the world every tick.
// Refresh rebuilds it; the simulation does so on the slow tick and after
// edits.
type DestinationCache struct {
	shops   []Destination
	leisure []Destination
	schools []Destination

	zoned        ecs.Filter1[buildings.Building]
	mixed        ecs.Map[buildings.MixedUse]
	construction ecs.Map[buildings.Construction]
	placed       ecs.Filter1[services.Building]
}

// NewDestinationCache creates an empty cache for a world.
func NewDestinationCache(w *ecs.World) *DestinationCache {
	return &DestinationCache{
		zoned:        *ecs.NewFilter1[buildings.Building](w),
		mixed:        ecs.NewMap[buildings.MixedUse](w),
		construction: ecs.NewMap[buildings.Construction](w),
		placed:       *ecs.NewFilter1[services.Building](w),
	}
}

// Refresh rebuilds every destination list from the current world. Shops
// are finished commercial and mixed-use buildings; leisure spots and
// schools come from placed service buildings.
func (c *DestinationCache) Refresh() {
	c.shops = c.shops[:0]
	c.leisure = c.leisure[:0]
	c.schools = c.schools[:0]

	query := c.zoned.Query()
	for query.Next() {
		b := query.Get()
		if !b.Zone.IsCommercial() && !b.Zone.IsMixedUse() {
			continue
		}
		entity := query.Entity()
		if c.construction.Has(entity) {
			continue
		}
		c.shops = append(c.shops, Destination{GridX: b.GridX, GridY: b.GridY, Building: entity})
	}

	svc := c.placed.Query()
	for svc.Next() {
		s := svc.Get()
		d := Destination{GridX: s.GridX, GridY: s.GridY, Building: svc.Entity()}
		switch {
		case s.Type.IsLeisure():
			c.leisure = append(c.leisure, d)
		case s.Type.IsSchool():
			c.schools = append(c.schools, d)
		}
	}
}

// NearestShop returns the closest shop within maxDist cells (Manhattan).
func (c *DestinationCache) NearestShop(gx, gy, maxDist int) (Destination, bool) {
	return nearest(c.shops, gx, gy, maxDist)
}

// NearestLeisure returns the closest leisure spot within maxDist cells.
func (c *DestinationCache) NearestLeisure(gx, gy, maxDist int) (Destination, bool) {
	return nearest(c.leisure, gx, gy, maxDist)
}

// NearestSchool returns the closest school within maxDist cells.
func (c *DestinationCache) NearestSchool(gx, gy, maxDist int) (Destination, bool) {
	return nearest(c.schools, gx, gy, maxDist)
}

// Counts reports the size of each list, for diagnostics.
func (c *DestinationCache) Counts() (shops, leisure, schools int) {
	return len(c.shops), len(c.leisure), len(c.schools)
}

func nearest(list []Destination, gx, gy, maxDist int) (Destination, bool) {
	best := Destination{}
	bestDist := maxDist + 1
	found := false
	for _, d := range list {
		dist := abs(d.GridX-gx) + abs(d.GridY-gy)
		if dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
