package buildings

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/roads"
	"github.com/ChicagoDave/gridcity/pkg/zones"
)

// Census aggregates building occupancy into the zone statistics the demand
// model consumes.
type Census struct {
	buildings ecs.Filter1[Building]
	mixed     ecs.Map[MixedUse]
}

// NewCensus creates the census collector for a world.
func NewCensus(w *ecs.World) *Census {
	return &Census{
		buildings: *ecs.NewFilter1[Building](w),
		mixed:     ecs.NewMap[MixedUse](w),
	}
}

// Collect tallies every building into fresh zone stats. Mixed-use
// buildings contribute their split parts to both the residential and
// commercial columns.
func (c *Census) Collect(network *roads.Network) *zones.Stats {
	s := &zones.Stats{HasRoads: network.NodeCount() > 0}

	query := c.buildings.Query()
	for query.Next() {
		b := query.Get()
		switch {
		case b.Zone.IsResidential():
			s.ResidentialCapacity += b.Capacity
			s.ResidentialOccupants += b.Occupants
		case b.Zone.IsCommercial():
			s.CommercialCapacity += b.Capacity
			s.CommercialOccupants += b.Occupants
		case b.Zone == grid.ZoneIndustrial:
			s.IndustrialCapacity += b.Capacity
			s.IndustrialOccupants += b.Occupants
		case b.Zone == grid.ZoneOffice:
			s.OfficeCapacity += b.Capacity
			s.OfficeOccupants += b.Occupants
		case b.Zone.IsMixedUse():
			entity := query.Entity()
			if c.mixed.Has(entity) {
				mu := c.mixed.Get(entity)
				s.ResidentialCapacity += mu.ResidentialCapacity
				s.ResidentialOccupants += mu.ResidentialOccupants
				s.CommercialCapacity += mu.CommercialCapacity
				s.CommercialOccupants += mu.CommercialOccupants
			}
		}
	}

	s.Population = s.ResidentialOccupants
	s.TotalJobCapacity = s.CommercialCapacity + s.IndustrialCapacity + s.OfficeCapacity
	s.TotalJobOccupants = s.CommercialOccupants + s.IndustrialOccupants + s.OfficeOccupants
	return s
}
