package grid

import "github.com/mlange-42/ark/ecs"

// CellType classifies the terrain of a cell. The numeric values are stable
// save-format tags; new variants append.
type CellType uint8

const (
	Grass CellType = 0
	Water CellType = 1
	Road  CellType = 2
)

// String returns the display name of the cell type.
func (c CellType) String() string {
	switch c {
	case Grass:
		return "Grass"
	case Water:
		return "Water"
	case Road:
		return "Road"
	}
	return "Unknown"
}

// ZoneType classifies what may grow on a cell. The numeric values are stable
// save-format tags; new variants append.
type ZoneType uint8

const (
	ZoneNone           ZoneType = 0
	ResidentialLow     ZoneType = 1
	ResidentialMedium  ZoneType = 2
	ResidentialHigh    ZoneType = 3
	CommercialLow      ZoneType = 4
	CommercialHigh     ZoneType = 5
	ZoneIndustrial     ZoneType = 6
	ZoneOffice         ZoneType = 7
	ZoneMixedUse       ZoneType = 8
	zoneTypeCount               = 9
)

// IsResidential reports whether the zone houses citizens.
func (z ZoneType) IsResidential() bool {
	return z == ResidentialLow || z == ResidentialMedium || z == ResidentialHigh
}

// IsCommercial reports whether the zone is a commercial variant.
func (z ZoneType) IsCommercial() bool {
	return z == CommercialLow || z == CommercialHigh
}

// IsMixedUse reports whether the zone combines commercial and residential use.
func (z ZoneType) IsMixedUse() bool {
	return z == ZoneMixedUse
}

// IsJobZone reports whether buildings in the zone provide workplaces.
func (z ZoneType) IsJobZone() bool {
	return z.IsCommercial() || z == ZoneIndustrial || z == ZoneOffice || z == ZoneMixedUse
}

// MaxLevel returns the highest building level the zone supports.
func (z ZoneType) MaxLevel() uint8 {
	switch z {
	case ResidentialLow, CommercialLow:
		return 3
	case ResidentialMedium, ZoneIndustrial, ZoneMixedUse:
		return 4
	case ResidentialHigh, CommercialHigh, ZoneOffice:
		return 5
	}
	return 0
}

// String returns the display name of the zone type.
func (z ZoneType) String() string {
	switch z {
	case ZoneNone:
		return "None"
	case ResidentialLow:
		return "Residential Low"
	case ResidentialMedium:
		return "Residential Medium"
	case ResidentialHigh:
		return "Residential High"
	case CommercialLow:
		return "Commercial Low"
	case CommercialHigh:
		return "Commercial High"
	case ZoneIndustrial:
		return "Industrial"
	case ZoneOffice:
		return "Office"
	case ZoneMixedUse:
		return "Mixed Use"
	}
	return "Unknown"
}

// RoadType classifies a road cell. The numeric values are stable save-format
// tags; new variants append.
type RoadType uint8

const (
	RoadLocal     RoadType = 0
	RoadAvenue    RoadType = 1
	RoadBoulevard RoadType = 2
	RoadHighway   RoadType = 3
	RoadOneWay    RoadType = 4
	RoadPath      RoadType = 5
	roadTypeCount          = 6
)

// AllowsVehicles reports whether citizens drive on this road type.
// Paths are pedestrian only.
func (r RoadType) AllowsVehicles() bool {
	return r != RoadPath
}

// AllowsZoning reports whether cells may be zoned against this road type.
// Highways, one-ways, and paths do not open adjacent land for zoning.
func (r RoadType) AllowsZoning() bool {
	switch r {
	case RoadLocal, RoadAvenue, RoadBoulevard:
		return true
	}
	return false
}

// String returns the display name of the road type.
func (r RoadType) String() string {
	switch r {
	case RoadLocal:
		return "Local"
	case RoadAvenue:
		return "Avenue"
	case RoadBoulevard:
		return "Boulevard"
	case RoadHighway:
		return "Highway"
	case RoadOneWay:
		return "One-Way"
	case RoadPath:
		return "Path"
	}
	return "Unknown"
}

// NoDistrict marks a cell that belongs to no district.
const NoDistrict uint8 = 0xFF

// Cell is one square of the world grid. Elevation is normalized to [0,1].
// Building is the zero entity when the cell holds no building, utility, or
// service entity.
type Cell struct {
	Elevation float64
	Type      CellType
	Zone      ZoneType
	Road      RoadType
	District  uint8
	HasPower  bool
	HasWater  bool
	Building  ecs.Entity
}

// HasBuilding reports whether an entity occupies the cell.
func (c *Cell) HasBuilding() bool {
	return c.Building != (ecs.Entity{})
}
