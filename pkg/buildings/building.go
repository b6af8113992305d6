// Package buildings manages zoned building entities: growth driven by zone
// demand, occupancy bookkeeping, and the citizen spawner that fills
// residences and workplaces.
package buildings

import (
	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// Building is the ECS component of a grown zoned building. Capacity counts
// occupants: residents for residential zones, job slots for job zones. For
// mixed-use the total splits into the MixedUse component's parts.
type Building struct {
	Zone      grid.ZoneType
	Level     uint8
	GridX     int
	GridY     int
	Capacity  int
	Occupants int
}

// MixedUse carries the split occupancy of a mixed-use building, alongside
// its Building component.
type MixedUse struct {
	CommercialCapacity   int
	CommercialOccupants  int
	ResidentialCapacity  int
	ResidentialOccupants int
}

// Construction marks a building still being built. It participates in
// capacity statistics but accepts no occupants until finished.
type Construction struct {
	TicksRemaining int
}

// Per-level capacity step for each zone family. Low-density zones grow
// small buildings; high-density towers scale faster per level.
func capacityStep(z grid.ZoneType) int {
	switch z {
	case grid.ResidentialLow:
		return 4
	case grid.ResidentialMedium:
		return 8
	case grid.ResidentialHigh:
		return 16
	case grid.CommercialLow:
		return 3
	case grid.CommercialHigh:
		return 8
	case grid.ZoneIndustrial:
		return 6
	case grid.ZoneOffice:
		return 10
	case grid.ZoneMixedUse:
		return 10
	}
	return 0
}

// CapacityForLevel returns the occupant capacity of a building of the given
// zone and level. Zero for unzoned cells or levels beyond the zone's
// maximum.
func CapacityForLevel(z grid.ZoneType, level uint8) int {
	if level == 0 || level > z.MaxLevel() {
		return 0
	}
	return capacityStep(z) * int(level)
}

// MixedUseCapacities splits a mixed-use building's capacity into its
// commercial and residential parts.
func MixedUseCapacities(level uint8) (commercial, residential int) {
	total := CapacityForLevel(grid.ZoneMixedUse, level)
	commercial = total * 2 / 5
	residential = total - commercial
	return commercial, residential
}
