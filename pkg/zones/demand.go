// Package zones implements the zone demand model: vacancy-driven market
// signals per zone family, damped over slow ticks, that drive building
// growth. The model is pure; pkg/buildings collects the Stats input from
// the ECS and consumes the resulting Demand.
package zones

import (
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
)

// Stats is the aggregate occupancy census the demand model runs on,
// recollected before each demand update.
type Stats struct {
	Population int

	ResidentialCapacity  int
	ResidentialOccupants int
	CommercialCapacity   int
	CommercialOccupants  int
	IndustrialCapacity   int
	IndustrialOccupants  int
	OfficeCapacity       int
	OfficeOccupants      int

	TotalJobCapacity  int
	TotalJobOccupants int

	HasRoads bool
}

func (s *Stats) totalCapacity() int {
	return s.ResidentialCapacity + s.CommercialCapacity +
		s.IndustrialCapacity + s.OfficeCapacity
}

// Demand holds the current demand level per zone family, each in [0, 1].
type Demand struct {
	Residential float64
	Commercial  float64
	Industrial  float64
	Office      float64
}

// For returns the demand driving growth in the given zone. Mixed-use tracks
// the stronger of residential and commercial.
func (d *Demand) For(z grid.ZoneType) float64 {
	switch {
	case z.IsResidential():
		return d.Residential
	case z.IsCommercial():
		return d.Commercial
	case z == grid.ZoneIndustrial:
		return d.Industrial
	case z == grid.ZoneOffice:
		return d.Office
	case z.IsMixedUse():
		if d.Residential > d.Commercial {
			return d.Residential
		}
		return d.Commercial
	}
	return 0
}

// Update computes the market targets from the census and moves each demand
// toward its target by the damping factor.
func (d *Demand) Update(s *Stats, p *params.DemandParams) {
	r, c, i, o := ComputeTargets(s, p)
	d.Residential += (r - d.Residential) * p.Damping
	d.Commercial += (c - d.Commercial) * p.Damping
	d.Industrial += (i - d.Industrial) * p.Damping
	d.Office += (o - d.Office) * p.Damping
}

// Demand component weights. Vacancy dominates; market factors adjust; the
// baseline keeps a trickle of growth pressure in a balanced city.
const (
	vacancyWeight  = 0.45
	marketWeight   = 0.35
	baselineDemand = 0.10
)

// ComputeTargets returns the raw demand targets (residential, commercial,
// industrial, office) before damping. With roads but no building capacity
// anywhere, fixed bootstrap targets apply; without roads, demand is zero.
func ComputeTargets(s *Stats, p *params.DemandParams) (r, c, i, o float64) {
	if !s.HasRoads {
		return 0, 0, 0, 0
	}
	if s.totalCapacity() == 0 {
		return p.Bootstrap, p.Bootstrap * 0.4, p.Bootstrap * 0.6, p.Bootstrap * 0.2
	}

	employment := availability(s.TotalJobCapacity, s.TotalJobOccupants)
	commercialPull := ratio(s.Population, 2*s.CommercialCapacity)
	laborSupply := ratio(s.Population, 2*s.TotalJobCapacity)
	educatedPull := ratio(s.Population, 4*s.OfficeCapacity)

	r = target(VacancyRate(s.ResidentialCapacity, s.ResidentialOccupants), p.VacancyResidential, employment)
	c = target(VacancyRate(s.CommercialCapacity, s.CommercialOccupants), p.VacancyCommercial, commercialPull)
	i = target(VacancyRate(s.IndustrialCapacity, s.IndustrialOccupants), p.VacancyIndustrial, laborSupply)
	o = target(VacancyRate(s.OfficeCapacity, s.OfficeOccupants), p.VacancyOffice, educatedPull)
	return r, c, i, o
}

func target(vacancy float64, natural params.Range, market float64) float64 {
	raw := vacancyWeight*VacancySignal(vacancy, natural) + marketWeight*market + baselineDemand
	return clamp01(raw)
}

// VacancyRate returns the fraction of capacity standing empty. Occupants
// beyond capacity count as full.
func VacancyRate(capacity, occupants int) float64 {
	if capacity <= 0 {
		return 0
	}
	if occupants > capacity {
		occupants = capacity
	}
	return float64(capacity-occupants) / float64(capacity)
}

// VacancySignal maps a vacancy rate against its natural range: positive
// below the midpoint (tight market), negative above (oversupply), clamped
// to [-1, 1]. Zero at the midpoint.
func VacancySignal(vacancy float64, natural params.Range) float64 {
	sig := (natural.Mid() - vacancy) * 10
	if sig > 1 {
		return 1
	}
	if sig < -1 {
		return -1
	}
	return sig
}

// availability is the fraction of unfilled slots.
func availability(capacity, occupants int) float64 {
	if capacity <= 0 {
		return 0
	}
	if occupants > capacity {
		occupants = capacity
	}
	return float64(capacity-occupants) / float64(capacity)
}

// ratio is numerator/denominator clamped to [0, 1]; zero when the
// denominator is empty.
func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return clamp01(float64(num) / float64(den))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
