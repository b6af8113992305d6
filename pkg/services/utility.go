package services

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// UtilityType identifies a utility source kind. The numeric values are
// stable save-format tags; new variants append.
type UtilityType uint8

const (
	PowerPlant UtilityType = iota
	SolarFarm
	WindTurbine
	WaterTower
	SewagePlant
	NuclearPlant
	Geothermal
	PumpingStation
	WaterTreatment
	utilityTypeCount
)

type utilityInfo struct {
	name  string
	cells int // Chebyshev coverage range in cells
	cost  float64
	power bool
}

var utilities = [utilityTypeCount]utilityInfo{
	PowerPlant:     {"Power Plant", 30, 800, true},
	SolarFarm:      {"Solar Farm", 25, 1200, true},
	WindTurbine:    {"Wind Turbine", 20, 600, true},
	WaterTower:     {"Water Tower", 25, 600, false},
	SewagePlant:    {"Sewage Plant", 20, 500, false},
	NuclearPlant:   {"Nuclear Plant", 50, 5000, true},
	Geothermal:     {"Geothermal Plant", 35, 3000, true},
	PumpingStation: {"Pumping Station", 15, 400, false},
	WaterTreatment: {"Water Treatment", 35, 1000, false},
}

// String returns the display name of the utility type.
func (t UtilityType) String() string {
	if t >= utilityTypeCount {
		return "Unknown"
	}
	return utilities[t].name
}

// Range returns the coverage range in cells. Coverage is a square: a cell
// is covered when both axis distances are within range.
func (t UtilityType) Range() int {
	return utilities[t].cells
}

// Cost returns the placement cost.
func (t UtilityType) Cost() float64 {
	return utilities[t].cost
}

// ProvidesPower reports whether the utility energizes cells.
func (t UtilityType) ProvidesPower() bool {
	return utilities[t].power
}

// ProvidesWater reports whether the utility supplies water.
func (t UtilityType) ProvidesWater() bool {
	return !utilities[t].power
}

// Source is the ECS component of a placed utility.
type Source struct {
	Type  UtilityType
	GridX int
	GridY int
	Range int
}

// Coverage recomputes the grid's HasPower and HasWater flags from the
// placed utility sources. Recomputation is from scratch, so removing a
// source never leaves stale coverage behind.
type Coverage struct {
	sources ecs.Filter1[Source]
}

// NewCoverage creates the coverage system for a world.
func NewCoverage(w *ecs.World) *Coverage {
	return &Coverage{
		sources: *ecs.NewFilter1[Source](w),
	}
}

// Update clears and re-marks utility coverage on the grid.
func (c *Coverage) Update(g *grid.Grid) {
	for i := range g.Cells {
		g.Cells[i].HasPower = false
		g.Cells[i].HasWater = false
	}

	query := c.sources.Query()
	for query.Next() {
		src := query.Get()
		markCoverage(g, src)
	}
}

func markCoverage(g *grid.Grid, src *Source) {
	x0 := src.GridX - src.Range
	y0 := src.GridY - src.Range
	x1 := src.GridX + src.Range
	y1 := src.GridY + src.Range
	power := src.Type.ProvidesPower()

	for y := y0; y <= y1; y++ {
		if y < 0 || y >= g.Height {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= g.Width {
				continue
			}
			if power {
				g.At(x, y).HasPower = true
			} else {
				g.At(x, y).HasWater = true
			}
		}
	}
}
