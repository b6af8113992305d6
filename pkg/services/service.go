// Package services covers city service buildings (fire, police, schools,
// parks, transit) and utility sources (power and water), including their
// placement rules and coverage propagation.
package services

import (
	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// Type identifies a service building kind. The numeric values are stable
// save-format tags; new variants append.
type Type uint8

const (
	FireStation Type = iota
	PoliceStation
	Hospital
	ElementarySchool
	HighSchool
	University
	Library
	SmallPark
	LargePark
	Playground
	Plaza
	SportsField
	Stadium
	Landfill
	RecyclingCenter
	Incinerator
	Cemetery
	Crematorium
	CityHall
	Museum
	Cathedral
	TVStation
	BusDepot
	TrainStation
	FireHouse
	FireHQ
	PoliceKiosk
	PoliceHQ
	Prison
	MedicalClinic
	MedicalCenter
	Kindergarten
	SubwayStation
	TramDepot
	FerryPier
	SmallAirstrip
	RegionalAirport
	InternationalAirport
	TransferStation
	CellTower
	DataCenter
	HomelessShelter
	WelfareOffice
	PostOffice
	MailSortingCenter
	HeatingBoiler
	DistrictHeatingPlant
	GeothermalHeatPlant
	WaterTreatmentPlant
	WellPump
	typeCount
)

type serviceInfo struct {
	name        string
	radiusCells float64 // coverage radius in cells; 0 means city-wide
	cost        float64
	maintenance float64 // monthly
	width       int
	height      int
}

// The catalog. Radii are Euclidean, in world units once scaled by CellSize.
// Footprints default to 1x1; multi-cell buildings list their dimensions.
var catalog = [typeCount]serviceInfo{
	FireStation:          {"Fire Station", 20, 500, 20, 1, 1},
	PoliceStation:        {"Police Station", 20, 500, 20, 1, 1},
	Hospital:             {"Hospital", 25, 1000, 50, 1, 1},
	ElementarySchool:     {"Elementary School", 15, 750, 15, 1, 1},
	HighSchool:           {"High School", 18, 1000, 25, 1, 1},
	University:           {"University", 30, 2000, 40, 1, 1},
	Library:              {"Library", 12, 500, 10, 1, 1},
	SmallPark:            {"Small Park", 8, 100, 5, 1, 1},
	LargePark:            {"Large Park", 15, 300, 10, 1, 1},
	Playground:           {"Playground", 10, 200, 5, 1, 1},
	Plaza:                {"Plaza", 10, 150, 5, 1, 1},
	SportsField:          {"Sports Field", 12, 400, 10, 1, 1},
	Stadium:              {"Stadium", 25, 2000, 30, 1, 1},
	Landfill:             {"Landfill", 20, 300, 15, 1, 1},
	RecyclingCenter:      {"Recycling Center", 25, 800, 20, 1, 1},
	Incinerator:          {"Incinerator", 30, 1500, 25, 1, 1},
	Cemetery:             {"Cemetery", 7.5, 400, 200, 1, 1},
	Crematorium:          {"Crematorium", 5, 600, 150, 1, 1},
	CityHall:             {"City Hall", 40, 5000, 30, 1, 1},
	Museum:               {"Museum", 20, 3000, 20, 1, 1},
	Cathedral:            {"Cathedral", 25, 4000, 15, 1, 1},
	TVStation:            {"TV Station", 35, 3500, 25, 1, 1},
	BusDepot:             {"Bus Depot", 20, 1000, 15, 1, 1},
	TrainStation:         {"Train Station", 30, 2000, 25, 1, 1},
	FireHouse:            {"Fire House", 12, 200, 8, 1, 1},
	FireHQ:               {"Fire HQ", 35, 1500, 60, 3, 3},
	PoliceKiosk:          {"Police Kiosk", 10, 200, 8, 1, 1},
	PoliceHQ:             {"Police HQ", 35, 1500, 60, 3, 3},
	Prison:               {"Prison", 0, 2000, 80, 4, 4},
	MedicalClinic:        {"Medical Clinic", 12, 300, 15, 1, 1},
	MedicalCenter:        {"Medical Center", 40, 3000, 100, 3, 3},
	Kindergarten:         {"Kindergarten", 10, 400, 12, 1, 1},
	SubwayStation:        {"Subway Station", 25, 3000, 40, 2, 2},
	TramDepot:            {"Tram Depot", 18, 1500, 20, 2, 2},
	FerryPier:            {"Ferry Pier", 15, 800, 10, 1, 1},
	SmallAirstrip:        {"Small Airstrip", 40, 5000, 60, 3, 3},
	RegionalAirport:      {"Regional Airport", 50, 10000, 100, 4, 3},
	InternationalAirport: {"International Airport", 60, 15000, 150, 4, 4},
	TransferStation:      {"Transfer Station", 20, 500, 12, 2, 2},
	CellTower:            {"Cell Tower", 15, 300, 8, 1, 1},
	DataCenter:           {"Data Center", 40, 2000, 40, 2, 2},
	HomelessShelter:      {"Homeless Shelter", 15, 400, 15, 1, 1},
	WelfareOffice:        {"Welfare Office", 20, 600, 20, 1, 1},
	PostOffice:           {"Post Office", 12, 300, 10, 1, 1},
	MailSortingCenter:    {"Mail Sorting Center", 30, 1200, 35, 1, 1},
	HeatingBoiler:        {"Heating Boiler", 15, 400, 15, 1, 1},
	DistrictHeatingPlant: {"District Heating Plant", 40, 2000, 50, 2, 2},
	GeothermalHeatPlant:  {"Geothermal Heating Plant", 60, 5000, 80, 3, 3},
	WaterTreatmentPlant:  {"Water Treatment Plant", 25, 800, 25, 1, 1},
	WellPump:             {"Well Pump", 10, 200, 8, 1, 1},
}

// String returns the display name of the service type.
func (t Type) String() string {
	if t >= typeCount {
		return "Unknown"
	}
	return catalog[t].name
}

// CoverageRadius returns the coverage radius in world units. Zero means the
// effect is city-wide.
func (t Type) CoverageRadius() float64 {
	return catalog[t].radiusCells * grid.CellSize
}

// Cost returns the placement cost.
func (t Type) Cost() float64 {
	return catalog[t].cost
}

// Maintenance returns the monthly upkeep.
func (t Type) Maintenance() float64 {
	return catalog[t].maintenance
}

// Footprint returns the building's size in cells.
func (t Type) Footprint() (width, height int) {
	return catalog[t].width, catalog[t].height
}

// EducationLevel returns the education tier the building grants: 1
// elementary, 2 high school, 3 university. Zero for non-education services.
func (t Type) EducationLevel() uint8 {
	switch t {
	case Kindergarten, ElementarySchool, Library:
		return 1
	case HighSchool:
		return 2
	case University:
		return 3
	}
	return 0
}

// IsPark reports whether the service is a recreation ground.
func (t Type) IsPark() bool {
	switch t {
	case SmallPark, LargePark, Playground, Plaza, SportsField, Stadium:
		return true
	}
	return false
}

// IsLeisure reports whether citizens visit the service for fun or social
// needs. Parks plus the museum.
func (t Type) IsLeisure() bool {
	return t.IsPark() || t == Museum
}

// IsSchool reports whether school-age citizens commute to the service.
func (t Type) IsSchool() bool {
	switch t {
	case Kindergarten, ElementarySchool, HighSchool, University:
		return true
	}
	return false
}

// IsEducation reports whether the service raises education coverage.
func (t Type) IsEducation() bool {
	return t.IsSchool() || t == Library
}

// IsHealth reports whether the service provides medical coverage.
func (t Type) IsHealth() bool {
	return t == Hospital || t == MedicalClinic || t == MedicalCenter
}

// IsFire reports whether the service provides fire coverage.
func (t Type) IsFire() bool {
	return t == FireStation || t == FireHouse || t == FireHQ
}

// IsPolice reports whether the service provides police coverage.
func (t Type) IsPolice() bool {
	return t == PoliceStation || t == PoliceKiosk || t == PoliceHQ || t == Prison
}

// IsGarbage reports whether the service handles waste.
func (t Type) IsGarbage() bool {
	switch t {
	case Landfill, RecyclingCenter, Incinerator, TransferStation:
		return true
	}
	return false
}

// IsTransport reports whether the service is a transit hub.
func (t Type) IsTransport() bool {
	switch t {
	case BusDepot, TrainStation, SubwayStation, TramDepot, FerryPier,
		SmallAirstrip, RegionalAirport, InternationalAirport:
		return true
	}
	return false
}

// Building is the ECS component of a placed service.
type Building struct {
	Type   Type
	GridX  int
	GridY  int
	Radius float64
}
