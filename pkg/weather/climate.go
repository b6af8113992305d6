// Package weather simulates seasons, temperature, and precipitation. The
// model is deterministic: all variation hashes off the simulation day and
// hour, so a reloaded save replays the same skies.
package weather

import "strings"

// Zone is a climate preset that shifts every seasonal parameter for a map.
type Zone uint8

const (
	// Temperate has four distinct seasons and moderate temperatures.
	Temperate Zone = iota
	// Tropical is hot year-round with heavy rainfall and no snow.
	Tropical
	// Arid has very hot summers, mild winters, and minimal precipitation.
	Arid
	// Mediterranean has dry hot summers and mild wet winters.
	Mediterranean
	// Continental swings between cold winters and warm summers.
	Continental
	// Subarctic has very cold winters, cool summers, and heavy snow.
	Subarctic
	// Oceanic is mild and wet year-round with a narrow temperature range.
	Oceanic
)

// Zones lists every climate preset.
var Zones = []Zone{Temperate, Tropical, Arid, Mediterranean, Continental, Subarctic, Oceanic}

// ParseZone resolves a climate name from configuration. Unknown names fall
// back to Temperate.
func ParseZone(name string) Zone {
	switch strings.ToLower(name) {
	case "tropical":
		return Tropical
	case "arid":
		return Arid
	case "mediterranean":
		return Mediterranean
	case "continental":
		return Continental
	case "subarctic":
		return Subarctic
	case "oceanic":
		return Oceanic
	}
	return Temperate
}

// Name returns the display name of the zone.
func (z Zone) Name() string {
	switch z {
	case Tropical:
		return "Tropical"
	case Arid:
		return "Arid"
	case Mediterranean:
		return "Mediterranean"
	case Continental:
		return "Continental"
	case Subarctic:
		return "Subarctic"
	case Oceanic:
		return "Oceanic"
	}
	return "Temperate"
}

// SeasonParams are the per-season climate inputs: temperature band,
// chance of a precipitation event starting on a given day, and whether
// snow can fall.
type SeasonParams struct {
	TempMin      float64
	TempMax      float64
	PrecipChance float64
	SnowEnabled  bool
	BaseCloud    float64
	BaseHumidity float64
}

var seasonTables = map[Zone][4]SeasonParams{
	Temperate: {
		Spring: {8, 22, 0.09, false, 0.3, 0.55},
		Summer: {20, 36, 0.08, false, 0.15, 0.4},
		Autumn: {5, 19, 0.11, false, 0.4, 0.6},
		Winter: {-8, 6, 0.09, true, 0.5, 0.65},
	},
	Tropical: {
		Spring: {22, 34, 0.20, false, 0.4, 0.75},
		Summer: {24, 38, 0.30, false, 0.5, 0.85},
		Autumn: {22, 34, 0.25, false, 0.45, 0.8},
		Winter: {18, 30, 0.15, false, 0.3, 0.65},
	},
	Arid: {
		Spring: {15, 35, 0.02, false, 0.1, 0.2},
		Summer: {25, 48, 0.01, false, 0.05, 0.1},
		Autumn: {15, 33, 0.02, false, 0.1, 0.2},
		Winter: {5, 22, 0.03, false, 0.15, 0.25},
	},
	Mediterranean: {
		Spring: {12, 24, 0.10, false, 0.25, 0.5},
		Summer: {20, 35, 0.02, false, 0.1, 0.3},
		Autumn: {12, 25, 0.12, false, 0.3, 0.55},
		Winter: {5, 15, 0.18, false, 0.45, 0.65},
	},
	Continental: {
		Spring: {0, 18, 0.10, true, 0.35, 0.5},
		Summer: {18, 38, 0.10, false, 0.2, 0.45},
		Autumn: {-2, 15, 0.10, true, 0.4, 0.55},
		Winter: {-25, -5, 0.12, true, 0.5, 0.6},
	},
	Subarctic: {
		Spring: {-10, 8, 0.10, true, 0.4, 0.55},
		Summer: {8, 22, 0.12, false, 0.3, 0.5},
		Autumn: {-12, 5, 0.12, true, 0.5, 0.6},
		Winter: {-34, -12, 0.15, true, 0.55, 0.65},
	},
	Oceanic: {
		Spring: {8, 16, 0.18, false, 0.45, 0.65},
		Summer: {14, 24, 0.14, false, 0.35, 0.6},
		Autumn: {7, 16, 0.20, false, 0.5, 0.7},
		Winter: {2, 10, 0.22, true, 0.55, 0.75},
	},
}

// SeasonParams returns the climate inputs for a season in this zone.
func (z Zone) SeasonParams(s Season) SeasonParams {
	table, ok := seasonTables[z]
	if !ok {
		table = seasonTables[Temperate]
	}
	return table[s]
}
