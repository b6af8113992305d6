package params

import (
	"github.com/ChicagoDave/gridcity/pkg/grid"
)

// Params is the complete set of data-driven simulation tunables. Every
// subsystem reads from here instead of hardcoded constants, so a city can be
// tuned from a YAML file without recompiling.
type Params struct {
	World       WorldParams       `yaml:"world" json:"world"`
	Clock       ClockParams       `yaml:"clock" json:"clock"`
	Roads       RoadParams        `yaml:"roads" json:"roads"`
	Economy     EconomyParams     `yaml:"economy" json:"economy"`
	Citizens    CitizenParams     `yaml:"citizens" json:"citizens"`
	Buildings   BuildingParams    `yaml:"buildings" json:"buildings"`
	Spawner     SpawnerParams     `yaml:"spawner" json:"spawner"`
	Demand      DemandParams      `yaml:"demand" json:"demand"`
	Pathfinding PathfindingParams `yaml:"pathfinding" json:"pathfinding"`
	Climate     string            `yaml:"climate" json:"climate"`
}

type WorldParams struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

type ClockParams struct {
	TicksPerSecond  int `yaml:"ticks_per_second" json:"ticks_per_second"`
	SlowTickDivider int `yaml:"slow_tick_divider" json:"slow_tick_divider"`
}

// RoadClass holds the per-road-type tunables.
type RoadClass struct {
	// Speed is citizen movement speed on this road in world units per second.
	Speed float64 `yaml:"speed" json:"speed"`
	// Cost is the construction cost per cell.
	Cost float64 `yaml:"cost" json:"cost"`
	// Capacity is the vehicle throughput used by the congestion model.
	Capacity int `yaml:"capacity" json:"capacity"`
	// Maintenance is the monthly upkeep cost per cell.
	Maintenance float64 `yaml:"maintenance" json:"maintenance"`
	// NoiseRadius is the noise pollution radius in cells.
	NoiseRadius int `yaml:"noise_radius" json:"noise_radius"`
}

type RoadParams struct {
	Local     RoadClass `yaml:"local" json:"local"`
	Avenue    RoadClass `yaml:"avenue" json:"avenue"`
	Boulevard RoadClass `yaml:"boulevard" json:"boulevard"`
	Highway   RoadClass `yaml:"highway" json:"highway"`
	OneWay    RoadClass `yaml:"one_way" json:"one_way"`
	Path      RoadClass `yaml:"path" json:"path"`
}

// ForType returns the road class tunables for the given road type.
func (r *RoadParams) ForType(rt grid.RoadType) *RoadClass {
	switch rt {
	case grid.RoadAvenue:
		return &r.Avenue
	case grid.RoadBoulevard:
		return &r.Boulevard
	case grid.RoadHighway:
		return &r.Highway
	case grid.RoadOneWay:
		return &r.OneWay
	case grid.RoadPath:
		return &r.Path
	default:
		return &r.Local
	}
}

type EconomyParams struct {
	StartingTreasury float64 `yaml:"starting_treasury" json:"starting_treasury"`
	TaxRate          float64 `yaml:"tax_rate" json:"tax_rate"`
	TaxIntervalDays  int     `yaml:"tax_interval_days" json:"tax_interval_days"`
}

type CitizenParams struct {
	// Speed is the base walking speed in world units per second.
	Speed                 float64 `yaml:"speed" json:"speed"`
	ShoppingDurationTicks int     `yaml:"shopping_duration_ticks" json:"shopping_duration_ticks"`
	LeisureDurationTicks  int     `yaml:"leisure_duration_ticks" json:"leisure_duration_ticks"`
	SchoolStartHour       int     `yaml:"school_start_hour" json:"school_start_hour"`
	SchoolEndHour         int     `yaml:"school_end_hour" json:"school_end_hour"`
}

type BuildingParams struct {
	SpawnIntervalTicks int `yaml:"spawn_interval_ticks" json:"spawn_interval_ticks"`
	ConstructionTicks  int `yaml:"construction_ticks" json:"construction_ticks"`
	MaxPerZonePerTick  int `yaml:"max_per_zone_per_tick" json:"max_per_zone_per_tick"`
}

type SpawnerParams struct {
	SpawnIntervalTicks int `yaml:"spawn_interval_ticks" json:"spawn_interval_ticks"`
	MaxPerTick         int `yaml:"max_per_tick" json:"max_per_tick"`
	// BurstPerTick applies while population is far below housing capacity.
	BurstPerTick int `yaml:"burst_per_tick" json:"burst_per_tick"`
}

// Range is an inclusive low/high pair.
type Range struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Contains reports whether v falls within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Low + r.High) / 2
}

type DemandParams struct {
	VacancyResidential Range   `yaml:"vacancy_residential" json:"vacancy_residential"`
	VacancyCommercial  Range   `yaml:"vacancy_commercial" json:"vacancy_commercial"`
	VacancyIndustrial  Range   `yaml:"vacancy_industrial" json:"vacancy_industrial"`
	VacancyOffice      Range   `yaml:"vacancy_office" json:"vacancy_office"`
	Damping            float64 `yaml:"damping" json:"damping"`
	Bootstrap          float64 `yaml:"bootstrap" json:"bootstrap"`
}

type PathfindingParams struct {
	// MaxRequestsPerTick caps how many path requests are dispatched per tick.
	MaxRequestsPerTick int `yaml:"max_requests_per_tick" json:"max_requests_per_tick"`
	// SyncBudgetMillis bounds the synchronous fallback when workers are off.
	SyncBudgetMillis float64 `yaml:"sync_budget_millis" json:"sync_budget_millis"`
	// CongestionFactor scales traffic density into edge weight.
	CongestionFactor float64 `yaml:"congestion_factor" json:"congestion_factor"`
	// TrafficDecayDivisor divides traffic density each slow tick.
	TrafficDecayDivisor int `yaml:"traffic_decay_divisor" json:"traffic_decay_divisor"`
}

// Defaults returns the baseline parameter set every new city starts from.
func Defaults() *Params {
	return &Params{
		World: WorldParams{
			Width:  grid.DefaultWidth,
			Height: grid.DefaultHeight,
		},
		Clock: ClockParams{
			TicksPerSecond:  10,
			SlowTickDivider: 100,
		},
		Roads: RoadParams{
			Local:     RoadClass{Speed: 30, Cost: 10, Capacity: 20, Maintenance: 0.3, NoiseRadius: 2},
			Avenue:    RoadClass{Speed: 50, Cost: 20, Capacity: 40, Maintenance: 0.5, NoiseRadius: 3},
			Boulevard: RoadClass{Speed: 60, Cost: 30, Capacity: 60, Maintenance: 1.5, NoiseRadius: 4},
			Highway:   RoadClass{Speed: 100, Cost: 40, Capacity: 80, Maintenance: 2.0, NoiseRadius: 8},
			OneWay:    RoadClass{Speed: 40, Cost: 15, Capacity: 25, Maintenance: 0.4, NoiseRadius: 2},
			Path:      RoadClass{Speed: 5, Cost: 5, Capacity: 5, Maintenance: 0.1, NoiseRadius: 0},
		},
		Economy: EconomyParams{
			StartingTreasury: 50_000,
			TaxRate:          0.10,
			TaxIntervalDays:  30,
		},
		Citizens: CitizenParams{
			Speed:                 48,
			ShoppingDurationTicks: 30,
			LeisureDurationTicks:  60,
			SchoolStartHour:       8,
			SchoolEndHour:         15,
		},
		Buildings: BuildingParams{
			SpawnIntervalTicks: 2,
			ConstructionTicks:  100,
			MaxPerZonePerTick:  50,
		},
		Spawner: SpawnerParams{
			SpawnIntervalTicks: 5,
			MaxPerTick:         200,
			BurstPerTick:       5000,
		},
		Demand: DemandParams{
			VacancyResidential: Range{Low: 0.05, High: 0.07},
			VacancyCommercial:  Range{Low: 0.05, High: 0.08},
			VacancyIndustrial:  Range{Low: 0.05, High: 0.08},
			VacancyOffice:      Range{Low: 0.08, High: 0.12},
			Damping:            0.15,
			Bootstrap:          0.5,
		},
		Pathfinding: PathfindingParams{
			MaxRequestsPerTick:  256,
			SyncBudgetMillis:    2,
			CongestionFactor:    0.05,
			TrafficDecayDivisor: 2,
		},
		Climate: "temperate",
	}
}
