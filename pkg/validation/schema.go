package validation

import (
	"fmt"

	"github.com/ChicagoDave/gridcity/pkg/params"
)

// ValidateParams checks a parameter set for structural correctness before
// the simulation starts. Range checks run at the schema level; cross-field
// checks run at the consistency level.
func ValidateParams(p *params.Params) *Report {
	r := NewReport()

	validateWorld(p, r)
	validateClock(p, r)
	validateRoads(p, r)
	validateEconomy(p, r)
	validateCitizens(p, r)
	validateSpawner(p, r)
	validateDemand(p, r)
	validatePathfinding(p, r)

	return r
}

func validateWorld(p *params.Params, r *Report) {
	if p.World.Width <= 0 || p.World.Height <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("world dimensions %dx%d must be positive", p.World.Width, p.World.Height),
			Path:        "world",
			ActualValue: fmt.Sprintf("%dx%d", p.World.Width, p.World.Height),
			Expected:    "> 0",
		})
	}
}

func validateClock(p *params.Params, r *Report) {
	if p.Clock.TicksPerSecond <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "ticks_per_second must be > 0",
			Path:        "clock.ticks_per_second",
			ActualValue: p.Clock.TicksPerSecond,
			Expected:    "> 0",
		})
	}
	if p.Clock.SlowTickDivider <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "slow_tick_divider must be > 0",
			Path:        "clock.slow_tick_divider",
			ActualValue: p.Clock.SlowTickDivider,
			Expected:    "> 0",
		})
	}
}

func validateRoads(p *params.Params, r *Report) {
	classes := map[string]*params.RoadClass{
		"local":     &p.Roads.Local,
		"avenue":    &p.Roads.Avenue,
		"boulevard": &p.Roads.Boulevard,
		"highway":   &p.Roads.Highway,
		"one_way":   &p.Roads.OneWay,
		"path":      &p.Roads.Path,
	}

	for name, rc := range classes {
		if rc.Speed <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("roads.%s.speed must be > 0", name),
				Path:        fmt.Sprintf("roads.%s.speed", name),
				ActualValue: rc.Speed,
				Expected:    "> 0",
			})
		}
		if rc.Cost <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("roads.%s.cost must be > 0", name),
				Path:        fmt.Sprintf("roads.%s.cost", name),
				ActualValue: rc.Cost,
				Expected:    "> 0",
			})
		}
		if rc.Capacity <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("roads.%s.capacity must be > 0", name),
				Path:        fmt.Sprintf("roads.%s.capacity", name),
				ActualValue: rc.Capacity,
				Expected:    "> 0",
			})
		}
		if rc.Maintenance < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("roads.%s.maintenance must be non-negative", name),
				Path:        fmt.Sprintf("roads.%s.maintenance", name),
				ActualValue: rc.Maintenance,
				Expected:    ">= 0",
			})
		}
	}
}

func validateEconomy(p *params.Params, r *Report) {
	if p.Economy.TaxRate < 0 || p.Economy.TaxRate >= 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("tax_rate %.4f must be >= 0 and < 1", p.Economy.TaxRate),
			Path:        "economy.tax_rate",
			ActualValue: p.Economy.TaxRate,
			Expected:    "0 <= rate < 1",
		})
	} else if p.Economy.TaxRate > 0.5 {
		r.AddWarning(Result{
			Level:       LevelConsistency,
			Message:     fmt.Sprintf("tax_rate %.2f is unusually high; citizens will leave", p.Economy.TaxRate),
			Path:        "economy.tax_rate",
			ActualValue: p.Economy.TaxRate,
		})
	}
	if p.Economy.TaxIntervalDays <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "tax_interval_days must be > 0",
			Path:        "economy.tax_interval_days",
			ActualValue: p.Economy.TaxIntervalDays,
			Expected:    "> 0",
		})
	}
	if p.Economy.StartingTreasury < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "starting_treasury must be non-negative",
			Path:        "economy.starting_treasury",
			ActualValue: p.Economy.StartingTreasury,
			Expected:    ">= 0",
		})
	}
}

func validateCitizens(p *params.Params, r *Report) {
	if p.Citizens.Speed <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "citizen speed must be > 0",
			Path:        "citizens.speed",
			ActualValue: p.Citizens.Speed,
			Expected:    "> 0",
		})
	}
	if p.Citizens.SchoolStartHour < 0 || p.Citizens.SchoolStartHour > 23 ||
		p.Citizens.SchoolEndHour < 0 || p.Citizens.SchoolEndHour > 23 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "school hours must be within 0-23",
			Path:        "citizens.school_start_hour",
			ActualValue: fmt.Sprintf("%d-%d", p.Citizens.SchoolStartHour, p.Citizens.SchoolEndHour),
			Expected:    "0-23",
		})
	} else if p.Citizens.SchoolStartHour >= p.Citizens.SchoolEndHour {
		r.AddError(Result{
			Level:       LevelConsistency,
			Message:     fmt.Sprintf("school start hour %d must precede end hour %d", p.Citizens.SchoolStartHour, p.Citizens.SchoolEndHour),
			Path:        "citizens.school_start_hour",
			ActualValue: p.Citizens.SchoolStartHour,
			Expected:    fmt.Sprintf("< %d", p.Citizens.SchoolEndHour),
		})
	}
}

func validateSpawner(p *params.Params, r *Report) {
	if p.Spawner.MaxPerTick <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "spawner.max_per_tick must be > 0",
			Path:        "spawner.max_per_tick",
			ActualValue: p.Spawner.MaxPerTick,
			Expected:    "> 0",
		})
	}
	if p.Spawner.BurstPerTick < p.Spawner.MaxPerTick {
		r.AddError(Result{
			Level:       LevelConsistency,
			Message:     "spawner.burst_per_tick must be at least max_per_tick",
			Path:        "spawner.burst_per_tick",
			ActualValue: p.Spawner.BurstPerTick,
			Expected:    fmt.Sprintf(">= %d", p.Spawner.MaxPerTick),
		})
	}
}

func validateDemand(p *params.Params, r *Report) {
	ranges := map[string]params.Range{
		"vacancy_residential": p.Demand.VacancyResidential,
		"vacancy_commercial":  p.Demand.VacancyCommercial,
		"vacancy_industrial":  p.Demand.VacancyIndustrial,
		"vacancy_office":      p.Demand.VacancyOffice,
	}

	for name, rng := range ranges {
		if rng.Low < 0 || rng.High > 1 || rng.Low >= rng.High {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("demand.%s range %.3f-%.3f must satisfy 0 <= low < high <= 1", name, rng.Low, rng.High),
				Path:        fmt.Sprintf("demand.%s", name),
				ActualValue: fmt.Sprintf("%.3f-%.3f", rng.Low, rng.High),
			})
		}
	}

	if p.Demand.Damping <= 0 || p.Demand.Damping > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("demand.damping %.3f must be in (0, 1]", p.Demand.Damping),
			Path:        "demand.damping",
			ActualValue: p.Demand.Damping,
			Expected:    "(0, 1]",
		})
	}
	if p.Demand.Bootstrap < 0 || p.Demand.Bootstrap > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "demand.bootstrap must be within 0-1",
			Path:        "demand.bootstrap",
			ActualValue: p.Demand.Bootstrap,
			Expected:    "0-1",
		})
	}
}

func validatePathfinding(p *params.Params, r *Report) {
	if p.Pathfinding.MaxRequestsPerTick <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "pathfinding.max_requests_per_tick must be > 0",
			Path:        "pathfinding.max_requests_per_tick",
			ActualValue: p.Pathfinding.MaxRequestsPerTick,
			Expected:    "> 0",
		})
	}
	if p.Pathfinding.SyncBudgetMillis <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "pathfinding.sync_budget_millis must be > 0",
			Path:        "pathfinding.sync_budget_millis",
			ActualValue: p.Pathfinding.SyncBudgetMillis,
			Expected:    "> 0",
		})
	}
	if p.Pathfinding.CongestionFactor < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "pathfinding.congestion_factor must be non-negative",
			Path:        "pathfinding.congestion_factor",
			ActualValue: p.Pathfinding.CongestionFactor,
			Expected:    ">= 0",
		})
	}
	if p.Pathfinding.TrafficDecayDivisor <= 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "pathfinding.traffic_decay_divisor must be > 1",
			Path:        "pathfinding.traffic_decay_divisor",
			ActualValue: p.Pathfinding.TrafficDecayDivisor,
			Expected:    "> 1",
		})
	}
}
