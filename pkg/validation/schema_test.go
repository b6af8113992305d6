package validation

import (
	"testing"

	"github.com/ChicagoDave/gridcity/pkg/params"
)

func TestValidateParamsDefaults(t *testing.T) {
	r := ValidateParams(params.Defaults())
	if !r.Valid {
		t.Errorf("expected valid report for defaults, got %d errors: %v", len(r.Errors), r.Errors)
	}
}

func TestValidateParamsZeroWorld(t *testing.T) {
	p := params.Defaults()
	p.World.Width = 0
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for zero-width world")
	}
	assertHasError(t, r, "world")
}

func TestValidateParamsZeroTickRate(t *testing.T) {
	p := params.Defaults()
	p.Clock.TicksPerSecond = 0
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for ticks_per_second=0")
	}
	assertHasError(t, r, "clock.ticks_per_second")
}

func TestValidateParamsRoadSpeedZero(t *testing.T) {
	p := params.Defaults()
	p.Roads.Highway.Speed = 0
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for zero highway speed")
	}
	assertHasError(t, r, "roads.highway.speed")
}

func TestValidateParamsTaxRateOutOfRange(t *testing.T) {
	p := params.Defaults()
	p.Economy.TaxRate = 1.5
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for tax_rate >= 1")
	}
	assertHasError(t, r, "economy.tax_rate")
}

func TestValidateParamsHighTaxWarns(t *testing.T) {
	p := params.Defaults()
	p.Economy.TaxRate = 0.6
	r := ValidateParams(p)
	if !r.Valid {
		t.Error("high tax rate should warn, not error")
	}
	if len(r.Warnings) == 0 {
		t.Error("expected a warning for tax_rate > 0.5")
	}
}

func TestValidateParamsSchoolHoursInverted(t *testing.T) {
	p := params.Defaults()
	p.Citizens.SchoolStartHour = 16
	p.Citizens.SchoolEndHour = 9
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for inverted school hours")
	}
	assertHasError(t, r, "citizens.school_start_hour")
}

func TestValidateParamsBurstBelowMax(t *testing.T) {
	p := params.Defaults()
	p.Spawner.BurstPerTick = 10
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for burst_per_tick < max_per_tick")
	}
	assertHasError(t, r, "spawner.burst_per_tick")
}

func TestValidateParamsVacancyRangeInverted(t *testing.T) {
	p := params.Defaults()
	p.Demand.VacancyOffice = params.Range{Low: 0.12, High: 0.08}
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for inverted vacancy range")
	}
	assertHasError(t, r, "demand.vacancy_office")
}

func TestValidateParamsDampingOutOfRange(t *testing.T) {
	p := params.Defaults()
	p.Demand.Damping = 0
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for damping=0")
	}
	assertHasError(t, r, "demand.damping")
}

func TestValidateParamsPathfindingCaps(t *testing.T) {
	p := params.Defaults()
	p.Pathfinding.MaxRequestsPerTick = 0
	r := ValidateParams(p)
	if r.Valid {
		t.Error("expected invalid report for max_requests_per_tick=0")
	}
	assertHasError(t, r, "pathfinding.max_requests_per_tick")
}

func assertHasError(t *testing.T, r *Report, path string) {
	t.Helper()
	for _, e := range r.Errors {
		if e.Path == path {
			return
		}
	}
	t.Errorf("expected error with path %q, got errors: %v", path, r.Errors)
}
