package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/gridcity/pkg/grid"
)

func TestDefaults(t *testing.T) {
	p := Defaults()

	if p.World.Width != 256 || p.World.Height != 256 {
		t.Errorf("world = %dx%d, want 256x256", p.World.Width, p.World.Height)
	}
	if p.Clock.TicksPerSecond != 10 {
		t.Errorf("ticks_per_second = %d, want 10", p.Clock.TicksPerSecond)
	}
	if p.Clock.SlowTickDivider != 100 {
		t.Errorf("slow_tick_divider = %d, want 100", p.Clock.SlowTickDivider)
	}

	if p.Economy.StartingTreasury != 50_000 {
		t.Errorf("starting_treasury = %v, want 50000", p.Economy.StartingTreasury)
	}
	if p.Economy.TaxRate != 0.10 {
		t.Errorf("tax_rate = %v, want 0.10", p.Economy.TaxRate)
	}
	if p.Economy.TaxIntervalDays != 30 {
		t.Errorf("tax_interval_days = %d, want 30", p.Economy.TaxIntervalDays)
	}

	if p.Citizens.Speed != 48 {
		t.Errorf("citizen speed = %v, want 48", p.Citizens.Speed)
	}
	if p.Citizens.ShoppingDurationTicks != 30 || p.Citizens.LeisureDurationTicks != 60 {
		t.Errorf("durations = %d/%d, want 30/60",
			p.Citizens.ShoppingDurationTicks, p.Citizens.LeisureDurationTicks)
	}
	if p.Citizens.SchoolStartHour != 8 || p.Citizens.SchoolEndHour != 15 {
		t.Errorf("school hours = %d-%d, want 8-15",
			p.Citizens.SchoolStartHour, p.Citizens.SchoolEndHour)
	}

	if p.Spawner.MaxPerTick != 200 || p.Spawner.BurstPerTick != 5000 {
		t.Errorf("spawner caps = %d/%d, want 200/5000",
			p.Spawner.MaxPerTick, p.Spawner.BurstPerTick)
	}

	if p.Demand.Damping != 0.15 {
		t.Errorf("damping = %v, want 0.15", p.Demand.Damping)
	}
	if p.Demand.Bootstrap != 0.5 {
		t.Errorf("bootstrap = %v, want 0.5", p.Demand.Bootstrap)
	}
	if p.Demand.VacancyOffice.Low != 0.08 || p.Demand.VacancyOffice.High != 0.12 {
		t.Errorf("office vacancy = %v-%v, want 0.08-0.12",
			p.Demand.VacancyOffice.Low, p.Demand.VacancyOffice.High)
	}

	if p.Pathfinding.MaxRequestsPerTick != 256 {
		t.Errorf("max_requests_per_tick = %d, want 256", p.Pathfinding.MaxRequestsPerTick)
	}
	if p.Climate != "temperate" {
		t.Errorf("climate = %q, want temperate", p.Climate)
	}
}

func TestDefaultRoadClasses(t *testing.T) {
	p := Defaults()

	cases := []struct {
		rt          grid.RoadType
		speed, cost float64
		capacity    int
		maintenance float64
		noise       int
	}{
		{grid.RoadLocal, 30, 10, 20, 0.3, 2},
		{grid.RoadAvenue, 50, 20, 40, 0.5, 3},
		{grid.RoadBoulevard, 60, 30, 60, 1.5, 4},
		{grid.RoadHighway, 100, 40, 80, 2.0, 8},
		{grid.RoadOneWay, 40, 15, 25, 0.4, 2},
		{grid.RoadPath, 5, 5, 5, 0.1, 0},
	}

	for _, c := range cases {
		rc := p.Roads.ForType(c.rt)
		if rc.Speed != c.speed {
			t.Errorf("%v speed = %v, want %v", c.rt, rc.Speed, c.speed)
		}
		if rc.Cost != c.cost {
			t.Errorf("%v cost = %v, want %v", c.rt, rc.Cost, c.cost)
		}
		if rc.Capacity != c.capacity {
			t.Errorf("%v capacity = %d, want %d", c.rt, rc.Capacity, c.capacity)
		}
		if rc.Maintenance != c.maintenance {
			t.Errorf("%v maintenance = %v, want %v", c.rt, rc.Maintenance, c.maintenance)
		}
		if rc.NoiseRadius != c.noise {
			t.Errorf("%v noise_radius = %d, want %d", c.rt, rc.NoiseRadius, c.noise)
		}
	}
}

func TestRoadSpeedOrdering(t *testing.T) {
	p := Defaults()
	if !(p.Roads.Path.Speed < p.Roads.Local.Speed) {
		t.Error("path should be slower than local")
	}
	if !(p.Roads.Local.Speed < p.Roads.Avenue.Speed &&
		p.Roads.Avenue.Speed < p.Roads.Boulevard.Speed &&
		p.Roads.Boulevard.Speed < p.Roads.Highway.Speed) {
		t.Error("road speeds should increase with road tier")
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridcity.yaml")
	content := []byte("economy:\n  tax_rate: 0.25\nclimate: desert\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Economy.TaxRate != 0.25 {
		t.Errorf("tax_rate = %v, want 0.25", p.Economy.TaxRate)
	}
	if p.Climate != "desert" {
		t.Errorf("climate = %q, want desert", p.Climate)
	}
	// Untouched fields keep defaults.
	if p.Economy.TaxIntervalDays != 30 {
		t.Errorf("tax_interval_days = %d, want default 30", p.Economy.TaxIntervalDays)
	}
	if p.Citizens.Speed != 48 {
		t.Errorf("citizen speed = %v, want default 48", p.Citizens.Speed)
	}
}

func TestLoadProjectMissingFileYieldsDefaults(t *testing.T) {
	p, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if p.Economy.StartingTreasury != 50_000 {
		t.Error("missing project file should yield defaults")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("economy: [not a map"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestRangeHelpers(t *testing.T) {
	r := Range{Low: 0.05, High: 0.07}
	if !r.Contains(0.06) || r.Contains(0.08) || r.Contains(0.04) {
		t.Error("Contains boundaries wrong")
	}
	if r.Mid() != 0.06 {
		t.Errorf("Mid = %v, want 0.06", r.Mid())
	}
}
