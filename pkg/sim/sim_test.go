package sim

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/ChicagoDave/gridcity/pkg/geo"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/services"
)

func testParams() *params.Params {
	p := params.Defaults()
	p.World.Width = 64
	p.World.Height = 64
	p.Buildings.ConstructionTicks = 5
	return p
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testParams(), logger, 42)
}

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

func TestClockAdvancesAndWrapsDay(t *testing.T) {
	c := NewClock()
	p := params.ClockParams{TicksPerSecond: 10, SlowTickDivider: 100}

	if c.Day != 1 || c.Hour != 8 {
		t.Fatalf("new clock = day %d hour %v, want day 1 hour 8", c.Day, c.Hour)
	}
	for i := 0; i < 161; i++ {
		c.Advance(&p)
	}
	if c.Day != 2 {
		t.Fatalf("day after 16.1 sim hours = %d, want 2", c.Day)
	}
	if c.Hour < 0 || c.Hour > 0.2 {
		t.Fatalf("hour after wrap = %v, want near 0", c.Hour)
	}
}

func TestClockPausedHolds(t *testing.T) {
	c := NewClock()
	c.Paused = true
	p := params.ClockParams{TicksPerSecond: 10}

	if c.Advance(&p) {
		t.Fatal("paused clock advanced")
	}
	if c.Tick != 0 || c.Hour != 8 {
		t.Fatalf("paused clock mutated: tick %d hour %v", c.Tick, c.Hour)
	}
}

func TestClockSpeedClamps(t *testing.T) {
	c := NewClock()
	c.SetSpeed(10)
	if c.Speed != 4 {
		t.Fatalf("speed 10 clamped to %v, want 4", c.Speed)
	}
	c.SetSpeed(3)
	if c.Speed != 2 {
		t.Fatalf("speed 3 snapped to %v, want 2", c.Speed)
	}
	c.SetSpeed(0)
	if c.Speed != 1 {
		t.Fatalf("speed 0 clamped to %v, want 1", c.Speed)
	}
}

func TestClockCommuteWindows(t *testing.T) {
	c := NewClock()
	c.Hour = 7
	if !c.IsMorningCommute() || c.IsEveningCommute() {
		t.Error("07:00 should be morning commute only")
	}
	c.Hour = 17.5
	if c.IsMorningCommute() || !c.IsEveningCommute() {
		t.Error("17:30 should be evening commute only")
	}
	c.Hour = 12
	if c.IsMorningCommute() || c.IsEveningCommute() {
		t.Error("noon is no commute window")
	}
}

func TestNewWorldStarterState(t *testing.T) {
	w := newTestWorld(t)

	if w.Budget.Treasury != 50_000 {
		t.Errorf("starting treasury = %v, want 50000", w.Budget.Treasury)
	}
	if w.Budget.TaxRate != 0.10 {
		t.Errorf("starting tax rate = %v, want 0.10", w.Budget.TaxRate)
	}
	if w.Clock.Day != 1 || w.Clock.Hour != 8 {
		t.Errorf("starting clock = day %d hour %v, want day 1 hour 8", w.Clock.Day, w.Clock.Hour)
	}
	for y := 0; y < w.Grid.Height; y++ {
		if w.Grid.At(0, y).Type != grid.Water {
			t.Fatalf("western strip at (0,%d) is %v, want Water", y, w.Grid.At(0, y).Type)
		}
		if w.Grid.At(10, y).Type != grid.Grass {
			t.Fatalf("inland cell at (10,%d) is %v, want Grass", y, w.Grid.At(10, y).Type)
		}
	}
}

func TestPlaceRoadLineChargesTreasury(t *testing.T) {
	w := newTestWorld(t)

	res := w.PlaceRoadLine(10, 20, 20, 20, grid.RoadLocal)
	if !res.Applied {
		t.Fatalf("road line rejected: %s", res.Reason)
	}
	if res.Cells != 11 {
		t.Errorf("cells placed = %d, want 11", res.Cells)
	}
	want := 50_000 - 11*w.Params.Roads.Local.Cost
	if math.Abs(w.Budget.Treasury-want) > 1e-9 {
		t.Errorf("treasury = %v, want %v", w.Budget.Treasury, want)
	}
	for x := 10; x <= 20; x++ {
		if !w.Network.IsRoad(x, 20) {
			t.Fatalf("no road node at (%d,20)", x)
		}
	}
}

func TestPlaceRoadLineRejectsWhenBroke(t *testing.T) {
	w := newTestWorld(t)
	w.Budget.Treasury = 5

	res := w.PlaceRoadLine(10, 20, 20, 20, grid.RoadLocal)
	if res.Applied {
		t.Fatal("underfunded road line was applied")
	}
	if res.Reason != ReasonNoMoney {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonNoMoney)
	}
	if w.Budget.Treasury != 5 {
		t.Errorf("treasury changed to %v on rejection", w.Budget.Treasury)
	}
	if w.Network.NodeCount() != 0 {
		t.Errorf("network has %d nodes after rejection", w.Network.NodeCount())
	}
}

func TestPlaceRoadLineSkipsWater(t *testing.T) {
	w := newTestWorld(t)

	res := w.PlaceRoadLine(0, 20, 10, 20, grid.RoadLocal)
	if !res.Applied {
		t.Fatalf("road line rejected: %s", res.Reason)
	}
	// Columns 0-3 are the starter coast.
	if res.Cells != 7 {
		t.Errorf("cells placed = %d, want 7 (water skipped)", res.Cells)
	}
	if w.Network.IsRoad(0, 20) {
		t.Error("road placed on water")
	}
}

func TestZoneRequiresRoadAccess(t *testing.T) {
	w := newTestWorld(t)
	w.PlaceRoadLine(10, 20, 20, 20, grid.RoadLocal)

	if res := w.ZoneCell(12, 21, grid.ResidentialLow); !res.Applied {
		t.Fatalf("zoning next to road rejected: %s", res.Reason)
	}
	if res := w.ZoneCell(40, 40, grid.ResidentialLow); res.Applied {
		t.Fatal("zoning far from any road was applied")
	}
	if got := w.Grid.At(12, 21).Zone; got != grid.ResidentialLow {
		t.Errorf("zone = %v, want ResidentialLow", got)
	}
}

func TestZoneRepaintIsNoOp(t *testing.T) {
	w := newTestWorld(t)
	w.PlaceRoadLine(10, 20, 20, 20, grid.RoadLocal)
	w.ZoneCell(12, 21, grid.CommercialLow)

	res := w.ZoneCell(12, 21, grid.CommercialLow)
	if !res.Applied || res.Cells != 0 {
		t.Errorf("repaint = %+v, want applied no-op", res)
	}
}

func TestBulldozeRoadRefunds(t *testing.T) {
	w := newTestWorld(t)
	w.PlaceRoadCell(15, 20, grid.RoadLocal)
	before := w.Budget.Treasury

	res := w.Bulldoze(15, 20)
	if !res.Applied {
		t.Fatalf("bulldoze rejected: %s", res.Reason)
	}
	want := before + w.Params.Roads.Local.Cost
	if math.Abs(w.Budget.Treasury-want) > 1e-9 {
		t.Errorf("treasury after refund = %v, want %v", w.Budget.Treasury, want)
	}
	if w.Network.IsRoad(15, 20) {
		t.Error("road node survived bulldoze")
	}
	if w.Grid.At(15, 20).Type != grid.Grass {
		t.Errorf("cell type = %v, want Grass", w.Grid.At(15, 20).Type)
	}
}

func TestBulldozeEmptyCellRejected(t *testing.T) {
	w := newTestWorld(t)
	if res := w.Bulldoze(30, 30); res.Applied {
		t.Fatal("bulldozing bare grass was applied")
	}
}

func TestBulldozeServiceClearsFootprint(t *testing.T) {
	w := newTestWorld(t)

	res := w.PlaceServiceBuilding(services.PoliceHQ, 30, 30)
	if !res.Applied {
		t.Fatalf("service placement rejected: %s", res.Reason)
	}
	entity := w.Grid.At(30, 30).Building

	if res := w.Bulldoze(31, 31); !res.Applied {
		t.Fatalf("bulldoze rejected: %s", res.Reason)
	}
	for dy := 0; dy < 3; dy++ {
		for dx := 0; dx < 3; dx++ {
			if w.Grid.At(30+dx, 30+dy).HasBuilding() {
				t.Fatalf("footprint cell (%d,%d) still occupied", 30+dx, 30+dy)
			}
		}
	}
	if w.ECS.Alive(entity) {
		t.Error("service entity survived bulldoze")
	}
}

func TestPlaceUtilityCoversCells(t *testing.T) {
	w := newTestWorld(t)

	res := w.PlaceUtilitySource(services.PowerPlant, 30, 30)
	if !res.Applied {
		t.Fatalf("utility placement rejected: %s", res.Reason)
	}
	if !w.Grid.At(32, 32).HasPower {
		t.Error("nearby cell has no power after placement")
	}
	wantSpend := services.PowerPlant.Cost()
	if math.Abs((50_000-w.Budget.Treasury)-wantSpend) > 1e-9 {
		t.Errorf("spent %v, want %v", 50_000-w.Budget.Treasury, wantSpend)
	}
}

func TestEditTerrainFloodsRadius(t *testing.T) {
	w := newTestWorld(t)

	res := w.EditTerrain(30, 30, 2, TerrainWater)
	if !res.Applied || res.Cells == 0 {
		t.Fatalf("terrain edit = %+v", res)
	}
	if w.Grid.At(30, 30).Type != grid.Water {
		t.Error("center cell not flooded")
	}
	if w.Grid.At(30, 34).Type == grid.Water {
		t.Error("cell outside radius was flooded")
	}
}

func TestDistrictPaintAndErase(t *testing.T) {
	w := newTestWorld(t)

	w.PaintDistrict(30, 30, 3)
	if got := w.Grid.At(30, 30).District; got != 3 {
		t.Errorf("district = %d, want 3", got)
	}
	w.EraseDistrict(30, 30)
	if got := w.Grid.At(30, 30).District; got != grid.NoDistrict {
		t.Errorf("district after erase = %d, want NoDistrict", got)
	}
}

func TestPaintDistrictRegion(t *testing.T) {
	w := newTestWorld(t)

	// A world-space square covering cells (10,10)..(19,19).
	region := geo.NewPolygon(
		geo.Pt(10*grid.CellSize, 10*grid.CellSize),
		geo.Pt(20*grid.CellSize, 10*grid.CellSize),
		geo.Pt(20*grid.CellSize, 20*grid.CellSize),
		geo.Pt(10*grid.CellSize, 20*grid.CellSize),
	)
	res := w.PaintDistrictRegion(region, 2)
	if !res.Applied {
		t.Fatalf("region paint rejected: %s", res.Reason)
	}
	if res.Cells != 100 {
		t.Errorf("painted cells = %d, want 100", res.Cells)
	}
	if got := w.Grid.At(15, 15).District; got != 2 {
		t.Errorf("district inside region = %d, want 2", got)
	}
	if got := w.Grid.At(25, 25).District; got != grid.NoDistrict {
		t.Errorf("district outside region = %d, want NoDistrict", got)
	}

	if res := w.PaintDistrictRegion(geo.Polygon{}, 1); res.Applied {
		t.Error("empty polygon painted")
	}
}

func TestPlaceRoadPathFollowsWaypoints(t *testing.T) {
	w := newTestWorld(t)
	before := w.Budget.Treasury

	waypoints := []geo.Point2D{
		grid.GridToWorld(10, 40),
		grid.GridToWorld(20, 44),
		grid.GridToWorld(30, 40),
	}
	res := w.PlaceRoadPath(waypoints, grid.RoadAvenue)
	if !res.Applied {
		t.Fatalf("road path rejected: %s", res.Reason)
	}
	if res.Cells < 21 {
		t.Errorf("placed %d cells, want at least the 21-cell span", res.Cells)
	}
	for _, wp := range waypoints {
		gx, gy := grid.WorldToGrid(wp.X, wp.Y)
		if !w.Network.IsRoad(gx, gy) {
			t.Errorf("waypoint cell (%d,%d) has no road", gx, gy)
		}
	}
	if w.Budget.Treasury >= before {
		t.Error("treasury not charged")
	}

	if res := w.PlaceRoadPath(waypoints[:1], grid.RoadLocal); res.Applied {
		t.Error("single-waypoint path placed")
	}
	t.Logf("spline road: %d cells for %v", res.Cells, res.Cost)
}

func TestTreeTools(t *testing.T) {
	w := newTestWorld(t)

	if res := w.PlantTree(30, 30); !res.Applied {
		t.Fatalf("planting rejected: %s", res.Reason)
	}
	if !w.Trees.Get(30, 30) {
		t.Error("tree not recorded")
	}
	if res := w.PlantTree(0, 10); res.Applied {
		t.Error("tree planted on water")
	}
	if res := w.RemoveTree(30, 30); !res.Applied {
		t.Fatalf("removal rejected: %s", res.Reason)
	}
	if w.Trees.Get(30, 30) {
		t.Error("tree survived removal")
	}
}

func TestSetTaxRateClamps(t *testing.T) {
	w := newTestWorld(t)

	w.SetTaxRate(0.5)
	if w.Budget.TaxRate != 0.25 {
		t.Errorf("tax rate = %v, want 0.25", w.Budget.TaxRate)
	}
	w.SetTaxRate(-1)
	if w.Budget.TaxRate != 0 {
		t.Errorf("tax rate = %v, want 0", w.Budget.TaxRate)
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	w := newTestWorld(t)
	w.SetPaused(true)

	stepN(w, 10)
	if w.Clock.Tick != 0 {
		t.Errorf("paused world ticked %d times", w.Clock.Tick)
	}
	w.SetPaused(false)
	stepN(w, 10)
	if w.Clock.Tick != 10 {
		t.Errorf("resumed world at tick %d, want 10", w.Clock.Tick)
	}
}

func TestDemandBootstrapsOnFirstSlowTick(t *testing.T) {
	w := newTestWorld(t)
	w.PlaceRoadLine(10, 20, 30, 20, grid.RoadLocal)

	stepN(w, 100)
	if w.Demand.Residential <= 0 {
		t.Errorf("residential demand = %v after bootstrap slow tick, want > 0", w.Demand.Residential)
	}
}

func TestSimulationGrowsCity(t *testing.T) {
	w := newTestWorld(t)

	w.PlaceRoadLine(8, 20, 56, 20, grid.RoadLocal)
	w.ZoneRect(8, 19, 56, 19, grid.ResidentialLow)
	w.ZoneRect(8, 21, 40, 21, grid.CommercialLow)
	w.ZoneRect(41, 21, 56, 21, grid.ZoneIndustrial)

	stepN(w, 1500)

	stats := w.Stats()
	if stats.ResidentialCapacity == 0 {
		t.Fatal("no residential buildings grew")
	}
	if stats.CommercialCapacity == 0 {
		t.Error("no commercial buildings grew")
	}
	if stats.Population == 0 {
		t.Error("no citizens moved in")
	}
	t.Logf("after 1500 ticks: %d residents in %d capacity, %d job slots",
		stats.Population, stats.ResidentialCapacity, stats.TotalJobCapacity)
}

func TestWeatherEventsPublished(t *testing.T) {
	w := newTestWorld(t)

	found := false
	for i := 0; i < 3000 && !found; i++ {
		w.Step()
		for _, ev := range w.DrainEvents() {
			if ev.Type == "weather_change" {
				found = true
			}
		}
	}
	if !found {
		t.Error("no weather_change event over 12 sim days")
	}
}

func TestOrphanedCitizensCulled(t *testing.T) {
	w := newTestWorld(t)

	w.PlaceRoadLine(10, 20, 30, 20, grid.RoadLocal)
	w.ZoneRect(10, 19, 30, 19, grid.ResidentialLow)
	stepN(w, 1000)
	if w.CitizenCount() == 0 {
		t.Skip("no citizens grew; nothing to cull")
	}

	w.BulldozeRect(10, 19, 30, 19)
	stepN(w, 200)

	if got := w.CitizenCount(); got != 0 {
		t.Errorf("%d citizens left after bulldozing every home, want 0", got)
	}
}
