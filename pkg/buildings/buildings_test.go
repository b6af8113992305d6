package buildings

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/roads"
	"github.com/ChicagoDave/gridcity/pkg/zones"
)

func TestCapacityForLevel(t *testing.T) {
	cases := []struct {
		zone  grid.ZoneType
		level uint8
		want  int
	}{
		{grid.ResidentialLow, 1, 4},
		{grid.ResidentialLow, 3, 12},
		{grid.ResidentialHigh, 5, 80},
		{grid.CommercialLow, 2, 6},
		{grid.ZoneIndustrial, 1, 6},
		{grid.ZoneOffice, 4, 40},
		{grid.ZoneMixedUse, 2, 20},
		{grid.ZoneNone, 1, 0},
	}
	for _, c := range cases {
		if got := CapacityForLevel(c.zone, c.level); got != c.want {
			t.Errorf("CapacityForLevel(%v, %d) = %d, want %d", c.zone, c.level, got, c.want)
		}
	}
}

func TestCapacityBeyondMaxLevelIsZero(t *testing.T) {
	max := grid.ResidentialLow.MaxLevel()
	if got := CapacityForLevel(grid.ResidentialLow, max+1); got != 0 {
		t.Errorf("capacity beyond max level = %d, want 0", got)
	}
	if got := CapacityForLevel(grid.ResidentialLow, 0); got != 0 {
		t.Errorf("capacity at level 0 = %d, want 0", got)
	}
}

func TestMixedUseCapacitiesSumToTotal(t *testing.T) {
	for level := uint8(1); level <= grid.ZoneMixedUse.MaxLevel(); level++ {
		comm, res := MixedUseCapacities(level)
		total := CapacityForLevel(grid.ZoneMixedUse, level)
		if comm+res != total {
			t.Errorf("level %d: %d + %d != %d", level, comm, res, total)
		}
		if comm <= 0 || res <= 0 {
			t.Errorf("level %d: empty part comm=%d res=%d", level, comm, res)
		}
		if res <= comm {
			t.Errorf("level %d: residential part %d should exceed commercial %d", level, res, comm)
		}
	}
}

// growthFixture lays a horizontal road and zones the cells alongside it.
func growthFixture(t *testing.T, zone grid.ZoneType) (*grid.Grid, *roads.Network) {
	t.Helper()
	g := grid.New(32, 32)
	network := roads.NewNetwork()
	for x := 2; x < 26; x++ {
		if !network.PlaceRoad(g, x, 10) {
			t.Fatalf("PlaceRoad(%d, 10) failed", x)
		}
	}
	for x := 2; x < 26; x++ {
		g.At(x, 9).Zone = zone
		g.At(x, 11).Zone = zone
	}
	return g, network
}

func TestGrowthSpawnsOnZonedCells(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g, _ := growthFixture(t, grid.ResidentialLow)

	demand := &zones.Demand{Residential: 1.0}
	p := params.Defaults().Buildings

	started := 0
	for tick := uint64(0); tick < 20; tick += uint64(p.SpawnIntervalTicks) {
		started += growth.Update(g, demand, &p, tick)
	}
	if started == 0 {
		t.Fatal("no buildings started on fully demanded zone")
	}

	census := NewCensus(w)
	stats := census.Collect(roads.NewNetwork())
	if stats.ResidentialCapacity != started*4 {
		t.Errorf("capacity = %d, want %d for %d level-1 low-density buildings",
			stats.ResidentialCapacity, started*4, started)
	}
}

func TestGrowthMarksCells(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g, _ := growthFixture(t, grid.ResidentialLow)

	demand := &zones.Demand{Residential: 1.0}
	p := params.Defaults().Buildings
	for tick := uint64(0); tick < 40; tick += uint64(p.SpawnIntervalTicks) {
		growth.Update(g, demand, &p, tick)
	}

	marked := 0
	for x := 2; x < 26; x++ {
		for _, y := range []int{9, 11} {
			if g.At(x, y).HasBuilding() {
				marked++
			}
		}
	}
	if marked == 0 {
		t.Fatal("no cells carry building entities after growth")
	}
}

func TestGrowthIgnoresZeroDemand(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g, _ := growthFixture(t, grid.ResidentialLow)

	demand := &zones.Demand{}
	p := params.Defaults().Buildings
	for tick := uint64(0); tick < 40; tick += uint64(p.SpawnIntervalTicks) {
		if n := growth.Update(g, demand, &p, tick); n != 0 {
			t.Fatalf("spawned %d buildings with zero demand", n)
		}
	}
}

func TestGrowthRequiresRoadAccess(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g := grid.New(32, 32)
	// Zoned cells but no road anywhere near them.
	for x := 2; x < 26; x++ {
		g.At(x, 20).Zone = grid.ResidentialLow
	}

	demand := &zones.Demand{Residential: 1.0}
	p := params.Defaults().Buildings
	for tick := uint64(0); tick < 40; tick += uint64(p.SpawnIntervalTicks) {
		if n := growth.Update(g, demand, &p, tick); n != 0 {
			t.Fatalf("spawned %d buildings without road access", n)
		}
	}
}

func TestGrowthRespectsPerZoneCap(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g, _ := growthFixture(t, grid.ResidentialLow)

	demand := &zones.Demand{Residential: 1.0}
	p := params.Defaults().Buildings
	p.MaxPerZonePerTick = 3
	p.SpawnIntervalTicks = 1
	if n := growth.Update(g, demand, &p, 0); n > 3 {
		t.Errorf("started %d buildings in one pass, cap is 3", n)
	}
}

func TestConstructionCountdown(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g, _ := growthFixture(t, grid.ResidentialLow)

	demand := &zones.Demand{Residential: 1.0}
	p := params.Defaults().Buildings
	p.ConstructionTicks = 5
	p.SpawnIntervalTicks = 1
	if growth.Update(g, demand, &p, 0) == 0 {
		t.Fatal("nothing started")
	}

	var site ecs.Entity
	for x := 2; x < 26; x++ {
		for _, y := range []int{9, 11} {
			if g.At(x, y).HasBuilding() {
				site = g.At(x, y).Building
			}
		}
	}
	if !growth.UnderConstruction(site) {
		t.Fatal("fresh building is not under construction")
	}
	for i := 0; i < 5; i++ {
		growth.TickConstruction()
	}
	if growth.UnderConstruction(site) {
		t.Error("building still under construction after its timer expired")
	}
}

func TestUpgradeFullBuilding(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g := grid.New(8, 8)

	e := growth.PlaceFinished(g, 3, 3, grid.ResidentialLow, 1)
	bMap := ecs.NewMap[Building](w)
	b := bMap.Get(e)
	b.Occupants = b.Capacity

	demand := &zones.Demand{Residential: 0.8}
	if n := growth.UpgradeFull(demand); n != 1 {
		t.Fatalf("upgraded %d buildings, want 1", n)
	}
	if b.Level != 2 || b.Capacity != 8 {
		t.Errorf("after upgrade level=%d capacity=%d, want 2 and 8", b.Level, b.Capacity)
	}

	// Weak demand blocks further upgrades even when full.
	b.Occupants = b.Capacity
	demand.Residential = 0.2
	if n := growth.UpgradeFull(demand); n != 0 {
		t.Errorf("upgraded %d buildings under weak demand", n)
	}
}

func TestUpgradeStopsAtMaxLevel(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g := grid.New(8, 8)

	e := growth.PlaceFinished(g, 3, 3, grid.ResidentialLow, grid.ResidentialLow.MaxLevel())
	bMap := ecs.NewMap[Building](w)
	b := bMap.Get(e)
	b.Occupants = b.Capacity

	demand := &zones.Demand{Residential: 1.0}
	if n := growth.UpgradeFull(demand); n != 0 {
		t.Errorf("upgraded %d buildings already at max level", n)
	}
}

func TestCensusSplitsMixedUse(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	g := grid.New(8, 8)

	e := growth.PlaceFinished(g, 2, 2, grid.ZoneMixedUse, 1)
	muMap := ecs.NewMap[MixedUse](w)
	mu := muMap.Get(e)
	mu.ResidentialOccupants = 3
	mu.CommercialOccupants = 2

	network := roads.NewNetwork()
	stats := NewCensus(w).Collect(network)

	comm, res := MixedUseCapacities(1)
	if stats.ResidentialCapacity != res || stats.CommercialCapacity != comm {
		t.Errorf("capacities = %d/%d, want %d/%d",
			stats.ResidentialCapacity, stats.CommercialCapacity, res, comm)
	}
	if stats.Population != 3 {
		t.Errorf("population = %d, want 3", stats.Population)
	}
	if stats.TotalJobOccupants != 2 {
		t.Errorf("job occupants = %d, want 2", stats.TotalJobOccupants)
	}
	if stats.HasRoads {
		t.Error("stats report roads on an empty network")
	}
}

func TestSpawnerFillsHomes(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	spawner := NewSpawner(w, 1)
	g := grid.New(16, 16)

	home := growth.PlaceFinished(g, 4, 4, grid.ResidentialLow, 2)
	growth.PlaceFinished(g, 8, 4, grid.CommercialLow, 2)

	p := params.Defaults().Spawner
	p.SpawnIntervalTicks = 1
	n := spawner.Update(&p, 0)
	if n != 8 {
		t.Fatalf("spawned %d citizens, want 8 (level-2 low-density capacity)", n)
	}

	bMap := ecs.NewMap[Building](w)
	b := bMap.Get(home)
	if b.Occupants != b.Capacity {
		t.Errorf("home occupants = %d, want full %d", b.Occupants, b.Capacity)
	}

	// A second pass finds no room.
	if n := spawner.Update(&p, 1); n != 0 {
		t.Errorf("spawned %d citizens into a full city", n)
	}
}

func TestSpawnerAssignsWork(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	spawner := NewSpawner(w, 7)
	g := grid.New(16, 16)

	growth.PlaceFinished(g, 4, 4, grid.ResidentialHigh, 2)
	job := growth.PlaceFinished(g, 8, 4, grid.ZoneOffice, 2)

	p := params.Defaults().Spawner
	p.SpawnIntervalTicks = 1
	spawner.Update(&p, 0)

	jbMap := ecs.NewMap[Building](w)
	jb := jbMap.Get(job)
	if jb.Occupants == 0 {
		t.Fatal("no job slots filled despite working-age spawns")
	}
	if jb.Occupants > jb.Capacity {
		t.Errorf("job occupants %d exceed capacity %d", jb.Occupants, jb.Capacity)
	}

	workers := 0
	filter := ecs.NewFilter2[citizen.Details, citizen.StateComp](w)
	workMap := ecs.NewMap[citizen.WorkLocation](w)
	query := filter.Query()
	for query.Next() {
		if workMap.Has(query.Entity()) {
			workers++
		}
	}
	if workers != jb.Occupants {
		t.Errorf("%d citizens hold WorkLocation, building counts %d", workers, jb.Occupants)
	}
}

func TestSpawnerRespectsLimit(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	spawner := NewSpawner(w, 3)
	g := grid.New(16, 16)

	growth.PlaceFinished(g, 4, 4, grid.ResidentialHigh, 5)

	p := params.Defaults().Spawner
	p.SpawnIntervalTicks = 1
	p.MaxPerTick = 10
	p.BurstPerTick = 10
	if n := spawner.Update(&p, 0); n != 10 {
		t.Errorf("spawned %d citizens, limit is 10", n)
	}
}

func TestSpawnerSkipsConstructionSites(t *testing.T) {
	wv := ecs.NewWorld()
	w := &wv
	growth := NewGrowth(w)
	spawner := NewSpawner(w, 3)
	g, _ := growthFixture(t, grid.ResidentialLow)

	demand := &zones.Demand{Residential: 1.0}
	bp := params.Defaults().Buildings
	bp.SpawnIntervalTicks = 1
	if growth.Update(g, demand, &bp, 0) == 0 {
		t.Fatal("nothing started")
	}

	p := params.Defaults().Spawner
	p.SpawnIntervalTicks = 1
	if n := spawner.Update(&p, 0); n != 0 {
		t.Errorf("spawned %d citizens into unfinished buildings", n)
	}
}

func TestSpawnerDeterministicSeeds(t *testing.T) {
	build := func(seed int64) []citizen.Details {
		wv := ecs.NewWorld()
		w := &wv
		growth := NewGrowth(w)
		spawner := NewSpawner(w, seed)
		g := grid.New(16, 16)
		growth.PlaceFinished(g, 4, 4, grid.ResidentialHigh, 2)

		p := params.Defaults().Spawner
		p.SpawnIntervalTicks = 1
		spawner.Update(&p, 0)

		var out []citizen.Details
		filter := ecs.NewFilter1[citizen.Details](w)
		query := filter.Query()
		for query.Next() {
			out = append(out, *query.Get())
		}
		return out
	}

	a, b := build(42), build(42)
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("runs spawned %d and %d citizens", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("citizen %d differs between identically seeded runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
