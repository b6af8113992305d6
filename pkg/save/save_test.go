package save

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/services"
	"github.com/ChicagoDave/gridcity/pkg/sim"
)

func testParams() *params.Params {
	p := params.Defaults()
	p.World.Width = 48
	p.World.Height = 48
	p.Buildings.ConstructionTicks = 5
	return p
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// grownCity returns a world that has run long enough to hold roads,
// buildings, and citizens.
func grownCity(t *testing.T) *sim.World {
	t.Helper()
	w := sim.New(testParams(), quietLogger(), 7)

	w.PlaceRoadLine(8, 24, 40, 24, grid.RoadLocal)
	w.ZoneRect(8, 23, 40, 23, grid.ResidentialLow)
	w.ZoneRect(8, 25, 40, 25, grid.CommercialLow)
	w.PlaceServiceBuilding(services.ElementarySchool, 12, 28)
	w.PlaceUtilitySource(services.PowerPlant, 20, 28)
	w.PlantTree(30, 30)

	for i := 0; i < 1200; i++ {
		w.Step()
	}
	return w
}

func restored(t *testing.T, w *sim.World) *sim.World {
	t.Helper()
	data, err := Encode(Capture(w))
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	s, err := Decode(data)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	out, err := Restore(s, testParams(), quietLogger(), 7)
	if err != nil {
		t.Fatalf("restoring: %v", err)
	}
	return out
}

func TestRoundTripPreservesCity(t *testing.T) {
	w := grownCity(t)
	r := restored(t, w)

	if r.Budget.Treasury != w.Budget.Treasury {
		t.Errorf("treasury = %v, want %v", r.Budget.Treasury, w.Budget.Treasury)
	}
	if r.Clock.Tick != w.Clock.Tick || r.Clock.Day != w.Clock.Day {
		t.Errorf("clock = tick %d day %d, want tick %d day %d",
			r.Clock.Tick, r.Clock.Day, w.Clock.Tick, w.Clock.Day)
	}
	if math.Abs(r.Clock.Hour-w.Clock.Hour) > 1e-9 {
		t.Errorf("hour = %v, want %v", r.Clock.Hour, w.Clock.Hour)
	}
	if got, want := r.CitizenCount(), w.CitizenCount(); got != want {
		t.Errorf("citizens = %d, want %d", got, want)
	}
	if got, want := r.Network.NodeCount(), w.Network.NodeCount(); got != want {
		t.Errorf("road nodes = %d, want %d", got, want)
	}
	for y := 0; y < w.Grid.Height; y++ {
		for x := 0; x < w.Grid.Width; x++ {
			a, b := w.Grid.At(x, y), r.Grid.At(x, y)
			if a.Type != b.Type || a.Zone != b.Zone || a.Road != b.Road {
				t.Fatalf("cell (%d,%d) = %v/%v/%v, want %v/%v/%v",
					x, y, b.Type, b.Zone, b.Road, a.Type, a.Zone, a.Road)
			}
		}
	}
	if !r.Trees.Get(30, 30) {
		t.Error("tree lost in round trip")
	}
	if r.Weather.Condition != w.Weather.Condition || r.Weather.Season != w.Weather.Season {
		t.Errorf("weather = %v/%v, want %v/%v",
			r.Weather.Condition, r.Weather.Season, w.Weather.Condition, w.Weather.Season)
	}
	if !r.Grid.At(22, 30).HasPower {
		t.Error("utility coverage not rebuilt after restore")
	}
}

func TestRoundTripPreservesStats(t *testing.T) {
	w := grownCity(t)
	r := restored(t, w)

	a, b := w.Stats(), r.Stats()
	if b.ResidentialCapacity != a.ResidentialCapacity {
		t.Errorf("residential capacity = %d, want %d", b.ResidentialCapacity, a.ResidentialCapacity)
	}
	if b.Population != a.Population {
		t.Errorf("population = %d, want %d", b.Population, a.Population)
	}
	if b.TotalJobOccupants != a.TotalJobOccupants {
		t.Errorf("job occupants = %d, want %d", b.TotalJobOccupants, a.TotalJobOccupants)
	}
}

func TestRoundTripPreservesMarket(t *testing.T) {
	w := grownCity(t)
	s := Capture(w)
	r := restored(t, w)

	for g, rec := range s.Economy.Goods {
		if got := r.Market.Prices[g].Current; got != rec.Current {
			t.Errorf("good %d price = %v, want %v", g, got, rec.Current)
		}
	}
	if got, want := len(r.Market.Active), len(s.Economy.Events); got != want {
		t.Errorf("active events = %d, want %d", got, want)
	}
	if r.Market.Cycle() != s.Economy.MarketCycle {
		t.Errorf("market cycle = %d, want %d", r.Market.Cycle(), s.Economy.MarketCycle)
	}
}

func TestRefusesFutureVersion(t *testing.T) {
	w := grownCity(t)
	s := Capture(w)
	s.Version = CurrentVersion + 1

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if _, err := Decode(data); err == nil {
		t.Fatal("future version decoded without error")
	}
}

func TestChecksumMismatchDetected(t *testing.T) {
	w := grownCity(t)
	data, err := Encode(Capture(w))
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if _, err := Decode(data); err == nil {
		t.Fatal("corrupted body decoded without error")
	}
}

func TestBadMagicRejected(t *testing.T) {
	if _, err := Decode([]byte("NOPE00000000")); err == nil {
		t.Fatal("bad magic accepted")
	}
	if _, err := Decode([]byte("GC")); err == nil {
		t.Fatal("truncated header accepted")
	}
}

func TestExtensionKeysPreserved(t *testing.T) {
	w := grownCity(t)
	s := Capture(w)
	s.Extensions["zulu"] = []byte{9, 9}
	s.Extensions["alpha"] = []byte{1}

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if string(out.Extensions["alpha"]) != "\x01" || len(out.Extensions["zulu"]) != 2 {
		t.Errorf("extensions = %v", out.Extensions)
	}
}

func TestWriteFileIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "city.gcty")
	w := grownCity(t)

	if err := WriteFile(path, Capture(w)); err != nil {
		t.Fatalf("writing: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != "city.gcty" {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
	if _, err := ReadFile(path); err != nil {
		t.Fatalf("reading back: %v", err)
	}
}

func TestAutosaveRotation(t *testing.T) {
	dir := t.TempDir()
	w := grownCity(t)
	s := Capture(w)

	for i := 0; i < 4; i++ {
		if _, err := Autosave(dir, i, s); err != nil {
			t.Fatalf("autosave %d: %v", i, err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Errorf("autosave files = %d, want 3 rotating slots", len(entries))
	}
}

func TestLoadLatestFallsBackPastCorruption(t *testing.T) {
	dir := t.TempDir()
	w := grownCity(t)

	good := filepath.Join(dir, "good.gcty")
	if err := WriteFile(good, Capture(w)); err != nil {
		t.Fatalf("writing good save: %v", err)
	}
	bad := filepath.Join(dir, "zz-newer.gcty")
	if err := os.WriteFile(bad, []byte("GCTYgarbagegarbage"), 0o644); err != nil {
		t.Fatalf("writing corrupt save: %v", err)
	}
	// Make the corrupt file the newest candidate.
	now := time.Now().Add(time.Hour)
	if err := os.Chtimes(bad, now, now); err != nil {
		t.Fatalf("touching corrupt save: %v", err)
	}

	s, path, err := LoadLatest(dir)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if path != good {
		t.Errorf("loaded %s, want fallback to %s", path, good)
	}
	if s.Grid.Width != 48 {
		t.Errorf("loaded width = %d, want 48", s.Grid.Width)
	}
}

func TestInspectSummarizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "city.gcty")
	w := grownCity(t)
	s := Capture(w)
	s.Extensions["mods"] = []byte("none")
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("writing: %v", err)
	}

	sum, err := Inspect(path)
	if err != nil {
		t.Fatalf("inspecting: %v", err)
	}
	if sum.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", sum.Version, CurrentVersion)
	}
	if sum.Width != 48 || sum.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 48x48", sum.Width, sum.Height)
	}
	if sum.Citizens != len(s.Entities.Citizens) {
		t.Errorf("citizens = %d, want %d", sum.Citizens, len(s.Entities.Citizens))
	}
	if len(sum.ExtensionKeys) != 1 || sum.ExtensionKeys[0] != "mods" {
		t.Errorf("extension keys = %v", sum.ExtensionKeys)
	}
	t.Logf("summary: %+v", sum)
}
