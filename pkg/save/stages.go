package save

import (
	"fmt"
	"sort"

	"github.com/ChicagoDave/gridcity/pkg/economy"
)

// CurrentVersion is the save format version this build writes. Older
// versions migrate forward through the chain in migrate.go; newer versions
// are refused.
const CurrentVersion uint32 = 1

// Save is the decoded save file: six fixed-order stages plus the extension
// map. Stage structs carry plain records, never live ECS handles, so a Save
// can be inspected without a world.
type Save struct {
	Version     uint32
	Grid        GridStage
	Economy     EconomyStage
	Entities    EntitiesStage
	Environment EnvironmentStage
	Disaster    DisasterStage
	Policy      PolicyStage
	Extensions  map[string][]byte
}

// CellRecord is one grid cell. Power and water flags are omitted; coverage
// is recomputed after restore.
type CellRecord struct {
	Elevation float64
	Type      uint8
	Zone      uint8
	Road      uint8
	District  uint8
}

// SegmentNodeRecord is a segment-store endpoint.
type SegmentNodeRecord struct {
	ID   uint32
	X, Y float64
}

// SegmentRecord is one drawn road segment. Cells are re-rasterized on
// restore rather than stored.
type SegmentRecord struct {
	ID         uint32
	Start, End uint32
	Control    [8]float64 // P0..P3 as x,y pairs
	Road       uint8
}

// GridStage holds terrain, zoning, trees, and the segment store.
type GridStage struct {
	Width, Height int
	Cells         []CellRecord
	Trees         [][2]uint16
	SegmentNodes  []SegmentNodeRecord
	Segments      []SegmentRecord
}

// MarketGoodRecord is one commodity's price entry.
type MarketGoodRecord struct {
	Base, Current, Previous float64
}

// MarketEventRecord is a running market event.
type MarketEventRecord struct {
	Event     uint8
	Remaining int32
}

// EconomyStage holds treasury, tax policy, and the goods market.
type EconomyStage struct {
	Treasury          float64
	TaxRate           float64
	LastCollectionDay int32
	MarketCycle       uint32
	Goods             [economy.GoodCount]MarketGoodRecord
	Events            []MarketEventRecord
}

// BuildingRecord is one grown zoned building. Construction is the ticks
// remaining, or -1 for a finished building. Mixed-use split fields are
// only meaningful when HasMixed is set.
type BuildingRecord struct {
	X, Y      int32
	Zone      uint8
	Level     uint8
	Occupants int32

	Construction int32

	HasMixed                 bool
	MixedComCap, MixedComOcc int32
	MixedResCap, MixedResOcc int32
}

// ServiceRecord is one placed service building.
type ServiceRecord struct {
	Type uint8
	X, Y int32
}

// UtilityRecord is one placed utility source.
type UtilityRecord struct {
	Type uint8
	X, Y int32
}

// CitizenRecord is one citizen. Building references are indices into the
// building records of the same save; family references are indices into
// the citizen records, -1 for absent. Paths and activity timers are
// transient and not saved.
type CitizenRecord struct {
	Age       uint8
	Gender    uint8
	Education uint8
	Happiness float64
	Health    float64
	Salary    float64
	Savings   float64

	Personality [4]float64
	Needs       [5]float64

	State      uint8
	PosX, PosY float64
	VelX, VelY float64
	LOD        uint8

	HomeBuilding int32
	HomeX, HomeY int32

	HasWork      bool
	WorkBuilding int32
	WorkX, WorkY int32

	Partner  int32
	Parent   int32
	Children []int32
}

// EntitiesStage holds every spawned entity as plain records.
type EntitiesStage struct {
	Buildings []BuildingRecord
	Services  []ServiceRecord
	Utilities []UtilityRecord
	Citizens  []CitizenRecord
	Spawned   uint64
}

// EnvironmentStage holds the weather and the clock.
type EnvironmentStage struct {
	WeatherZone      uint8
	Season           uint8
	Condition        uint8
	Temperature      float64
	CloudCover       float64
	Humidity         float64
	PrecipSignal     float64
	PrecipIntensity  float64
	SnowDepth        float64
	DailyRainfall    float64
	RollingRainfall  float64
	RainHistory      []float64
	EventDays        int32
	LastHour         int32
	LastDay          int32
	PrevExtreme      bool
	ClockTick        uint64
	ClockDay         int32
	ClockHour        float64
	ClockSpeed       float64
	ClockPaused      bool
}

// DisasterStage is reserved; the stage tag exists so adding disasters later
// does not shift the format.
type DisasterStage struct {
	Records uint32
}

// PolicyStage is reserved for ordinances beyond the tax rate.
type PolicyStage struct {
	Records uint32
}

// encodeBody serializes the stages in fixed order into the uncompressed
// body.
func (s *Save) encodeBody() []byte {
	w := &writer{}

	// Grid stage.
	w.u32(uint32(s.Grid.Width))
	w.u32(uint32(s.Grid.Height))
	for _, c := range s.Grid.Cells {
		w.f64(c.Elevation)
		w.u8(c.Type)
		w.u8(c.Zone)
		w.u8(c.Road)
		w.u8(c.District)
	}
	w.u32(uint32(len(s.Grid.Trees)))
	for _, t := range s.Grid.Trees {
		w.u16(t[0])
		w.u16(t[1])
	}
	w.u32(uint32(len(s.Grid.SegmentNodes)))
	for _, n := range s.Grid.SegmentNodes {
		w.u32(n.ID)
		w.f64(n.X)
		w.f64(n.Y)
	}
	w.u32(uint32(len(s.Grid.Segments)))
	for _, seg := range s.Grid.Segments {
		w.u32(seg.ID)
		w.u32(seg.Start)
		w.u32(seg.End)
		for _, v := range seg.Control {
			w.f64(v)
		}
		w.u8(seg.Road)
	}

	// Economy stage.
	w.f64(s.Economy.Treasury)
	w.f64(s.Economy.TaxRate)
	w.i32(s.Economy.LastCollectionDay)
	w.u32(s.Economy.MarketCycle)
	for _, g := range s.Economy.Goods {
		w.f64(g.Base)
		w.f64(g.Current)
		w.f64(g.Previous)
	}
	w.u32(uint32(len(s.Economy.Events)))
	for _, ev := range s.Economy.Events {
		w.u8(ev.Event)
		w.i32(ev.Remaining)
	}

	// Entities stage.
	w.u32(uint32(len(s.Entities.Buildings)))
	for _, b := range s.Entities.Buildings {
		w.i32(b.X)
		w.i32(b.Y)
		w.u8(b.Zone)
		w.u8(b.Level)
		w.i32(b.Occupants)
		w.i32(b.Construction)
		w.boolean(b.HasMixed)
		w.i32(b.MixedComCap)
		w.i32(b.MixedComOcc)
		w.i32(b.MixedResCap)
		w.i32(b.MixedResOcc)
	}
	w.u32(uint32(len(s.Entities.Services)))
	for _, sv := range s.Entities.Services {
		w.u8(sv.Type)
		w.i32(sv.X)
		w.i32(sv.Y)
	}
	w.u32(uint32(len(s.Entities.Utilities)))
	for _, u := range s.Entities.Utilities {
		w.u8(u.Type)
		w.i32(u.X)
		w.i32(u.Y)
	}
	w.u32(uint32(len(s.Entities.Citizens)))
	for i := range s.Entities.Citizens {
		encodeCitizen(w, &s.Entities.Citizens[i])
	}
	w.u64(s.Entities.Spawned)

	// Environment stage.
	e := &s.Environment
	w.u8(e.WeatherZone)
	w.u8(e.Season)
	w.u8(e.Condition)
	w.f64(e.Temperature)
	w.f64(e.CloudCover)
	w.f64(e.Humidity)
	w.f64(e.PrecipSignal)
	w.f64(e.PrecipIntensity)
	w.f64(e.SnowDepth)
	w.f64(e.DailyRainfall)
	w.f64(e.RollingRainfall)
	w.u32(uint32(len(e.RainHistory)))
	for _, v := range e.RainHistory {
		w.f64(v)
	}
	w.i32(e.EventDays)
	w.i32(e.LastHour)
	w.i32(e.LastDay)
	w.boolean(e.PrevExtreme)
	w.u64(e.ClockTick)
	w.i32(e.ClockDay)
	w.f64(e.ClockHour)
	w.f64(e.ClockSpeed)
	w.boolean(e.ClockPaused)

	// Disaster and policy stages, reserved.
	w.u32(s.Disaster.Records)
	w.u32(s.Policy.Records)

	// Extension map, keys sorted.
	keys := make([]string, 0, len(s.Extensions))
	for k := range s.Extensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.u32(uint32(len(keys)))
	for _, k := range keys {
		w.str(k)
		w.bytes(s.Extensions[k])
	}

	return w.buf
}

func encodeCitizen(w *writer, c *CitizenRecord) {
	w.u8(c.Age)
	w.u8(c.Gender)
	w.u8(c.Education)
	w.f64(c.Happiness)
	w.f64(c.Health)
	w.f64(c.Salary)
	w.f64(c.Savings)
	for _, v := range c.Personality {
		w.f64(v)
	}
	for _, v := range c.Needs {
		w.f64(v)
	}
	w.u8(c.State)
	w.f64(c.PosX)
	w.f64(c.PosY)
	w.f64(c.VelX)
	w.f64(c.VelY)
	w.u8(c.LOD)
	w.i32(c.HomeBuilding)
	w.i32(c.HomeX)
	w.i32(c.HomeY)
	w.boolean(c.HasWork)
	w.i32(c.WorkBuilding)
	w.i32(c.WorkX)
	w.i32(c.WorkY)
	w.i32(c.Partner)
	w.i32(c.Parent)
	w.u32(uint32(len(c.Children)))
	for _, ch := range c.Children {
		w.i32(ch)
	}
}

// decodeBody parses an uncompressed body at the current version.
func decodeBody(data []byte) (*Save, error) {
	r := &reader{data: data}
	s := &Save{Version: CurrentVersion, Extensions: map[string][]byte{}}

	// Grid stage.
	s.Grid.Width = int(r.u32("grid width"))
	s.Grid.Height = int(r.u32("grid height"))
	cellCount := s.Grid.Width * s.Grid.Height
	if r.err == nil && (cellCount <= 0 || cellCount > 1<<24) {
		return nil, fmt.Errorf("decoding grid: implausible dimensions %dx%d", s.Grid.Width, s.Grid.Height)
	}
	if r.err == nil {
		s.Grid.Cells = make([]CellRecord, cellCount)
		for i := range s.Grid.Cells {
			c := &s.Grid.Cells[i]
			c.Elevation = r.f64("cell elevation")
			c.Type = r.u8("cell type")
			c.Zone = r.u8("cell zone")
			c.Road = r.u8("cell road")
			c.District = r.u8("cell district")
		}
	}
	for i, n := 0, r.count("trees"); i < n && r.err == nil; i++ {
		s.Grid.Trees = append(s.Grid.Trees, [2]uint16{r.u16("tree x"), r.u16("tree y")})
	}
	for i, n := 0, r.count("segment nodes"); i < n && r.err == nil; i++ {
		s.Grid.SegmentNodes = append(s.Grid.SegmentNodes, SegmentNodeRecord{
			ID: r.u32("node id"), X: r.f64("node x"), Y: r.f64("node y"),
		})
	}
	for i, n := 0, r.count("segments"); i < n && r.err == nil; i++ {
		var seg SegmentRecord
		seg.ID = r.u32("segment id")
		seg.Start = r.u32("segment start")
		seg.End = r.u32("segment end")
		for j := range seg.Control {
			seg.Control[j] = r.f64("segment control")
		}
		seg.Road = r.u8("segment road")
		s.Grid.Segments = append(s.Grid.Segments, seg)
	}

	// Economy stage.
	s.Economy.Treasury = r.f64("treasury")
	s.Economy.TaxRate = r.f64("tax rate")
	s.Economy.LastCollectionDay = r.i32("last collection day")
	s.Economy.MarketCycle = r.u32("market cycle")
	for g := range s.Economy.Goods {
		s.Economy.Goods[g].Base = r.f64("good base")
		s.Economy.Goods[g].Current = r.f64("good current")
		s.Economy.Goods[g].Previous = r.f64("good previous")
	}
	for i, n := 0, r.count("market events"); i < n && r.err == nil; i++ {
		s.Economy.Events = append(s.Economy.Events, MarketEventRecord{
			Event: r.u8("event tag"), Remaining: r.i32("event remaining"),
		})
	}

	// Entities stage.
	for i, n := 0, r.count("buildings"); i < n && r.err == nil; i++ {
		var b BuildingRecord
		b.X = r.i32("building x")
		b.Y = r.i32("building y")
		b.Zone = r.u8("building zone")
		b.Level = r.u8("building level")
		b.Occupants = r.i32("building occupants")
		b.Construction = r.i32("building construction")
		b.HasMixed = r.boolean("building mixed flag")
		b.MixedComCap = r.i32("mixed com cap")
		b.MixedComOcc = r.i32("mixed com occ")
		b.MixedResCap = r.i32("mixed res cap")
		b.MixedResOcc = r.i32("mixed res occ")
		s.Entities.Buildings = append(s.Entities.Buildings, b)
	}
	for i, n := 0, r.count("services"); i < n && r.err == nil; i++ {
		s.Entities.Services = append(s.Entities.Services, ServiceRecord{
			Type: r.u8("service type"), X: r.i32("service x"), Y: r.i32("service y"),
		})
	}
	for i, n := 0, r.count("utilities"); i < n && r.err == nil; i++ {
		s.Entities.Utilities = append(s.Entities.Utilities, UtilityRecord{
			Type: r.u8("utility type"), X: r.i32("utility x"), Y: r.i32("utility y"),
		})
	}
	for i, n := 0, r.count("citizens"); i < n && r.err == nil; i++ {
		s.Entities.Citizens = append(s.Entities.Citizens, decodeCitizen(r))
	}
	s.Entities.Spawned = r.u64("spawned counter")

	// Environment stage.
	e := &s.Environment
	e.WeatherZone = r.u8("weather zone")
	e.Season = r.u8("season")
	e.Condition = r.u8("condition")
	e.Temperature = r.f64("temperature")
	e.CloudCover = r.f64("cloud cover")
	e.Humidity = r.f64("humidity")
	e.PrecipSignal = r.f64("precip signal")
	e.PrecipIntensity = r.f64("precip intensity")
	e.SnowDepth = r.f64("snow depth")
	e.DailyRainfall = r.f64("daily rainfall")
	e.RollingRainfall = r.f64("rolling rainfall")
	for i, n := 0, r.count("rain history"); i < n && r.err == nil; i++ {
		e.RainHistory = append(e.RainHistory, r.f64("rain sample"))
	}
	e.EventDays = r.i32("event days")
	e.LastHour = r.i32("last hour")
	e.LastDay = r.i32("last day")
	e.PrevExtreme = r.boolean("prev extreme")
	e.ClockTick = r.u64("clock tick")
	e.ClockDay = r.i32("clock day")
	e.ClockHour = r.f64("clock hour")
	e.ClockSpeed = r.f64("clock speed")
	e.ClockPaused = r.boolean("clock paused")

	s.Disaster.Records = r.u32("disaster records")
	s.Policy.Records = r.u32("policy records")

	for i, n := 0, r.count("extensions"); i < n && r.err == nil; i++ {
		key := r.str("extension key")
		s.Extensions[key] = r.byteSlice("extension value")
	}

	if r.err != nil {
		return nil, fmt.Errorf("decoding save body: %w", r.err)
	}
	return s, nil
}

func decodeCitizen(r *reader) CitizenRecord {
	var c CitizenRecord
	c.Age = r.u8("citizen age")
	c.Gender = r.u8("citizen gender")
	c.Education = r.u8("citizen education")
	c.Happiness = r.f64("citizen happiness")
	c.Health = r.f64("citizen health")
	c.Salary = r.f64("citizen salary")
	c.Savings = r.f64("citizen savings")
	for i := range c.Personality {
		c.Personality[i] = r.f64("citizen personality")
	}
	for i := range c.Needs {
		c.Needs[i] = r.f64("citizen need")
	}
	c.State = r.u8("citizen state")
	c.PosX = r.f64("citizen pos x")
	c.PosY = r.f64("citizen pos y")
	c.VelX = r.f64("citizen vel x")
	c.VelY = r.f64("citizen vel y")
	c.LOD = r.u8("citizen lod")
	c.HomeBuilding = r.i32("citizen home building")
	c.HomeX = r.i32("citizen home x")
	c.HomeY = r.i32("citizen home y")
	c.HasWork = r.boolean("citizen work flag")
	c.WorkBuilding = r.i32("citizen work building")
	c.WorkX = r.i32("citizen work x")
	c.WorkY = r.i32("citizen work y")
	c.Partner = r.i32("citizen partner")
	c.Parent = r.i32("citizen parent")
	for i, n := 0, r.count("citizen children"); i < n && r.err == nil; i++ {
		c.Children = append(c.Children, r.i32("citizen child"))
	}
	return c
}
