package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/buildings"
	"github.com/ChicagoDave/gridcity/pkg/geo"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/roads"
	"github.com/ChicagoDave/gridcity/pkg/services"
	"github.com/ChicagoDave/gridcity/pkg/zones"
)

// User-visible rejection messages. Tool failures are reported, never
// surfaced as errors up the stack.
const (
	ReasonNoMoney     = "Not enough money"
	ReasonBlocked     = "Cannot build here"
	ReasonNothing     = "Nothing to remove"
	ReasonNoRoad      = "Zoning needs road access within 2 cells"
	ReasonTooShort    = "Road segment too short"
	ReasonOutOfBounds = "Outside the map"
)

// ToolResult reports the outcome of one tool application.
type ToolResult struct {
	Applied bool    `json:"applied"`
	Reason  string  `json:"reason,omitempty"`
	Cells   int     `json:"cells"`
	Cost    float64 `json:"cost"`
}

func applied(cells int, cost float64) ToolResult {
	return ToolResult{Applied: true, Cells: cells, Cost: cost}
}

func rejected(reason string) ToolResult {
	return ToolResult{Reason: reason}
}

// roadCost is the per-cell construction cost of a road type under the
// current season and weather.
func (w *World) roadCost(rt grid.RoadType) float64 {
	return w.Params.Roads.ForType(rt).Cost * w.Weather.ConstructionCostFactor()
}

// PlaceRoadCell places one road cell, grid-snap style.
func (w *World) PlaceRoadCell(x, y int, rt grid.RoadType) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	cost := w.roadCost(rt)
	if !w.Budget.CanAfford(cost) {
		return rejected(ReasonNoMoney)
	}
	if !w.Network.PlaceRoadTyped(w.Grid, x, y, rt) {
		return rejected(ReasonBlocked)
	}
	w.Budget.Spend(cost)
	w.Dirty.Mark(x, y)
	return applied(1, cost)
}

// PlaceRoadLine walks a Bresenham line between two cells and places a road
// on every placeable cell. The total cost is validated up front so a
// half-built line never drains the treasury.
func (w *World) PlaceRoadLine(x0, y0, x1, y1 int, rt grid.RoadType) ToolResult {
	line := bresenham(x0, y0, x1, y1)

	placeable := 0
	for _, c := range line {
		if !w.Grid.InBounds(c[0], c[1]) {
			continue
		}
		if cell := w.Grid.At(c[0], c[1]); cell.Type == grid.Grass {
			placeable++
		}
	}
	if placeable == 0 {
		return rejected(ReasonBlocked)
	}

	perCell := w.roadCost(rt)
	total := perCell * float64(placeable)
	if !w.Budget.CanAfford(total) {
		return rejected(ReasonNoMoney)
	}

	placed := 0
	for _, c := range line {
		if w.Network.PlaceRoadTyped(w.Grid, c[0], c[1], rt) {
			placed++
			w.Dirty.Mark(c[0], c[1])
		}
	}
	cost := perCell * float64(placed)
	w.Budget.Spend(cost)
	return applied(placed, cost)
}

// PlaceRoadCurve adds a freeform Bézier road segment. The cost estimate
// comes from the arc length before any cell is touched; the charge is the
// cells actually rasterized.
func (w *World) PlaceRoadCurve(curve geo.CubicBezier, rt grid.RoadType) ToolResult {
	length := curve.ArcLength()
	if length < grid.CellSize {
		return rejected(ReasonTooShort)
	}

	perCell := w.roadCost(rt)
	estimate := perCell * (length/grid.CellSize + 1)
	if !w.Budget.CanAfford(estimate) {
		return rejected(ReasonNoMoney)
	}

	start := w.Segments.FindOrCreateNode(curve.P0, roads.DefaultSnapDistance)
	end := w.Segments.FindOrCreateNode(curve.P3, roads.DefaultSnapDistance)
	id := w.Segments.AddSegment(start, end, curve, rt, w.Grid, w.Network)

	cells := 0
	if seg := w.Segments.Segment(id); seg != nil {
		cells = len(seg.Cells)
		for _, c := range seg.Cells {
			w.Dirty.Mark(c[0], c[1])
		}
	}
	cost := perCell * float64(cells)
	w.Budget.Spend(cost)
	return applied(cells, cost)
}

// PlaceRoadPath fits a Catmull-Rom spline through the given world-space
// waypoints and lays a road along it. Sampling at a quarter cell keeps
// consecutive cells adjacent.
func (w *World) PlaceRoadPath(waypoints []geo.Point2D, rt grid.RoadType) ToolResult {
	if len(waypoints) < 2 {
		return rejected(ReasonTooShort)
	}
	spline := geo.CatmullRomSpline(waypoints, 8, 0.5)
	length := spline.Length()
	if length < grid.CellSize {
		return rejected(ReasonTooShort)
	}

	cells := make([][2]int, 0, int(length/grid.CellSize)+1)
	seen := map[[2]int]bool{}
	steps := int(length/(grid.CellSize/4)) + 1
	for i := 0; i <= steps; i++ {
		p := spline.PointAt(float64(i) / float64(steps))
		gx, gy := grid.WorldToGrid(p.X, p.Y)
		c := [2]int{gx, gy}
		if seen[c] {
			continue
		}
		seen[c] = true
		cells = append(cells, c)
	}

	placeable := 0
	for _, c := range cells {
		if !w.Grid.InBounds(c[0], c[1]) {
			continue
		}
		if cell := w.Grid.At(c[0], c[1]); cell.Type == grid.Grass {
			placeable++
		}
	}
	if placeable == 0 {
		return rejected(ReasonBlocked)
	}

	perCell := w.roadCost(rt)
	if !w.Budget.CanAfford(perCell * float64(placeable)) {
		return rejected(ReasonNoMoney)
	}

	placed := 0
	for _, c := range cells {
		if w.Network.PlaceRoadTyped(w.Grid, c[0], c[1], rt) {
			placed++
			w.Dirty.Mark(c[0], c[1])
		}
	}
	cost := perCell * float64(placed)
	w.Budget.Spend(cost)
	return applied(placed, cost)
}

// ZoneCell paints a zone on one cell. Zoning is free but requires grass, no
// building, and a cardinal road within two cells. Repainting the same zone
// is a no-op.
func (w *World) ZoneCell(x, y int, z grid.ZoneType) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	cell := w.Grid.At(x, y)
	if cell.Zone == z {
		return applied(0, 0)
	}
	if cell.Type != grid.Grass || cell.HasBuilding() {
		return rejected(ReasonBlocked)
	}
	if z != grid.ZoneNone && !zones.AdjacentToRoad(w.Grid, x, y) {
		return rejected(ReasonNoRoad)
	}
	cell.Zone = z
	w.Dirty.Mark(x, y)
	return applied(1, 0)
}

// ZoneRect paints a zone over a rectangle, applying the per-cell rules and
// skipping ineligible cells.
func (w *World) ZoneRect(x0, y0, x1, y1 int, z grid.ZoneType) ToolResult {
	x0, x1 = ordered(x0, x1)
	y0, y1 = ordered(y0, y1)

	painted := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if r := w.ZoneCell(x, y, z); r.Applied {
				painted += r.Cells
			}
		}
	}
	if painted == 0 {
		return rejected(ReasonNoRoad)
	}
	return applied(painted, 0)
}

// Bulldoze clears one cell: despawn its entity (clearing a multi-cell
// service footprint when needed), remove a road with a construction-cost
// refund, or erase zone paint.
func (w *World) Bulldoze(x, y int) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	cell := w.Grid.At(x, y)

	if cell.HasBuilding() {
		w.demolish(cell.Building)
		w.Dirty.Mark(x, y)
		w.destDirty = true
		return applied(1, 0)
	}

	if cell.Type == grid.Road {
		refund := w.Params.Roads.ForType(cell.Road).Cost
		if w.Network.RemoveRoad(w.Grid, x, y) {
			w.Budget.Refund(refund)
			w.Dirty.Mark(x, y)
			return applied(1, -refund)
		}
		// Road cell outside the network can only come from a corrupted
		// save; rebuild heals it, bulldoze just clears the cell.
		cell.Type = grid.Grass
		cell.Road = grid.RoadLocal
		w.Dirty.Mark(x, y)
		return applied(1, 0)
	}

	if cell.Zone != grid.ZoneNone {
		cell.Zone = grid.ZoneNone
		w.Dirty.Mark(x, y)
		return applied(1, 0)
	}
	return rejected(ReasonNothing)
}

// BulldozeRect clears a rectangle cell by cell.
func (w *World) BulldozeRect(x0, y0, x1, y1 int) ToolResult {
	x0, x1 = ordered(x0, x1)
	y0, y1 = ordered(y0, y1)

	cleared := 0
	var refund float64
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if r := w.Bulldoze(x, y); r.Applied {
				cleared += r.Cells
				refund -= r.Cost
			}
		}
	}
	if cleared == 0 {
		return rejected(ReasonNothing)
	}
	return ToolResult{Applied: true, Cells: cleared, Cost: -refund}
}

// demolish despawns an entity and clears every grid cell that references
// it. Service buildings span their full footprint.
func (w *World) demolish(entity ecs.Entity) {
	if w.serviceMap.Has(entity) {
		svc := w.serviceMap.Get(entity)
		fw, fh := svc.Type.Footprint()
		for dy := 0; dy < fh; dy++ {
			for dx := 0; dx < fw; dx++ {
				if w.Grid.InBounds(svc.GridX+dx, svc.GridY+dy) {
					clearCell(w.Grid.At(svc.GridX+dx, svc.GridY+dy), entity)
					w.Dirty.Mark(svc.GridX+dx, svc.GridY+dy)
				}
			}
		}
	} else {
		for i := range w.Grid.Cells {
			if w.Grid.Cells[i].Building == entity {
				clearCell(&w.Grid.Cells[i], entity)
			}
		}
	}
	w.ECS.RemoveEntity(entity)
}

func clearCell(c *grid.Cell, entity ecs.Entity) {
	if c.Building == entity {
		c.Building = ecs.Entity{}
	}
}

// PlaceServiceBuilding places a service building, charging its catalog cost
// scaled by the construction cost factor.
func (w *World) PlaceServiceBuilding(t services.Type, x, y int) ToolResult {
	cost := t.Cost() * w.Weather.ConstructionCostFactor()
	if !w.Budget.CanAfford(cost) {
		return rejected(ReasonNoMoney)
	}
	if _, ok := w.Placer.PlaceService(w.Grid, t, x, y); !ok {
		return rejected(ReasonBlocked)
	}
	w.Budget.Spend(cost)
	fw, fh := t.Footprint()
	w.Dirty.MarkRect(x, y, x+fw-1, y+fh-1)
	w.destDirty = true
	return applied(fw*fh, cost)
}

// PlaceUtilitySource places a utility source and recomputes coverage so
// the effect is visible before the next slow tick.
func (w *World) PlaceUtilitySource(t services.UtilityType, x, y int) ToolResult {
	cost := t.Cost() * w.Weather.ConstructionCostFactor()
	if !w.Budget.CanAfford(cost) {
		return rejected(ReasonNoMoney)
	}
	if _, ok := w.Placer.PlaceUtility(w.Grid, t, x, y); !ok {
		return rejected(ReasonBlocked)
	}
	w.Budget.Spend(cost)
	w.coverage.Update(w.Grid)
	w.Dirty.Mark(x, y)
	return applied(1, cost)
}

// TerrainMode selects what a terrain edit does to the cells in its radius.
type TerrainMode uint8

const (
	TerrainRaise TerrainMode = iota
	TerrainLower
	TerrainLevel
	TerrainWater
)

const terrainStep = 0.1

// EditTerrain applies a terrain edit in a radius around (x, y). Cells
// holding roads or buildings are left alone.
func (w *World) EditTerrain(x, y, radius int, mode TerrainMode) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	if radius < 2 {
		radius = 2
	} else if radius > 3 {
		radius = 3
	}
	reference := w.Grid.At(x, y).Elevation

	edited := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius || !w.Grid.InBounds(x+dx, y+dy) {
				continue
			}
			cell := w.Grid.At(x+dx, y+dy)
			if cell.Type == grid.Road || cell.HasBuilding() {
				continue
			}
			switch mode {
			case TerrainRaise:
				cell.Elevation = clampElevation(cell.Elevation + terrainStep)
				if cell.Type == grid.Water && cell.Elevation > 0 {
					cell.Type = grid.Grass
				}
			case TerrainLower:
				cell.Elevation = clampElevation(cell.Elevation - terrainStep)
			case TerrainLevel:
				cell.Elevation = reference
			case TerrainWater:
				cell.Type = grid.Water
				cell.Zone = grid.ZoneNone
			}
			edited++
			w.Dirty.Mark(x+dx, y+dy)
		}
	}
	return applied(edited, 0)
}

// PaintDistrict assigns a district label (0..7) to one cell.
func (w *World) PaintDistrict(x, y int, district uint8) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	if district > 7 {
		district = 7
	}
	w.Grid.At(x, y).District = district
	return applied(1, 0)
}

// PaintDistrictRegion assigns a district label to every cell whose center
// lies inside the given world-space polygon.
func (w *World) PaintDistrictRegion(region geo.Polygon, district uint8) ToolResult {
	if region.IsEmpty() {
		return rejected(ReasonNothing)
	}
	if district > 7 {
		district = 7
	}

	mn, mx := region.BoundingBox()
	x0, y0 := grid.WorldToGrid(mn.X, mn.Y)
	x1, y1 := grid.WorldToGrid(mx.X, mx.Y)

	painted := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !w.Grid.InBounds(x, y) {
				continue
			}
			if region.Contains(grid.GridToWorld(x, y)) {
				w.Grid.At(x, y).District = district
				painted++
			}
		}
	}
	if painted == 0 {
		return rejected(ReasonNothing)
	}
	return applied(painted, 0)
}

// EraseDistrict removes the district label from one cell.
func (w *World) EraseDistrict(x, y int) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	w.Grid.At(x, y).District = grid.NoDistrict
	return applied(1, 0)
}

// PlantTree marks a tree on a grass cell.
func (w *World) PlantTree(x, y int) ToolResult {
	if !w.Grid.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	if w.Grid.At(x, y).Type != grid.Grass {
		return rejected(ReasonBlocked)
	}
	w.Trees.Set(x, y, true)
	return applied(1, 0)
}

// RemoveTree clears a tree marker.
func (w *World) RemoveTree(x, y int) ToolResult {
	if !w.Trees.InBounds(x, y) {
		return rejected(ReasonOutOfBounds)
	}
	if !w.Trees.Get(x, y) {
		return rejected(ReasonNothing)
	}
	w.Trees.Set(x, y, false)
	return applied(1, 0)
}

// SetTaxRate clamps the tax rate into the allowed 0–25% band.
func (w *World) SetTaxRate(rate float64) {
	if rate < 0 {
		rate = 0
	} else if rate > 0.25 {
		rate = 0.25
	}
	w.Budget.TaxRate = rate
}

// SetSpeed changes the clock speed multiplier.
func (w *World) SetSpeed(speed float64) {
	w.Clock.SetSpeed(speed)
}

// SetPaused pauses or resumes the clock.
func (w *World) SetPaused(paused bool) {
	w.Clock.Paused = paused
}

// PlaceGrownBuilding drops a finished zoned building directly, bypassing
// demand and construction. Save restore and scenario setup use it.
func (w *World) PlaceGrownBuilding(x, y int, z grid.ZoneType, level uint8) (ecs.Entity, bool) {
	if !w.Grid.InBounds(x, y) {
		return ecs.Entity{}, false
	}
	cell := w.Grid.At(x, y)
	if cell.Type != grid.Grass || cell.HasBuilding() {
		return ecs.Entity{}, false
	}
	cell.Zone = z
	entity := w.growth.PlaceFinished(w.Grid, x, y, z, level)
	w.destDirty = true
	return entity, true
}

// Spawner exposes the citizen spawner for save restore.
func (w *World) Spawner() *buildings.Spawner {
	return w.spawner
}

func bresenham(x0, y0, x1, y1 int) [][2]int {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var cells [][2]int
	for {
		cells = append(cells, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func clampElevation(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
