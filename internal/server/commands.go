package server

import (
	"encoding/json"

	"github.com/ChicagoDave/gridcity/pkg/geo"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/services"
	"github.com/ChicagoDave/gridcity/pkg/sim"
)

// Inbound command payloads. Coordinates are cell indices.

type cellPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type roadCellPayload struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Road uint8 `json:"road"`
}

type roadLinePayload struct {
	X0   int   `json:"x0"`
	Y0   int   `json:"y0"`
	X1   int   `json:"x1"`
	Y1   int   `json:"y1"`
	Road uint8 `json:"road"`
}

type roadCurvePayload struct {
	Curve geo.CubicBezier `json:"curve"`
	Road  uint8           `json:"road"`
}

type zonePayload struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Zone uint8 `json:"zone"`
}

type zoneRectPayload struct {
	X0   int   `json:"x0"`
	Y0   int   `json:"y0"`
	X1   int   `json:"x1"`
	Y1   int   `json:"y1"`
	Zone uint8 `json:"zone"`
}

type rectPayload struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

type placementPayload struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Kind uint8 `json:"kind"`
}

type terrainPayload struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Radius int   `json:"radius"`
	Mode   uint8 `json:"mode"`
}

type districtPayload struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	District uint8 `json:"district"`
}

type taxPayload struct {
	Rate float64 `json:"rate"`
}

type speedPayload struct {
	Speed float64 `json:"speed"`
}

type pausePayload struct {
	Paused bool `json:"paused"`
}

// commandResult is the reply to every inbound command.
type commandResult struct {
	Command string         `json:"command"`
	Result  sim.ToolResult `json:"result"`
}

func badCommand(kind, reason string) commandResult {
	return commandResult{Command: kind, Result: sim.ToolResult{Reason: reason}}
}

// apply decodes a command envelope and runs it against the world under the
// simulation lock.
func (s *Server) apply(env Envelope) commandResult {
	decode := func(v any) bool {
		return json.Unmarshal(env.Payload, v) == nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var res sim.ToolResult
	switch env.Type {
	case "road.cell":
		var p roadCellPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PlaceRoadCell(p.X, p.Y, grid.RoadType(p.Road))
	case "road.line":
		var p roadLinePayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PlaceRoadLine(p.X0, p.Y0, p.X1, p.Y1, grid.RoadType(p.Road))
	case "road.curve":
		var p roadCurvePayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PlaceRoadCurve(p.Curve, grid.RoadType(p.Road))
	case "zone.cell":
		var p zonePayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.ZoneCell(p.X, p.Y, grid.ZoneType(p.Zone))
	case "zone.rect":
		var p zoneRectPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.ZoneRect(p.X0, p.Y0, p.X1, p.Y1, grid.ZoneType(p.Zone))
	case "bulldoze.cell":
		var p cellPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.Bulldoze(p.X, p.Y)
	case "bulldoze.rect":
		var p rectPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.BulldozeRect(p.X0, p.Y0, p.X1, p.Y1)
	case "service.place":
		var p placementPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PlaceServiceBuilding(services.Type(p.Kind), p.X, p.Y)
	case "utility.place":
		var p placementPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PlaceUtilitySource(services.UtilityType(p.Kind), p.X, p.Y)
	case "terrain.edit":
		var p terrainPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.EditTerrain(p.X, p.Y, p.Radius, sim.TerrainMode(p.Mode))
	case "district.paint":
		var p districtPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PaintDistrict(p.X, p.Y, p.District)
	case "district.erase":
		var p cellPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.EraseDistrict(p.X, p.Y)
	case "tree.plant":
		var p cellPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.PlantTree(p.X, p.Y)
	case "tree.remove":
		var p cellPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		res = s.world.RemoveTree(p.X, p.Y)
	case "tax.set":
		var p taxPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		s.world.SetTaxRate(p.Rate)
		res = sim.ToolResult{Applied: true}
	case "speed.set":
		var p speedPayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		s.world.SetSpeed(p.Speed)
		res = sim.ToolResult{Applied: true}
	case "pause.set":
		var p pausePayload
		if !decode(&p) {
			return badCommand(env.Type, "bad payload")
		}
		s.world.SetPaused(p.Paused)
		res = sim.ToolResult{Applied: true}
	default:
		return badCommand(env.Type, "unknown command")
	}
	return commandResult{Command: env.Type, Result: res}
}
