package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/sim"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	p := params.Defaults()
	p.World.Width = 48
	p.World.Height = 48
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	world := sim.New(p, logger, 1)
	return New(world, 0, t.TempDir(), logger)
}

func command(t *testing.T, kind string, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	return Envelope{Type: kind, Payload: raw}
}

func TestApplyPlacesRoadLine(t *testing.T) {
	s := testServer(t)
	before := s.world.Budget.Treasury

	res := s.apply(command(t, "road.line", roadLinePayload{X0: 10, Y0: 10, X1: 20, Y1: 10}))
	if !res.Result.Applied {
		t.Fatalf("road.line rejected: %s", res.Result.Reason)
	}
	if res.Result.Cells != 11 {
		t.Errorf("cells = %d, want 11", res.Result.Cells)
	}
	if s.world.Budget.Treasury >= before {
		t.Error("treasury not charged")
	}
	if !s.world.Network.IsRoad(15, 10) {
		t.Error("road cell missing after command")
	}
}

func TestApplyRejectsUnknownCommand(t *testing.T) {
	s := testServer(t)
	res := s.apply(Envelope{Type: "city.explode"})
	if res.Result.Applied {
		t.Fatal("unknown command applied")
	}
	if res.Result.Reason != "unknown command" {
		t.Errorf("reason = %q", res.Result.Reason)
	}
}

func TestApplyRejectsMalformedPayload(t *testing.T) {
	s := testServer(t)
	res := s.apply(Envelope{Type: "zone.cell", Payload: json.RawMessage(`"nope"`)})
	if res.Result.Applied {
		t.Fatal("malformed payload applied")
	}
}

func TestApplyZoneNeedsRoad(t *testing.T) {
	s := testServer(t)
	res := s.apply(command(t, "zone.cell", zonePayload{X: 30, Y: 30, Zone: uint8(grid.ResidentialLow)}))
	if res.Result.Applied {
		t.Fatal("zoning applied without road access")
	}

	s.apply(command(t, "road.line", roadLinePayload{X0: 28, Y0: 30, X1: 32, Y1: 30}))
	res = s.apply(command(t, "zone.cell", zonePayload{X: 30, Y: 31, Zone: uint8(grid.ResidentialLow)}))
	if !res.Result.Applied {
		t.Fatalf("zoning rejected next to road: %s", res.Result.Reason)
	}
}

func TestApplyPauseAndSpeed(t *testing.T) {
	s := testServer(t)

	s.apply(command(t, "pause.set", pausePayload{Paused: true}))
	if !s.world.Clock.Paused {
		t.Error("pause.set did not pause")
	}
	s.apply(command(t, "speed.set", speedPayload{Speed: 4}))
	if s.world.Clock.Speed != 4 {
		t.Errorf("speed = %v, want 4", s.world.Clock.Speed)
	}
	s.apply(command(t, "tax.set", taxPayload{Rate: 0.9}))
	if s.world.Budget.TaxRate != 0.25 {
		t.Errorf("tax rate = %v, want clamp to 0.25", s.world.Budget.TaxRate)
	}
}

func TestStateEndpoint(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleState(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	var body stateSummary
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if body.Day != 1 || body.Hour != 8 {
		t.Errorf("clock = day %d hour %v, want day 1 hour 8", body.Day, body.Hour)
	}
	if body.Treasury != 50_000 {
		t.Errorf("treasury = %v, want 50000", body.Treasury)
	}
	if body.Width != 48 || body.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 48x48", body.Width, body.Height)
	}
}

func TestDemandEndpoint(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleDemand(rec, httptest.NewRequest(http.MethodGet, "/api/demand", nil))

	var body map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding demand: %v", err)
	}
	for _, key := range []string{"residential", "commercial", "industrial", "office"} {
		if _, ok := body[key]; !ok {
			t.Errorf("demand body missing %q", key)
		}
	}
}

func TestWeatherEndpoint(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleWeather(rec, httptest.NewRequest(http.MethodGet, "/api/weather", nil))

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding weather: %v", err)
	}
	if body["season"] == "" || body["condition"] == "" {
		t.Errorf("weather body = %v", body)
	}
}

func TestSaveEndpoint(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleSave(rec, httptest.NewRequest(http.MethodPost, "/api/save?name=test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.HasSuffix(body["path"], "test.gcty") {
		t.Errorf("path = %q", body["path"])
	}
}

func TestWebsocketHelloAndCommand(t *testing.T) {
	s := testServer(t)
	done := make(chan struct{})
	defer close(done)
	go s.hub.Run(done)

	ts := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer conn.Close()

	var hello Envelope
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("reading hello: %v", err)
	}
	if hello.Type != "state" {
		t.Fatalf("first message type = %q, want state", hello.Type)
	}

	if err := conn.WriteJSON(command(t, "pause.set", pausePayload{Paused: true})); err != nil {
		t.Fatalf("sending command: %v", err)
	}
	var reply Envelope
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading reply: %v", err)
	}
	if reply.Type != "tool_result" {
		t.Fatalf("reply type = %q, want tool_result", reply.Type)
	}
	var res commandResult
	if err := json.Unmarshal(reply.Payload, &res); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if res.Command != "pause.set" || !res.Result.Applied {
		t.Errorf("result = %+v", res)
	}
}
