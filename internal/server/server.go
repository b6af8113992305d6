// Package server runs a live city over HTTP: REST snapshots for pollers and
// a websocket hub carrying tool commands in and simulation events out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ChicagoDave/gridcity/pkg/save"
	"github.com/ChicagoDave/gridcity/pkg/sim"
)

// Server owns the simulation loop. All world access goes through mu: the
// tick loop, REST handlers and websocket commands share one lock.
type Server struct {
	world   *sim.World
	mu      sync.Mutex
	hub     *Hub
	log     *slog.Logger
	port    int
	saveDir string

	autosaveCounter int
}

// New wraps a world in a server. saveDir receives manual saves and the
// rotating autosaves.
func New(world *sim.World, port int, saveDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		world:   world,
		hub:     newHub(logger),
		log:     logger,
		port:    port,
		saveDir: saveDir,
	}
}

// Start runs the tick loop, the hub and the HTTP listener until the context
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/demand", s.handleDemand)
	mux.HandleFunc("GET /api/weather", s.handleWeather)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /ws", s.handleWS)

	go s.hub.Run(ctx.Done())
	go s.loop(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("server listening", "addr", srv.Addr, "saves", s.saveDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// loop steps the world at the configured tick rate and broadcasts the
// events each step produces.
func (s *Server) loop(ctx context.Context) {
	tps := s.world.Params.Clock.TicksPerSecond
	if tps <= 0 {
		tps = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	autosaveEvery := time.NewTicker(2 * time.Minute)
	defer autosaveEvery.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-autosaveEvery.C:
			s.autosave()
		case <-ticker.C:
			s.mu.Lock()
			s.world.Step()
			events := s.world.DrainEvents()
			s.mu.Unlock()
			for _, ev := range events {
				msg, err := envelope(ev.Type, ev.Payload)
				if err != nil {
					continue
				}
				s.hub.Broadcast(msg)
			}
		}
	}
}

func (s *Server) autosave() {
	if s.saveDir == "" {
		return
	}
	s.mu.Lock()
	snap := save.Capture(s.world)
	slot := s.autosaveCounter
	s.autosaveCounter++
	s.mu.Unlock()

	path, err := save.Autosave(s.saveDir, slot, snap)
	if err != nil {
		s.log.Error("autosave failed", "error", err)
		return
	}
	s.log.Info("autosaved", "path", path)
	if msg, err := envelope("autosave", map[string]string{"path": path}); err == nil {
		s.hub.Broadcast(msg)
	}
}

// stateSummary is the /api/state body and the websocket hello payload.
type stateSummary struct {
	Tick       uint64  `json:"tick"`
	Day        int     `json:"day"`
	Hour       float64 `json:"hour"`
	Speed      float64 `json:"speed"`
	Paused     bool    `json:"paused"`
	Treasury   float64 `json:"treasury"`
	TaxRate    float64 `json:"tax_rate"`
	Population int     `json:"population"`
	Citizens   int     `json:"citizens"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

func (s *Server) stateSnapshot() stateSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.world.Stats()
	return stateSummary{
		Tick:       s.world.Clock.Tick,
		Day:        s.world.Clock.Day,
		Hour:       s.world.Clock.Hour,
		Speed:      s.world.Clock.Speed,
		Paused:     s.world.Clock.Paused,
		Treasury:   s.world.Budget.Treasury,
		TaxRate:    s.world.Budget.TaxRate,
		Population: stats.Population,
		Citizens:   s.world.CitizenCount(),
		Width:      s.world.Grid.Width,
		Height:     s.world.Grid.Height,
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.stateSnapshot())
}

func (s *Server) handleDemand(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	d := s.world.Demand
	s.mu.Unlock()
	writeJSON(w, map[string]float64{
		"residential": d.Residential,
		"commercial":  d.Commercial,
		"industrial":  d.Industrial,
		"office":      d.Office,
	})
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	wx := s.world.Weather
	body := map[string]any{
		"season":           wx.Season.String(),
		"condition":        wx.Condition.String(),
		"temperature":      wx.Temperature,
		"cloud_cover":      wx.CloudCover,
		"humidity":         wx.Humidity,
		"precipitation":    wx.PrecipitationIntensity,
		"snow_depth":       wx.SnowDepth,
		"daily_rainfall":   wx.DailyRainfall,
		"rolling_rainfall": wx.RollingRainfall,
	}
	s.mu.Unlock()
	writeJSON(w, body)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.saveDir == "" {
		http.Error(w, "no save directory configured", http.StatusConflict)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "city"
	}

	s.mu.Lock()
	snap := save.Capture(s.world)
	s.mu.Unlock()

	path := fmt.Sprintf("%s/%s.gcty", s.saveDir, name)
	if err := save.WriteFile(path, snap); err != nil {
		s.log.Error("save failed", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("saved", "path", path)
	writeJSON(w, map[string]string{"path": path})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
