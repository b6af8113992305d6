package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChicagoDave/gridcity/internal/server"
	"github.com/ChicagoDave/gridcity/pkg/params"
	"github.com/ChicagoDave/gridcity/pkg/save"
	"github.com/ChicagoDave/gridcity/pkg/sim"
	"github.com/ChicagoDave/gridcity/pkg/validation"
)

type runOptions struct {
	paramsPath string
	loadPath   string
	savePath   string
	days       int
	seed       int64
}

type serveOptions struct {
	port       int
	paramsPath string
	saveDir    string
	loadPath   string
	seed       int64
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	return logger
}

// loadParams loads and validates the parameter set. Warnings print but do
// not stop the run.
func loadParams(path string) (*params.Params, error) {
	p := params.Defaults()
	if path != "" {
		loaded, err := params.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading parameters: %w", err)
		}
		p = loaded
	}

	report := validation.ValidateParams(p)
	if len(report.Warnings) > 0 || !report.Valid {
		printValidationReport(report)
	}
	if !report.Valid {
		return nil, fmt.Errorf("parameter validation failed: %s", report.Summary)
	}
	return p, nil
}

func pickSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// buildWorld resumes from a save file when one is given, otherwise starts a
// fresh city.
func buildWorld(loadPath string, p *params.Params, logger *slog.Logger, seed int64) (*sim.World, error) {
	if loadPath == "" {
		return sim.New(p, logger, seed), nil
	}
	s, err := save.ReadFile(loadPath)
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	w, err := save.Restore(s, p, logger, seed)
	if err != nil {
		return nil, fmt.Errorf("restoring save: %w", err)
	}
	logger.Info("resumed from save", "path", loadPath, "day", w.Clock.Day)
	return w, nil
}

func runHeadless(opts runOptions) error {
	p, err := loadParams(opts.paramsPath)
	if err != nil {
		return err
	}
	logger := newLogger()
	w, err := buildWorld(opts.loadPath, p, logger, pickSeed(opts.seed))
	if err != nil {
		return err
	}

	ticksPerDay := 24 * p.Clock.TicksPerSecond
	start := time.Now()
	for i := 0; i < opts.days*ticksPerDay; i++ {
		w.Step()
		w.DrainEvents()
	}
	elapsed := time.Since(start)

	printWorldReport(w, elapsed)

	if opts.savePath != "" {
		if err := save.WriteFile(opts.savePath, save.Capture(w)); err != nil {
			return fmt.Errorf("writing save: %w", err)
		}
		fmt.Printf("\nSaved to %s\n", opts.savePath)
	}
	return nil
}

func runServe(opts serveOptions) error {
	p, err := loadParams(opts.paramsPath)
	if err != nil {
		return err
	}
	logger := newLogger()

	loadPath := opts.loadPath
	if loadPath == "" && opts.saveDir != "" {
		if _, path, err := save.LoadLatest(opts.saveDir); err == nil {
			loadPath = path
		}
	}
	w, err := buildWorld(loadPath, p, logger, pickSeed(opts.seed))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(w, opts.port, opts.saveDir, logger)
	return srv.Start(ctx)
}

func runNew(path, paramsPath string, seed int64) error {
	p, err := loadParams(paramsPath)
	if err != nil {
		return err
	}
	w := sim.New(p, newLogger(), pickSeed(seed))
	if err := save.WriteFile(path, save.Capture(w)); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	fmt.Printf("New %dx%d city written to %s\n", w.Grid.Width, w.Grid.Height, path)
	return nil
}

func runInspect(path string) error {
	sum, err := save.Inspect(path)
	if err != nil {
		return fmt.Errorf("inspecting save: %w", err)
	}
	printSummary(path, sum)
	return nil
}
