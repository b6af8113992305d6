package main

import (
	"fmt"
	"time"

	"github.com/ChicagoDave/gridcity/pkg/save"
	"github.com/ChicagoDave/gridcity/pkg/sim"
	"github.com/ChicagoDave/gridcity/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s = %v\n", w.Path, w.ActualValue)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Parameters: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Parameters: INVALID (%s)\n", r.Summary)
	}
}

func printWorldReport(w *sim.World, elapsed time.Duration) {
	stats := w.Stats()

	fmt.Println("Simulation Report")
	fmt.Println("=================")
	fmt.Println()
	fmt.Printf("  Day %d, %02d:00  (%d ticks in %s)\n",
		w.Clock.Day, w.Clock.HourOfDay(), w.Clock.Tick, elapsed.Round(time.Millisecond))
	fmt.Println()
	fmt.Printf("  %-22s %12s\n", "Treasury", formatMoney(w.Budget.Treasury))
	fmt.Printf("  %-22s %11.0f%%\n", "Tax rate", w.Budget.TaxRate*100)
	fmt.Printf("  %-22s %12d\n", "Population", stats.Population)
	fmt.Printf("  %-22s %12d\n", "Citizens simulated", w.CitizenCount())
	fmt.Printf("  %-22s %12d\n", "Housing capacity", stats.ResidentialCapacity)
	fmt.Printf("  %-22s %12d\n", "Jobs filled", stats.TotalJobOccupants)
	fmt.Printf("  %-22s %12d\n", "Job capacity", stats.TotalJobCapacity)
	fmt.Println()
	fmt.Printf("  %-22s %12.2f\n", "Residential demand", w.Demand.Residential)
	fmt.Printf("  %-22s %12.2f\n", "Commercial demand", w.Demand.Commercial)
	fmt.Printf("  %-22s %12.2f\n", "Industrial demand", w.Demand.Industrial)
	fmt.Printf("  %-22s %12.2f\n", "Office demand", w.Demand.Office)
	fmt.Println()
	fmt.Printf("  %-22s %12s\n", "Season", w.Weather.Season.String())
	fmt.Printf("  %-22s %12s\n", "Weather", w.Weather.Condition.String())
	fmt.Printf("  %-22s %11.1fC\n", "Temperature", w.Weather.Temperature)
}

func printSummary(path string, s *save.Summary) {
	fmt.Printf("%s (format v%d)\n", path, s.Version)
	fmt.Println()
	fmt.Printf("  %-16s %dx%d\n", "Grid", s.Width, s.Height)
	fmt.Printf("  %-16s %d\n", "Day", s.Day)
	fmt.Printf("  %-16s %s\n", "Treasury", formatMoney(s.Treasury))
	fmt.Printf("  %-16s %d\n", "Buildings", s.Buildings)
	fmt.Printf("  %-16s %d\n", "Services", s.Services)
	fmt.Printf("  %-16s %d\n", "Utilities", s.Utilities)
	fmt.Printf("  %-16s %d\n", "Citizens", s.Citizens)
	fmt.Printf("  %-16s %d\n", "Road segments", s.Segments)
	if len(s.ExtensionKeys) > 0 {
		fmt.Printf("  %-16s %v\n", "Extensions", s.ExtensionKeys)
	}
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("$%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("$%.1fK", v/1_000)
	}
	return fmt.Sprintf("$%.0f", v)
}
