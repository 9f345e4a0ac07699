// Command validate checks a summary artifact written by the ingest command:
// that it reads with the fixed schema, holds one row per (region, date),
// carries finite non-negative wave heights, is ordered by region then date,
// and only names regions known to the station catalog.
//
// Usage:
//
//	go run ./cmd/validate -artifact daily_avg.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("artifact", "daily_avg.csv", "summary artifact (.csv or .parquet)")
	stations := flag.String("stations", "", "station catalog YAML (default: embedded catalog)")
	flag.Parse()

	os.Exit(run(*path, *stations))
}

func run(path, stationsPath string) int {
	fmt.Println("=== Wave Height Summary Validation ===")
	fmt.Println()

	catalog, err := config.DefaultCatalog()
	if stationsPath != "" {
		catalog, err = config.LoadCatalog(stationsPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load station catalog: %v\n", err)
		return 1
	}

	store, err := artifact.NewStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	rows, err := store.ReadSummary(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read artifact: %v\n", err)
		return 1
	}

	phases := validate(rows, catalog)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d, regions: %v\n", len(rows), domain.Regions(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validate(rows []domain.Aggregate, catalog *config.Catalog) []*phase {
	return []*phase{
		checkUniqueness(rows),
		checkHeights(rows),
		checkOrdering(rows),
		checkRegions(rows, catalog),
	}
}

func checkUniqueness(rows []domain.Aggregate) *phase {
	p := &phase{name: "Phase 1: One row per (region, date)"}
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		key := r.Region + "|" + r.Date.Format(artifact.DateLayout)
		if first, ok := seen[key]; ok {
			p.errorf("row %d duplicates row %d (%s)", i+1, first+1, key)
			continue
		}
		seen[key] = i
	}
	return p
}

func checkHeights(rows []domain.Aggregate) *phase {
	p := &phase{name: "Phase 2: Finite non-negative wave heights"}
	for i, r := range rows {
		v := r.AvgWaveHeight
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			p.errorf("row %d (%s %s): avg_wave_height %v", i+1, r.Region, r.Date.Format(artifact.DateLayout), v)
		}
	}
	return p
}

func checkOrdering(rows []domain.Aggregate) *phase {
	p := &phase{name: "Phase 3: Ordered by region, then date"}
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.Region > cur.Region || (prev.Region == cur.Region && !prev.Date.Before(cur.Date)) {
			p.errorf("row %d (%s %s) follows row %d (%s %s)",
				i+1, cur.Region, cur.Date.Format(artifact.DateLayout),
				i, prev.Region, prev.Date.Format(artifact.DateLayout))
		}
	}
	return p
}

func checkRegions(rows []domain.Aggregate, catalog *config.Catalog) *phase {
	p := &phase{name: "Phase 4: Regions known to the station catalog"}
	known := make([]string, 0, len(catalog.Buoys))
	for _, region := range catalog.Buoys {
		known = append(known, region)
	}
	for _, region := range domain.Regions(rows) {
		if !slices.Contains(known, region) {
			p.errorf("region %q is not mapped from any configured buoy", region)
		}
	}
	return p
}
