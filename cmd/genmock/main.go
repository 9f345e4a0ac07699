// Command genmock writes synthetic gzip-compressed NDBC standard
// meteorological files for the buoys in the station catalog, for local demos
// and pipeline fixtures. Each file carries the two header lines, hourly
// records with a seasonal wave-height signal, scattered missing-value
// sentinels, and one record with an impossible date.
//
// Usage:
//
//	go run ./cmd/genmock -out "noaa_data/NOAA DATA" -year 2023 -days 90
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/ndbc"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
)

// unmappedBuoy is written alongside the catalog buoys when -unmapped is set
// so the ingest run can be seen ignoring it.
const unmappedBuoy = "46026"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", filepath.Join("noaa_data", "NOAA DATA"), "output directory")
	year := flag.Int("year", 2023, "year of the generated records")
	days := flag.Int("days", 90, "number of days per file, starting January 1")
	seed := flag.Uint64("seed", 1, "random seed")
	stations := flag.String("stations", "", "station catalog YAML (default: embedded catalog)")
	unmapped := flag.Bool("unmapped", false, "also write a file for a buoy missing from the catalog")
	flag.Parse()

	if *days < 1 || *days > 366 {
		return fmt.Errorf("-days must be between 1 and 366, got %d", *days)
	}

	catalog, err := loadCatalog(*stations)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, uint64(*year)))
	ids := catalog.BuoyIDs()
	if *unmapped {
		ids = append(ids, unmappedBuoy)
	}

	for i, id := range ids {
		name := fmt.Sprintf("%sh%d%s", id, *year, catalog.FileSuffix)
		lines := generate(rng, *year, *days, 1.0+0.6*float64(i))
		if err := ndbc.WriteFile(filepath.Join(*out, name), ndbc.Header, lines); err != nil {
			return err
		}
		log.Printf("%s: %d records", name, len(lines))
	}
	return nil
}

func loadCatalog(path string) (*config.Catalog, error) {
	if path == "" {
		return config.DefaultCatalog()
	}
	return config.LoadCatalog(path)
}

// generate returns hourly records. base shifts the mean wave height so
// regions are distinguishable on the dashboard.
func generate(rng *rand.Rand, year, days int, base float64) []string {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	lines := make([]string, 0, days*24+1)

	for h := range days * 24 {
		t := start.Add(time.Duration(h) * time.Hour)
		season := math.Sin(2 * math.Pi * float64(t.YearDay()) / 365)
		wvht := fmt.Sprintf("%5.2f", math.Max(0.2, base+0.5*season+rng.NormFloat64()*0.3))
		if rng.IntN(40) == 0 {
			wvht = "99.00"
		}
		wdir := fmt.Sprintf("%3d", rng.IntN(360))
		if rng.IntN(25) == 0 {
			wdir = "MM"
		}

		lines = append(lines, fmt.Sprintf(
			"%4d %02d %02d %02d %02d %3s %4.1f %4.1f %5s %5.2f %5.2f %3d %6.1f %5.1f %5.1f %5.1f %4s %5s",
			t.Year(), int(t.Month()), t.Day(), t.Hour(), 50,
			wdir,
			4+rng.Float64()*6, 6+rng.Float64()*8,
			wvht,
			8+rng.Float64()*8, 5+rng.Float64()*4,
			rng.IntN(360),
			1010+rng.Float64()*10, 23+rng.Float64()*4, 24+rng.Float64()*3, 18+rng.Float64()*3,
			"99.0", "99.00",
		))
	}

	// A record whose month and day cannot form a date.
	lines = append(lines, fmt.Sprintf(
		"%4d 13 32 00 50 120  5.0  7.0  1.50 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00", year))
	return lines
}
