// Package artifact persists the region-day summary table, the only contract
// between the ingest job and the dashboard. The column names and the ISO
// date format are fixed.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

const (
	ColRegion        = "region"
	ColDate          = "date"
	ColAvgWaveHeight = "avg_wave_height"

	// DateLayout is the ISO calendar date written in the date column.
	DateLayout = "2006-01-02"
)

// Columns is the fixed artifact header, in order.
var Columns = []string{ColRegion, ColDate, ColAvgWaveHeight}

var (
	// ErrNotFound is returned when the artifact does not exist yet.
	ErrNotFound = errors.New("summary artifact not found")
	// ErrSchemaMismatch is returned when the artifact does not carry the
	// expected columns or a value cannot be read as its column type.
	ErrSchemaMismatch = errors.New("summary artifact schema mismatch")
)

// Store writes and reads the summary artifact at a fixed path.
type Store interface {
	LoadSummary(ctx context.Context, rows []domain.Aggregate) error
	ReadSummary(ctx context.Context) ([]domain.Aggregate, error)
	Path() string
}

// NewStore picks the artifact format from the file extension.
func NewStore(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVStore(path), nil
	case ".parquet":
		return NewParquetStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported artifact extension %q", filepath.Ext(path))
	}
}

// writeAtomic streams the artifact into a temp file next to path and renames
// it into place once fully written.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

func openArtifact(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

// toRow validates one decoded record against the column types.
func toRow(line int, region, date string, avg float64) (domain.Aggregate, error) {
	if region == "" {
		return domain.Aggregate{}, fmt.Errorf("%w: row %d: empty %s", ErrSchemaMismatch, line, ColRegion)
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("%w: row %d: %s %q is not an ISO date", ErrSchemaMismatch, line, ColDate, date)
	}
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return domain.Aggregate{}, fmt.Errorf("%w: row %d: %s is not finite", ErrSchemaMismatch, line, ColAvgWaveHeight)
	}
	return domain.Aggregate{Region: region, Date: d, AvgWaveHeight: avg}, nil
}
