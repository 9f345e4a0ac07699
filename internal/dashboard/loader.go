// Package dashboard turns the persisted region-day summary into the views the
// dashboard serves: resampled tables, per-region extrema, charts and exports.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
)

// SummaryReader reads the persisted summary table.
type SummaryReader interface {
	ReadSummary(ctx context.Context) ([]domain.Aggregate, error)
}

// Loader loads the summary artifact once and serves the same table for the
// life of the process. A failed load is not remembered; the next call
// retries.
type Loader struct {
	reader  SummaryReader
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	rows   []domain.Aggregate
	loaded bool
}

// NewLoader creates a Loader over reader.
func NewLoader(reader SummaryReader, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{reader: reader, logger: logger, metrics: metrics}
}

// Summary returns the loaded table. Callers must not modify it.
func (l *Loader) Summary(ctx context.Context) ([]domain.Aggregate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.rows, nil
	}

	rows, err := l.reader.ReadSummary(ctx)
	if err != nil {
		l.metrics.ArtifactLoadErrors.Inc()
		l.logger.Error("load summary artifact failed", "error", err)
		return nil, fmt.Errorf("load summary: %w", err)
	}

	domain.SortAggregates(rows)
	l.rows, l.loaded = rows, true
	l.metrics.ArtifactRows.Set(float64(len(rows)))
	l.logger.Info("summary artifact loaded", "rows", len(rows), "regions", domain.Regions(rows))
	return l.rows, nil
}

// CheckReadiness reports ready once the artifact has loaded.
func (l *Loader) CheckReadiness(ctx context.Context) error {
	_, err := l.Summary(ctx)
	return err
}
