// Package pipeline runs one ingest pass: read every matched buoy file, clean
// the combined observations, aggregate them by region and day, and hand the
// table to the summary artifact and any configured publishers.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
)

// Extractor reads every matched input file. Per-file failures are reported
// inside the results; a returned error aborts the run.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.FileResult, error)
}

// SummaryLoader receives the finished region-day table.
type SummaryLoader interface {
	LoadSummary(ctx context.Context, rows []domain.Aggregate) error
}

// Pipeline orchestrates extract, clean, aggregate and load.
type Pipeline struct {
	extractor  Extractor
	store      SummaryLoader
	publishers []SummaryLoader
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline. store persists the artifact and its failure fails
// the run. Publisher failures are logged and counted only.
func New(e Extractor, store SummaryLoader, logger *slog.Logger, metrics *observability.Metrics, publishers ...SummaryLoader) *Pipeline {
	return &Pipeline{
		extractor:  e,
		store:      store,
		publishers: publishers,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes one ingest pass and reports what happened. The report is
// partially filled when an error is returned.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString(), StartedAt: domain.Now()}
	logger := p.logger.With("run_id", report.RunID)

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	logger.Info("ingest run started")

	results, err := p.extractor.Extract(ctx)
	if err != nil {
		report.FinishedAt = domain.Now()
		return report, fmt.Errorf("extract: %w", err)
	}
	p.recordFiles(logger, &report, results)

	obs := domain.Combine(results)
	report.RecordsParsed = len(obs)
	p.metrics.RecordsParsed.Add(float64(len(obs)))

	valid, dropped := domain.FilterValid(obs)
	report.RecordsDropped = dropped
	report.RecordsKept = len(valid)
	p.metrics.RecordsDropped.Add(float64(dropped))
	if len(valid) == 0 {
		logger.Warn("no valid observations after filtering, writing empty summary",
			"records_parsed", report.RecordsParsed)
	}

	domain.SortByTime(valid)
	rows := domain.AggregateDaily(valid)
	report.Rows = len(rows)
	report.Regions = domain.Regions(rows)

	if err := p.store.LoadSummary(ctx, rows); err != nil {
		report.FinishedAt = domain.Now()
		return report, fmt.Errorf("write summary: %w", err)
	}
	p.metrics.AggregateRows.Set(float64(len(rows)))

	for _, pub := range p.publishers {
		if err := pub.LoadSummary(ctx, rows); err != nil {
			p.metrics.SummaryPublishError.Inc()
			logger.Error("publish summary failed", "error", err, "rows", len(rows))
		}
	}

	report.FinishedAt = domain.Now()
	p.metrics.RunDuration.Observe(report.Duration().Seconds())
	p.metrics.LastSuccessfulRun.Set(float64(report.FinishedAt.Unix()))

	logger.Info("ingest run complete", report.LogAttrs()...)
	return report, nil
}

func (p *Pipeline) recordFiles(logger *slog.Logger, report *Report, results []domain.FileResult) {
	report.FilesMatched = len(results)
	p.metrics.FilesMatched.Add(float64(len(results)))

	for _, res := range results {
		if !res.Skipped() {
			report.FilesParsed++
			continue
		}
		skip := SkippedFile{File: res.File, BuoyID: res.Source.BuoyID, Reason: res.Skip}
		if res.Err != nil {
			skip.Error = res.Err.Error()
		}
		report.Skipped = append(report.Skipped, skip)
		p.metrics.FilesSkipped.WithLabelValues(string(res.Skip)).Inc()
		logger.Warn("skipping file",
			"file", res.File,
			"buoy", res.Source.BuoyID,
			"reason", string(res.Skip),
			"error", res.Err,
		)
	}
}
