// Command ingest runs one pass of the wave-height pipeline: it reads the
// configured buoys' files from DATA_DIR, aggregates mean wave height per
// region and day, and writes the summary artifact to ARTIFACT_PATH.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	kafkaadapter "github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/kafka"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/ndbc"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/pipeline"
)

const pushJob = "wave_ingest"

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	reader, err := ndbc.NewReader(cfg.DataDir, cfg.Catalog, cfg.ParseWorkers, logger)
	if err != nil {
		logger.Error("invalid station catalog", "error", err)
		return 1
	}
	store, err := artifact.NewStore(cfg.ArtifactPath)
	if err != nil {
		logger.Error("invalid artifact path", "error", err)
		return 1
	}

	var publishers []pipeline.SummaryLoader
	if cfg.PublishEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publishers = append(publishers, writer)
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ingest",
		"data_dir", cfg.DataDir,
		"artifact", cfg.ArtifactPath,
		"buoys", cfg.Catalog.BuoyIDs(),
		"workers", cfg.ParseWorkers,
	)

	p := pipeline.New(reader, store, logger, metrics, publishers...)
	report, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("ingest run failed", "error", runErr, "run_id", report.RunID)
	} else {
		logger.Info("summary written",
			"path", store.Path(),
			"total_rows", report.Rows,
			"regions", report.Regions,
		)
	}

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := observability.Push(pushCtx, cfg.PushgatewayURL, pushJob, metrics.Gatherer()); err != nil {
			logger.Warn("push metrics failed", "error", err, "url", cfg.PushgatewayURL)
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}
