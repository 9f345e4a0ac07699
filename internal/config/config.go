package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all settings for the ingest job and the dashboard, populated
// from environment variables.
type Config struct {
	DataDir      string
	ArtifactPath string
	StationsFile string
	ParseWorkers int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional fan-out of aggregate rows.
	PublishEnabled    bool
	KafkaBrokers      []string
	KafkaSummaryTopic string

	// Optional Prometheus Pushgateway for the one-shot ingest job.
	PushgatewayURL string

	Catalog *Catalog
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	workers, err := parseWorkers()
	if err != nil {
		return nil, err
	}

	stationsFile := os.Getenv("STATIONS_FILE")
	catalog, err := LoadCatalog(stationsFile)
	if err != nil {
		return nil, fmt.Errorf("STATIONS_FILE: %w", err)
	}

	cfg := &Config{
		DataDir:      sharedcfg.EnvOrDefault("DATA_DIR", filepath.Join("noaa_data", "NOAA DATA")),
		ArtifactPath: sharedcfg.EnvOrDefault("ARTIFACT_PATH", "daily_avg.csv"),
		StationsFile: stationsFile,
		ParseWorkers: workers,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PublishEnabled:    os.Getenv("PUBLISH_ENABLED") == "true",
		KafkaBrokers:      parseBrokers(),
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "wave-height-daily"),

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),

		Catalog: catalog,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	switch strings.ToLower(filepath.Ext(cfg.ArtifactPath)) {
	case ".csv", ".parquet":
	default:
		return nil, fmt.Errorf("ARTIFACT_PATH must end in .csv or .parquet, got %q", cfg.ArtifactPath)
	}
	if cfg.PublishEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("PUBLISH_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.PublishEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when PUBLISH_ENABLED is true")
	}

	return cfg, nil
}

func parseWorkers() (int, error) {
	s := os.Getenv("PARSE_WORKERS")
	if s == "" {
		return 4, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 64 {
		return 0, fmt.Errorf("invalid PARSE_WORKERS %q: must be between 1 and 64", s)
	}
	return n, nil
}

func parseBrokers() []string {
	v := os.Getenv("KAFKA_BROKERS")
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(v)
}
