//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/kafka"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/ndbc"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/pipeline"
)

const testSummaryTopic = "test-wave-height-daily"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("wave-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestIngestPublishesSummary runs the whole ingest pass over gzip fixtures and
// checks the artifact and the published rows agree.
func TestIngestPublishesSummary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	dataDir := t.TempDir()
	require.NoError(t, ndbc.WriteFile(filepath.Join(dataDir, "51001h2023.txt.gz"), ndbc.Header, []string{
		"2023 06 15 01 50 120  5.0  7.0  1.00 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00",
		"2023 06 15 02 50 120  5.0  7.0  2.00 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00",
		"2023 06 15 03 50 120  5.0  7.0  3.00 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00",
		"2023 13 32 03 50 120  5.0  7.0  3.00 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00",
	}))
	require.NoError(t, ndbc.WriteFile(filepath.Join(dataDir, "51202h2023.txt.gz"), ndbc.Header, []string{
		"2023 06 16 01 50 120  5.0  7.0  0.80 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00",
		"2023 06 16 02 50 120  5.0  7.0 99.00 10.00  6.00 120 1012.0  24.0  25.0  19.0 99.0 99.00",
	}))

	catalog, err := config.DefaultCatalog()
	require.NoError(t, err)
	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
		Catalog:           catalog,
	}

	reader, err := ndbc.NewReader(dataDir, catalog, 2, discardLogger())
	require.NoError(t, err)
	store := artifact.NewCSVStore(filepath.Join(t.TempDir(), "daily_avg.csv"))
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	report, err := pipeline.New(reader, store, discardLogger(), metrics, writer).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, []string{"North Shore", "South Shore"}, report.Regions)

	rows, err := store.ReadSummary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2.0, rows[0].AvgWaveHeight)
	assert.Equal(t, 0.8, rows[1].AvgWaveHeight)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := map[string]float64{}
	for range 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from summary topic")

		var value struct {
			Region        string  `json:"region"`
			Date          string  `json:"date"`
			AvgWaveHeight float64 `json:"avg_wave_height"`
		}
		require.NoError(t, json.Unmarshal(msg.Value, &value))
		assert.Equal(t, value.Region+"|"+value.Date, string(msg.Key))
		got[string(msg.Key)] = value.AvgWaveHeight
	}

	assert.Equal(t, map[string]float64{
		"North Shore|2023-06-15": 2.0,
		"South Shore|2023-06-16": 0.8,
	}, got)
}
