package kafka

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	row := domain.Aggregate{
		Region:        "North Shore",
		Date:          time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		AvgWaveHeight: 1.75,
	}

	msg, err := serializeToMessage(row, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("North Shore|2023-06-15"), msg.Key)
	assert.JSONEq(t, `{"region":"North Shore","date":"2023-06-15","avg_wave_height":1.75}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, kafkago.Header{Key: "region", Value: []byte("North Shore")}, msg.Headers[0])
	assert.Equal(t, "published_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_NonFinite(t *testing.T) {
	row := domain.Aggregate{Region: "A", Date: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), AvgWaveHeight: math.NaN()}
	_, err := serializeToMessage(row, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize summary row")
}

func TestMessageKey_DistinctPerRegionDay(t *testing.T) {
	d := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	keys := map[string]bool{
		messageKey(domain.Aggregate{Region: "A", Date: d}):                  true,
		messageKey(domain.Aggregate{Region: "A", Date: d.AddDate(0, 0, 1)}): true,
		messageKey(domain.Aggregate{Region: "B", Date: d}):                  true,
	}
	assert.Len(t, keys, 3)
}

func TestWriter_LoadSummaryEmptyIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaSummaryTopic: "wave-height-daily"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.LoadSummary(context.Background(), nil))
	assert.Equal(t, "wave-height-daily", w.writer.Topic)
}
