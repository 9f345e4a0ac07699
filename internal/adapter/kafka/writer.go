package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

// Writer publishes region-day summary rows to a Kafka topic.
// It implements pipeline.SummaryLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// summaryMessage is the JSON value of one published row. Field names match
// the artifact columns.
type summaryMessage struct {
	Region        string  `json:"region"`
	Date          string  `json:"date"`
	AvgWaveHeight float64 `json:"avg_wave_height"`
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSummary publishes every row in a single WriteMessages call. Rows are
// keyed region|date so republishing a day lands on the same partition.
func (w *Writer) LoadSummary(ctx context.Context, rows []domain.Aggregate) error {
	if len(rows) == 0 {
		return nil
	}
	publishedAt := domain.Now()
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i], publishedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d summary rows: %w", len(msgs), err)
	}
	w.logger.Info("published summary", "topic", w.writer.Topic, "rows", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey identifies one region-day row.
func messageKey(row domain.Aggregate) string {
	return row.Region + "|" + row.Date.Format(artifact.DateLayout)
}

// serializeToMessage marshals an aggregate row into a Kafka message.
func serializeToMessage(row domain.Aggregate, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(summaryMessage{
		Region:        row.Region,
		Date:          row.Date.Format(artifact.DateLayout),
		AvgWaveHeight: row.AvgWaveHeight,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(row)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(row.Region)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
