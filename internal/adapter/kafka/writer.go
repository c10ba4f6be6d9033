package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wildfire-data/internal/config"
	"github.com/couchcryptid/wildfire-data/internal/domain"
)

// Header keys set on every published detection.
const (
	HeaderDay        = "day"
	HeaderConfidence = "confidence"
)

// Writer publishes detections to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchFlushInterval,
		WriteTimeout: 10 * time.Second,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes detections in a single WriteMessages call. Keys are
// detection IDs, so a detection always lands on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, detections []domain.Detection) error {
	if len(detections) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(detections))
	for i := range detections {
		msg, err := serializeToMessage(detections[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d detections: %w", len(msgs), err)
	}
	w.logger.Debug("published batch", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

// Close flushes pending writes and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(d domain.Detection) (kafkago.Message, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize detection %s: %w", d.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(d.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderDay, Value: []byte(d.Day().Format(domain.DayLayout))},
			{Key: HeaderConfidence, Value: []byte(d.Confidence)},
		},
	}, nil
}
