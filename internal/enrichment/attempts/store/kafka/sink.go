// Package kafka streams attempt records through a Kafka topic. The Sink is
// the publisher side; Handler materializes the topic into a Store.
package kafka

import (
	"context"
	"log/slog"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/platform/kafka/consumer"
)

const DefaultTopic = "heirfinder.enrichment.attempts"

// Publisher is the subset of the platform producer the sink needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Sink publishes records keyed by attempt id.
type Sink struct {
	producer Publisher
	topic    string
}

func NewSink(producer Publisher, topic string) *Sink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Sink{producer: producer, topic: topic}
}

func (s *Sink) Append(ctx context.Context, rec models.AttemptRecord) error {
	value, err := attempts.Encode(rec)
	if err != nil {
		return err
	}
	return s.producer.Publish(ctx, s.topic, []byte(rec.ID), value)
}

// Handler writes consumed records into a sink, typically the Postgres store.
type Handler struct {
	sink   attempts.Sink
	logger *slog.Logger
}

func NewHandler(sink attempts.Sink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sink: sink, logger: logger}
}

// Handle decodes one message. Malformed payloads are logged and acknowledged
// so they do not block the partition.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	rec, err := attempts.Decode(msg.Value)
	if err != nil {
		h.logger.ErrorContext(ctx, "malformed attempt record message",
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if rec.ID == "" {
		rec.ID = string(msg.Key)
	}
	return h.sink.Append(ctx, rec)
}
