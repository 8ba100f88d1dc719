// Package events publishes applied outage records to a Kafka topic for
// downstream consumers. The sink is optional and feature-flagged; the store
// remains the system of record either way.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/gridwatch-pr/luma-etl/internal/config"
	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

// Publisher produces outage events to the configured Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the outage events topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishOutages serializes and publishes a batch of outage entries in a
// single WriteMessages call. Messages are keyed by outage id so consumers
// can compact per outage.
func (p *Publisher) PublishOutages(ctx context.Context, entries []domain.OutageEntry) error {
	if len(entries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(entries))
	for i := range entries {
		msg, err := serializeToMessage(entries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an OutageEntry into a Kafka message.
func serializeToMessage(entry domain.OutageEntry) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize outage entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "municipality", Value: []byte(entry.Municipality)},
			{Key: "scraped_at", Value: []byte(entry.ScrapedAt.Format(time.RFC3339))},
		},
	}, nil
}
