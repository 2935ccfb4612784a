// Package publish writes assembled feed snapshots to Kafka for downstream
// consumers. Publishing is best-effort: failures are logged and never
// surfaced to the HTTP client.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ian8500/Plane-Spotter/internal/service"
)

// Config holds Kafka publisher configuration
type Config struct {
	Brokers string
	Topic   string
}

// Publisher writes snapshots to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

// NewPublisher creates a Kafka snapshot publisher.
func NewPublisher(cfg Config, logger *logrus.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish writes one snapshot, keyed by its generation timestamp.
func (p *Publisher) Publish(ctx context.Context, snapshot *service.Snapshot) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(snapshot.GeneratedAt),
		Value: value,
	}); err != nil {
		return fmt.Errorf("writing snapshot to kafka: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"flights":      len(snapshot.Flights),
		"generated_at": snapshot.GeneratedAt,
	}).Debug("Published snapshot")

	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
