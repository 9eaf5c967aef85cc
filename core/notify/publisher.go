package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shelter-sync/core/metrics"
	"shelter-sync/core/reconcile"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends reconciliation changes to a Kafka topic.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(cfg Config, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.BrokerList()...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.Topic, logger)
}

func newPublisher(w messageWriter, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{writer: w, topic: topic, logger: logger}
}

// Notify publishes changes, keyed by source and record key so that changes to the
// same record land on the same partition in order.
func (p *Publisher) Notify(ctx context.Context, changes []reconcile.Change) error {
	if len(changes) == 0 {
		return nil
	}

	msgs, err := buildMessages(changes)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Add(float64(len(msgs)))
		return fmt.Errorf("failed to publish %d changes to %s: %w", len(msgs), p.topic, err)
	}

	metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "ok").Add(float64(len(msgs)))
	p.logger.Debug("Published changes", zap.String("topic", p.topic), zap.Int("count", len(msgs)))
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessages(changes []reconcile.Change) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(changes))
	for _, c := range changes {
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal change %s: %w", c.Key, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(c.Source + ":" + c.Key),
			Value: data,
			Headers: []kafka.Header{
				{Key: "source", Value: []byte(c.Source)},
				{Key: "cycle_id", Value: []byte(c.CycleID)},
				{Key: "type", Value: []byte(c.Type)},
			},
		})
	}
	return msgs, nil
}
