package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/dawn-chorus/teamsync-service/internal/outbox"
)

// MessageWriter is the slice of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publishes notice.* integration events to the broker. The
// event kind doubles as the topic name and the aggregate ID as the
// partition key, so every fact about one aggregate lands on one partition
// in order.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher creates a KafkaPublisher over an existing writer.
func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// NewKafkaWriter builds the shared writer for the given brokers. The hash
// balancer keeps keyed messages partition-stable.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
	}
}

// Handle publishes one event. Re-publication of an already-delivered event
// is expected under at-least-once delivery; consumers deduplicate by key
// and payload.
func (p *KafkaPublisher) Handle(ctx context.Context, event outbox.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize %s event: %w", event.Kind(), err)
	}

	msg := kafka.Message{
		Topic: event.Kind(),
		Key:   []byte(event.AggregateID()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_kind", Value: []byte(event.Kind())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Kind(), err)
	}
	return nil
}
