// Package outbox implements the transactional outbox: integration events are
// persisted as rows in the same Spanner commit as the aggregate mutation that
// produced them, then relayed asynchronously to their handlers by a periodic
// background job. This removes the dual-write window between the database and
// external systems (email, brokers) at the cost of at-least-once delivery,
// so handlers must tolerate duplicate invocation.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a serializable fact meant for consumption outside the aggregate's
// transaction boundary. Events are produced by domain-event handlers during
// unit-of-work commit preparation, never by request handlers directly.
type Event interface {
	// Kind is the stable string tag stored in the event_kind column and
	// resolved back to a concrete type by the Registry. Renaming a kind
	// breaks in-flight rows written before a deploy.
	Kind() string
	// AggregateID identifies the aggregate the fact belongs to. Used as a
	// partitioning key by broker-backed handlers.
	AggregateID() string
}

// Message is a pending or processed outbox row.
type Message struct {
	ID                string
	CreatedUTC        time.Time // assigned by storage at commit time
	Kind              string
	Payload           []byte // serialized JSON
	ProcessedUTC      *time.Time
	ErrorMessage      string
	FailCount         int64
	NextProcessingUTC *time.Time
}

// NewMessage serializes an integration event into a pending outbox message.
// IDs are UUIDv7 so generation order is sortable, giving the relay a
// deterministic tie-break for rows sharing a commit timestamp.
func NewMessage(event Event) (*Message, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s event: %w", event.Kind(), err)
	}

	return &Message{
		ID:      id.String(),
		Kind:    event.Kind(),
		Payload: payload,
	}, nil
}

// Processed reports whether the message reached its terminal state.
func (m *Message) Processed() bool {
	return m.ProcessedUTC != nil
}
