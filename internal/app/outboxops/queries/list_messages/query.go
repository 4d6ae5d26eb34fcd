// Package list_messages is the operator's window into the outbox: which
// rows are pending, which are stuck with a fail count, and what error they
// last hit.
package list_messages

import (
	"context"

	"github.com/dawn-chorus/teamsync-service/internal/models/m_outbox"
)

// Status filter values.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed" // pending with fail_count > 0
)

// Request contains filtering parameters for listing outbox messages.
type Request struct {
	EventKind *string // filter by event kind (e.g. "email.welcome")
	Status    *string // filter by status (pending, processed, failed)
	Limit     int     // max number of messages to return (default: 100)
}

// MessagesReadModel defines the interface for reading outbox messages.
type MessagesReadModel interface {
	ListMessages(ctx context.Context, req *Request) ([]*m_outbox.Data, error)
}

// Query handles the list messages query use case.
type Query struct {
	readModel MessagesReadModel
}

// NewQuery creates a new list messages query.
func NewQuery(readModel MessagesReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves outbox messages with filtering.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*m_outbox.Data, error) {
	if req.Limit <= 0 {
		req.Limit = 100
	}
	if req.Limit > 1000 {
		req.Limit = 1000
	}

	return q.readModel.ListMessages(ctx, req)
}
