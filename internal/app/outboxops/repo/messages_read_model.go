package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/dawn-chorus/teamsync-service/internal/app/outboxops/queries/list_messages"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_outbox"
)

// MessagesReadModel implements the MessagesReadModel interface for Spanner.
type MessagesReadModel struct {
	client *spanner.Client
}

// NewMessagesReadModel creates a new MessagesReadModel.
func NewMessagesReadModel(client *spanner.Client) *MessagesReadModel {
	return &MessagesReadModel{
		client: client,
	}
}

// ListMessages retrieves rows from the outbox_messages table with filtering.
func (r *MessagesReadModel) ListMessages(ctx context.Context, req *list_messages.Request) ([]*m_outbox.Data, error) {
	query := "SELECT message_id, created_utc, event_kind, payload, processed_utc, error_message, fail_count, next_processing_utc FROM outbox_messages WHERE 1=1"
	params := make(map[string]interface{})

	if req.EventKind != nil {
		query += " AND event_kind = @eventKind"
		params["eventKind"] = *req.EventKind
	}

	if req.Status != nil {
		switch *req.Status {
		case list_messages.StatusPending:
			query += " AND processed_utc IS NULL"
		case list_messages.StatusProcessed:
			query += " AND processed_utc IS NOT NULL"
		case list_messages.StatusFailed:
			query += " AND processed_utc IS NULL AND fail_count > 0"
		default:
			return nil, fmt.Errorf("unknown status filter %q", *req.Status)
		}
	}

	query += " ORDER BY created_utc DESC LIMIT @limit"
	params["limit"] = int64(req.Limit)

	stmt := spanner.Statement{
		SQL:    query,
		Params: params,
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var messages []*m_outbox.Data
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate outbox messages: %w", err)
		}

		var msg m_outbox.Data
		if err := row.Columns(
			&msg.MessageID,
			&msg.CreatedUTC,
			&msg.EventKind,
			&msg.Payload,
			&msg.ProcessedUTC,
			&msg.ErrorMessage,
			&msg.FailCount,
			&msg.NextProcessingUTC,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}

		messages = append(messages, &msg)
	}

	return messages, nil
}
