package outbox

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/dawn-chorus/teamsync-service/internal/models/m_outbox"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/query"
)

// SpannerStore implements Store on the outbox_messages table.
type SpannerStore struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewSpannerStore creates a new SpannerStore.
func NewSpannerStore(client *spanner.Client) *SpannerStore {
	return &SpannerStore{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

// InsertMut creates the mutation adding a pending message to the table.
// Called only by the unit of work's commit path, never applied standalone.
func (s *SpannerStore) InsertMut(msg *Message) *spanner.Mutation {
	return s.model.InsertMut(&m_outbox.Data{
		MessageID: msg.ID,
		EventKind: msg.Kind,
		Payload:   string(msg.Payload),
		FailCount: 0,
	})
}

// ListDue selects unprocessed, due messages oldest-first. message_id (UUIDv7)
// breaks ties between rows sharing a commit timestamp.
func (s *SpannerStore) ListDue(ctx context.Context, now time.Time, limit int64) ([]*Message, error) {
	stmt := query.From(m_outbox.TableName).
		Select(
			m_outbox.MessageID,
			m_outbox.CreatedUTC,
			m_outbox.EventKind,
			m_outbox.Payload,
			m_outbox.ProcessedUTC,
			m_outbox.ErrorMessage,
			m_outbox.FailCount,
			m_outbox.NextProcessingUTC,
		).
		Where(query.IsNull(m_outbox.ProcessedUTC)).
		Where(query.Or(
			query.IsNull(m_outbox.NextProcessingUTC),
			query.Lte(m_outbox.NextProcessingUTC, now),
		)).
		OrderBy(m_outbox.CreatedUTC, query.Asc).
		OrderBy(m_outbox.MessageID, query.Asc).
		Limit(limit).
		Build()

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var messages []*Message
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate outbox rows: %w", err)
		}

		var data m_outbox.Data
		if err := row.Columns(
			&data.MessageID,
			&data.CreatedUTC,
			&data.EventKind,
			&data.Payload,
			&data.ProcessedUTC,
			&data.ErrorMessage,
			&data.FailCount,
			&data.NextProcessingUTC,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}

		messages = append(messages, dataToMessage(&data))
	}

	return messages, nil
}

// MarkBatch commits all verdicts of one relay tick atomically.
func (s *SpannerStore) MarkBatch(ctx context.Context, results []Result) error {
	if len(results) == 0 {
		return nil
	}

	muts := make([]*spanner.Mutation, 0, len(results))
	for _, res := range results {
		if res.Processed {
			muts = append(muts, s.model.MarkProcessedMut(res.MessageID, res.ProcessedUTC))
			continue
		}

		next := spanner.NullTime{}
		if res.NextProcessingUTC != nil {
			next = spanner.NullTime{Time: *res.NextProcessingUTC, Valid: true}
		}
		muts = append(muts, s.model.MarkFailedMut(res.MessageID, res.FailCount, res.ErrorMessage, next))
	}

	if _, err := s.client.Apply(ctx, muts); err != nil {
		return fmt.Errorf("failed to mark outbox batch: %w", err)
	}
	return nil
}

// DeleteProcessedBefore bulk-deletes terminal rows older than cutoff.
// The processed_utc IS NOT NULL guard keeps unprocessed rows out of reach
// regardless of their fail count.
func (s *SpannerStore) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf(
			"DELETE FROM %s WHERE %s IS NOT NULL AND %s < @cutoff",
			m_outbox.TableName, m_outbox.ProcessedUTC, m_outbox.ProcessedUTC,
		),
		Params: map[string]interface{}{
			"cutoff": cutoff,
		},
	}

	var deleted int64
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, stmt)
		if err != nil {
			return fmt.Errorf("failed to delete processed rows: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reap transaction failed: %w", err)
	}

	return deleted, nil
}

func dataToMessage(data *m_outbox.Data) *Message {
	msg := &Message{
		ID:         data.MessageID,
		CreatedUTC: data.CreatedUTC,
		Kind:       data.EventKind,
		Payload:    []byte(data.Payload),
		FailCount:  data.FailCount,
	}
	if data.ProcessedUTC.Valid {
		t := data.ProcessedUTC.Time
		msg.ProcessedUTC = &t
	}
	if data.ErrorMessage.Valid {
		msg.ErrorMessage = data.ErrorMessage.StringVal
	}
	if data.NextProcessingUTC.Valid {
		t := data.NextProcessingUTC.Time
		msg.NextProcessingUTC = &t
	}
	return msg
}
