package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the outbox_messages table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an outbox message.
// created_utc is assigned by Spanner at commit time so ordering reflects
// commit order rather than in-process clock skew.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			MessageID,
			CreatedUTC,
			EventKind,
			Payload,
			ProcessedUTC,
			ErrorMessage,
			FailCount,
			NextProcessingUTC,
		},
		[]interface{}{
			data.MessageID,
			spanner.CommitTimestamp,
			data.EventKind,
			data.Payload,
			data.ProcessedUTC,
			data.ErrorMessage,
			data.FailCount,
			data.NextProcessingUTC,
		},
	)
}

// MarkProcessedMut creates a mutation recording a successful dispatch.
// A processed row is terminal: only the reaper may touch it afterwards.
func (m *Model) MarkProcessedMut(messageID string, processedAt time.Time) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{MessageID, ProcessedUTC},
		[]interface{}{messageID, processedAt},
	)
}

// MarkFailedMut creates a mutation recording a failed dispatch attempt.
// fail_count and error_message are always written together; the optional
// next_processing_utc gates the row until its backoff expires.
func (m *Model) MarkFailedMut(messageID string, failCount int64, errMessage string, nextProcessing spanner.NullTime) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{MessageID, FailCount, ErrorMessage, NextProcessingUTC},
		[]interface{}{messageID, failCount, errMessage, nextProcessing},
	)
}
