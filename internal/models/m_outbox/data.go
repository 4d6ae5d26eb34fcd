package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_messages table.
type Data struct {
	MessageID         string
	CreatedUTC        time.Time
	EventKind         string
	Payload           string // serialized JSON
	ProcessedUTC      spanner.NullTime
	ErrorMessage      spanner.NullString
	FailCount         int64
	NextProcessingUTC spanner.NullTime
}
