package m_outbox

// Field name constants for the outbox_messages table.
// The schema is a stable contract: in-flight rows written before a deploy
// must remain readable, so changing the event_kind encoding is a breaking
// change.
const (
	TableName = "outbox_messages"

	MessageID         = "message_id"
	CreatedUTC        = "created_utc"
	EventKind         = "event_kind"
	Payload           = "payload"
	ProcessedUTC      = "processed_utc"
	ErrorMessage      = "error_message"
	FailCount         = "fail_count"
	NextProcessingUTC = "next_processing_utc"
)
