package outbox

import (
	"context"
	"time"
)

// Result is the relay's verdict on one message after a dispatch attempt.
// Exactly one of the two shapes occurs: Processed=true with ProcessedUTC
// set, or Processed=false with FailCount/ErrorMessage (and usually
// NextProcessingUTC) set.
type Result struct {
	MessageID         string
	Processed         bool
	ProcessedUTC      time.Time
	FailCount         int64
	ErrorMessage      string
	NextProcessingUTC *time.Time
}

// Store is the durable outbox table. The Spanner implementation lives in
// this package; tests substitute an in-memory fake.
type Store interface {
	// ListDue returns unprocessed messages whose backoff gate is open
	// (next_processing_utc null or <= now), oldest first, up to limit.
	ListDue(ctx context.Context, now time.Time, limit int64) ([]*Message, error)

	// MarkBatch applies all per-row verdicts of one relay tick in a single
	// storage transaction. A crash before this commit leaves every row
	// unprocessed, to be retried on the next tick.
	MarkBatch(ctx context.Context, results []Result) error

	// DeleteProcessedBefore bulk-deletes rows processed before cutoff and
	// returns the number deleted. It must never touch unprocessed rows.
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
