package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
)

// memStore is an in-memory Store for relay and reaper tests.
type memStore struct {
	mu       sync.Mutex
	messages []*Message

	listDelay time.Duration // hold ListDue open to provoke overlap
	listErr   error
	markErr   error

	markCalls [][]Result
}

func (s *memStore) ListDue(ctx context.Context, now time.Time, limit int64) ([]*Message, error) {
	if s.listDelay > 0 {
		time.Sleep(s.listDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}

	var due []*Message
	for _, m := range s.messages {
		if m.Processed() {
			continue
		}
		if m.NextProcessingUTC != nil && m.NextProcessingUTC.After(now) {
			continue
		}
		due = append(due, m)
		if int64(len(due)) >= limit {
			break
		}
	}
	return due, nil
}

func (s *memStore) MarkBatch(ctx context.Context, results []Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}

	s.markCalls = append(s.markCalls, results)
	for _, res := range results {
		for _, m := range s.messages {
			if m.ID != res.MessageID {
				continue
			}
			if res.Processed {
				utc := res.ProcessedUTC
				m.ProcessedUTC = &utc
			} else {
				m.FailCount = res.FailCount
				m.ErrorMessage = res.ErrorMessage
				m.NextProcessingUTC = res.NextProcessingUTC
			}
		}
	}
	return nil
}

func (s *memStore) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*Message
	var deleted int64
	for _, m := range s.messages {
		if m.Processed() && m.ProcessedUTC.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	return deleted, nil
}

type relayTestEvent struct {
	ID string `json:"id"`
}

func (e *relayTestEvent) Kind() string        { return "test.fact" }
func (e *relayTestEvent) AggregateID() string { return e.ID }

func testRegistry(t *testing.T, handler Handler) *Registry {
	t.Helper()
	registry := NewRegistry()
	registry.Register("test.fact", func(payload []byte) (Event, error) {
		var e relayTestEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return &e, nil
	})
	if handler != nil {
		registry.Handle("test.fact", handler)
	}
	return registry
}

func pendingMessage(t *testing.T, id string, created time.Time) *Message {
	t.Helper()
	payload, err := json.Marshal(&relayTestEvent{ID: id})
	require.NoError(t, err)
	return &Message{
		ID:         id,
		CreatedUTC: created,
		Kind:       "test.fact",
		Payload:    payload,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("processes due messages oldest first", func(t *testing.T) {
		var seen []string
		store := &memStore{messages: []*Message{
			pendingMessage(t, "m1", now.Add(-2*time.Minute)),
			pendingMessage(t, "m2", now.Add(-time.Minute)),
		}}
		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			seen = append(seen, event.AggregateID())
			return nil
		}))

		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{})
		require.NoError(t, relay.Run(ctx))

		assert.Equal(t, []string{"m1", "m2"}, seen)
		assert.True(t, store.messages[0].Processed())
		assert.True(t, store.messages[1].Processed())
	})

	t.Run("per-row failure does not block the rest of the batch", func(t *testing.T) {
		store := &memStore{messages: []*Message{
			pendingMessage(t, "bad", now.Add(-2*time.Minute)),
			pendingMessage(t, "good", now.Add(-time.Minute)),
		}}
		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			if event.AggregateID() == "bad" {
				return errors.New("smtp down")
			}
			return nil
		}))

		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{})
		require.NoError(t, relay.Run(ctx))

		bad, good := store.messages[0], store.messages[1]
		assert.False(t, bad.Processed())
		assert.Equal(t, int64(1), bad.FailCount)
		assert.Contains(t, bad.ErrorMessage, "smtp down")
		require.NotNil(t, bad.NextProcessingUTC)
		assert.Equal(t, now.Add(30*time.Second), *bad.NextProcessingUTC)

		assert.True(t, good.Processed())
	})

	t.Run("all verdicts committed in one MarkBatch call", func(t *testing.T) {
		store := &memStore{messages: []*Message{
			pendingMessage(t, "m1", now),
			pendingMessage(t, "m2", now),
			pendingMessage(t, "m3", now),
		}}
		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			return nil
		}))

		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{})
		require.NoError(t, relay.Run(ctx))

		require.Len(t, store.markCalls, 1)
		assert.Len(t, store.markCalls[0], 3)
	})

	t.Run("unknown kind is a per-row failure", func(t *testing.T) {
		msg := pendingMessage(t, "m1", now)
		msg.Kind = "test.unknown"
		store := &memStore{messages: []*Message{msg}}

		relay := NewRelay(store, testRegistry(t, nil), clock.NewMockClock(now), discardLogger(), RelayConfig{})
		require.NoError(t, relay.Run(ctx))

		assert.False(t, msg.Processed())
		assert.Equal(t, int64(1), msg.FailCount)
		assert.Contains(t, msg.ErrorMessage, "unregistered")
	})

	t.Run("kind with no handlers stays pending", func(t *testing.T) {
		msg := pendingMessage(t, "m1", now)
		store := &memStore{messages: []*Message{msg}}

		// Decoder registered, handler list empty. Marking the row
		// processed would drop the event without any delivery.
		relay := NewRelay(store, testRegistry(t, nil), clock.NewMockClock(now), discardLogger(), RelayConfig{})
		require.NoError(t, relay.Run(ctx))

		assert.False(t, msg.Processed())
		assert.Equal(t, int64(1), msg.FailCount)
		assert.Contains(t, msg.ErrorMessage, "no handlers registered")
		require.NotNil(t, msg.NextProcessingUTC)
		assert.Equal(t, now.Add(30*time.Second), *msg.NextProcessingUTC)
	})

	t.Run("backoff gate keeps failed rows out until due", func(t *testing.T) {
		msg := pendingMessage(t, "m1", now)
		next := now.Add(time.Minute)
		msg.FailCount = 1
		msg.NextProcessingUTC = &next
		store := &memStore{messages: []*Message{msg}}

		calls := 0
		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			calls++
			return nil
		}))
		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{})

		require.NoError(t, relay.Run(ctx))
		assert.Equal(t, 0, calls)
	})

	t.Run("fail count doubles the backoff up to the cap", func(t *testing.T) {
		relay := NewRelay(&memStore{}, testRegistry(t, nil), clock.NewMockClock(now), discardLogger(), RelayConfig{})

		assert.Equal(t, 30*time.Second, relay.backoff(1))
		assert.Equal(t, time.Minute, relay.backoff(2))
		assert.Equal(t, 2*time.Minute, relay.backoff(3))
		assert.Equal(t, time.Hour, relay.backoff(8))
		assert.Equal(t, time.Hour, relay.backoff(50))
	})

	t.Run("overlapping run is skipped without row mutations", func(t *testing.T) {
		store := &memStore{
			messages:  []*Message{pendingMessage(t, "m1", now)},
			listDelay: 50 * time.Millisecond,
		}
		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			return nil
		}))
		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{})

		done := make(chan error, 1)
		go func() { done <- relay.Run(ctx) }()

		// Give the first run time to grab the lock, then race a second one.
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, relay.Run(ctx))

		require.NoError(t, <-done)
		require.Len(t, store.markCalls, 1)
	})

	t.Run("cancellation aborts before the batch commit", func(t *testing.T) {
		store := &memStore{messages: []*Message{pendingMessage(t, "m1", now)}}
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			return nil
		}))
		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{})

		err := relay.Run(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, store.markCalls)
	})

	t.Run("batch size limits one tick", func(t *testing.T) {
		store := &memStore{messages: []*Message{
			pendingMessage(t, "m1", now),
			pendingMessage(t, "m2", now),
			pendingMessage(t, "m3", now),
		}}
		registry := testRegistry(t, HandlerFunc(func(ctx context.Context, event Event) error {
			return nil
		}))
		relay := NewRelay(store, registry, clock.NewMockClock(now), discardLogger(), RelayConfig{BatchSize: 2})

		require.NoError(t, relay.Run(ctx))
		require.Len(t, store.markCalls, 1)
		assert.Len(t, store.markCalls[0], 2)
		assert.False(t, store.messages[2].Processed())
	})
}

func TestReaperRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	processedAt := func(ts time.Time) *time.Time { return &ts }

	t.Run("deletes only processed rows past retention", func(t *testing.T) {
		old := pendingMessage(t, "old", now.Add(-60*24*time.Hour))
		old.ProcessedUTC = processedAt(now.Add(-45 * 24 * time.Hour))

		recent := pendingMessage(t, "recent", now.Add(-2*24*time.Hour))
		recent.ProcessedUTC = processedAt(now.Add(-24 * time.Hour))

		stuck := pendingMessage(t, "stuck", now.Add(-90*24*time.Hour))
		stuck.FailCount = 40

		store := &memStore{messages: []*Message{old, recent, stuck}}
		reaper := NewReaper(store, clock.NewMockClock(now), discardLogger(), 30*24*time.Hour)

		require.NoError(t, reaper.Run(ctx))

		ids := make([]string, 0, len(store.messages))
		for _, m := range store.messages {
			ids = append(ids, m.ID)
		}
		// The ancient-but-unprocessed row survives; age alone never reaps.
		assert.ElementsMatch(t, []string{"recent", "stuck"}, ids)
	})

	t.Run("empty table is a no-op", func(t *testing.T) {
		store := &memStore{}
		reaper := NewReaper(store, clock.NewMockClock(now), discardLogger(), 0)
		require.NoError(t, reaper.Run(ctx))
	})
}
