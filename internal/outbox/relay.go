package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
)

const (
	defaultBatchSize   = 100
	defaultBackoffBase = 30 * time.Second
	defaultBackoffMax  = time.Hour
)

// RelayConfig tunes one relay instance. Zero values fall back to defaults.
type RelayConfig struct {
	BatchSize   int64
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// Relay reads unprocessed outbox rows, resolves each to a concrete
// integration event, invokes the registered handlers, and records
// success or failure per row.
//
// At most one invocation runs at a time: a tick arriving while a previous
// one is in flight performs no row mutations and returns immediately.
// Concurrent relays could double-dispatch or race on marking rows, so the
// guard is load-bearing, not an optimization.
type Relay struct {
	store    Store
	registry *Registry
	clock    clock.Clock
	logger   *slog.Logger
	config   RelayConfig

	running atomic.Bool
}

// NewRelay creates a new Relay.
func NewRelay(store Store, registry *Registry, clk clock.Clock, logger *slog.Logger, config RelayConfig) *Relay {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.BackoffBase <= 0 {
		config.BackoffBase = defaultBackoffBase
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = defaultBackoffMax
	}
	return &Relay{
		store:    store,
		registry: registry,
		clock:    clk,
		logger:   logger,
		config:   config,
	}
}

// Name returns the job name for scheduling and logs.
func (r *Relay) Name() string { return "outbox-relay" }

// Run processes one batch of due messages.
//
// All row verdicts are committed in a single storage transaction at the end
// of the batch. A crash or cancellation mid-batch commits nothing, so those
// rows are simply retried on a later tick: delivery is at-least-once and
// handlers see duplicates.
func (r *Relay) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("relay tick skipped, previous run still in flight")
		return nil
	}
	defer r.running.Store(false)

	now := r.clock.Now().UTC()
	messages, err := r.store.ListDue(ctx, now, r.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list due outbox rows: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	results := make([]Result, 0, len(messages))
	failed := 0
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			// Cancelled: commit nothing for this tick.
			return err
		}

		res := r.dispatch(ctx, msg)
		if !res.Processed {
			failed++
			r.logger.Error("outbox dispatch failed",
				"message_id", msg.ID,
				"event_kind", msg.Kind,
				"fail_count", res.FailCount,
				"error", res.ErrorMessage,
			)
		}
		results = append(results, res)
	}

	if err := r.store.MarkBatch(ctx, results); err != nil {
		return fmt.Errorf("failed to commit relay batch: %w", err)
	}

	r.logger.Info("relay batch committed",
		"total", len(messages),
		"processed", len(messages)-failed,
		"failed", failed,
	)
	return nil
}

// dispatch attempts delivery of one message and returns its verdict.
// Failures are isolated to the row: fail_count increments, the error is
// recorded, and the backoff gate pushes the next attempt out.
func (r *Relay) dispatch(ctx context.Context, msg *Message) Result {
	fail := func(err error) Result {
		failCount := msg.FailCount + 1
		next := r.clock.Now().UTC().Add(r.backoff(failCount))
		return Result{
			MessageID:         msg.ID,
			FailCount:         failCount,
			ErrorMessage:      err.Error(),
			NextProcessingUTC: &next,
		}
	}

	event, err := r.registry.Decode(msg.Kind, msg.Payload)
	if err != nil {
		return fail(err)
	}

	// A kind with no handlers stays pending: marking it processed would
	// claim a delivery that never happened. The row retries with backoff
	// until a handler is wired (kafka brokers configured, for instance).
	handlers := r.registry.HandlersFor(msg.Kind)
	if len(handlers) == 0 {
		return fail(fmt.Errorf("no handlers registered for %s", msg.Kind))
	}

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return fail(fmt.Errorf("handler failed for %s: %w", msg.Kind, err))
		}
	}

	return Result{
		MessageID:    msg.ID,
		Processed:    true,
		ProcessedUTC: r.clock.Now().UTC(),
	}
}

// backoff returns the delay before the next attempt: base doubled per
// failure, capped at max.
func (r *Relay) backoff(failCount int64) time.Duration {
	d := r.config.BackoffBase
	for i := int64(1); i < failCount; i++ {
		d *= 2
		if d >= r.config.BackoffMax {
			return r.config.BackoffMax
		}
	}
	if d > r.config.BackoffMax {
		return r.config.BackoffMax
	}
	return d
}
