package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
)

const defaultRetention = 30 * 24 * time.Hour

// Reaper bulk-deletes processed outbox rows past their retention window to
// bound table growth. Processed and unprocessed rows are disjoint sets, so
// the reaper is safe to run while the relay is active; scheduling still
// keeps the two on separate ticks to avoid contention.
type Reaper struct {
	store     Store
	clock     clock.Clock
	logger    *slog.Logger
	retention time.Duration
}

// NewReaper creates a new Reaper. retention <= 0 falls back to 30 days.
func NewReaper(store Store, clk clock.Clock, logger *slog.Logger, retention time.Duration) *Reaper {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Reaper{
		store:     store,
		clock:     clk,
		logger:    logger,
		retention: retention,
	}
}

// Name returns the job name for scheduling and logs.
func (r *Reaper) Name() string { return "outbox-reap" }

// Run deletes processed rows older than the retention window. Idempotent;
// a storage failure just defers cleanup to the next tick.
func (r *Reaper) Run(ctx context.Context) error {
	cutoff := r.clock.Now().UTC().Add(-r.retention)

	deleted, err := r.store.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to reap outbox rows: %w", err)
	}

	if deleted > 0 {
		r.logger.Info("reaped processed outbox rows", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
