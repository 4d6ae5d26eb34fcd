package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
)

// ErrVersionMismatch is returned when a version check fails: the row was
// modified by another writer between read and commit. The caller must
// re-fetch the aggregate and retry the whole business operation.
var ErrVersionMismatch = errors.New("row version mismatch: concurrent modification detected")

// Applier executes a Plan atomically. Satisfied by *Committer in
// production and by fakes in unit tests.
type Applier interface {
	Apply(ctx context.Context, plan *Plan) error
}

// Committer provides transaction execution for Plans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the Plan atomically within a single Spanner transaction.
//
// Plans without version checks go through the blind-write path. Plans with
// checks run in a read-write transaction that re-reads every guarded row
// first; any mismatch fails the whole plan with ErrVersionMismatch and
// nothing is written.
func (c *Committer) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}

	if len(plan.Checks()) == 0 {
		if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
			return fmt.Errorf("failed to apply commit plan: %w", err)
		}
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		for _, check := range plan.Checks() {
			row, err := txn.ReadRow(ctx, check.Table, check.Key, []string{check.Column})
			if err != nil {
				return fmt.Errorf("failed to read %s version: %w", check.Table, err)
			}

			var current int64
			if err := row.Column(0, &current); err != nil {
				return fmt.Errorf("failed to parse %s version: %w", check.Table, err)
			}

			if current != check.Expected {
				return fmt.Errorf("%s %v: expected version %d, found %d: %w",
					check.Table, check.Key, check.Expected, current, ErrVersionMismatch)
			}
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionMismatch) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version checks: %w", err)
	}

	return nil
}

// IsConflict reports whether err represents a lost optimistic-concurrency
// race rather than a general storage failure. Spanner surfaces write
// conflicts as ABORTED (after internal retries are exhausted); our own
// version checks surface as ErrVersionMismatch.
func IsConflict(err error) bool {
	if errors.Is(err, ErrVersionMismatch) {
		return true
	}
	code := spanner.ErrCode(err)
	return code == codes.Aborted || code == codes.FailedPrecondition
}
