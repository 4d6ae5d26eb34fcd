// Package uow orchestrates the commit of a business operation: the domain
// event cascade is drained to a fixed point, every tracked aggregate is
// flushed into one mutation plan together with the outbox rows its events
// produced, and the plan is applied in a single Spanner transaction.
package uow

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/dawn-chorus/teamsync-service/internal/domain"
	"github.com/dawn-chorus/teamsync-service/internal/outbox"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// maxCascadeRounds bounds the domain-event drain loop. Eight rounds is far
// beyond any legitimate cascade in this system; hitting the cap means a
// handler cycle and fails the commit with ErrCascadeOverflow.
const maxCascadeRounds = 8

// Flush contributes an aggregate's pending mutations (and version check,
// for aggregates supporting concurrent edits) to the commit plan.
type Flush func(plan *committer.Plan) error

// OutboxInserter stages outbox rows for the commit plan. Satisfied by
// *outbox.SpannerStore.
type OutboxInserter interface {
	InsertMut(msg *outbox.Message) *spanner.Mutation
}

type tracked struct {
	carrier domain.Carrier
	flush   Flush
}

// UnitOfWork collects the aggregates touched by one business operation and
// commits their state changes atomically with the outbox rows implied by
// their domain events. One instance per inbound operation; not shared
// across requests and not safe for concurrent use.
type UnitOfWork struct {
	dispatcher *Dispatcher
	applier    committer.Applier
	outbox     OutboxInserter

	tracked []tracked
	staged  []*spanner.Mutation
}

// New creates a UnitOfWork for a single business operation.
func New(dispatcher *Dispatcher, applier committer.Applier, outboxInserter OutboxInserter) *UnitOfWork {
	return &UnitOfWork{
		dispatcher: dispatcher,
		applier:    applier,
		outbox:     outboxInserter,
	}
}

// Track registers an aggregate for event draining and commit flushing.
// Domain-event handlers call this too, which is how a cascade pulls
// further aggregates into the same commit.
func (u *UnitOfWork) Track(carrier domain.Carrier, flush Flush) {
	u.tracked = append(u.tracked, tracked{carrier: carrier, flush: flush})
}

// Enqueue stages an integration event as an outbox row in the pending
// commit. Only domain-event handlers may call it; request handlers never
// write outbox rows directly, so no row can exist without the aggregate
// change that implied it.
func (u *UnitOfWork) Enqueue(event outbox.Event) error {
	msg, err := outbox.NewMessage(event)
	if err != nil {
		return err
	}
	u.staged = append(u.staged, u.outbox.InsertMut(msg))
	return nil
}

// Append stages an auxiliary mutation (a history row, a projection) that
// rides along with the commit but carries no events of its own.
func (u *UnitOfWork) Append(mut *spanner.Mutation) {
	if mut != nil {
		u.staged = append(u.staged, mut)
	}
}

// Commit drains the domain-event cascade, flushes all tracked aggregates,
// and applies the resulting plan in one atomic Spanner commit.
//
// Returns nil only when aggregate state and outbox rows are durably
// committed together. Conflicts surface as ErrConflict, everything else
// as ErrInternal; a handler error aborts before anything is written.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.drain(ctx); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.AddAll(u.staged)
	for _, t := range u.tracked {
		if err := t.flush(plan); err != nil {
			return fmt.Errorf("%w: flush failed: %v", ErrInternal, err)
		}
	}

	if plan.IsEmpty() {
		return nil
	}

	if err := u.applier.Apply(ctx, plan); err != nil {
		if committer.IsConflict(err) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return nil
}

// drain dispatches domain events to a fixed point. Each round collects the
// events every tracked carrier currently holds and clears them so nothing
// is redispatched; handlers may record new events or track new aggregates,
// which the next round picks up.
func (u *UnitOfWork) drain(ctx context.Context) error {
	for round := 0; ; round++ {
		var batch []domain.Event
		for _, t := range u.tracked {
			events := t.carrier.DomainEvents()
			if len(events) == 0 {
				continue
			}
			batch = append(batch, events...)
			t.carrier.ClearEvents()
		}

		if len(batch) == 0 {
			return nil
		}
		if round >= maxCascadeRounds {
			return fmt.Errorf("%w (%d rounds, %d events pending)", ErrCascadeOverflow, round, len(batch))
		}

		for _, event := range batch {
			for _, h := range u.dispatcher.handlersFor(event.EventType()) {
				if err := h(ctx, event, u); err != nil {
					return fmt.Errorf("domain event handler for %s: %w", event.EventType(), err)
				}
			}
		}
	}
}
