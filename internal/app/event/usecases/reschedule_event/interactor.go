package reschedule_event

import (
	"context"
	"fmt"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/app/event/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to reschedule an event.
type Request struct {
	EventID  string
	StartsAt time.Time
	EndsAt   time.Time
}

// Interactor handles the reschedule event use case.
type Interactor struct {
	repo  contracts.EventRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new reschedule event interactor.
func NewInteractor(repo contracts.EventRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute moves the event to a new time window. A concurrent cancel or
// reschedule loses to the version check.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	event, err := i.repo.GetByID(ctx, req.EventID)
	if err != nil {
		return err
	}

	if err := event.Reschedule(req.StartsAt, req.EndsAt, i.clock.Now()); err != nil {
		return err
	}

	u := i.uow.New()
	u.Track(event, func(plan *committer.Plan) error {
		if mut := i.repo.UpdateMut(event); mut != nil {
			plan.Add(mut)
			plan.Check(i.repo.VersionCheck(event))
		}
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return fmt.Errorf("failed to reschedule event: %w", err)
	}

	return nil
}
