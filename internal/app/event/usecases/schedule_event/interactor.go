package schedule_event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dawn-chorus/teamsync-service/internal/app/event/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/event/domain"
	teamcontracts "github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to schedule an event.
type Request struct {
	OrgID    string
	TeamID   string
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
}

// Interactor handles the schedule event use case.
type Interactor struct {
	repo  contracts.EventRepository
	teams teamcontracts.TeamRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new schedule event interactor.
func NewInteractor(
	repo contracts.EventRepository,
	teams teamcontracts.TeamRepository,
	factory *uow.Factory,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:  repo,
		teams: teams,
		uow:   factory,
		clock: clock,
	}
}

// Execute schedules an event for a team. The event row and the
// event-scheduled outbox row commit together.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	if _, err := i.teams.GetByID(ctx, req.TeamID); err != nil {
		return "", err
	}

	event, err := domain.NewEvent(
		uuid.New().String(),
		req.OrgID,
		req.TeamID,
		req.Title,
		req.StartsAt,
		req.EndsAt,
		i.clock.Now(),
	)
	if err != nil {
		return "", err
	}

	u := i.uow.New()
	u.Track(event, func(plan *committer.Plan) error {
		plan.Add(i.repo.InsertMut(event))
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to schedule event: %w", err)
	}

	return event.ID(), nil
}
