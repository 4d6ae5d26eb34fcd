package create_team

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to create a team.
type Request struct {
	OrgID     string
	Name      string
	CreatorID string
}

// Interactor handles the create team use case.
type Interactor struct {
	repo  contracts.TeamRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new create team interactor.
func NewInteractor(repo contracts.TeamRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute creates a team with the creator as its first owner.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	team, err := domain.NewTeam(uuid.New().String(), req.OrgID, req.Name, req.CreatorID, i.clock.Now())
	if err != nil {
		return "", err
	}

	u := i.uow.New()
	u.Track(team, func(plan *committer.Plan) error {
		mut, err := i.repo.InsertMut(team)
		if err != nil {
			return err
		}
		plan.Add(mut)
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to create team: %w", err)
	}

	return team.ID(), nil
}
