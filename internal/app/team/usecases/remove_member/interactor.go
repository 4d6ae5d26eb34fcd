package remove_member

import (
	"context"
	"fmt"

	"github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to remove a team member.
type Request struct {
	TeamID string
	UserID string
}

// Interactor handles the remove member use case.
type Interactor struct {
	repo  contracts.TeamRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new remove member interactor.
func NewInteractor(repo contracts.TeamRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute removes a member from the team.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	team, err := i.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}

	if err := team.RemoveMember(req.UserID, i.clock.Now()); err != nil {
		return err
	}

	u := i.uow.New()
	u.Track(team, func(plan *committer.Plan) error {
		mut, err := i.repo.UpdateMut(team)
		if err != nil {
			return err
		}
		if mut == nil {
			return nil
		}
		plan.Add(mut)
		plan.Check(i.repo.VersionCheck(team))
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
