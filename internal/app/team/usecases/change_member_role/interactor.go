package change_member_role

import (
	"context"
	"fmt"

	"github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to change a member's role.
type Request struct {
	TeamID string
	UserID string
	Role   domain.Role
}

// Interactor handles the change member role use case.
type Interactor struct {
	repo  contracts.TeamRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new change member role interactor.
func NewInteractor(repo contracts.TeamRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute changes a member's role. Two admins demoting each other's last
// owner concurrently is the race the version check exists for: the loser's
// commit returns uow.ErrConflict and the caller retries against fresh state.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	team, err := i.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}

	if err := team.ChangeMemberRole(req.UserID, req.Role, i.clock.Now()); err != nil {
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
		return fmt.Errorf("failed to change member role: %w", err)
	}

	return nil
}
