package revoke_invitation

import (
	"context"
	"fmt"

	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to revoke an invitation.
type Request struct {
	InvitationID string
}

// Interactor handles the revoke invitation use case.
type Interactor struct {
	repo  contracts.InvitationRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new revoke invitation interactor.
func NewInteractor(repo contracts.InvitationRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute revokes a pending invitation.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	inv, err := i.repo.GetByID(ctx, req.InvitationID)
	if err != nil {
		return err
	}

	if err := inv.Revoke(i.clock.Now()); err != nil {
		return err
	}

	u := i.uow.New()
	u.Track(inv, func(plan *committer.Plan) error {
		if mut := i.repo.UpdateMut(inv); mut != nil {
			plan.Add(mut)
			plan.Check(i.repo.VersionCheck(inv))
		}
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}

	return nil
}
