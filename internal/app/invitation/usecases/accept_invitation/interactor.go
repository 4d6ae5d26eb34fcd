package accept_invitation

import (
	"context"
	"fmt"

	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to accept an invitation.
type Request struct {
	InvitationID string
	UserID       string
}

// Interactor handles the accept invitation use case.
type Interactor struct {
	repo  contracts.InvitationRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new accept invitation interactor.
func NewInteractor(repo contracts.InvitationRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute accepts the invitation. The invitation.accepted domain event
// cascades into the team aggregate: the membership change, the invitation
// update, and the member-joined outbox row all land in one commit. Accept
// racing Revoke is resolved by the version check: one side commits, the
// other gets uow.ErrConflict.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	inv, err := i.repo.GetByID(ctx, req.InvitationID)
	if err != nil {
		return err
	}

	if err := inv.Accept(req.UserID, i.clock.Now()); err != nil {
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
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	return nil
}
