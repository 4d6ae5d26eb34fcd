package invite_member

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/domain"
	teamcontracts "github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	teamdomain "github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// DefaultTTL is how long an invitation stays acceptable.
const DefaultTTL = 7 * 24 * time.Hour

// Request contains the data needed to invite a member.
type Request struct {
	OrgID  string
	TeamID string
	Email  string
	Role   string
	TTL    time.Duration // zero means DefaultTTL
}

// Interactor handles the invite member use case.
type Interactor struct {
	repo  contracts.InvitationRepository
	teams teamcontracts.TeamRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new invite member interactor.
func NewInteractor(
	repo contracts.InvitationRepository,
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

// Execute creates a pending invitation. The invitation row and the
// invitation-email outbox row commit together.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	if !teamdomain.ValidRole(teamdomain.Role(req.Role)) {
		return "", teamdomain.ErrInvalidRole
	}

	// The team must exist; a dangling invitation would fail at accept time
	// with a much more confusing error.
	if _, err := i.teams.GetByID(ctx, req.TeamID); err != nil {
		return "", err
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	inv, err := domain.NewInvitation(
		uuid.New().String(),
		req.OrgID,
		req.TeamID,
		req.Email,
		req.Role,
		i.clock.Now(),
		ttl,
	)
	if err != nil {
		return "", err
	}

	u := i.uow.New()
	u.Track(inv, func(plan *committer.Plan) error {
		plan.Add(i.repo.InsertMut(inv))
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to create invitation: %w", err)
	}

	return inv.ID(), nil
}
