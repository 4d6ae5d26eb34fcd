package register_user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dawn-chorus/teamsync-service/internal/app/user/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/user/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Request contains the data needed to register a user.
type Request struct {
	OrgID       string
	Email       string
	DisplayName string
}

// Interactor handles the register user use case.
type Interactor struct {
	repo  contracts.UserRepository
	uow   *uow.Factory
	clock clock.Clock
}

// NewInteractor creates a new register user interactor.
func NewInteractor(repo contracts.UserRepository, factory *uow.Factory, clock clock.Clock) *Interactor {
	return &Interactor{
		repo:  repo,
		uow:   factory,
		clock: clock,
	}
}

// Execute registers a new user. The user row and the welcome-email outbox
// row commit in one transaction.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	taken, err := i.repo.ExistsByEmail(ctx, req.OrgID, email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", domain.ErrEmailTaken
	}

	user, err := domain.NewUser(uuid.New().String(), req.OrgID, email, req.DisplayName, i.clock.Now())
	if err != nil {
		return "", err
	}

	u := i.uow.New()
	u.Track(user, func(plan *committer.Plan) error {
		plan.Add(i.repo.InsertMut(user))
		return nil
	})

	if err := u.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	return user.ID(), nil
}
