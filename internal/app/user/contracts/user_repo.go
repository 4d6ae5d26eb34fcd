package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/dawn-chorus/teamsync-service/internal/app/user/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// GetByID retrieves a user, reconstructing the domain aggregate.
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// ExistsByEmail checks whether an account already uses the email
	// within the organization.
	ExistsByEmail(ctx context.Context, orgID, email string) (bool, error)

	// InsertMut creates a mutation for inserting a new user.
	InsertMut(user *domain.User) *spanner.Mutation

	// UpdateMut creates a mutation for updating a user (dirty fields only).
	// Returns nil when the aggregate has no changes.
	UpdateMut(user *domain.User) *spanner.Mutation

	// VersionCheck returns the optimistic-concurrency guard for the
	// aggregate as loaded.
	VersionCheck(user *domain.User) committer.VersionCheck
}
