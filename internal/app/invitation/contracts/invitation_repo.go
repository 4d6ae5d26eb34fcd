package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// InvitationRepository defines the interface for invitation persistence.
type InvitationRepository interface {
	// GetByID retrieves an invitation, reconstructing the domain aggregate.
	GetByID(ctx context.Context, invitationID string) (*domain.Invitation, error)

	// InsertMut creates a mutation for inserting a new invitation.
	InsertMut(inv *domain.Invitation) *spanner.Mutation

	// UpdateMut creates a mutation for updating an invitation (dirty fields
	// only). Returns nil when the aggregate has no changes.
	UpdateMut(inv *domain.Invitation) *spanner.Mutation

	// VersionCheck returns the optimistic-concurrency guard for the
	// aggregate as loaded.
	VersionCheck(inv *domain.Invitation) committer.VersionCheck
}
