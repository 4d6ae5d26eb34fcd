package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// TeamRepository defines the interface for team persistence.
// Mutation builders return Spanner mutations without applying them; the
// unit of work owns the single commit point.
type TeamRepository interface {
	// GetByID retrieves a team, reconstructing the domain aggregate.
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)

	// InsertMut creates a mutation for inserting a new team.
	InsertMut(team *domain.Team) (*spanner.Mutation, error)

	// UpdateMut creates a mutation for updating a team (dirty fields only).
	// Returns nil when the aggregate has no changes.
	UpdateMut(team *domain.Team) (*spanner.Mutation, error)

	// VersionCheck returns the optimistic-concurrency guard for the
	// aggregate as loaded.
	VersionCheck(team *domain.Team) committer.VersionCheck
}
