package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/dawn-chorus/teamsync-service/internal/app/event/domain"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// EventRepository defines the interface for calendar event persistence.
type EventRepository interface {
	// GetByID retrieves an event, reconstructing the domain aggregate.
	GetByID(ctx context.Context, eventID string) (*domain.Event, error)

	// InsertMut creates a mutation for inserting a new event.
	InsertMut(event *domain.Event) *spanner.Mutation

	// UpdateMut creates a mutation for updating an event (dirty fields
	// only). Returns nil when the aggregate has no changes.
	UpdateMut(event *domain.Event) *spanner.Mutation

	// VersionCheck returns the optimistic-concurrency guard for the
	// aggregate as loaded.
	VersionCheck(event *domain.Event) committer.VersionCheck
}
