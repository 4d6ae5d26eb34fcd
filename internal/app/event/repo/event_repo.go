package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/dawn-chorus/teamsync-service/internal/app/event/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/event/domain"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_event"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// EventRepo implements EventRepository for Spanner.
type EventRepo struct {
	client *spanner.Client
	model  *m_event.Model
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(client *spanner.Client) contracts.EventRepository {
	return &EventRepo{
		client: client,
		model:  m_event.NewModel(),
	}
}

// GetByID retrieves an event by ID, reconstructing the domain aggregate.
func (r *EventRepo) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	row, err := r.client.Single().ReadRow(ctx, m_event.TableName, spanner.Key{eventID}, []string{
		m_event.EventID,
		m_event.OrgID,
		m_event.TeamID,
		m_event.Title,
		m_event.StartsAt,
		m_event.EndsAt,
		m_event.Status,
		m_event.Version,
		m_event.CreatedAt,
		m_event.UpdatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	var data m_event.Data
	if err := row.Columns(
		&data.EventID,
		&data.OrgID,
		&data.TeamID,
		&data.Title,
		&data.StartsAt,
		&data.EndsAt,
		&data.Status,
		&data.Version,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	return dataToDomain(&data), nil
}

// InsertMut creates a mutation for inserting a new event.
func (r *EventRepo) InsertMut(event *domain.Event) *spanner.Mutation {
	return r.model.InsertMut(&m_event.Data{
		EventID:   event.ID(),
		OrgID:     event.OrgID(),
		TeamID:    event.TeamID(),
		Title:     event.Title(),
		StartsAt:  event.StartsAt(),
		EndsAt:    event.EndsAt(),
		Status:    string(event.Status()),
		Version:   event.Version(),
		CreatedAt: event.CreatedAt(),
		UpdatedAt: event.UpdatedAt(),
	})
}

// UpdateMut creates a mutation for updating an event (only dirty fields).
func (r *EventRepo) UpdateMut(event *domain.Event) *spanner.Mutation {
	changes := event.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldTitle) {
		updates[m_event.Title] = event.Title()
	}

	if changes.Dirty(domain.FieldStartsAt) {
		updates[m_event.StartsAt] = event.StartsAt()
	}

	if changes.Dirty(domain.FieldEndsAt) {
		updates[m_event.EndsAt] = event.EndsAt()
	}

	if changes.Dirty(domain.FieldStatus) {
		updates[m_event.Status] = string(event.Status())
	}

	if len(updates) == 0 {
		return nil
	}

	updates[m_event.UpdatedAt] = event.UpdatedAt()
	updates[m_event.Version] = event.Version() + 1

	return r.model.UpdateMut(event.ID(), updates)
}

// VersionCheck returns the optimistic-concurrency guard for the event row.
func (r *EventRepo) VersionCheck(event *domain.Event) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_event.TableName,
		Key:      spanner.Key{event.ID()},
		Column:   m_event.Version,
		Expected: event.Version(),
	}
}

func dataToDomain(data *m_event.Data) *domain.Event {
	return domain.ReconstructEvent(
		data.EventID,
		data.OrgID,
		data.TeamID,
		data.Title,
		data.StartsAt,
		data.EndsAt,
		domain.EventStatus(data.Status),
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
