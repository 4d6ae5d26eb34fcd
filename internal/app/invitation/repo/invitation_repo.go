package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/domain"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_invitation"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// InvitationRepo implements InvitationRepository for Spanner.
type InvitationRepo struct {
	client *spanner.Client
	model  *m_invitation.Model
}

// NewInvitationRepo creates a new InvitationRepo.
func NewInvitationRepo(client *spanner.Client) contracts.InvitationRepository {
	return &InvitationRepo{
		client: client,
		model:  m_invitation.NewModel(),
	}
}

// GetByID retrieves an invitation by ID, reconstructing the domain aggregate.
func (r *InvitationRepo) GetByID(ctx context.Context, invitationID string) (*domain.Invitation, error) {
	row, err := r.client.Single().ReadRow(ctx, m_invitation.TableName, spanner.Key{invitationID}, []string{
		m_invitation.InvitationID,
		m_invitation.OrgID,
		m_invitation.TeamID,
		m_invitation.Email,
		m_invitation.Role,
		m_invitation.Status,
		m_invitation.AcceptedBy,
		m_invitation.ExpiresAt,
		m_invitation.Version,
		m_invitation.CreatedAt,
		m_invitation.UpdatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to read invitation: %w", err)
	}

	var data m_invitation.Data
	if err := row.Columns(
		&data.InvitationID,
		&data.OrgID,
		&data.TeamID,
		&data.Email,
		&data.Role,
		&data.Status,
		&data.AcceptedBy,
		&data.ExpiresAt,
		&data.Version,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to parse invitation: %w", err)
	}

	return dataToDomain(&data), nil
}

// InsertMut creates a mutation for inserting a new invitation.
func (r *InvitationRepo) InsertMut(inv *domain.Invitation) *spanner.Mutation {
	return r.model.InsertMut(&m_invitation.Data{
		InvitationID: inv.ID(),
		OrgID:        inv.OrgID(),
		TeamID:       inv.TeamID(),
		Email:        inv.Email(),
		Role:         inv.Role(),
		Status:       string(inv.Status()),
		AcceptedBy:   nullString(inv.AcceptedBy()),
		ExpiresAt:    inv.ExpiresAt(),
		Version:      inv.Version(),
		CreatedAt:    inv.CreatedAt(),
		UpdatedAt:    inv.UpdatedAt(),
	})
}

// UpdateMut creates a mutation for updating an invitation (only dirty fields).
func (r *InvitationRepo) UpdateMut(inv *domain.Invitation) *spanner.Mutation {
	changes := inv.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldStatus) {
		updates[m_invitation.Status] = string(inv.Status())
	}

	if changes.Dirty(domain.FieldAcceptedBy) {
		updates[m_invitation.AcceptedBy] = nullString(inv.AcceptedBy())
	}

	if len(updates) == 0 {
		return nil
	}

	updates[m_invitation.UpdatedAt] = inv.UpdatedAt()
	updates[m_invitation.Version] = inv.Version() + 1

	return r.model.UpdateMut(inv.ID(), updates)
}

// VersionCheck returns the optimistic-concurrency guard for the invitation row.
func (r *InvitationRepo) VersionCheck(inv *domain.Invitation) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_invitation.TableName,
		Key:      spanner.Key{inv.ID()},
		Column:   m_invitation.Version,
		Expected: inv.Version(),
	}
}

func nullString(s string) spanner.NullString {
	if s == "" {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: s, Valid: true}
}

func dataToDomain(data *m_invitation.Data) *domain.Invitation {
	return domain.ReconstructInvitation(
		data.InvitationID,
		data.OrgID,
		data.TeamID,
		data.Email,
		data.Role,
		domain.InvitationStatus(data.Status),
		data.AcceptedBy.StringVal,
		data.ExpiresAt,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
