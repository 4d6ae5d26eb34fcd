package domain

import (
	"strings"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/domain"
)

// Field names for change tracking
const (
	FieldStatus     = "status"
	FieldAcceptedBy = "accepted_by"
)

// InvitationStatus represents the lifecycle status of an invitation.
type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusRevoked  InvitationStatus = "revoked"
)

// Invitation is the aggregate root for inviting an email address to join a
// team with a given role. Accepting and revoking can race, so the
// aggregate carries a version token checked at commit time.
type Invitation struct {
	domain.Recorder

	id         string
	orgID      string
	teamID     string
	email      string
	role       string
	status     InvitationStatus
	acceptedBy string
	expiresAt  time.Time
	version    int64
	createdAt  time.Time
	updatedAt  time.Time

	isNew   bool
	changes *domain.ChangeTracker
}

// NewInvitation creates a pending invitation (for creation).
func NewInvitation(id, orgID, teamID, email, role string, now time.Time, ttl time.Duration) (*Invitation, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if teamID == "" {
		return nil, ErrEmptyTeam
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	inv := &Invitation{
		id:        id,
		orgID:     orgID,
		teamID:    teamID,
		email:     email,
		role:      role,
		status:    StatusPending,
		expiresAt: now.Add(ttl),
		version:   1,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
		changes:   domain.NewChangeTracker(),
	}

	inv.changes.MarkDirty(FieldStatus)

	inv.Record(&InvitationCreatedEvent{
		InvitationID: inv.id,
		OrgID:        inv.orgID,
		TeamID:       inv.teamID,
		Email:        inv.email,
		Role:         inv.role,
		ExpiresAt:    inv.expiresAt,
		CreatedAt:    now,
	})

	return inv, nil
}

// ReconstructInvitation reconstitutes an Invitation from storage.
func ReconstructInvitation(
	id, orgID, teamID, email, role string,
	status InvitationStatus,
	acceptedBy string,
	expiresAt time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Invitation {
	return &Invitation{
		id:         id,
		orgID:      orgID,
		teamID:     teamID,
		email:      email,
		role:       role,
		status:     status,
		acceptedBy: acceptedBy,
		expiresAt:  expiresAt,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		changes:    domain.NewChangeTracker(),
	}
}

// Getters
func (i *Invitation) ID() string                     { return i.id }
func (i *Invitation) OrgID() string                  { return i.orgID }
func (i *Invitation) TeamID() string                 { return i.teamID }
func (i *Invitation) Email() string                  { return i.email }
func (i *Invitation) Role() string                   { return i.role }
func (i *Invitation) Status() InvitationStatus       { return i.status }
func (i *Invitation) AcceptedBy() string             { return i.acceptedBy }
func (i *Invitation) ExpiresAt() time.Time           { return i.expiresAt }
func (i *Invitation) Version() int64                 { return i.version }
func (i *Invitation) CreatedAt() time.Time           { return i.createdAt }
func (i *Invitation) UpdatedAt() time.Time           { return i.updatedAt }
func (i *Invitation) Changes() *domain.ChangeTracker { return i.changes }
func (i *Invitation) IsNew() bool                    { return i.isNew }

// Accept marks the invitation accepted by the given user.
func (i *Invitation) Accept(userID string, now time.Time) error {
	if userID == "" {
		return ErrEmptyAcceptor
	}
	switch i.status {
	case StatusAccepted:
		return ErrAlreadyAccepted
	case StatusRevoked:
		return ErrRevoked
	}
	if now.After(i.expiresAt) {
		return ErrExpired
	}

	i.status = StatusAccepted
	i.acceptedBy = userID
	i.updatedAt = now
	i.changes.MarkDirty(FieldStatus)
	i.changes.MarkDirty(FieldAcceptedBy)

	i.Record(&InvitationAcceptedEvent{
		InvitationID: i.id,
		OrgID:        i.orgID,
		TeamID:       i.teamID,
		UserID:       userID,
		Role:         i.role,
		AcceptedAt:   now,
	})
	return nil
}

// Revoke withdraws a pending invitation.
func (i *Invitation) Revoke(now time.Time) error {
	switch i.status {
	case StatusAccepted:
		return ErrAlreadyAccepted
	case StatusRevoked:
		return ErrRevoked
	}

	i.status = StatusRevoked
	i.updatedAt = now
	i.changes.MarkDirty(FieldStatus)

	i.Record(&InvitationRevokedEvent{
		InvitationID: i.id,
		OrgID:        i.orgID,
		TeamID:       i.teamID,
		Email:        i.email,
		RevokedAt:    now,
	})
	return nil
}
