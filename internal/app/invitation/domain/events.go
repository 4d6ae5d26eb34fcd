package domain

import "time"

// InvitationCreatedEvent is emitted when an invitation is created.
type InvitationCreatedEvent struct {
	InvitationID string
	OrgID        string
	TeamID       string
	Email        string
	Role         string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func (e *InvitationCreatedEvent) EventType() string {
	return "invitation.created"
}

func (e *InvitationCreatedEvent) AggregateID() string {
	return e.InvitationID
}

// InvitationAcceptedEvent is emitted when an invited user accepts.
type InvitationAcceptedEvent struct {
	InvitationID string
	OrgID        string
	TeamID       string
	UserID       string
	Role         string
	AcceptedAt   time.Time
}

func (e *InvitationAcceptedEvent) EventType() string {
	return "invitation.accepted"
}

func (e *InvitationAcceptedEvent) AggregateID() string {
	return e.InvitationID
}

// InvitationRevokedEvent is emitted when a pending invitation is withdrawn.
type InvitationRevokedEvent struct {
	InvitationID string
	OrgID        string
	TeamID       string
	Email        string
	RevokedAt    time.Time
}

func (e *InvitationRevokedEvent) EventType() string {
	return "invitation.revoked"
}

func (e *InvitationRevokedEvent) AggregateID() string {
	return e.InvitationID
}
