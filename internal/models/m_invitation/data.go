package m_invitation

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the invitations table.
type Data struct {
	InvitationID string
	OrgID        string
	TeamID       string
	Email        string
	Role         string
	Status       string
	AcceptedBy   spanner.NullString
	ExpiresAt    time.Time
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
