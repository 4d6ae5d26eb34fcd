package m_invitation

// Field name constants for the invitations table.
const (
	TableName = "invitations"

	InvitationID = "invitation_id"
	OrgID        = "org_id"
	TeamID       = "team_id"
	Email        = "email"
	Role         = "role"
	Status       = "status"
	AcceptedBy   = "accepted_by"
	ExpiresAt    = "expires_at"
	Version      = "version"
	CreatedAt    = "created_at"
	UpdatedAt    = "updated_at"
)
