package m_user

// Field name constants for the users table.
const (
	TableName = "users"

	UserID      = "user_id"
	OrgID       = "org_id"
	Email       = "email"
	DisplayName = "display_name"
	Status      = "status"
	Version     = "version"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"
)
