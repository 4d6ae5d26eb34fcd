package m_team

// Field name constants for the teams table.
const (
	TableName = "teams"

	TeamID    = "team_id"
	OrgID     = "org_id"
	Name      = "name"
	Members   = "members"
	Version   = "version"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)
