package m_event

// Field name constants for the events table (team calendar events).
const (
	TableName = "events"

	EventID   = "event_id"
	OrgID     = "org_id"
	TeamID    = "team_id"
	Title     = "title"
	StartsAt  = "starts_at"
	EndsAt    = "ends_at"
	Status    = "status"
	Version   = "version"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)
