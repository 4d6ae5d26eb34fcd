package m_team

import "time"

// Data represents the database model for the teams table.
// Members holds the serialized membership list; the whole list is the
// consistency boundary, so it lives inside the aggregate row.
type Data struct {
	TeamID    string
	OrgID     string
	Name      string
	Members   string // serialized JSON array
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
