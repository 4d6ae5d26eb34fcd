package m_event

import "time"

// Data represents the database model for the events table.
type Data struct {
	EventID   string
	OrgID     string
	TeamID    string
	Title     string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
