package m_user

import "time"

// Data represents the database model for the users table.
type Data struct {
	UserID      string
	OrgID       string
	Email       string
	DisplayName string
	Status      string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
