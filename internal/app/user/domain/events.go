package domain

import "time"

// UserRegisteredEvent is emitted when a user account is created.
type UserRegisteredEvent struct {
	UserID       string
	OrgID        string
	Email        string
	DisplayName  string
	RegisteredAt time.Time
}

func (e *UserRegisteredEvent) EventType() string {
	return "user.registered"
}

func (e *UserRegisteredEvent) AggregateID() string {
	return e.UserID
}

// UserDeactivatedEvent is emitted when a user account is deactivated.
type UserDeactivatedEvent struct {
	UserID        string
	OrgID         string
	DeactivatedAt time.Time
}

func (e *UserDeactivatedEvent) EventType() string {
	return "user.deactivated"
}

func (e *UserDeactivatedEvent) AggregateID() string {
	return e.UserID
}
