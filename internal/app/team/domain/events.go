package domain

import "time"

// TeamCreatedEvent is emitted when a team is created.
type TeamCreatedEvent struct {
	TeamID    string
	OrgID     string
	Name      string
	CreatorID string
	CreatedAt time.Time
}

func (e *TeamCreatedEvent) EventType() string {
	return "team.created"
}

func (e *TeamCreatedEvent) AggregateID() string {
	return e.TeamID
}

// MemberAddedEvent is emitted when a user joins a team.
type MemberAddedEvent struct {
	TeamID   string
	OrgID    string
	UserID   string
	Role     string
	JoinedAt time.Time
}

func (e *MemberAddedEvent) EventType() string {
	return "team.member.added"
}

func (e *MemberAddedEvent) AggregateID() string {
	return e.TeamID
}

// MemberRoleChangedEvent is emitted when a member's role changes.
type MemberRoleChangedEvent struct {
	TeamID       string
	OrgID        string
	UserID       string
	PreviousRole string
	NewRole      string
	ChangedAt    time.Time
}

func (e *MemberRoleChangedEvent) EventType() string {
	return "team.member.role_changed"
}

func (e *MemberRoleChangedEvent) AggregateID() string {
	return e.TeamID
}

// MemberRemovedEvent is emitted when a user leaves or is removed from a team.
type MemberRemovedEvent struct {
	TeamID    string
	OrgID     string
	UserID    string
	RemovedAt time.Time
}

func (e *MemberRemovedEvent) EventType() string {
	return "team.member.removed"
}

func (e *MemberRemovedEvent) AggregateID() string {
	return e.TeamID
}
