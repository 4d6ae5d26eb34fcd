// Package integration defines the events that cross the service boundary
// through the outbox. Every type here is persisted as JSON in the
// outbox_messages table, so fields are append-only: removing or renaming a
// field breaks rows written before a deploy.
package integration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/outbox"
)

// Stable event-kind tags. The email.* kinds are delivered over SMTP, the
// notice.* kinds are published to the broker.
const (
	KindWelcomeEmail         = "email.welcome"
	KindInvitationEmail      = "email.invitation"
	KindMemberJoinedNotice   = "notice.member_joined"
	KindEventScheduledNotice = "notice.event_scheduled"
	KindEventCanceledNotice  = "notice.event_canceled"
)

// WelcomeEmail asks for a welcome mail to a freshly registered user.
type WelcomeEmail struct {
	UserID       string    `json:"user_id"`
	OrgID        string    `json:"org_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (e *WelcomeEmail) Kind() string        { return KindWelcomeEmail }
func (e *WelcomeEmail) AggregateID() string { return e.UserID }

// InvitationEmail asks for an invitation mail to a prospective member.
type InvitationEmail struct {
	InvitationID string    `json:"invitation_id"`
	OrgID        string    `json:"org_id"`
	TeamID       string    `json:"team_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (e *InvitationEmail) Kind() string        { return KindInvitationEmail }
func (e *InvitationEmail) AggregateID() string { return e.InvitationID }

// MemberJoinedNotice announces a new team member to downstream consumers.
type MemberJoinedNotice struct {
	TeamID   string    `json:"team_id"`
	OrgID    string    `json:"org_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (e *MemberJoinedNotice) Kind() string        { return KindMemberJoinedNotice }
func (e *MemberJoinedNotice) AggregateID() string { return e.TeamID }

// EventScheduledNotice announces a newly scheduled calendar event.
type EventScheduledNotice struct {
	EventID  string    `json:"event_id"`
	OrgID    string    `json:"org_id"`
	TeamID   string    `json:"team_id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (e *EventScheduledNotice) Kind() string        { return KindEventScheduledNotice }
func (e *EventScheduledNotice) AggregateID() string { return e.EventID }

// EventCanceledNotice announces a canceled calendar event.
type EventCanceledNotice struct {
	EventID    string    `json:"event_id"`
	OrgID      string    `json:"org_id"`
	TeamID     string    `json:"team_id"`
	Title      string    `json:"title"`
	Reason     string    `json:"reason"`
	CanceledAt time.Time `json:"canceled_at"`
}

func (e *EventCanceledNotice) Kind() string        { return KindEventCanceledNotice }
func (e *EventCanceledNotice) AggregateID() string { return e.EventID }

// RegisterDecoders binds every integration event kind to its decoder.
// Called once at startup; the registry panics on duplicate kinds, so a
// copy-paste mistake here fails fast instead of corrupting dispatch.
func RegisterDecoders(registry *outbox.Registry) {
	registry.Register(KindWelcomeEmail, decodeInto(func() outbox.Event { return &WelcomeEmail{} }))
	registry.Register(KindInvitationEmail, decodeInto(func() outbox.Event { return &InvitationEmail{} }))
	registry.Register(KindMemberJoinedNotice, decodeInto(func() outbox.Event { return &MemberJoinedNotice{} }))
	registry.Register(KindEventScheduledNotice, decodeInto(func() outbox.Event { return &EventScheduledNotice{} }))
	registry.Register(KindEventCanceledNotice, decodeInto(func() outbox.Event { return &EventCanceledNotice{} }))
}

func decodeInto(newEvent func() outbox.Event) outbox.Decoder {
	return func(payload []byte) (outbox.Event, error) {
		event := newEvent()
		if err := json.Unmarshal(payload, event); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", event.Kind(), err)
		}
		return event, nil
	}
}
