package domain

import "time"

// EventScheduledEvent is emitted when a calendar event is scheduled.
type EventScheduledEvent struct {
	EventID     string
	OrgID       string
	TeamID      string
	Title       string
	StartsAt    time.Time
	EndsAt      time.Time
	ScheduledAt time.Time
}

func (e *EventScheduledEvent) EventType() string {
	return "event.scheduled"
}

func (e *EventScheduledEvent) AggregateID() string {
	return e.EventID
}

// EventRescheduledEvent is emitted when a calendar event moves.
type EventRescheduledEvent struct {
	EventID       string
	OrgID         string
	TeamID        string
	Title         string
	PreviousStart time.Time
	StartsAt      time.Time
	EndsAt        time.Time
	RescheduledAt time.Time
}

func (e *EventRescheduledEvent) EventType() string {
	return "event.rescheduled"
}

func (e *EventRescheduledEvent) AggregateID() string {
	return e.EventID
}

// EventCanceledEvent is emitted when a calendar event is canceled.
type EventCanceledEvent struct {
	EventID    string
	OrgID      string
	TeamID     string
	Title      string
	Reason     string
	CanceledAt time.Time
}

func (e *EventCanceledEvent) EventType() string {
	return "event.canceled"
}

func (e *EventCanceledEvent) AggregateID() string {
	return e.EventID
}
