package domain

import (
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/domain"
)

// Field names for change tracking
const (
	FieldTitle    = "title"
	FieldStartsAt = "starts_at"
	FieldEndsAt   = "ends_at"
	FieldStatus   = "status"
)

// EventStatus represents the lifecycle status of a calendar event.
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusCanceled  EventStatus = "canceled"
)

// Event is the aggregate root for a team calendar event. Concurrent
// reschedules are possible, so the aggregate carries a version token
// checked at commit time.
type Event struct {
	domain.Recorder

	id        string
	orgID     string
	teamID    string
	title     string
	startsAt  time.Time
	endsAt    time.Time
	status    EventStatus
	version   int64
	createdAt time.Time
	updatedAt time.Time

	isNew   bool
	changes *domain.ChangeTracker
}

// NewEvent schedules a new event for a team (for creation).
func NewEvent(id, orgID, teamID, title string, startsAt, endsAt, now time.Time) (*Event, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if teamID == "" {
		return nil, ErrEmptyTeam
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidWindow
	}
	if startsAt.Before(now) {
		return nil, ErrStartsInPast
	}

	e := &Event{
		id:        id,
		orgID:     orgID,
		teamID:    teamID,
		title:     title,
		startsAt:  startsAt,
		endsAt:    endsAt,
		status:    StatusScheduled,
		version:   1,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
		changes:   domain.NewChangeTracker(),
	}

	e.changes.MarkDirty(FieldTitle)
	e.changes.MarkDirty(FieldStartsAt)
	e.changes.MarkDirty(FieldEndsAt)
	e.changes.MarkDirty(FieldStatus)

	e.Record(&EventScheduledEvent{
		EventID:     e.id,
		OrgID:       e.orgID,
		TeamID:      e.teamID,
		Title:       e.title,
		StartsAt:    e.startsAt,
		EndsAt:      e.endsAt,
		ScheduledAt: now,
	})

	return e, nil
}

// ReconstructEvent reconstitutes an Event from storage.
func ReconstructEvent(
	id, orgID, teamID, title string,
	startsAt, endsAt time.Time,
	status EventStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:        id,
		orgID:     orgID,
		teamID:    teamID,
		title:     title,
		startsAt:  startsAt,
		endsAt:    endsAt,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		changes:   domain.NewChangeTracker(),
	}
}

// Getters
func (e *Event) ID() string                     { return e.id }
func (e *Event) OrgID() string                  { return e.orgID }
func (e *Event) TeamID() string                 { return e.teamID }
func (e *Event) Title() string                  { return e.title }
func (e *Event) StartsAt() time.Time            { return e.startsAt }
func (e *Event) EndsAt() time.Time              { return e.endsAt }
func (e *Event) Status() EventStatus            { return e.status }
func (e *Event) Version() int64                 { return e.version }
func (e *Event) CreatedAt() time.Time           { return e.createdAt }
func (e *Event) UpdatedAt() time.Time           { return e.updatedAt }
func (e *Event) Changes() *domain.ChangeTracker { return e.changes }
func (e *Event) IsNew() bool                    { return e.isNew }

// Reschedule moves the event to a new time window.
func (e *Event) Reschedule(startsAt, endsAt, now time.Time) error {
	if e.status == StatusCanceled {
		return ErrCanceled
	}
	if !endsAt.After(startsAt) {
		return ErrInvalidWindow
	}

	previousStart := e.startsAt
	e.startsAt = startsAt
	e.endsAt = endsAt
	e.updatedAt = now
	e.changes.MarkDirty(FieldStartsAt)
	e.changes.MarkDirty(FieldEndsAt)

	e.Record(&EventRescheduledEvent{
		EventID:       e.id,
		OrgID:         e.orgID,
		TeamID:        e.teamID,
		Title:         e.title,
		PreviousStart: previousStart,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		RescheduledAt: now,
	})
	return nil
}

// Cancel cancels the event.
func (e *Event) Cancel(reason string, now time.Time) error {
	if e.status == StatusCanceled {
		return ErrCanceled
	}

	e.status = StatusCanceled
	e.updatedAt = now
	e.changes.MarkDirty(FieldStatus)

	e.Record(&EventCanceledEvent{
		EventID:    e.id,
		OrgID:      e.orgID,
		TeamID:     e.teamID,
		Title:      e.title,
		Reason:     reason,
		CanceledAt: now,
	})
	return nil
}
