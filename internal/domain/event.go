// Package domain holds the building blocks shared by all aggregates:
// domain events, the event recorder, and dirty-field change tracking.
package domain

// Event is the base interface for all domain events. A domain event is a
// transient, in-memory fact raised by an aggregate during a business
// operation. It is consumed only within the unit of work that raised it and
// is never persisted directly.
type Event interface {
	EventType() string
	AggregateID() string
}

// Carrier is any aggregate capable of recording the events it raised.
// The unit of work drains carriers during commit; clearing prevents
// redispatch of already-handled events.
type Carrier interface {
	DomainEvents() []Event
	ClearEvents()
}

// Recorder is the canonical Carrier implementation, embedded by aggregates.
type Recorder struct {
	events []Event
}

// Record appends a domain event to the pending list.
func (r *Recorder) Record(event Event) {
	r.events = append(r.events, event)
}

// DomainEvents returns the events recorded since the last clear.
func (r *Recorder) DomainEvents() []Event {
	return r.events
}

// ClearEvents clears all recorded domain events (called by the unit of
// work after draining).
func (r *Recorder) ClearEvents() {
	r.events = nil
}
