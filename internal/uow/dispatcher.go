package uow

import (
	"context"

	"github.com/dawn-chorus/teamsync-service/internal/domain"
)

// Handler reacts to one domain event, synchronously, inside the pending
// unit of work. A handler may enqueue integration events through the unit
// of work or load and mutate further aggregates (tracking them so their
// own events join the cascade). A handler error aborts the whole unit of
// work: no partial state can commit.
//
// Handlers on this path must not call external services; network-calling
// side effects belong to outbox handlers invoked by the relay.
type Handler func(ctx context.Context, event domain.Event, u *UnitOfWork) error

// Dispatcher routes domain events to handlers by event type. The table is
// built explicitly at startup and injected; registration order is
// invocation order.
type Dispatcher struct {
	handlers map[string][]Handler
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
	}
}

// On appends a handler for the given domain event type.
func (d *Dispatcher) On(eventType string, h Handler) {
	d.handlers[eventType] = append(d.handlers[eventType], h)
}

// handlersFor returns the ordered handler list for an event type.
// Events with no handlers are legal; they just have no side effects.
func (d *Dispatcher) handlersFor(eventType string) []Handler {
	return d.handlers[eventType]
}
