package outbox

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when an outbox row's event_kind has no
// registered decoder. The relay records it as a per-row failure; it never
// crashes a batch.
var ErrUnknownKind = errors.New("unregistered integration event kind")

// Decoder turns a stored payload back into a concrete integration event.
type Decoder func(payload []byte) (Event, error)

// Handler consumes integration events of one kind. Handlers are invoked
// only by the relay job, outside the originating transaction, and must be
// idempotent: at-least-once delivery means duplicates will happen.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Registry maps stable event-kind tags to decoders and handler lists.
// Registration happens explicitly at startup; there is no reflection-based
// discovery, so the full wiring is visible in one place and testable.
// The registry is immutable after startup and safe for concurrent reads.
type Registry struct {
	decoders map[string]Decoder
	handlers map[string][]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]Decoder),
		handlers: make(map[string][]Handler),
	}
}

// Register binds a decoder to an event kind.
// Registering the same kind twice is a wiring bug and panics at startup.
func (r *Registry) Register(kind string, decode Decoder) {
	if _, exists := r.decoders[kind]; exists {
		panic(fmt.Sprintf("outbox: duplicate decoder registration for kind %q", kind))
	}
	r.decoders[kind] = decode
}

// Handle appends a handler for an event kind. Handlers run in
// registration order.
func (r *Registry) Handle(kind string, h Handler) {
	r.handlers[kind] = append(r.handlers[kind], h)
}

// Decode resolves a kind tag and deserializes the payload.
func (r *Registry) Decode(kind string, payload []byte) (Event, error) {
	decode, ok := r.decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return decode(payload)
}

// HandlersFor returns the ordered handler list for a kind.
func (r *Registry) HandlersFor(kind string) []Handler {
	return r.handlers[kind]
}
