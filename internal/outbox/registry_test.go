package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("decode resolves registered kind", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("test.fact", func(payload []byte) (Event, error) {
			var e relayTestEvent
			if err := json.Unmarshal(payload, &e); err != nil {
				return nil, err
			}
			return &e, nil
		})

		event, err := registry.Decode("test.fact", []byte(`{"id":"a-1"}`))
		require.NoError(t, err)
		assert.Equal(t, "a-1", event.AggregateID())
	})

	t.Run("unknown kind returns sentinel", func(t *testing.T) {
		registry := NewRegistry()
		_, err := registry.Decode("test.missing", []byte(`{}`))
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		registry := NewRegistry()
		decode := func(payload []byte) (Event, error) { return nil, nil }
		registry.Register("test.fact", decode)

		assert.Panics(t, func() {
			registry.Register("test.fact", decode)
		})
	})

	t.Run("handlers run in registration order", func(t *testing.T) {
		registry := NewRegistry()
		var order []string
		registry.Handle("test.fact", HandlerFunc(func(ctx context.Context, event Event) error {
			order = append(order, "first")
			return nil
		}))
		registry.Handle("test.fact", HandlerFunc(func(ctx context.Context, event Event) error {
			order = append(order, "second")
			return nil
		}))

		for _, h := range registry.HandlersFor("test.fact") {
			require.NoError(t, h.Handle(context.Background(), &relayTestEvent{ID: "a"}))
		}
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("kind without handlers is empty, not nil panic", func(t *testing.T) {
		registry := NewRegistry()
		assert.Empty(t, registry.HandlersFor("test.fact"))
	})
}

func TestNewMessage(t *testing.T) {
	t.Run("serializes event with sortable id", func(t *testing.T) {
		first, err := NewMessage(&relayTestEvent{ID: "a-1"})
		require.NoError(t, err)
		second, err := NewMessage(&relayTestEvent{ID: "a-1"})
		require.NoError(t, err)

		assert.Equal(t, "test.fact", first.Kind)
		assert.JSONEq(t, `{"id":"a-1"}`, string(first.Payload))
		assert.False(t, first.Processed())
		// UUIDv7 ids sort by generation order.
		assert.Less(t, first.ID, second.ID)
	})
}
