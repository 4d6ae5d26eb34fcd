package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	now := time.Now().UTC()

	t.Run("normalizes email and records event", func(t *testing.T) {
		u, err := NewUser("user-1", "org-1", "  Dana@Example.COM ", "Dana", now)
		require.NoError(t, err)

		assert.Equal(t, "dana@example.com", u.Email())
		assert.Equal(t, StatusActive, u.Status())
		assert.True(t, u.IsNew())

		events := u.DomainEvents()
		require.Len(t, events, 1)
		registered, ok := events[0].(*UserRegisteredEvent)
		require.True(t, ok)
		assert.Equal(t, "user.registered", registered.EventType())
		assert.Equal(t, "dana@example.com", registered.Email)
	})

	t.Run("display name defaults to email", func(t *testing.T) {
		u, err := NewUser("user-1", "org-1", "dana@example.com", "", now)
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", u.DisplayName())
	})

	t.Run("empty email rejected", func(t *testing.T) {
		_, err := NewUser("user-1", "org-1", "   ", "Dana", now)
		assert.ErrorIs(t, err, ErrEmptyEmail)
	})

	t.Run("empty org rejected", func(t *testing.T) {
		_, err := NewUser("user-1", "", "dana@example.com", "Dana", now)
		assert.ErrorIs(t, err, ErrEmptyOrg)
	})
}

func TestUserLifecycle(t *testing.T) {
	now := time.Now().UTC()

	newUser := func(t *testing.T) *User {
		u, err := NewUser("user-1", "org-1", "dana@example.com", "Dana", now)
		require.NoError(t, err)
		u.ClearEvents()
		u.Changes().Clear()
		return u
	}

	t.Run("rename marks display name dirty", func(t *testing.T) {
		u := newUser(t)
		require.NoError(t, u.Rename("Dana M.", now))
		assert.Equal(t, "Dana M.", u.DisplayName())
		assert.True(t, u.Changes().Dirty(FieldDisplayName))
	})

	t.Run("empty rename rejected", func(t *testing.T) {
		u := newUser(t)
		err := u.Rename("", now)
		assert.ErrorIs(t, err, ErrEmptyDisplayName)
	})

	t.Run("deactivate records event", func(t *testing.T) {
		u := newUser(t)
		require.NoError(t, u.Deactivate(now))
		assert.Equal(t, StatusDeactivated, u.Status())

		events := u.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "user.deactivated", events[0].EventType())
	})

	t.Run("operations on deactivated account rejected", func(t *testing.T) {
		u := newUser(t)
		require.NoError(t, u.Deactivate(now))

		assert.ErrorIs(t, u.Rename("X", now), ErrUserDeactivated)
		assert.ErrorIs(t, u.Deactivate(now), ErrUserDeactivated)
	})

	t.Run("reconstructed user is not new", func(t *testing.T) {
		u := ReconstructUser("user-1", "org-1", "dana@example.com", "Dana", StatusActive, 3, now, now)
		assert.False(t, u.IsNew())
		assert.Equal(t, int64(3), u.Version())
		assert.Empty(t, u.DomainEvents())
	})
}
