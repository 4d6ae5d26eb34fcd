package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTeam(t *testing.T) {
	now := time.Now().UTC()

	t.Run("creator becomes owner", func(t *testing.T) {
		team, err := NewTeam("team-1", "org-1", "Platform", "user-1", now)
		require.NoError(t, err)

		role, ok := team.MemberRole("user-1")
		require.True(t, ok)
		assert.Equal(t, RoleOwner, role)
		assert.Equal(t, int64(1), team.Version())
		assert.True(t, team.IsNew())
	})

	t.Run("records team.created event", func(t *testing.T) {
		team, err := NewTeam("team-1", "org-1", "Platform", "user-1", now)
		require.NoError(t, err)

		events := team.DomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(*TeamCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "team.created", created.EventType())
		assert.Equal(t, "team-1", created.AggregateID())
		assert.Equal(t, "user-1", created.CreatorID)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewTeam("team-1", "org-1", "", "user-1", now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("empty creator rejected", func(t *testing.T) {
		_, err := NewTeam("team-1", "org-1", "Platform", "", now)
		assert.ErrorIs(t, err, ErrEmptyCreator)
	})
}

func TestTeamAddMember(t *testing.T) {
	now := time.Now().UTC()

	newTeam := func(t *testing.T) *Team {
		team, err := NewTeam("team-1", "org-1", "Platform", "user-1", now)
		require.NoError(t, err)
		team.ClearEvents()
		return team
	}

	t.Run("adds member and records event", func(t *testing.T) {
		team := newTeam(t)

		err := team.AddMember("user-2", RoleMember, now)
		require.NoError(t, err)

		role, ok := team.MemberRole("user-2")
		require.True(t, ok)
		assert.Equal(t, RoleMember, role)

		events := team.DomainEvents()
		require.Len(t, events, 1)
		added, ok := events[0].(*MemberAddedEvent)
		require.True(t, ok)
		assert.Equal(t, "team.member.added", added.EventType())
		assert.Equal(t, "user-2", added.UserID)
	})

	t.Run("duplicate member rejected", func(t *testing.T) {
		team := newTeam(t)
		require.NoError(t, team.AddMember("user-2", RoleMember, now))

		err := team.AddMember("user-2", RoleAdmin, now)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		team := newTeam(t)
		err := team.AddMember("user-2", Role("superuser"), now)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("marks members dirty", func(t *testing.T) {
		team := newTeam(t)
		team.Changes().Clear()

		require.NoError(t, team.AddMember("user-2", RoleMember, now))
		assert.True(t, team.Changes().Dirty(FieldMembers))
	})
}

func TestTeamChangeMemberRole(t *testing.T) {
	now := time.Now().UTC()

	newTeam := func(t *testing.T) *Team {
		team, err := NewTeam("team-1", "org-1", "Platform", "user-1", now)
		require.NoError(t, err)
		require.NoError(t, team.AddMember("user-2", RoleMember, now))
		team.ClearEvents()
		return team
	}

	t.Run("promotes member to admin", func(t *testing.T) {
		team := newTeam(t)

		err := team.ChangeMemberRole("user-2", RoleAdmin, now)
		require.NoError(t, err)

		role, _ := team.MemberRole("user-2")
		assert.Equal(t, RoleAdmin, role)

		events := team.DomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*MemberRoleChangedEvent)
		require.True(t, ok)
		assert.Equal(t, string(RoleMember), changed.PreviousRole)
		assert.Equal(t, string(RoleAdmin), changed.NewRole)
	})

	t.Run("last owner cannot be demoted", func(t *testing.T) {
		team := newTeam(t)

		err := team.ChangeMemberRole("user-1", RoleMember, now)
		assert.ErrorIs(t, err, ErrLastOwner)

		role, _ := team.MemberRole("user-1")
		assert.Equal(t, RoleOwner, role)
	})

	t.Run("demotion allowed with second owner", func(t *testing.T) {
		team := newTeam(t)
		require.NoError(t, team.ChangeMemberRole("user-2", RoleOwner, now))
		team.ClearEvents()

		err := team.ChangeMemberRole("user-1", RoleMember, now)
		require.NoError(t, err)
	})

	t.Run("unchanged role rejected", func(t *testing.T) {
		team := newTeam(t)
		err := team.ChangeMemberRole("user-2", RoleMember, now)
		assert.ErrorIs(t, err, ErrRoleUnchanged)
	})

	t.Run("unknown member rejected", func(t *testing.T) {
		team := newTeam(t)
		err := team.ChangeMemberRole("user-9", RoleAdmin, now)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestTeamRemoveMember(t *testing.T) {
	now := time.Now().UTC()

	newTeam := func(t *testing.T) *Team {
		team, err := NewTeam("team-1", "org-1", "Platform", "user-1", now)
		require.NoError(t, err)
		require.NoError(t, team.AddMember("user-2", RoleMember, now))
		team.ClearEvents()
		return team
	}

	t.Run("removes member and records event", func(t *testing.T) {
		team := newTeam(t)

		err := team.RemoveMember("user-2", now)
		require.NoError(t, err)

		_, ok := team.MemberRole("user-2")
		assert.False(t, ok)

		events := team.DomainEvents()
		require.Len(t, events, 1)
		removed, ok := events[0].(*MemberRemovedEvent)
		require.True(t, ok)
		assert.Equal(t, "team.member.removed", removed.EventType())
	})

	t.Run("last owner cannot leave", func(t *testing.T) {
		team := newTeam(t)
		err := team.RemoveMember("user-1", now)
		assert.ErrorIs(t, err, ErrLastOwner)
	})

	t.Run("unknown member rejected", func(t *testing.T) {
		team := newTeam(t)
		err := team.RemoveMember("user-9", now)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}
