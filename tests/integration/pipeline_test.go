//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invitation_repo "github.com/dawn-chorus/teamsync-service/internal/app/invitation/repo"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/usecases/accept_invitation"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/usecases/invite_member"
	teamdomain "github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	team_repo "github.com/dawn-chorus/teamsync-service/internal/app/team/repo"
	"github.com/dawn-chorus/teamsync-service/internal/handlers"
	"github.com/dawn-chorus/teamsync-service/internal/integration"
	"github.com/dawn-chorus/teamsync-service/internal/outbox"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
	"github.com/dawn-chorus/teamsync-service/tests/testutil"
)

// capturingHandler records every integration event it receives.
type capturingHandler struct {
	mu     sync.Mutex
	events []outbox.Event
}

func (h *capturingHandler) Handle(ctx context.Context, event outbox.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

// TestInvitationPipeline drives invite → accept → relay end to end against
// the emulator: the cascade commits invitation, membership, and outbox rows
// atomically, then the relay delivers the staged integration events.
func TestInvitationPipeline(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewRealClock()

	comm := committer.NewCommitter(client)
	store := outbox.NewSpannerStore(client)
	teams := team_repo.NewTeamRepo(client)
	invitations := invitation_repo.NewInvitationRepo(client)

	dispatcher := uow.NewDispatcher()
	dispatcher.On("invitation.created", handlers.InvitationEmailOnInvitationCreated())
	dispatcher.On("invitation.accepted", handlers.AddTeamMemberOnInvitationAccepted(teams))
	dispatcher.On("team.member.added", handlers.MemberJoinedNoticeOnMemberAdded())
	factory := uow.NewFactory(dispatcher, comm, store)

	captured := &capturingHandler{}
	registry := outbox.NewRegistry()
	integration.RegisterDecoders(registry)
	registry.Handle(integration.KindInvitationEmail, captured)
	registry.Handle(integration.KindMemberJoinedNotice, captured)

	// Seed: a team owned by user-1.
	ownerID := testutil.CreateTestUser(t, client, "org-1", "owner@example.com")
	teamID := testutil.CreateTestTeam(t, client, "org-1", "Platform", ownerID)

	// Invite, then accept.
	invite := invite_member.NewInteractor(invitations, teams, factory, clk)
	invID, err := invite.Execute(ctx, &invite_member.Request{
		OrgID:  "org-1",
		TeamID: teamID,
		Email:  "new@example.com",
		Role:   "member",
	})
	require.NoError(t, err)

	accept := accept_invitation.NewInteractor(invitations, factory, clk)
	require.NoError(t, accept.Execute(ctx, &accept_invitation.Request{
		InvitationID: invID,
		UserID:       "user-2",
	}))

	// The cascade joined the team in the accept commit.
	team, err := teams.GetByID(ctx, teamID)
	require.NoError(t, err)
	role, ok := team.MemberRole("user-2")
	require.True(t, ok)
	assert.Equal(t, teamdomain.RoleMember, role)

	// Two outbox rows: the invitation email and the member-joined notice.
	testutil.AssertRowCount(t, client, "outbox_messages", 2)

	// Relay delivers both.
	relay := outbox.NewRelay(store, registry, clk, logger, outbox.RelayConfig{})
	require.NoError(t, relay.Run(ctx))

	require.Len(t, captured.events, 2)
	kinds := []string{captured.events[0].Kind(), captured.events[1].Kind()}
	assert.ElementsMatch(t, []string{"email.invitation", "notice.member_joined"}, kinds)

	// All rows reached their terminal state.
	due, err := store.ListDue(ctx, time.Now().UTC().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

// TestConcurrentRoleChangeConflict verifies the version check: two writers
// load the same team, the second commit loses with ErrConflict.
func TestConcurrentRoleChangeConflict(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()

	comm := committer.NewCommitter(client)
	store := outbox.NewSpannerStore(client)
	teams := team_repo.NewTeamRepo(client)
	factory := uow.NewFactory(uow.NewDispatcher(), comm, store)

	ownerID := testutil.CreateTestUser(t, client, "org-1", "owner@example.com")
	teamID := testutil.CreateTestTeam(t, client, "org-1", "Platform", ownerID)

	// Both writers see version 1.
	staleTeam, err := teams.GetByID(ctx, teamID)
	require.NoError(t, err)

	// Writer A adds a member and commits.
	freshTeam, err := teams.GetByID(ctx, teamID)
	require.NoError(t, err)
	require.NoError(t, freshTeam.AddMember("user-2", teamdomain.RoleAdmin, time.Now().UTC()))
	uA := factory.New()
	uA.Track(freshTeam, func(plan *committer.Plan) error {
		mut, err := teams.UpdateMut(freshTeam)
		if err != nil {
			return err
		}
		plan.Add(mut)
		plan.Check(teams.VersionCheck(freshTeam))
		return nil
	})
	require.NoError(t, uA.Commit(ctx))

	// Writer B commits against the stale version and loses.
	require.NoError(t, staleTeam.AddMember("user-3", teamdomain.RoleMember, time.Now().UTC()))
	uB := factory.New()
	uB.Track(staleTeam, func(plan *committer.Plan) error {
		mut, err := teams.UpdateMut(staleTeam)
		if err != nil {
			return err
		}
		plan.Add(mut)
		plan.Check(teams.VersionCheck(staleTeam))
		return nil
	})

	err = uB.Commit(ctx)
	assert.ErrorIs(t, err, uow.ErrConflict)
}
