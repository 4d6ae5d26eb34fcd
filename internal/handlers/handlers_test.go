package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invitationdomain "github.com/dawn-chorus/teamsync-service/internal/app/invitation/domain"
	teamdomain "github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	userdomain "github.com/dawn-chorus/teamsync-service/internal/app/user/domain"
	"github.com/dawn-chorus/teamsync-service/internal/integration"
	"github.com/dawn-chorus/teamsync-service/internal/outbox"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

type fakeApplier struct {
	plans []*committer.Plan
}

func (f *fakeApplier) Apply(ctx context.Context, plan *committer.Plan) error {
	f.plans = append(f.plans, plan)
	return nil
}

type fakeInserter struct {
	inserted []*outbox.Message
}

func (f *fakeInserter) InsertMut(msg *outbox.Message) *spanner.Mutation {
	f.inserted = append(f.inserted, msg)
	return spanner.Insert("outbox_messages", []string{"message_id"}, []interface{}{msg.ID})
}

// fakeTeamRepo serves one team from memory.
type fakeTeamRepo struct {
	team *teamdomain.Team
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, teamID string) (*teamdomain.Team, error) {
	if r.team == nil || r.team.ID() != teamID {
		return nil, teamdomain.ErrTeamNotFound
	}
	return r.team, nil
}

func (r *fakeTeamRepo) InsertMut(team *teamdomain.Team) (*spanner.Mutation, error) {
	return spanner.Insert("teams", []string{"team_id"}, []interface{}{team.ID()}), nil
}

func (r *fakeTeamRepo) UpdateMut(team *teamdomain.Team) (*spanner.Mutation, error) {
	if !team.Changes().HasChanges() {
		return nil, nil
	}
	return spanner.Update("teams", []string{"team_id"}, []interface{}{team.ID()}), nil
}

func (r *fakeTeamRepo) VersionCheck(team *teamdomain.Team) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    "teams",
		Key:      spanner.Key{team.ID()},
		Column:   "version",
		Expected: team.Version(),
	}
}

func TestWelcomeEmailOnUserRegistered(t *testing.T) {
	now := time.Now().UTC()
	inserter := &fakeInserter{}
	dispatcher := uow.NewDispatcher()
	dispatcher.On("user.registered", WelcomeEmailOnUserRegistered())

	user, err := userdomain.NewUser("user-1", "org-1", "dana@example.com", "Dana", now)
	require.NoError(t, err)

	u := uow.New(dispatcher, &fakeApplier{}, inserter)
	u.Track(user, func(plan *committer.Plan) error { return nil })
	require.NoError(t, u.Commit(context.Background()))

	require.Len(t, inserter.inserted, 1)
	msg := inserter.inserted[0]
	assert.Equal(t, "email.welcome", msg.Kind)

	var email integration.WelcomeEmail
	require.NoError(t, json.Unmarshal(msg.Payload, &email))
	assert.Equal(t, "dana@example.com", email.Email)
}

func TestAcceptInvitationCascade(t *testing.T) {
	now := time.Now().UTC()

	// A team with an owner, freshly loaded (no pending changes).
	team := teamdomain.ReconstructTeam("team-1", "org-1", "Platform",
		[]teamdomain.Member{{UserID: "user-1", Role: teamdomain.RoleOwner, JoinedAt: now}},
		3, now, now)
	teams := &fakeTeamRepo{team: team}

	applier := &fakeApplier{}
	inserter := &fakeInserter{}

	dispatcher := uow.NewDispatcher()
	dispatcher.On("invitation.accepted", AddTeamMemberOnInvitationAccepted(teams))
	dispatcher.On("team.member.added", MemberJoinedNoticeOnMemberAdded())

	inv, err := invitationdomain.NewInvitation("inv-1", "org-1", "team-1", "new@example.com", "member", now, time.Hour)
	require.NoError(t, err)
	inv.ClearEvents() // only the accept matters for this test
	require.NoError(t, inv.Accept("user-2", now))

	u := uow.New(dispatcher, applier, inserter)
	u.Track(inv, func(plan *committer.Plan) error {
		plan.Add(spanner.Update("invitations", []string{"invitation_id"}, []interface{}{inv.ID()}))
		return nil
	})

	require.NoError(t, u.Commit(context.Background()))

	// The cascade joined the team inside this unit of work.
	role, ok := team.MemberRole("user-2")
	require.True(t, ok)
	assert.Equal(t, teamdomain.RoleMember, role)

	// One atomic plan: invitation update, team update, member-joined
	// outbox row.
	require.Len(t, applier.plans, 1)
	assert.Equal(t, 3, applier.plans[0].Count())
	require.Len(t, applier.plans[0].Checks(), 1)
	assert.Equal(t, int64(3), applier.plans[0].Checks()[0].Expected)

	require.Len(t, inserter.inserted, 1)
	assert.Equal(t, "notice.member_joined", inserter.inserted[0].Kind)
}

func TestAcceptInvitationCascadeIdempotentJoin(t *testing.T) {
	now := time.Now().UTC()

	// user-2 already joined (a retried accept after a relay crash).
	team := teamdomain.ReconstructTeam("team-1", "org-1", "Platform",
		[]teamdomain.Member{
			{UserID: "user-1", Role: teamdomain.RoleOwner, JoinedAt: now},
			{UserID: "user-2", Role: teamdomain.RoleMember, JoinedAt: now},
		},
		4, now, now)
	teams := &fakeTeamRepo{team: team}

	applier := &fakeApplier{}
	inserter := &fakeInserter{}

	dispatcher := uow.NewDispatcher()
	dispatcher.On("invitation.accepted", AddTeamMemberOnInvitationAccepted(teams))
	dispatcher.On("team.member.added", MemberJoinedNoticeOnMemberAdded())

	inv, err := invitationdomain.NewInvitation("inv-1", "org-1", "team-1", "new@example.com", "member", now, time.Hour)
	require.NoError(t, err)
	inv.ClearEvents()
	require.NoError(t, inv.Accept("user-2", now))

	u := uow.New(dispatcher, applier, inserter)
	u.Track(inv, func(plan *committer.Plan) error {
		plan.Add(spanner.Update("invitations", []string{"invitation_id"}, []interface{}{inv.ID()}))
		return nil
	})

	require.NoError(t, u.Commit(context.Background()))

	// Only the invitation row; no team change, no duplicate notice.
	require.Len(t, applier.plans, 1)
	assert.Equal(t, 1, applier.plans[0].Count())
	assert.Empty(t, inserter.inserted)
}
