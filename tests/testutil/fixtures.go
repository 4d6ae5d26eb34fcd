package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	teamdomain "github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_team"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_user"
)

// CreateTestUser inserts a user row directly and returns its id.
func CreateTestUser(t *testing.T, client *spanner.Client, orgID, email string) string {
	t.Helper()

	ctx := context.Background()
	userID := uuid.New().String()
	now := time.Now().UTC()

	model := m_user.NewModel()
	mutation := model.InsertMut(&m_user.Data{
		UserID:      userID,
		OrgID:       orgID,
		Email:       email,
		DisplayName: email,
		Status:      "active",
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	_, err := client.Apply(ctx, []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test user")

	return userID
}

// CreateTestTeam inserts a team row with a single owner and returns its id.
func CreateTestTeam(t *testing.T, client *spanner.Client, orgID, name, ownerID string) string {
	t.Helper()

	ctx := context.Background()
	teamID := uuid.New().String()
	now := time.Now().UTC()

	members, err := json.Marshal([]teamdomain.Member{
		{UserID: ownerID, Role: teamdomain.RoleOwner, JoinedAt: now},
	})
	require.NoError(t, err, "failed to serialize members")

	model := m_team.NewModel()
	mutation := model.InsertMut(&m_team.Data{
		TeamID:    teamID,
		OrgID:     orgID,
		Name:      name,
		Members:   string(members),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	})

	_, err = client.Apply(ctx, []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test team")

	return teamID
}
