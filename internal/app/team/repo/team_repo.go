package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_team"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
)

// TeamRepo implements TeamRepository for Spanner.
type TeamRepo struct {
	client *spanner.Client
	model  *m_team.Model
}

// NewTeamRepo creates a new TeamRepo.
func NewTeamRepo(client *spanner.Client) contracts.TeamRepository {
	return &TeamRepo{
		client: client,
		model:  m_team.NewModel(),
	}
}

// GetByID retrieves a team by ID, reconstructing the domain aggregate.
func (r *TeamRepo) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	row, err := r.client.Single().ReadRow(ctx, m_team.TableName, spanner.Key{teamID}, []string{
		m_team.TeamID,
		m_team.OrgID,
		m_team.Name,
		m_team.Members,
		m_team.Version,
		m_team.CreatedAt,
		m_team.UpdatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to read team: %w", err)
	}

	var data m_team.Data
	if err := row.Columns(
		&data.TeamID,
		&data.OrgID,
		&data.Name,
		&data.Members,
		&data.Version,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to parse team: %w", err)
	}

	return dataToDomain(&data)
}

// InsertMut creates a mutation for inserting a new team.
func (r *TeamRepo) InsertMut(team *domain.Team) (*spanner.Mutation, error) {
	members, err := marshalMembers(team.Members())
	if err != nil {
		return nil, err
	}

	return r.model.InsertMut(&m_team.Data{
		TeamID:    team.ID(),
		OrgID:     team.OrgID(),
		Name:      team.Name(),
		Members:   members,
		Version:   team.Version(),
		CreatedAt: team.CreatedAt(),
		UpdatedAt: team.UpdatedAt(),
	}), nil
}

// UpdateMut creates a mutation for updating a team (only dirty fields).
func (r *TeamRepo) UpdateMut(team *domain.Team) (*spanner.Mutation, error) {
	changes := team.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_team.Name] = team.Name()
	}

	if changes.Dirty(domain.FieldMembers) {
		members, err := marshalMembers(team.Members())
		if err != nil {
			return nil, err
		}
		updates[m_team.Members] = members
	}

	if len(updates) == 0 {
		return nil, nil
	}

	updates[m_team.UpdatedAt] = team.UpdatedAt()
	updates[m_team.Version] = team.Version() + 1

	return r.model.UpdateMut(team.ID(), updates), nil
}

// VersionCheck returns the optimistic-concurrency guard for the team row.
func (r *TeamRepo) VersionCheck(team *domain.Team) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_team.TableName,
		Key:      spanner.Key{team.ID()},
		Column:   m_team.Version,
		Expected: team.Version(),
	}
}

func marshalMembers(members []domain.Member) (string, error) {
	data, err := json.Marshal(members)
	if err != nil {
		return "", fmt.Errorf("failed to serialize team members: %w", err)
	}
	return string(data), nil
}

func dataToDomain(data *m_team.Data) (*domain.Team, error) {
	var members []domain.Member
	if err := json.Unmarshal([]byte(data.Members), &members); err != nil {
		return nil, fmt.Errorf("failed to parse team members: %w", err)
	}

	return domain.ReconstructTeam(
		data.TeamID,
		data.OrgID,
		data.Name,
		members,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}
