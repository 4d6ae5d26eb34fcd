package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/dawn-chorus/teamsync-service/internal/app/user/contracts"
	"github.com/dawn-chorus/teamsync-service/internal/app/user/domain"
	"github.com/dawn-chorus/teamsync-service/internal/models/m_user"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/query"
)

// UserRepo implements UserRepository for Spanner.
type UserRepo struct {
	client *spanner.Client
	model  *m_user.Model
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(client *spanner.Client) contracts.UserRepository {
	return &UserRepo{
		client: client,
		model:  m_user.NewModel(),
	}
}

// GetByID retrieves a user by ID, reconstructing the domain aggregate.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	row, err := r.client.Single().ReadRow(ctx, m_user.TableName, spanner.Key{userID}, []string{
		m_user.UserID,
		m_user.OrgID,
		m_user.Email,
		m_user.DisplayName,
		m_user.Status,
		m_user.Version,
		m_user.CreatedAt,
		m_user.UpdatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	var data m_user.Data
	if err := row.Columns(
		&data.UserID,
		&data.OrgID,
		&data.Email,
		&data.DisplayName,
		&data.Status,
		&data.Version,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}

	return dataToDomain(&data), nil
}

// ExistsByEmail checks whether an account already uses the email within the
// organization.
func (r *UserRepo) ExistsByEmail(ctx context.Context, orgID, email string) (bool, error) {
	stmt := query.From(m_user.TableName).
		Where(query.Eq(m_user.OrgID, orgID)).
		Where(query.Eq(m_user.Email, email)).
		Count().
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to count users by email: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return false, fmt.Errorf("failed to parse user count: %w", err)
	}

	return count > 0, nil
}

// InsertMut creates a mutation for inserting a new user.
func (r *UserRepo) InsertMut(user *domain.User) *spanner.Mutation {
	return r.model.InsertMut(&m_user.Data{
		UserID:      user.ID(),
		OrgID:       user.OrgID(),
		Email:       user.Email(),
		DisplayName: user.DisplayName(),
		Status:      string(user.Status()),
		Version:     user.Version(),
		CreatedAt:   user.CreatedAt(),
		UpdatedAt:   user.UpdatedAt(),
	})
}

// UpdateMut creates a mutation for updating a user (only dirty fields).
func (r *UserRepo) UpdateMut(user *domain.User) *spanner.Mutation {
	changes := user.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldDisplayName) {
		updates[m_user.DisplayName] = user.DisplayName()
	}

	if changes.Dirty(domain.FieldStatus) {
		updates[m_user.Status] = string(user.Status())
	}

	if len(updates) == 0 {
		return nil
	}

	updates[m_user.UpdatedAt] = user.UpdatedAt()
	updates[m_user.Version] = user.Version() + 1

	return r.model.UpdateMut(user.ID(), updates)
}

// VersionCheck returns the optimistic-concurrency guard for the user row.
func (r *UserRepo) VersionCheck(user *domain.User) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_user.TableName,
		Key:      spanner.Key{user.ID()},
		Column:   m_user.Version,
		Expected: user.Version(),
	}
}

func dataToDomain(data *m_user.Data) *domain.User {
	return domain.ReconstructUser(
		data.UserID,
		data.OrgID,
		data.Email,
		data.DisplayName,
		domain.UserStatus(data.Status),
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
