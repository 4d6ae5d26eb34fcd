package domain

import (
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/domain"
)

// Field names for change tracking
const (
	FieldName    = "name"
	FieldMembers = "members"
)

// Role is a member's role within a team.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Member is a user's membership in a team.
type Member struct {
	UserID   string    `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Team is the aggregate root for team membership. Membership edits support
// concurrent writers, so the aggregate carries a version token checked at
// commit time.
type Team struct {
	domain.Recorder

	id        string
	orgID     string
	name      string
	members   []Member
	version   int64
	createdAt time.Time
	updatedAt time.Time

	isNew   bool
	changes *domain.ChangeTracker
}

// NewTeam creates a new Team aggregate with the creator as owner.
func NewTeam(id, orgID, name, creatorID string, now time.Time) (*Team, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if creatorID == "" {
		return nil, ErrEmptyCreator
	}

	t := &Team{
		id:    id,
		orgID: orgID,
		name:  name,
		members: []Member{
			{UserID: creatorID, Role: RoleOwner, JoinedAt: now},
		},
		version:   1,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
		changes:   domain.NewChangeTracker(),
	}

	t.changes.MarkDirty(FieldName)
	t.changes.MarkDirty(FieldMembers)

	t.Record(&TeamCreatedEvent{
		TeamID:    t.id,
		OrgID:     t.orgID,
		Name:      t.name,
		CreatorID: creatorID,
		CreatedAt: now,
	})

	return t, nil
}

// ReconstructTeam reconstitutes a Team from storage.
func ReconstructTeam(id, orgID, name string, members []Member, version int64, createdAt, updatedAt time.Time) *Team {
	return &Team{
		id:        id,
		orgID:     orgID,
		name:      name,
		members:   members,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		changes:   domain.NewChangeTracker(),
	}
}

// Getters
func (t *Team) ID() string                     { return t.id }
func (t *Team) OrgID() string                  { return t.orgID }
func (t *Team) Name() string                   { return t.name }
func (t *Team) Version() int64                 { return t.version }
func (t *Team) CreatedAt() time.Time           { return t.createdAt }
func (t *Team) UpdatedAt() time.Time           { return t.updatedAt }
func (t *Team) Changes() *domain.ChangeTracker { return t.changes }
func (t *Team) IsNew() bool                    { return t.isNew }

// Members returns a copy of the membership list.
func (t *Team) Members() []Member {
	out := make([]Member, len(t.members))
	copy(out, t.members)
	return out
}

// MemberRole returns the role of the given user, if they are a member.
func (t *Team) MemberRole(userID string) (Role, bool) {
	for _, m := range t.members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// Rename updates the team name.
func (t *Team) Rename(name string, now time.Time) error {
	if name == "" {
		return ErrEmptyName
	}

	t.name = name
	t.updatedAt = now
	t.changes.MarkDirty(FieldName)
	return nil
}

// AddMember adds a user to the team with the given role.
func (t *Team) AddMember(userID string, role Role, now time.Time) error {
	if userID == "" {
		return ErrEmptyMember
	}
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	if _, exists := t.MemberRole(userID); exists {
		return ErrAlreadyMember
	}

	t.members = append(t.members, Member{UserID: userID, Role: role, JoinedAt: now})
	t.updatedAt = now
	t.changes.MarkDirty(FieldMembers)

	t.Record(&MemberAddedEvent{
		TeamID:   t.id,
		OrgID:    t.orgID,
		UserID:   userID,
		Role:     string(role),
		JoinedAt: now,
	})
	return nil
}

// ChangeMemberRole changes an existing member's role. The last owner
// cannot be demoted.
func (t *Team) ChangeMemberRole(userID string, role Role, now time.Time) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}

	idx := -1
	for i, m := range t.members {
		if m.UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrMemberNotFound
	}
	if t.members[idx].Role == role {
		return ErrRoleUnchanged
	}
	if t.members[idx].Role == RoleOwner && t.ownerCount() == 1 {
		return ErrLastOwner
	}

	previous := t.members[idx].Role
	t.members[idx].Role = role
	t.updatedAt = now
	t.changes.MarkDirty(FieldMembers)

	t.Record(&MemberRoleChangedEvent{
		TeamID:       t.id,
		OrgID:        t.orgID,
		UserID:       userID,
		PreviousRole: string(previous),
		NewRole:      string(role),
		ChangedAt:    now,
	})
	return nil
}

// RemoveMember removes a user from the team. The last owner cannot leave.
func (t *Team) RemoveMember(userID string, now time.Time) error {
	idx := -1
	for i, m := range t.members {
		if m.UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrMemberNotFound
	}
	if t.members[idx].Role == RoleOwner && t.ownerCount() == 1 {
		return ErrLastOwner
	}

	t.members = append(t.members[:idx], t.members[idx+1:]...)
	t.updatedAt = now
	t.changes.MarkDirty(FieldMembers)

	t.Record(&MemberRemovedEvent{
		TeamID:    t.id,
		OrgID:     t.orgID,
		UserID:    userID,
		RemovedAt: now,
	})
	return nil
}

func (t *Team) ownerCount() int {
	n := 0
	for _, m := range t.members {
		if m.Role == RoleOwner {
			n++
		}
	}
	return n
}
