package domain

import (
	"strings"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/domain"
)

// Field names for change tracking
const (
	FieldEmail       = "email"
	FieldDisplayName = "display_name"
	FieldStatus      = "status"
)

// UserStatus represents the lifecycle status of a user account.
type UserStatus string

const (
	StatusActive      UserStatus = "active"
	StatusDeactivated UserStatus = "deactivated"
)

// User is the aggregate root for user accounts within an organization.
type User struct {
	domain.Recorder

	id          string
	orgID       string
	email       string
	displayName string
	status      UserStatus
	version     int64
	createdAt   time.Time
	updatedAt   time.Time

	isNew   bool
	changes *domain.ChangeTracker
}

// NewUser registers a new user account (for creation).
func NewUser(id, orgID, email, displayName string, now time.Time) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if orgID == "" {
		return nil, ErrEmptyOrg
	}
	if displayName == "" {
		displayName = email
	}

	u := &User{
		id:          id,
		orgID:       orgID,
		email:       email,
		displayName: displayName,
		status:      StatusActive,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
		isNew:       true,
		changes:     domain.NewChangeTracker(),
	}

	u.changes.MarkDirty(FieldEmail)
	u.changes.MarkDirty(FieldDisplayName)
	u.changes.MarkDirty(FieldStatus)

	u.Record(&UserRegisteredEvent{
		UserID:       u.id,
		OrgID:        u.orgID,
		Email:        u.email,
		DisplayName:  u.displayName,
		RegisteredAt: now,
	})

	return u, nil
}

// ReconstructUser reconstitutes a User from storage.
func ReconstructUser(id, orgID, email, displayName string, status UserStatus, version int64, createdAt, updatedAt time.Time) *User {
	return &User{
		id:          id,
		orgID:       orgID,
		email:       email,
		displayName: displayName,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		changes:     domain.NewChangeTracker(),
	}
}

// Getters
func (u *User) ID() string                     { return u.id }
func (u *User) OrgID() string                  { return u.orgID }
func (u *User) Email() string                  { return u.email }
func (u *User) DisplayName() string            { return u.displayName }
func (u *User) Status() UserStatus             { return u.status }
func (u *User) Version() int64                 { return u.version }
func (u *User) CreatedAt() time.Time           { return u.createdAt }
func (u *User) UpdatedAt() time.Time           { return u.updatedAt }
func (u *User) Changes() *domain.ChangeTracker { return u.changes }

// IsNew reports whether the aggregate was created in this unit of work and
// needs an insert rather than a versioned update.
func (u *User) IsNew() bool {
	return u.isNew
}

// Rename updates the user's display name.
func (u *User) Rename(displayName string, now time.Time) error {
	if u.status == StatusDeactivated {
		return ErrUserDeactivated
	}
	if displayName == "" {
		return ErrEmptyDisplayName
	}

	u.displayName = displayName
	u.updatedAt = now
	u.changes.MarkDirty(FieldDisplayName)
	return nil
}

// Deactivate disables the account.
func (u *User) Deactivate(now time.Time) error {
	if u.status == StatusDeactivated {
		return ErrUserDeactivated
	}

	u.status = StatusDeactivated
	u.updatedAt = now
	u.changes.MarkDirty(FieldStatus)

	u.Record(&UserDeactivatedEvent{
		UserID:        u.id,
		OrgID:         u.orgID,
		DeactivatedAt: now,
	})
	return nil
}
