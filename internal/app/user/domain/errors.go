package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email is already registered in this organization")
	ErrEmptyEmail       = errors.New("user email cannot be empty")
	ErrEmptyOrg         = errors.New("user organization cannot be empty")
	ErrEmptyDisplayName = errors.New("user display name cannot be empty")
	ErrUserDeactivated  = errors.New("user account is deactivated")
)
