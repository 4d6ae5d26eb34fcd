package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrEmptyEmail         = errors.New("invitation email cannot be empty")
	ErrEmptyTeam          = errors.New("invitation team cannot be empty")
	ErrEmptyAcceptor      = errors.New("accepting user id cannot be empty")
	ErrInvalidTTL         = errors.New("invitation ttl must be positive")
	ErrAlreadyAccepted    = errors.New("invitation already accepted")
	ErrRevoked            = errors.New("invitation has been revoked")
	ErrExpired            = errors.New("invitation has expired")
)
