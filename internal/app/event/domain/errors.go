package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrEventNotFound = errors.New("event not found")
	ErrEmptyTitle    = errors.New("event title cannot be empty")
	ErrEmptyTeam     = errors.New("event team cannot be empty")
	ErrInvalidWindow = errors.New("event end must be after start")
	ErrStartsInPast  = errors.New("event cannot start in the past")
	ErrCanceled      = errors.New("event has been canceled")
)
