package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrEmptyName      = errors.New("team name cannot be empty")
	ErrEmptyCreator   = errors.New("team creator cannot be empty")
	ErrEmptyMember    = errors.New("member user id cannot be empty")
	ErrInvalidRole    = errors.New("invalid team role")
	ErrAlreadyMember  = errors.New("user is already a team member")
	ErrMemberNotFound = errors.New("user is not a team member")
	ErrRoleUnchanged  = errors.New("member already has that role")
	ErrLastOwner      = errors.New("team must retain at least one owner")
)
