package team

import "errors"

var (
	// ErrTeamNotFound indicates the team doesn't exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrMemberNotFound indicates the member doesn't exist.
	ErrMemberNotFound = errors.New("team member not found")
	// ErrInvalidInput indicates invalid team input.
	ErrInvalidInput = errors.New("invalid team input")
	// ErrInvalidRole indicates an unknown role or a second owner.
	ErrInvalidRole = errors.New("invalid team role")
	// ErrOwnerRemoval indicates an attempt to remove or demote the owner.
	ErrOwnerRemoval = errors.New("team owner cannot be removed")
	// ErrDuplicateMember indicates the email is already on the team.
	ErrDuplicateMember = errors.New("member already on team")
)
