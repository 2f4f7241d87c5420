package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrConflict indicates the caller's version is stale.
	ErrConflict = errors.New("project was modified concurrently")
	// ErrTeamNotFound indicates the team to assign doesn't exist.
	ErrTeamNotFound = errors.New("team not found")
)
