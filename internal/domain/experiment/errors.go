package experiment

import "errors"

var (
	// ErrExperimentNotFound indicates the experiment doesn't exist.
	ErrExperimentNotFound = errors.New("experiment not found")
	// ErrProjectNotFound indicates the owning project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid experiment input.
	ErrInvalidInput = errors.New("invalid experiment input")
	// ErrInvalidStatus indicates a status outside backlog, running and completed.
	ErrInvalidStatus = errors.New("invalid experiment status")
	// ErrConflict indicates the caller's version is stale.
	ErrConflict = errors.New("experiment was modified concurrently")
)
