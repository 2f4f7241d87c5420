package insight

import "errors"

var (
	// ErrInsightNotFound indicates the insight doesn't exist.
	ErrInsightNotFound = errors.New("insight not found")
	// ErrProjectNotFound indicates the owning project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrExperimentMismatch indicates the linked experiment is missing or belongs to another project.
	ErrExperimentMismatch = errors.New("experiment not found in project")
	// ErrInvalidInput indicates invalid insight input.
	ErrInvalidInput = errors.New("invalid insight input")
	// ErrConflict indicates the caller's version is stale.
	ErrConflict = errors.New("insight was modified concurrently")
)
