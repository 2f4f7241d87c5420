package experiment

import (
	"fmt"
	"strings"
)

// ValidateCreateInput validates fields required to create an experiment.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.ProjectID) == "" {
		return fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.Status != "" && !req.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidInput, req.Priority)
	}
	return nil
}

// ValidateTransition checks a requested status change. Any known status may
// follow any other.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	return nil
}
