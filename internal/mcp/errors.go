package mcp

import (
	"errors"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
)

// ToolError is reported to the agent as the text of a failed tool call.
type ToolError struct {
	Code         string
	Message      string
	RecoveryHint string
	Err          error
}

func (e *ToolError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

func (e *ToolError) Unwrap() error { return e.Err }

// mapError gives domain errors a stable code and a hint the agent can act on.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	te := &ToolError{Err: err, Message: err.Error()}
	switch {
	case errors.Is(err, subscription.ErrLimitReached):
		te.Code = "LIMIT_REACHED"
		te.RecoveryHint = "the user must upgrade their subscription tier"
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, experiment.ErrProjectNotFound),
		errors.Is(err, insight.ErrProjectNotFound):
		te.Code = "PROJECT_NOT_FOUND"
		te.RecoveryHint = "call list_projects for valid ids"
	case errors.Is(err, experiment.ErrExperimentNotFound):
		te.Code = "EXPERIMENT_NOT_FOUND"
		te.RecoveryHint = "call list_experiments for valid ids"
	case errors.Is(err, project.ErrConflict),
		errors.Is(err, experiment.ErrConflict),
		errors.Is(err, insight.ErrConflict):
		te.Code = "CONFLICT"
		te.RecoveryHint = "reload the entity and retry with its current version"
	case errors.Is(err, insight.ErrExperimentMismatch):
		te.Code = "INVALID_INPUT"
		te.RecoveryHint = "link an experiment from the same project"
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, experiment.ErrInvalidInput),
		errors.Is(err, experiment.ErrInvalidStatus),
		errors.Is(err, insight.ErrInvalidInput):
		te.Code = "INVALID_INPUT"
	default:
		te.Code = "INTERNAL"
		te.Message = "internal error"
	}
	return te
}

func invalidInput(format string, args ...any) error {
	return &ToolError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...)}
}
