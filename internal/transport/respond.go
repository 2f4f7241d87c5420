package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// validationError carries a message shown to the caller verbatim.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// decode reads a JSON body into v and validates its struct tags.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return invalid("request body is required")
		}
		return invalid("malformed JSON: %v", err)
	}
	if err := api.Validate(v); err != nil {
		return &validationError{msg: err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status code and the error envelope.
func writeError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		message = "internal server error"
	}
	writeJSON(w, status, api.ErrorResponse{Code: code, Message: message})
}

func classify(err error) (int, string) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, api.CodeValidation

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, api.CodeUnauthorized

	case errors.Is(err, subscription.ErrLimitReached):
		return http.StatusPaymentRequired, api.CodeLimitReached

	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrTeamNotFound),
		errors.Is(err, experiment.ErrExperimentNotFound),
		errors.Is(err, experiment.ErrProjectNotFound),
		errors.Is(err, insight.ErrInsightNotFound),
		errors.Is(err, insight.ErrProjectNotFound),
		errors.Is(err, canvas.ErrProjectNotFound),
		errors.Is(err, canvas.ErrItemNotFound),
		errors.Is(err, team.ErrTeamNotFound),
		errors.Is(err, team.ErrMemberNotFound),
		errors.Is(err, subscription.ErrTierNotFound):
		return http.StatusNotFound, api.CodeNotFound

	case errors.Is(err, project.ErrConflict),
		errors.Is(err, experiment.ErrConflict),
		errors.Is(err, insight.ErrConflict):
		return http.StatusConflict, api.CodeConflict

	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, experiment.ErrInvalidInput),
		errors.Is(err, experiment.ErrInvalidStatus),
		errors.Is(err, insight.ErrInvalidInput),
		errors.Is(err, insight.ErrExperimentMismatch),
		errors.Is(err, canvas.ErrInvalidInput),
		errors.Is(err, canvas.ErrUnknownType),
		errors.Is(err, canvas.ErrUnknownSection),
		errors.Is(err, canvas.ErrSectionMismatch),
		errors.Is(err, team.ErrInvalidInput),
		errors.Is(err, team.ErrInvalidRole),
		errors.Is(err, team.ErrOwnerRemoval),
		errors.Is(err, team.ErrDuplicateMember),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, auth.ErrDuplicateAccount):
		return http.StatusBadRequest, api.CodeValidation
	}
	return http.StatusInternalServerError, api.CodeInternal
}
