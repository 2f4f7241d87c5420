package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/fetchretry"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("version conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDisabled     = errors.New("store not configured")
)

// APIError is an error response decoded from the store.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store returned %d (%s)", e.Status, e.Code)
	}
	return e.Message
}

// Is lets errors.Is match the sentinel for the response code. Limit errors
// also match subscription.ErrLimitReached.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case api.CodeNotFound:
		return target == ErrNotFound
	case api.CodeValidation:
		return target == ErrValidation
	case api.CodeConflict:
		return target == ErrConflict
	case api.CodeUnauthorized:
		return target == ErrUnauthorized
	case api.CodeLimitReached:
		return target == subscription.ErrLimitReached
	}
	return false
}

// decodeError converts a fetchretry status error into an *APIError. Other
// errors pass through unchanged.
func decodeError(err error) error {
	var se *fetchretry.StatusError
	if !errors.As(err, &se) {
		return err
	}
	if se.Transient() {
		return err
	}
	apiErr := &APIError{Status: se.StatusCode}
	var body api.ErrorResponse
	if json.Unmarshal(se.Body, &body) == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		return apiErr
	}
	apiErr.Code = codeForStatus(se.StatusCode)
	apiErr.Message = http.StatusText(se.StatusCode)
	return apiErr
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return api.CodeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return api.CodeUnauthorized
	case http.StatusPaymentRequired:
		return api.CodeLimitReached
	case http.StatusNotFound:
		return api.CodeNotFound
	case http.StatusConflict:
		return api.CodeConflict
	}
	return api.CodeInternal
}
