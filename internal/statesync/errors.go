package statesync

import (
	"context"
	"errors"

	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/fetchretry"
	"github.com/matthallesq/modlab/internal/remote"
)

// Display messages for failures that aren't shown verbatim.
const (
	MessageLimitReached = "Subscription limit reached. Upgrade your plan to add more."
	MessageConnection   = "Connection problem: could not reach the server. Please try again."
	MessageConflict     = "This item was changed elsewhere. Refresh and try again."
	MessageCanceled     = "The request was canceled."
)

// describe turns an error into the string kept in container state.
func describe(err error) string {
	var apiErr *remote.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, subscription.ErrLimitReached):
		return MessageLimitReached
	case fetchretry.IsConnection(err):
		return MessageConnection
	case errors.Is(err, context.Canceled):
		return MessageCanceled
	case errors.Is(err, remote.ErrConflict):
		return MessageConflict
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
