package subscription

import "errors"

var (
	// ErrLimitReached indicates the tenant's tier has no room for another entity.
	ErrLimitReached = errors.New("subscription limit reached")
	// ErrTierNotFound indicates an unknown tier id.
	ErrTierNotFound = errors.New("subscription tier not found")
	// ErrInvalidRule indicates a limit rule failed to compile or evaluate.
	ErrInvalidRule = errors.New("invalid limit rule")
)
