package statesync

import "github.com/google/uuid"

// NewID returns a fresh time-ordered id for a client-created entity.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
