package fetchretry

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork is returned when the transport failed before a response arrived.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when an attempt exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrRetriesExhausted wraps the last failure once every attempt was used.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// StatusError is a completed response with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return transientStatus(e.StatusCode)
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return true
	}
	return false
}

// IsConnection reports whether err means the server could not be reached.
func IsConnection(err error) bool {
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}
