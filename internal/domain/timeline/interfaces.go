package timeline

import "context"

// Repository provides persistence operations for timeline events.
type Repository interface {
	Log(ctx context.Context, tenantID string, evt *Event) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Event, error)
}

// Sink receives events once an Emitter is attached to it.
type Sink interface {
	Append(ctx context.Context, evt Event)
}
