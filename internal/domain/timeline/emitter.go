package timeline

import (
	"context"
	"log/slog"
	"sync"
)

// Emitter hands events to a Sink. Events emitted before a sink is attached
// are queued and flushed, in order, by Attach.
type Emitter struct {
	mu      sync.Mutex
	sink    Sink
	pending []Event
	logger  *slog.Logger
}

// NewEmitter creates an emitter with no sink attached.
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{logger: logger}
}

// Emit builds an event and delivers or queues it.
func (e *Emitter) Emit(ctx context.Context, projectID string, typ EventType, title, description, relatedID string) Event {
	evt := *NewEvent(projectID, typ, title, description, relatedID)

	e.mu.Lock()
	sink := e.sink
	if sink == nil {
		e.pending = append(e.pending, evt)
		e.mu.Unlock()
		e.logger.Debug("timeline event queued", "type", typ, "project_id", projectID)
		return evt
	}
	e.mu.Unlock()

	sink.Append(ctx, evt)
	return evt
}

// Attach sets the sink and flushes queued events into it.
func (e *Emitter) Attach(ctx context.Context, sink Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sink = sink
	pending := e.pending
	e.pending = nil
	for _, evt := range pending {
		sink.Append(ctx, evt)
	}
	if len(pending) > 0 {
		e.logger.Debug("flushed queued timeline events", "count", len(pending))
	}
}

// Detach removes the sink; later events queue again.
func (e *Emitter) Detach() {
	e.mu.Lock()
	e.sink = nil
	e.mu.Unlock()
}

// Pending reports how many events are waiting for a sink.
func (e *Emitter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}
