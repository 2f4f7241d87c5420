package statesync

import (
	"context"
	"errors"
	"slices"

	"github.com/matthallesq/modlab/internal/domain/timeline"
)

var errAppendOnly = errors.New("timeline events are append-only")

// TimelineReader lists a project's events from the store.
type TimelineReader interface {
	List(ctx context.Context, projectID string) ([]timeline.Event, error)
}

// timelineStore reads from the durable store. Writes stay local because the
// server records events in the same transaction as the change.
type timelineStore struct {
	reader TimelineReader
}

func (s timelineStore) List(ctx context.Context, projectID string) ([]timeline.Event, error) {
	return s.reader.List(ctx, projectID)
}

func (s timelineStore) Create(_ context.Context, _ string, evt timeline.Event) (timeline.Event, error) {
	return evt, nil
}

func (s timelineStore) Update(_ context.Context, _ string, evt timeline.Event) (timeline.Event, error) {
	return timeline.Event{}, errAppendOnly
}

func (s timelineStore) Delete(context.Context, string, string) error {
	return errAppendOnly
}

// TimelineContainer holds each project's timeline and is the emitter's sink.
type TimelineContainer struct {
	*Container[timeline.Event]
}

// NewTimelineContainer creates the timeline container. reader may be nil.
func NewTimelineContainer(opts Options[timeline.Event], reader TimelineReader) *TimelineContainer {
	if reader != nil {
		opts.Store = timelineStore{reader: reader}
	}
	return &TimelineContainer{Container: NewContainer(opts)}
}

// Append implements timeline.Sink.
func (c *TimelineContainer) Append(ctx context.Context, evt timeline.Event) {
	c.Save(ctx, evt.ProjectID, evt)
}

// Recent returns a project's events newest first.
func (c *TimelineContainer) Recent(projectID string, limit int) []timeline.Event {
	events := c.List(projectID)
	slices.SortStableFunc(events, func(a, b timeline.Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}
