package transport

import (
	"net/http"
	"strconv"

	"github.com/matthallesq/modlab/internal/domain/timeline"
)

const maxTimelineLimit = 500

func (s *Server) handleListTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := timeline.ListOptions{ProjectID: q.Get("project_id")}
	if opts.ProjectID == "" {
		s.fail(w, r, invalid("project_id is required"))
		return
	}

	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil || opts.Limit > maxTimelineLimit {
		s.fail(w, r, invalid("limit must be between 0 and %d", maxTimelineLimit))
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.fail(w, r, invalid("offset must be a non-negative integer"))
		return
	}
	if typ := q.Get("type"); typ != "" {
		t := timeline.EventType(typ)
		opts.Type = &t
	}
	if related := q.Get("related_entity_id"); related != "" {
		opts.RelatedEntityID = &related
	}

	events, err := s.svc.Timeline.List(r.Context(), tenant(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
