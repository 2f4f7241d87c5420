package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/insight"
)

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := insight.ListOptions{ProjectID: q.Get("project_id")}
	if opts.ProjectID == "" {
		s.fail(w, r, invalid("project_id is required"))
		return
	}
	if experimentID := q.Get("experiment_id"); experimentID != "" {
		opts.ExperimentID = &experimentID
	}
	list, err := s.svc.Insights.List(r.Context(), tenant(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateInsight(w http.ResponseWriter, r *http.Request) {
	var req api.CreateInsightRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := s.svc.Insights.Create(r.Context(), tenant(r), insight.CreateRequest{
		ID:           req.ID,
		ProjectID:    req.ProjectID,
		ExperimentID: req.ExperimentID,
		Title:        req.Title,
		Type:         req.Type,
		Hypothesis:   req.Hypothesis,
		Observation:  req.Observation,
		InsightText:  req.InsightText,
		NextSteps:    req.NextSteps,
		Assignees:    req.Assignees,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	in, err := s.svc.Insights.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleUpdateInsight(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateInsightRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := s.svc.Insights.Update(r.Context(), tenant(r), chi.URLParam(r, "id"), insight.UpdateRequest{
		Title:        req.Title,
		Type:         req.Type,
		Hypothesis:   req.Hypothesis,
		Observation:  req.Observation,
		InsightText:  req.InsightText,
		NextSteps:    req.NextSteps,
		ExperimentID: req.ExperimentID,
		Assignees:    req.Assignees,
		Version:      req.Version,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleDeleteInsight(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Insights.Delete(r.Context(), tenant(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
