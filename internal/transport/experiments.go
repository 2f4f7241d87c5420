package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/experiment"
)

func (s *Server) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := experiment.ListOptions{ProjectID: q.Get("project_id")}
	if opts.ProjectID == "" {
		s.fail(w, r, invalid("project_id is required"))
		return
	}
	if raw := q.Get("status"); raw != "" {
		status := experiment.Status(raw)
		if !status.Valid() {
			s.fail(w, r, invalid("status must be one of: backlog, running, completed"))
			return
		}
		opts.Status = &status
	}
	list, err := s.svc.Experiments.List(r.Context(), tenant(r), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	var req api.CreateExperimentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	exp, err := s.svc.Experiments.Create(r.Context(), tenant(r), experiment.CreateRequest{
		ID:              req.ID,
		ProjectID:       req.ProjectID,
		Title:           req.Title,
		Hypothesis:      req.Hypothesis,
		TestDescription: req.TestDescription,
		SuccessCriteria: req.SuccessCriteria,
		Status:          experiment.Status(req.Status),
		Priority:        experiment.Priority(req.Priority),
		Results:         req.Results,
		DueDate:         req.DueDate,
		Assignees:       req.Assignees,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	exp, err := s.svc.Experiments.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleUpdateExperiment(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateExperimentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	update := experiment.UpdateRequest{
		Title:           req.Title,
		Hypothesis:      req.Hypothesis,
		TestDescription: req.TestDescription,
		SuccessCriteria: req.SuccessCriteria,
		Results:         req.Results,
		DueDate:         req.DueDate,
		ClearDueDate:    req.ClearDueDate,
		Assignees:       req.Assignees,
		Version:         req.Version,
	}
	if req.Priority != nil {
		p := experiment.Priority(*req.Priority)
		update.Priority = &p
	}
	exp, err := s.svc.Experiments.Update(r.Context(), tenant(r), chi.URLParam(r, "id"), update)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleUpdateExperimentStatus(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateStatusRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	exp, err := s.svc.Experiments.UpdateStatus(r.Context(), tenant(r), chi.URLParam(r, "id"), experiment.Status(req.Status), req.Version)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Experiments.Delete(r.Context(), tenant(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
