package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/project"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("archived"))
	projects, err := s.svc.Projects.List(r.Context(), tenant(r), project.ListOptions{IncludeArchived: includeArchived})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProjectRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	create := project.CreateRequest{
		ID:          req.ID,
		OwnerID:     tenant(r),
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
	}
	if req.ModelType != nil {
		t := canvas.Type(*req.ModelType)
		create.ModelType = &t
	}
	proj, err := s.svc.Projects.Create(r.Context(), tenant(r), create)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProjectRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.Update(r.Context(), tenant(r), chi.URLParam(r, "id"), project.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Archived:    req.Archived,
		Version:     req.Version,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleAssignTeam(w http.ResponseWriter, r *http.Request) {
	var req api.AssignTeamRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.AssignTeam(r.Context(), tenant(r), chi.URLParam(r, "id"), req.TeamID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleSetModel(w http.ResponseWriter, r *http.Request) {
	var req api.SetModelRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.SetModelType(r.Context(), tenant(r), chi.URLParam(r, "id"), canvas.Type(req.ModelType))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), tenant(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
