package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/canvas"
)

// canvasRef resolves the project and template named in the path.
func canvasRef(r *http.Request) (string, canvas.Type, error) {
	t, err := canvas.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		return "", "", err
	}
	return chi.URLParam(r, "project_id"), t, nil
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	projectID, t, err := canvasRef(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeCanvas(w, r, projectID, t, http.StatusOK)
}

func (s *Server) handleAddCanvasItem(w http.ResponseWriter, r *http.Request) {
	projectID, t, err := canvasRef(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req api.AddCanvasItemRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	section, err := canvas.ParseSection(req.Section)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Canvases.AddItem(r.Context(), tenant(r), projectID, t, section, req.Text); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeCanvas(w, r, projectID, t, http.StatusCreated)
}

func (s *Server) handleUpdateCanvasItem(w http.ResponseWriter, r *http.Request) {
	projectID, t, err := canvasRef(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req api.UpdateCanvasItemRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Canvases.UpdateItemText(r.Context(), tenant(r), projectID, t, chi.URLParam(r, "item_id"), req.Text); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeCanvas(w, r, projectID, t, http.StatusOK)
}

func (s *Server) handleRemoveCanvasItem(w http.ResponseWriter, r *http.Request) {
	projectID, t, err := canvasRef(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Canvases.RemoveItem(r.Context(), tenant(r), projectID, t, chi.URLParam(r, "item_id")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeCanvas(w, r, projectID, t, http.StatusOK)
}

func (s *Server) handleCycleCanvasItem(w http.ResponseWriter, r *http.Request) {
	projectID, t, err := canvasRef(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Canvases.CycleItem(r.Context(), tenant(r), projectID, t, chi.URLParam(r, "item_id")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeCanvas(w, r, projectID, t, http.StatusOK)
}

func (s *Server) writeCanvas(w http.ResponseWriter, r *http.Request, projectID string, t canvas.Type, status int) {
	c, err := s.svc.Canvases.Get(r.Context(), tenant(r), projectID, t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, c)
}
