package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/team"
)

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.Teams.List(r.Context(), tenant(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTeamRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var creator team.MemberInput
	if req.Owner != nil {
		creator = memberInput(*req.Owner)
	} else {
		id, err := s.svc.Auth.Whoami(r.Context(), tenant(r))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		name := id.DisplayName
		if name == "" {
			name = id.Email
		}
		creator = team.MemberInput{Name: name, Email: id.Email, AvatarURL: id.AvatarURL}
	}

	t, err := s.svc.Teams.Create(r.Context(), tenant(r), team.CreateRequest{
		ID:      req.ID,
		Name:    req.Name,
		Creator: creator,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Teams.Get(r.Context(), tenant(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRenameTeam(w http.ResponseWriter, r *http.Request) {
	var req api.RenameTeamRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.svc.Teams.Rename(r.Context(), tenant(r), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Teams.Delete(r.Context(), tenant(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req api.AddMemberRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	role := team.RoleMember
	if req.Role != "" {
		role = team.Role(req.Role)
	}
	m, err := s.svc.Teams.AddMember(r.Context(), tenant(r), team.AddMemberRequest{
		TeamID: req.TeamID,
		Member: memberInput(req.MemberInput),
		Role:   role,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateMemberRoleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.svc.Teams.UpdateMemberRole(r.Context(), tenant(r), chi.URLParam(r, "id"), team.Role(req.Role))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Teams.RemoveMember(r.Context(), tenant(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func memberInput(in api.MemberInput) team.MemberInput {
	return team.MemberInput{Name: in.Name, Email: in.Email, AvatarURL: in.AvatarURL}
}
