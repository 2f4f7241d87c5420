package transport

import (
	"net/http"

	"github.com/matthallesq/modlab/internal/api"
)

func (s *Server) handleListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := s.svc.Subscriptions.ListTiers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tiers)
}

func (s *Server) handleCurrentSubscription(w http.ResponseWriter, r *http.Request) {
	cur, err := s.svc.Subscriptions.Current(r.Context(), tenant(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

func (s *Server) handleChangeTier(w http.ResponseWriter, r *http.Request) {
	var req api.ChangeTierRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	cur, err := s.svc.Subscriptions.ChangeTier(r.Context(), tenant(r), req.TierID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}
