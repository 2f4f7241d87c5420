package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matthallesq/modlab/internal/api"
	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/fetchretry"
	"github.com/matthallesq/modlab/internal/remote"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := remote.New(remote.Config{
		BaseURL:    srv.URL,
		Token:      "tok",
		HTTPClient: srv.Client(),
		Retry:      fetchretry.Config{Timeout: time.Second, MaxRetries: 1, RetryDelay: time.Millisecond},
	}, nil)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := remote.New(remote.Config{}, nil)
	require.ErrorIs(t, err, remote.ErrDisabled)

	_, err = remote.New(remote.Config{BaseURL: "ftp://example.com"}, nil)
	require.Error(t, err)
}

func TestClient_SendsBearerAndQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/v1/experiments", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "p1", r.URL.Query().Get("project_id"))
		writeJSON(w, http.StatusOK, []experiment.Experiment{{ID: "e1", ProjectID: "p1", Title: "E1", Status: experiment.StatusBacklog}})
	})
	client := newClient(t, mux)

	list, err := client.Experiments().List(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "e1", list[0].ID)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rest/v1/experiments", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateExperimentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Title == "" {
			writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidation, Message: "title is required"})
			return
		}
		writeJSON(w, http.StatusPaymentRequired, api.ErrorResponse{Code: api.CodeLimitReached, Message: "experiments limit of 3 on the free plan"})
	})
	mux.HandleFunc("DELETE /rest/v1/experiments/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Code: api.CodeNotFound, Message: "experiment not found"})
	})
	client := newClient(t, mux)
	ctx := context.Background()

	_, err := client.CreateExperiment(ctx, api.CreateExperimentRequest{ProjectID: "p1"})
	require.ErrorIs(t, err, remote.ErrValidation)
	var apiErr *remote.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "title is required", apiErr.Message)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, err = client.CreateExperiment(ctx, api.CreateExperimentRequest{ProjectID: "p1", Title: "E4"})
	require.ErrorIs(t, err, subscription.ErrLimitReached)

	err = client.DeleteExperiment(ctx, "e1")
	require.ErrorIs(t, err, remote.ErrNotFound)
	require.NotErrorIs(t, err, remote.ErrConflict)
}

func TestClient_StatusWithoutEnvelope(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	_, err := client.RenameTeam(context.Background(), "t1", "Growth")
	require.ErrorIs(t, err, remote.ErrConflict)
}

func TestClient_ConnectionFailureStaysRetryError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := client.ListProjects(context.Background(), false)
	require.ErrorIs(t, err, fetchretry.ErrRetriesExhausted)
	require.True(t, fetchretry.IsConnection(err))
}

func TestClient_SignInAdoptsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var req api.SignInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "ada@example.com", req.Email)
		writeJSON(w, http.StatusOK, auth.Token{AccessToken: "fresh", TokenType: "bearer", Identity: auth.Identity{ID: "u1", Email: req.Email}})
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	client := newClient(t, mux)
	ctx := context.Background()

	tok, err := client.SignIn(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "u1", tok.Identity.ID)
	require.Equal(t, "fresh", client.Token())

	require.NoError(t, client.SignOut(ctx))
	require.Empty(t, client.Token())
}

func TestInsightStore_UpdateUnlinksExperiment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /rest/v1/insights/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req api.UpdateInsightRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ExperimentID)
		require.Empty(t, *req.ExperimentID)
		require.Equal(t, int64(4), req.Version)
		writeJSON(w, http.StatusOK, map[string]any{"id": r.PathValue("id"), "project_id": "p1", "title": *req.Title, "insight_text": "x", "version": 5})
	})
	client := newClient(t, mux)

	store := client.Insights()
	got, err := store.Update(context.Background(), "p1", insightWithVersion("i1", 4))
	require.NoError(t, err)
	require.Equal(t, int64(5), got.Version)
}
