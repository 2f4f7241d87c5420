// Package transport exposes the domain services over HTTP.
package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// Services are the domain services served over HTTP.
type Services struct {
	Auth          *auth.Service
	Projects      *project.Service
	Experiments   *experiment.Service
	Insights      *insight.Service
	Teams         *team.Service
	Canvases      *canvas.Service
	Timeline      *timeline.Service
	Subscriptions *subscription.Service
}

// Options configures optional parts of the router.
type Options struct {
	// MCP is mounted at /mcp behind bearer auth when set.
	MCP http.Handler

	// Resolver authenticates bearer tokens. Defaults to Services.Auth.
	Resolver TenantResolver

	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = svc.Auth
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	srv := &Server{svc: svc, logger: opts.Logger}
	requireAuth := AuthMiddleware(resolver)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(LoggingMiddleware(opts.Logger))

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Post("/signup", srv.handleSignUp)
		r.Post("/token", srv.handleSignIn)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", srv.handleSignOut)
			r.Get("/user", srv.handleWhoami)
		})
	})

	r.Route("/rest/v1", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(middleware.Timeout(timeout))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", srv.handleListProjects)
			r.Post("/", srv.handleCreateProject)
			r.Get("/{id}", srv.handleGetProject)
			r.Patch("/{id}", srv.handleUpdateProject)
			r.Delete("/{id}", srv.handleDeleteProject)
			r.Put("/{id}/team", srv.handleAssignTeam)
			r.Put("/{id}/model", srv.handleSetModel)
		})

		r.Route("/experiments", func(r chi.Router) {
			r.Get("/", srv.handleListExperiments)
			r.Post("/", srv.handleCreateExperiment)
			r.Get("/{id}", srv.handleGetExperiment)
			r.Patch("/{id}", srv.handleUpdateExperiment)
			r.Patch("/{id}/status", srv.handleUpdateExperimentStatus)
			r.Delete("/{id}", srv.handleDeleteExperiment)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", srv.handleListInsights)
			r.Post("/", srv.handleCreateInsight)
			r.Get("/{id}", srv.handleGetInsight)
			r.Patch("/{id}", srv.handleUpdateInsight)
			r.Delete("/{id}", srv.handleDeleteInsight)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", srv.handleListTeams)
			r.Post("/", srv.handleCreateTeam)
			r.Get("/{id}", srv.handleGetTeam)
			r.Patch("/{id}", srv.handleRenameTeam)
			r.Delete("/{id}", srv.handleDeleteTeam)
		})

		r.Route("/team_members", func(r chi.Router) {
			r.Post("/", srv.handleAddMember)
			r.Patch("/{id}", srv.handleUpdateMemberRole)
			r.Delete("/{id}", srv.handleRemoveMember)
		})

		r.Get("/timeline_events", srv.handleListTimeline)

		r.Route("/canvases/{project_id}/{type}", func(r chi.Router) {
			r.Get("/", srv.handleGetCanvas)
			r.Post("/items", srv.handleAddCanvasItem)
			r.Patch("/items/{item_id}", srv.handleUpdateCanvasItem)
			r.Delete("/items/{item_id}", srv.handleRemoveCanvasItem)
			r.Post("/items/{item_id}/cycle", srv.handleCycleCanvasItem)
		})

		r.Get("/subscription_tiers", srv.handleListTiers)
		r.Get("/user_subscriptions", srv.handleCurrentSubscription)
		r.Put("/user_subscriptions", srv.handleChangeTier)
	})

	if opts.MCP != nil {
		r.With(requireAuth).Handle("/mcp", opts.MCP)
		r.With(requireAuth).Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, s.logger, r, err)
}

// tenant returns the authenticated tenant. Routes using it sit behind
// AuthMiddleware.
func tenant(r *http.Request) string {
	tenantID, _ := TenantFromContext(r.Context())
	return tenantID
}
