// Package app wires repositories, services and handlers into one server.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/mcp"
	"github.com/matthallesq/modlab/internal/sqlstore"
	"github.com/matthallesq/modlab/internal/transport"
)

// Options tunes the assembled server.
type Options struct {
	Policy            *subscription.Policy
	SessionTTL        time.Duration
	RequestTimeout    time.Duration
	MCPEnabled        bool
	MCPSessionTimeout time.Duration
	Version           string
	Logger            *slog.Logger
}

// App is a fully wired server over one database.
type App struct {
	Services transport.Services
	MCP      *mcp.Config
	Handler  http.Handler
}

// NewServices builds every domain service over db.
func NewServices(db *sqlstore.DB, opts Options) transport.Services {
	logger := opts.Logger
	policy := opts.Policy
	if policy == nil {
		policy = subscription.DefaultPolicy()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	subs := subscription.NewService(sqlstore.NewSubscriptionRepository(db), policy, logger)

	return transport.Services{
		Auth: auth.NewService(
			sqlstore.NewUserRepository(db),
			sqlstore.NewAPIKeyRepository(db),
			auth.NewSessionStore(ttl),
			logger,
		),
		Projects:      project.NewService(sqlstore.NewProjectRepository(db), subs, logger),
		Experiments:   experiment.NewService(sqlstore.NewExperimentRepository(db), subs, logger),
		Insights:      insight.NewService(sqlstore.NewInsightRepository(db), logger),
		Teams:         team.NewService(sqlstore.NewTeamRepository(db), logger),
		Canvases:      canvas.NewService(sqlstore.NewCanvasRepository(db), logger),
		Timeline:      timeline.NewService(sqlstore.NewTimelineRepository(db), logger),
		Subscriptions: subs,
	}
}

// New wires services, the MCP endpoint and the HTTP router.
func New(db *sqlstore.DB, opts Options) *App {
	svc := NewServices(db, opts)
	a := &App{Services: svc}

	var mcpHandler http.Handler
	if opts.MCPEnabled {
		a.MCP = &mcp.Config{
			Services: MCPServices(svc),
			Resolver: svc.Auth,
			Version:  opts.Version,
			Logger:   opts.Logger,
		}
		mcpHandler = mcp.NewHTTPHandler(mcp.NewServer(*a.MCP), opts.MCPSessionTimeout, opts.Logger)
	}

	a.Handler = transport.NewServer(svc, transport.Options{
		MCP:            mcpHandler,
		Logger:         opts.Logger,
		RequestTimeout: opts.RequestTimeout,
	})
	return a
}

// MCPServices narrows svc to what the MCP tools use.
func MCPServices(svc transport.Services) mcp.Services {
	return mcp.Services{
		Projects:    svc.Projects,
		Experiments: svc.Experiments,
		Insights:    svc.Insights,
		Timeline:    svc.Timeline,
	}
}
