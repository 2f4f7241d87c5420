package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/timeline"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
}

// ExperimentService defines experiment operations needed by MCP.
type ExperimentService interface {
	Create(ctx context.Context, tenantID string, req experiment.CreateRequest) (*experiment.Experiment, error)
	Get(ctx context.Context, tenantID, id string) (*experiment.Experiment, error)
	List(ctx context.Context, tenantID string, opts experiment.ListOptions) ([]experiment.Experiment, error)
	Update(ctx context.Context, tenantID, id string, req experiment.UpdateRequest) (*experiment.Experiment, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status experiment.Status, version int64) (*experiment.Experiment, error)
}

// InsightService defines insight operations needed by MCP.
type InsightService interface {
	Create(ctx context.Context, tenantID string, req insight.CreateRequest) (*insight.Insight, error)
}

// TimelineService defines timeline reads needed by MCP.
type TimelineService interface {
	List(ctx context.Context, tenantID string, opts timeline.ListOptions) ([]timeline.Event, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects    ProjectService
	Experiments ExperimentService
	Insights    InsightService
	Timeline    TimelineService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Resolver TenantResolver

	// DefaultTenant is used for every call when Resolver is nil.
	DefaultTenant string

	Version string
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "modlab",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	if cfg.Resolver != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultTenant))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger))

	registerTools(server, cfg.Services)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server, sessionTimeout time.Duration, logger *slog.Logger) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: sessionTimeout,
			Logger:         logger,
		},
	)
}
