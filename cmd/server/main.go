package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matthallesq/modlab/internal/app"
	"github.com/matthallesq/modlab/internal/config"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/logging"
	"github.com/matthallesq/modlab/internal/mcp"
	"github.com/matthallesq/modlab/internal/sqlstore"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	stdio := cfg.MCP.Enabled && cfg.MCP.Transport == "stdio"

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if stdio {
		logWriter = os.Stderr
	}
	logger, closer, err := logging.New(logWriter, cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(cfg, stdio, logger); err != nil {
		logger.Error("server stopped", "error", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, stdio bool, logger *slog.Logger) error {
	dialect, err := sqlstore.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return err
	}
	if dialect == sqlstore.DialectSQLite {
		if err := ensureDBDir(cfg.DB.DSN); err != nil {
			return fmt.Errorf("prepare database path: %w", err)
		}
	}

	db, err := sqlstore.Open(dialect, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	policy, err := subscription.NewPolicy(map[subscription.Resource]string{
		subscription.ResourceProjects:    cfg.Limits.Projects,
		subscription.ResourceExperiments: cfg.Limits.Experiments,
	})
	if err != nil {
		return err
	}

	opts := app.Options{
		Policy:            policy,
		SessionTTL:        cfg.Auth.SessionTTL,
		RequestTimeout:    cfg.Server.RequestTimeout,
		MCPEnabled:        cfg.MCP.Enabled && !stdio,
		MCPSessionTimeout: cfg.MCP.SessionTimeout,
		Version:           Version,
		Logger:            logger,
	}

	if stdio {
		return runStdioMode(ctx, logger, mcp.NewServer(mcp.Config{
			Services:      app.MCPServices(app.NewServices(db, opts)),
			DefaultTenant: cfg.MCP.Tenant,
			Version:       Version,
			Logger:        logger,
		}))
	}
	return runHTTPMode(ctx, logger, app.New(db, opts).Handler, cfg.Server)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or ctx is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, cfg config.ServerConfig) error {
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || filepath.Dir(path) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
