package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/config"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/fetchretry"
	"github.com/matthallesq/modlab/internal/localcache"
	"github.com/matthallesq/modlab/internal/logging"
	"github.com/matthallesq/modlab/internal/remote"
	"github.com/matthallesq/modlab/internal/statesync"
	"github.com/matthallesq/modlab/internal/ux"
)

var errNoStore = errors.New("store URL is not configured (set MODLAB_STORE_URL)")

// cli carries per-invocation state shared by every command.
type cli struct {
	out    io.Writer
	errOut io.Writer

	plain   bool
	jsonOut bool
	verbose bool

	printer *ux.Printer
	cfg     config.Config
	logger  *slog.Logger
	client  *remote.Client
	cache   *localcache.Cache
	ws      *statesync.Workspace
	closers []io.Closer
}

func run(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{
		out:     out,
		errOut:  errOut,
		printer: &ux.Printer{Out: out, Err: errOut},
		logger:  logging.Discard(),
	}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	c.close()
	if err != nil {
		c.printer.Error(err.Error())
		return 1
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "modlab",
		Short: "Plan and track business model experiments",
		Long: `modlab manages projects, canvases, experiments and insights on a ModLab store.

Point it at a store with MODLAB_STORE_URL and MODLAB_STORE_TOKEN (or the
store section of the file named by MODLAB_CONFIG_PATH). Without both values
changes stay in the local cache only.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().BoolVar(&c.plain, "plain", false, "plain output without colour or icons")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at the configured level instead of warnings only")

	root.AddCommand(
		c.signupCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.projectsCmd(),
		c.experimentsCmd(),
		c.insightsCmd(),
		c.timelineCmd(),
		c.canvasCmd(),
		c.teamsCmd(),
		c.tiersCmd(),
		c.subscriptionCmd(),
		c.upgradeCmd(),
		c.viewCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.cfg = cfg
	if f, ok := c.out.(*os.File); ok && !cmd.Flags().Changed("plain") && !isatty.IsTerminal(f.Fd()) {
		c.plain = true
	}
	c.printer.Plain = c.plain

	level := "warn"
	if c.verbose {
		level = cfg.Log.Level
	}
	logger, closer, err := logging.New(c.errOut, level, cfg.Log.Path)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	c.logger = logger
	c.closers = append(c.closers, closer)

	if cfg.Store.URL != "" {
		client, err := remote.New(remote.Config{
			BaseURL: cfg.Store.URL,
			Token:   cfg.Store.Token,
			Retry: fetchretry.Config{
				Timeout:    cfg.Store.Timeout,
				MaxRetries: cfg.Store.MaxRetries,
				RetryDelay: cfg.Store.RetryDelay,
			},
		}, logger)
		if err != nil {
			return err
		}
		c.client = client
	}
	return nil
}

func (c *cli) close() {
	if c.ws != nil {
		c.ws.Close()
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Warn("closing cache", "error", err)
		}
	}
	for _, cl := range c.closers {
		cl.Close()
	}
}

// requireClient returns the store client for commands that have no offline
// fallback.
func (c *cli) requireClient() (*remote.Client, error) {
	if c.client == nil {
		return nil, errNoStore
	}
	return c.client, nil
}

func (c *cli) openCache() (*localcache.Cache, error) {
	if c.cache != nil {
		return c.cache, nil
	}
	cache, err := localcache.Open(localcache.Config{
		Path:     c.cfg.Cache.Path,
		InMemory: c.cfg.Cache.InMemory,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, err
	}
	c.cache = cache
	return cache, nil
}

// workspace opens the cache and builds the containers once per invocation.
// Writes reach the store only when both store values are configured.
func (c *cli) workspace() (*statesync.Workspace, error) {
	if c.ws != nil {
		return c.ws, nil
	}
	cache, err := c.openCache()
	if err != nil {
		return nil, err
	}
	policy, err := subscription.NewPolicy(map[subscription.Resource]string{
		subscription.ResourceProjects:    c.cfg.Limits.Projects,
		subscription.ResourceExperiments: c.cfg.Limits.Experiments,
	})
	if err != nil {
		return nil, err
	}

	wc := statesync.WorkspaceConfig{Cache: cache, Policy: policy, Logger: c.logger}
	if c.cfg.Store.Enabled() {
		wc.Remote = c.client
	}
	c.ws = statesync.NewWorkspace(wc)
	return c.ws, nil
}

// tenant loads the tenant-wide families. A store failure falls back to the
// cached copy with a warning.
func (c *cli) tenant(ctx context.Context) (*statesync.Workspace, error) {
	ws, err := c.workspace()
	if err != nil {
		return nil, err
	}
	if err := ws.LoadTenant(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.printer.Warning("store unreachable, showing cached data: " + err.Error())
	}
	return ws, nil
}

// project resolves ref against the tenant's projects and loads its families.
func (c *cli) project(ctx context.Context, ref string) (*statesync.Workspace, project.Project, error) {
	ws, err := c.tenant(ctx)
	if err != nil {
		return nil, project.Project{}, err
	}
	p, err := resolve(ws.ProjectList(), ref, "project")
	if err != nil {
		return nil, project.Project{}, err
	}
	if err := ws.LoadProjects(ctx, p.ID); err != nil {
		if ctx.Err() != nil {
			return nil, project.Project{}, ctx.Err()
		}
		c.printer.Warning("store unreachable, showing cached data: " + err.Error())
	}
	return ws, p, nil
}

// emit prints v as JSON when --json is set and calls human otherwise.
func (c *cli) emit(v any, human func()) error {
	if c.jsonOut {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human()
	return nil
}

// rejected turns a container's last error into a command error.
func rejected(action, last string) error {
	if last == "" {
		return fmt.Errorf("%s failed", action)
	}
	return fmt.Errorf("%s failed: %s", action, last)
}

type keyed interface {
	Key() string
}

// resolve finds the entity whose id equals ref or ends with it. Suffixes
// let the short ids printed by list views be typed back in.
func resolve[T keyed](list []T, ref, kind string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%s id is required", kind)
	}
	var matches []T
	for _, v := range list {
		if v.Key() == ref {
			return v, nil
		}
		if strings.HasSuffix(v.Key(), ref) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %q not found", kind, ref)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, ref, len(matches))
	}
}
