package statesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/localcache"
	"github.com/matthallesq/modlab/internal/remote"
)

// tenantScope is the scope id for families that aren't per project.
const tenantScope = ""

// hydrateConcurrency bounds parallel fetches during Hydrate.
const hydrateConcurrency = 4

// WorkspaceConfig wires a Workspace. Remote and Cache may be nil.
type WorkspaceConfig struct {
	Remote *remote.Client
	Cache  *localcache.Cache
	Policy *subscription.Policy
	Tier   subscription.Tier
	Logger *slog.Logger
}

// Workspace is a client session's full set of containers.
type Workspace struct {
	Projects    *Container[project.Project]
	Teams       *Container[team.Team]
	Experiments *ExperimentContainer
	Insights    *InsightContainer
	Timeline    *TimelineContainer
	Emitter     *timeline.Emitter

	remote *remote.Client
	cache  *localcache.Cache
	policy *subscription.Policy
	logger *slog.Logger

	mu   sync.RWMutex
	tier subscription.Tier
}

// NewWorkspace builds the containers. Without a remote client persistence is
// disabled and the containers run on memory plus the local cache.
func NewWorkspace(cfg WorkspaceConfig) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := cfg.Policy
	if policy == nil {
		policy = subscription.DefaultPolicy()
	}
	tier := cfg.Tier
	if tier.ID == "" {
		tier = subscription.FreeTier()
	}

	w := &Workspace{
		Emitter: timeline.NewEmitter(logger),
		remote:  cfg.Remote,
		cache:   cfg.Cache,
		policy:  policy,
		logger:  logger,
		tier:    tier,
	}
	if cfg.Remote == nil {
		logger.Warn("store URL or token missing; persistence disabled")
	}

	var mirror Mirror
	if cfg.Cache != nil {
		mirror = cfg.Cache
	}

	projectOpts := Options[project.Project]{
		Name:     "projects",
		Cache:    mirror,
		CacheKey: func(string) string { return localcache.KeyProjects },
		Capacity: w.capacity(subscription.ResourceProjects),
		OnCreate: func(ctx context.Context, _ string, p project.Project) {
			w.Emitter.Emit(ctx, p.ID, timeline.TypeProjectCreated, "Project created", p.Name, p.ID)
		},
		Logger: logger,
	}
	teamOpts := Options[team.Team]{
		Name:     "teams",
		Cache:    mirror,
		CacheKey: func(string) string { return localcache.KeyTeams },
		Logger:   logger,
	}
	experimentOpts := Options[experiment.Experiment]{
		Name:     "experiments",
		Cache:    mirror,
		CacheKey: localcache.ExperimentsKey,
		Capacity: w.capacity(subscription.ResourceExperiments),
		Logger:   logger,
	}
	insightOpts := Options[insight.Insight]{
		Name:     "insights",
		Cache:    mirror,
		CacheKey: localcache.InsightsKey,
		Logger:   logger,
	}
	timelineOpts := Options[timeline.Event]{
		Name:     "timeline",
		Cache:    mirror,
		CacheKey: localcache.TimelineKey,
		Logger:   logger,
	}

	var experiments ExperimentStore
	var reader TimelineReader
	if cfg.Remote != nil {
		projectOpts.Store = cfg.Remote.Projects()
		teamOpts.Store = cfg.Remote.Teams()
		insightOpts.Store = cfg.Remote.Insights()
		experiments = cfg.Remote.Experiments()
		reader = cfg.Remote.Timeline()
	}

	w.Projects = NewContainer(projectOpts)
	w.Teams = NewContainer(teamOpts)
	w.Experiments = NewExperimentContainer(experimentOpts, experiments, w.Emitter)
	w.Insights = NewInsightContainer(insightOpts, w.Emitter)
	w.Timeline = NewTimelineContainer(timelineOpts, reader)
	return w
}

// capacity adapts the tier policy to a container capacity check.
func (w *Workspace) capacity(r subscription.Resource) CapacityFunc {
	return func(_ string, current int) error {
		return w.policy.Check(w.Tier(), r, current)
	}
}

// Persistent reports whether writes reach the durable store.
func (w *Workspace) Persistent() bool {
	return w.remote != nil
}

// Tier returns the tier used for capacity checks.
func (w *Workspace) Tier() subscription.Tier {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tier
}

// SetTier replaces the tier used for capacity checks.
func (w *Workspace) SetTier(t subscription.Tier) {
	w.mu.Lock()
	w.tier = t
	w.mu.Unlock()
}

// Hydrate loads the tenant-wide families and then every family of the given
// projects (or of every loaded project when none are given). Queued timeline
// events are flushed into the timeline once it has loaded.
func (w *Workspace) Hydrate(ctx context.Context, projectIDs ...string) error {
	tenantErr := w.LoadTenant(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(projectIDs) == 0 {
		for _, p := range w.Projects.List(tenantScope) {
			projectIDs = append(projectIDs, p.ID)
		}
	}
	return errors.Join(tenantErr, w.LoadProjects(ctx, projectIDs...))
}

// LoadTenant refreshes the subscription tier, projects and teams. Every
// family is waited for so each one falls back to its cached copy when the
// store is unreachable. The errors are joined.
func (w *Workspace) LoadTenant(ctx context.Context) error {
	var g errgroup.Group
	var tierErr, projectsErr, teamsErr error
	g.Go(func() error {
		tierErr = w.loadTier(ctx)
		return nil
	})
	g.Go(func() error {
		_, projectsErr = w.Projects.Refresh(ctx, tenantScope)
		return nil
	})
	g.Go(func() error {
		_, teamsErr = w.Teams.Refresh(ctx, tenantScope)
		return nil
	})
	g.Wait()
	return errors.Join(tierErr, projectsErr, teamsErr)
}

// loadTier fetches the current tier and mirrors it. Without a store, or when
// the fetch fails, the last mirrored tier is kept.
func (w *Workspace) loadTier(ctx context.Context) error {
	if w.remote == nil {
		w.restoreTier(ctx)
		return nil
	}
	current, err := w.remote.CurrentSubscription(ctx)
	if err != nil {
		w.restoreTier(ctx)
		return fmt.Errorf("loading subscription: %w", err)
	}
	w.SetTier(current.Tier)
	if w.cache != nil {
		if err := w.cache.Put(ctx, localcache.KeyTier, current.Tier); err != nil {
			w.logger.Warn("mirroring tier", "error", err)
		}
	}
	return nil
}

func (w *Workspace) restoreTier(ctx context.Context) {
	if w.cache == nil {
		return
	}
	var t subscription.Tier
	ok, err := w.cache.Get(ctx, localcache.KeyTier, &t)
	if err != nil {
		w.logger.Warn("reading cached tier", "error", err)
		return
	}
	if ok && t.ID != "" {
		w.SetTier(t)
	}
}

// LoadProjects refreshes the experiments, insights and timeline of each
// project, then attaches the timeline as the emitter's sink. A failing
// family doesn't stop the others from loading.
func (w *Workspace) LoadProjects(ctx context.Context, projectIDs ...string) error {
	var g errgroup.Group
	g.SetLimit(hydrateConcurrency)
	var mu sync.Mutex
	var errs []error
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	for _, id := range projectIDs {
		g.Go(func() error {
			_, err := w.Experiments.Refresh(ctx, id)
			record(err)
			return nil
		})
		g.Go(func() error {
			_, err := w.Insights.Refresh(ctx, id)
			record(err)
			return nil
		})
		g.Go(func() error {
			_, err := w.Timeline.Refresh(ctx, id)
			record(err)
			return nil
		})
	}
	g.Wait()

	w.Emitter.Attach(ctx, w.Timeline)
	return errors.Join(errs...)
}

// ProjectList returns the tenant's projects.
func (w *Workspace) ProjectList() []project.Project {
	return w.Projects.List(tenantScope)
}

// SaveProject creates or updates a project.
func (w *Workspace) SaveProject(ctx context.Context, p project.Project) bool {
	return w.Projects.Save(ctx, tenantScope, p)
}

// DeleteProject removes a project and drops the mirrors of its families.
func (w *Workspace) DeleteProject(ctx context.Context, id string) bool {
	if !w.Projects.Delete(ctx, tenantScope, id) {
		return false
	}
	if w.cache != nil {
		if err := w.cache.DropProject(ctx, id); err != nil {
			w.logger.Warn("dropping project mirrors", "project", id, "error", err)
		}
	}
	return true
}

// TeamList returns the tenant's teams.
func (w *Workspace) TeamList() []team.Team {
	return w.Teams.List(tenantScope)
}

// SaveTeam creates or renames a team.
func (w *Workspace) SaveTeam(ctx context.Context, t team.Team) bool {
	return w.Teams.Save(ctx, tenantScope, t)
}

// Close cancels background work in every container and detaches the
// timeline sink.
func (w *Workspace) Close() {
	w.Emitter.Detach()
	w.Projects.Close()
	w.Teams.Close()
	w.Experiments.Close()
	w.Insights.Close()
	w.Timeline.Close()
}
