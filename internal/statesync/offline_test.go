package statesync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/subscription"
	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/fetchretry"
	"github.com/matthallesq/modlab/internal/localcache"
	"github.com/matthallesq/modlab/internal/remote"
	"github.com/matthallesq/modlab/internal/testserver"
)

func unavailableStore(t *testing.T) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"internal","message":"down for maintenance"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := remote.New(remote.Config{
		BaseURL: srv.URL,
		Token:   "token",
		Retry:   fetchretry.Config{Timeout: time.Second, MaxRetries: 0},
	}, nil)
	require.NoError(t, err)
	return client
}

func TestWorkspace_UnreachableStoreServesCache(t *testing.T) {
	ctx := context.Background()
	cache, err := localcache.Open(localcache.Config{InMemory: true})
	require.NoError(t, err)
	defer cache.Close()

	alpha := project.Project{ID: NewID(), Name: "Alpha", Version: 1}
	growth := team.Team{ID: NewID(), Name: "Growth", Members: []team.Member{}}
	professional := subscription.Tier{ID: subscription.TierProfessional, Name: "Professional", MaxProjects: 10, MaxExperiments: 10}
	require.NoError(t, cache.Put(ctx, localcache.KeyProjects, []project.Project{alpha}))
	require.NoError(t, cache.Put(ctx, localcache.KeyTeams, []team.Team{growth}))
	require.NoError(t, cache.Put(ctx, localcache.KeyTier, professional))
	require.NoError(t, cache.Put(ctx, localcache.ExperimentsKey(alpha.ID), []experiment.Experiment{newExperiment(alpha.ID, "Landing page")}))

	ws := NewWorkspace(WorkspaceConfig{Remote: unavailableStore(t), Cache: cache})
	defer ws.Close()

	err = ws.LoadTenant(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "loading subscription")

	// Every family has its cached copy in place once LoadTenant returns.
	require.Len(t, ws.ProjectList(), 1)
	assert.Equal(t, "Alpha", ws.ProjectList()[0].Name)
	require.Len(t, ws.TeamList(), 1)
	assert.Equal(t, subscription.TierProfessional, ws.Tier().ID)

	require.Error(t, ws.LoadProjects(ctx, alpha.ID))
	require.Len(t, ws.Experiments.List(alpha.ID), 1)
	assert.Empty(t, ws.Insights.List(alpha.ID))
}

func TestWorkspace_LoadTenantMirrorsTier(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	cache, err := localcache.Open(localcache.Config{InMemory: true})
	require.NoError(t, err)
	defer cache.Close()

	client := ts.Client(t, ts.Token)
	_, err = client.ChangeTier(ctx, subscription.TierEnterprise)
	require.NoError(t, err)

	ws := NewWorkspace(WorkspaceConfig{Remote: client, Cache: cache})
	defer ws.Close()
	require.NoError(t, ws.LoadTenant(ctx))
	assert.Equal(t, subscription.TierEnterprise, ws.Tier().ID)

	var cached subscription.Tier
	ok, err := cache.Get(ctx, localcache.KeyTier, &cached)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, subscription.TierEnterprise, cached.ID)

	// Without a store the mirrored tier still applies.
	offline := NewWorkspace(WorkspaceConfig{Cache: cache})
	defer offline.Close()
	require.NoError(t, offline.LoadTenant(ctx))
	assert.Equal(t, subscription.TierEnterprise, offline.Tier().ID)
}

func TestWorkspace_DeleteProjectDropsMirrors(t *testing.T) {
	ctx := context.Background()
	cache, err := localcache.Open(localcache.Config{InMemory: true})
	require.NoError(t, err)
	defer cache.Close()

	ws := NewWorkspace(WorkspaceConfig{Cache: cache})
	defer ws.Close()
	require.NoError(t, ws.Hydrate(ctx))

	alpha := project.Project{ID: NewID(), Name: "Alpha"}
	require.True(t, ws.SaveProject(ctx, alpha))
	require.NoError(t, ws.LoadProjects(ctx, alpha.ID))
	require.True(t, ws.Experiments.Save(ctx, alpha.ID, newExperiment(alpha.ID, "Landing page")))
	require.NoError(t, cache.Put(ctx, localcache.CanvasKey(alpha.ID, "product"), map[string]any{}))

	require.True(t, ws.DeleteProject(ctx, alpha.ID))
	assert.Empty(t, ws.ProjectList())

	keys, err := cache.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{localcache.KeyProjects}, keys)
}

// dropFirstPost lets the first POST reach the server and then withholds its
// response until the attempt times out, as a lost reply would.
type dropFirstPost struct {
	next    http.RoundTripper
	dropped atomic.Bool
}

func (d *dropFirstPost) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := d.next.RoundTrip(req)
	if err != nil || req.Method != http.MethodPost || !d.dropped.CompareAndSwap(false, true) {
		return resp, err
	}
	resp.Body.Close()
	<-req.Context().Done()
	return nil, req.Context().Err()
}

func TestContainer_CreateSurvivesLostResponse(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	transport := &dropFirstPost{next: http.DefaultTransport}
	client, err := remote.New(remote.Config{
		BaseURL:    ts.Server.URL,
		Token:      ts.Token,
		Retry:      fetchretry.Config{Timeout: 300 * time.Millisecond, MaxRetries: 2, RetryDelay: 10 * time.Millisecond},
		HTTPClient: &http.Client{Transport: transport},
	}, nil)
	require.NoError(t, err)

	projects := NewContainer(Options[project.Project]{Name: "projects", Store: client.Projects()})
	defer projects.Close()
	_, err = projects.Refresh(ctx, tenantScope)
	require.NoError(t, err)

	alpha := project.Project{ID: NewID(), Name: "Alpha"}
	require.True(t, projects.Save(ctx, tenantScope, alpha), projects.LastError())
	require.True(t, transport.dropped.Load())
	assert.Empty(t, projects.LastError())
	assert.Equal(t, 1, projects.Len(tenantScope))

	stored, err := client.ListProjects(ctx, false)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alpha.ID, stored[0].ID)
	assert.Equal(t, int64(1), stored[0].Version)
}
