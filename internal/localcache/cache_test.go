package localcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCache_PutGetDelete(t *testing.T) {
	c := openInMemory(t)
	ctx := context.Background()

	var got []entry
	ok, err := c.Get(ctx, KeyProjects, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []entry{{ID: "p1", Name: "Alpha"}}
	require.NoError(t, c.Put(ctx, KeyProjects, want))

	ok, err = c.Get(ctx, KeyProjects, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, KeyProjects))
	ok, err = c.Get(ctx, KeyProjects, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting twice is fine.
	require.NoError(t, c.Delete(ctx, KeyProjects))
}

func TestCache_CorruptEntryIsDropped(t *testing.T) {
	c := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, c.putRaw(ExperimentsKey("p1"), []byte("{not json")))

	var got []entry
	ok, err := c.Get(ctx, ExperimentsKey("p1"), &got)
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := c.Keys(ctx, "experiments:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := Open(Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, KeyViewMode, "board"))
	require.NoError(t, c.Close())

	c, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer c.Close()

	var mode string
	ok, err := c.Get(ctx, KeyViewMode, &mode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "board", mode)
}

func TestCache_Keys(t *testing.T) {
	c := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, CanvasKey("p1", "product"), map[string]any{}))
	require.NoError(t, c.Put(ctx, CanvasKey("p1", "business_model"), map[string]any{}))
	require.NoError(t, c.Put(ctx, TimelineKey("p1"), []entry{}))

	keys, err := c.Keys(ctx, "canvas:p1:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"canvas:p1:product", "canvas:p1:business_model"}, keys)
}

func TestCache_DropProject(t *testing.T) {
	c := openInMemory(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p10"} {
		require.NoError(t, c.Put(ctx, CanvasKey(id, "product"), map[string]any{}))
		require.NoError(t, c.Put(ctx, ExperimentsKey(id), []entry{}))
		require.NoError(t, c.Put(ctx, InsightsKey(id), []entry{}))
		require.NoError(t, c.Put(ctx, TimelineKey(id), []entry{}))
	}
	require.NoError(t, c.Put(ctx, KeyProjects, []entry{{ID: "p10"}}))

	require.NoError(t, c.DropProject(ctx, "p1"))

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		KeyProjects,
		"canvas:p10:product",
		"experiments:p10",
		"insights:p10",
		"timeline:p10",
	}, keys)

	// Nothing left to drop is fine.
	require.NoError(t, c.DropProject(ctx, "p1"))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}
