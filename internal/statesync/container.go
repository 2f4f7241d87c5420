// Package statesync keeps the client's in-memory view of each entity family
// consistent with the local cache and the durable store.
package statesync

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Entity is anything a container can hold.
type Entity interface {
	Key() string
}

// Store is the durable side of a container.
type Store[T Entity] interface {
	List(ctx context.Context, scopeID string) ([]T, error)
	Create(ctx context.Context, scopeID string, v T) (T, error)
	Update(ctx context.Context, scopeID string, v T) (T, error)
	Delete(ctx context.Context, scopeID, id string) error
}

// Mirror is the local cache side of a container.
type Mirror interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Put(ctx context.Context, key string, v any) error
}

// CapacityFunc returns an error when a scope already holding current
// entities can't take one more.
type CapacityFunc func(scopeID string, current int) error

// Options configures a Container. Only Name is required.
type Options[T Entity] struct {
	Name     string
	Store    Store[T]
	Cache    Mirror
	CacheKey func(scopeID string) string
	Capacity CapacityFunc
	// OnCreate runs after a new entity is confirmed.
	OnCreate func(ctx context.Context, scopeID string, v T)
	Logger   *slog.Logger
}

type scope[T Entity] struct {
	loaded bool
	// gen counts local mutations so a fetch that raced them merges instead
	// of overwriting.
	gen   uint64
	order []string
	items map[string]T
}

func newScope[T Entity]() *scope[T] {
	return &scope[T]{items: make(map[string]T)}
}

func (s *scope[T]) put(v T) {
	key := v.Key()
	if _, ok := s.items[key]; !ok {
		s.order = append(s.order, key)
	}
	s.items[key] = v
}

func (s *scope[T]) remove(id string) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scope[T]) replace(list []T) {
	s.order = s.order[:0]
	s.items = make(map[string]T, len(list))
	for _, v := range list {
		s.put(v)
	}
}

func (s *scope[T]) snapshot() []T {
	out := make([]T, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.items[key])
	}
	return out
}

// Container is the canonical in-memory view of one entity family, keyed by
// scope id and then entity id.
type Container[T Entity] struct {
	name     string
	store    Store[T]
	cache    Mirror
	cacheKey func(string) string
	capacity CapacityFunc
	onCreate func(context.Context, string, T)
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu      sync.Mutex
	scopes  map[string]*scope[T]
	lastErr string
}

// NewContainer creates a container. Without a Store it keeps memory and the
// cache only.
func NewContainer[T Entity](opts Options[T]) *Container[T] {
	ctx, cancel := context.WithCancel(context.Background())
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Container[T]{
		name:     opts.Name,
		store:    opts.Store,
		cache:    opts.Cache,
		cacheKey: opts.CacheKey,
		capacity: opts.Capacity,
		onCreate: opts.OnCreate,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		scopes:   make(map[string]*scope[T]),
	}
}

// scopeLocked returns the scope, creating it. Caller holds c.mu.
func (c *Container[T]) scopeLocked(scopeID string) *scope[T] {
	sc, ok := c.scopes[scopeID]
	if !ok {
		sc = newScope[T]()
		c.scopes[scopeID] = sc
	}
	return sc
}

// List returns the scope's current snapshot. The first call for a scope
// starts a background fetch and returns what memory holds right now.
func (c *Container[T]) List(scopeID string) []T {
	c.mu.Lock()
	sc := c.scopeLocked(scopeID)
	loaded := sc.loaded
	snap := sc.snapshot()
	c.mu.Unlock()

	if !loaded && c.ctx.Err() == nil {
		c.group.DoChan(scopeID, func() (any, error) {
			return c.load(c.ctx, scopeID)
		})
	}
	return snap
}

// Refresh fetches the scope and waits for the result. When the store fails
// the cached mirror is returned together with the error.
func (c *Container[T]) Refresh(ctx context.Context, scopeID string) ([]T, error) {
	ch := c.group.DoChan(scopeID, func() (any, error) {
		return c.load(c.ctx, scopeID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		list, _ := res.Val.([]T)
		return list, res.Err
	}
}

// Get returns one entity from memory.
func (c *Container[T]) Get(scopeID, id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sc, ok := c.scopes[scopeID]; ok {
		v, ok := sc.items[id]
		return v, ok
	}
	var zero T
	return zero, false
}

// Len reports how many entities the scope holds in memory.
func (c *Container[T]) Len(scopeID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sc, ok := c.scopes[scopeID]; ok {
		return len(sc.items)
	}
	return 0
}

func (c *Container[T]) load(ctx context.Context, scopeID string) ([]T, error) {
	c.mu.Lock()
	startGen := c.scopeLocked(scopeID).gen
	c.mu.Unlock()

	if c.store == nil {
		list := c.readMirror(ctx, scopeID)
		return c.adopt(scopeID, list, startGen), nil
	}

	list, err := c.store.List(ctx, scopeID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.setError(err)
		c.logger.Warn("durable fetch failed; using local cache",
			"family", c.name, "scope", scopeID, "error", err)
		return c.adopt(scopeID, c.readMirror(ctx, scopeID), startGen), err
	}

	snap := c.adopt(scopeID, list, startGen)
	c.writeMirror(ctx, scopeID, snap)
	return snap, nil
}

// adopt installs a fetched list. Entities mutated locally since the fetch
// started are kept.
func (c *Container[T]) adopt(scopeID string, list []T, startGen uint64) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	sc := c.scopeLocked(scopeID)
	if sc.gen == startGen {
		sc.replace(list)
	} else {
		for _, v := range list {
			if _, ok := sc.items[v.Key()]; !ok {
				sc.put(v)
			}
		}
	}
	sc.loaded = true
	return sc.snapshot()
}

// Save inserts v when its id is new to the scope and updates it otherwise.
// Memory changes first; a failed durable write reverts it.
func (c *Container[T]) Save(ctx context.Context, scopeID string, v T) bool {
	key := v.Key()
	if key == "" {
		c.setError(errors.New("entity has no id"))
		return false
	}

	c.mu.Lock()
	sc := c.scopeLocked(scopeID)
	prev, exists := sc.items[key]
	if !exists && c.capacity != nil {
		if err := c.capacity(scopeID, len(sc.items)); err != nil {
			c.lastErr = describe(err)
			c.mu.Unlock()
			return false
		}
	}
	sc.put(v)
	sc.gen++
	c.mu.Unlock()

	stored := v
	if c.store != nil {
		var err error
		if exists {
			stored, err = c.store.Update(ctx, scopeID, v)
		} else {
			stored, err = c.store.Create(ctx, scopeID, v)
		}
		if err != nil {
			c.mu.Lock()
			if exists {
				sc.put(prev)
			} else {
				sc.remove(key)
			}
			sc.gen++
			c.lastErr = describe(err)
			c.mu.Unlock()
			c.logger.Warn("save failed; reverted",
				"family", c.name, "scope", scopeID, "id", key, "error", err)
			return false
		}
	}

	c.mu.Lock()
	sc.put(stored)
	snap := sc.snapshot()
	c.mu.Unlock()

	c.writeMirror(ctx, scopeID, snap)
	if !exists && c.onCreate != nil {
		c.onCreate(ctx, scopeID, stored)
	}
	return true
}

// Delete removes id from memory, then from the store. A failed durable
// delete is reported but not rolled back; callers refresh.
func (c *Container[T]) Delete(ctx context.Context, scopeID, id string) bool {
	c.mu.Lock()
	sc := c.scopeLocked(scopeID)
	sc.remove(id)
	sc.gen++
	snap := sc.snapshot()
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(ctx, scopeID, id); err != nil {
			c.setError(err)
			c.logger.Warn("delete failed",
				"family", c.name, "scope", scopeID, "id", id, "error", err)
			return false
		}
	}
	c.writeMirror(ctx, scopeID, snap)
	return true
}

// replaceEntity swaps in v and returns the previous value.
func (c *Container[T]) replaceEntity(scopeID string, v T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sc := c.scopeLocked(scopeID)
	prev, ok := sc.items[v.Key()]
	sc.put(v)
	sc.gen++
	return prev, ok
}

// mirror writes the scope's snapshot to the cache.
func (c *Container[T]) mirror(ctx context.Context, scopeID string) {
	c.mu.Lock()
	snap := c.scopeLocked(scopeID).snapshot()
	c.mu.Unlock()
	c.writeMirror(ctx, scopeID, snap)
}

func (c *Container[T]) readMirror(ctx context.Context, scopeID string) []T {
	if c.cache == nil || c.cacheKey == nil {
		return nil
	}
	var list []T
	ok, err := c.cache.Get(ctx, c.cacheKey(scopeID), &list)
	if err != nil {
		c.logger.Warn("local cache read failed", "family", c.name, "scope", scopeID, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return list
}

func (c *Container[T]) writeMirror(ctx context.Context, scopeID string, snap []T) {
	if c.cache == nil || c.cacheKey == nil {
		return
	}
	if err := c.cache.Put(ctx, c.cacheKey(scopeID), snap); err != nil {
		c.logger.Warn("local cache write failed", "family", c.name, "scope", scopeID, "error", err)
	}
}

func (c *Container[T]) setError(err error) {
	c.mu.Lock()
	c.lastErr = describe(err)
	c.mu.Unlock()
}

// LastError returns the display message of the most recent failure.
func (c *Container[T]) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearError resets the display message.
func (c *Container[T]) ClearError() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

// Close cancels background fetches. Later List calls serve memory only.
func (c *Container[T]) Close() {
	c.cancel()
}
