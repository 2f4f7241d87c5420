// Package localcache mirrors client state in an embedded BadgerDB under
// fixed keys with JSON values.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Fixed keys. Per-project families are built with the helpers below.
const (
	KeyProjects = "projects"
	KeyTeams    = "teams"
	KeyViewMode = "view_mode"
	KeyTier     = "subscription_tier"
)

// ExperimentsKey is the mirror key for a project's experiments.
func ExperimentsKey(projectID string) string { return "experiments:" + projectID }

// InsightsKey is the mirror key for a project's insights.
func InsightsKey(projectID string) string { return "insights:" + projectID }

// TimelineKey is the mirror key for a project's timeline.
func TimelineKey(projectID string) string { return "timeline:" + projectID }

// CanvasKey is the mirror key for one canvas of a project.
func CanvasKey(projectID, canvasType string) string {
	return "canvas:" + projectID + ":" + canvasType
}

// Config selects where the cache lives.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	InMemory   bool
	SyncWrites bool
	Logger     *slog.Logger
}

// Cache is a JSON key-value mirror.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens or creates the cache.
func Open(cfg Config) (*Cache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db, logger: cfg.Logger}, nil
}

// Get decodes the value under key into out. It reports false when the key is
// absent. A value that no longer decodes is deleted and reported absent.
func (c *Cache) Get(ctx context.Context, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if c.logger != nil {
			c.logger.Warn("dropping corrupt cache entry", "key", key, "error", err)
		}
		if delErr := c.Delete(ctx, key); delErr != nil {
			return false, delErr
		}
		return false, nil
	}
	return true, nil
}

// Put stores v as JSON under key.
func (c *Cache) Put(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache key %s: %w", key, err)
	}
	return c.putRaw(key, data)
}

func (c *Cache) putRaw(key string, data []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete cache key %s: %w", key, err)
	}
	return nil
}

// Keys lists every key with the given prefix.
func (c *Cache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}
	return keys, nil
}

// DropProject removes every mirror held for a project: its experiments,
// insights and timeline and each of its canvases.
func (c *Cache) DropProject(ctx context.Context, projectID string) error {
	keys, err := c.Keys(ctx, "canvas:"+projectID+":")
	if err != nil {
		return err
	}
	keys = append(keys, ExperimentsKey(projectID), InsightsKey(projectID), TimelineKey(projectID))
	for _, key := range keys {
		if err := c.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
