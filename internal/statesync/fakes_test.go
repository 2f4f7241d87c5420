package statesync

import (
	"context"
	"sync"

	"github.com/matthallesq/modlab/internal/domain/experiment"
)

// memStore is a Store backed by a map with injectable failures.
type memStore[T Entity] struct {
	mu      sync.Mutex
	items   map[string]map[string]T
	listErr error
	saveErr error
	delErr  error
	lists   int
}

func newMemStore[T Entity]() *memStore[T] {
	return &memStore[T]{items: make(map[string]map[string]T)}
}

func (s *memStore[T]) List(_ context.Context, scopeID string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []T
	for _, v := range s.items[scopeID] {
		out = append(out, v)
	}
	return out, nil
}

func (s *memStore[T]) put(scopeID string, v T) {
	if s.items[scopeID] == nil {
		s.items[scopeID] = make(map[string]T)
	}
	s.items[scopeID][v.Key()] = v
}

func (s *memStore[T]) Create(_ context.Context, scopeID string, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		var zero T
		return zero, s.saveErr
	}
	s.put(scopeID, v)
	return v, nil
}

func (s *memStore[T]) Update(ctx context.Context, scopeID string, v T) (T, error) {
	return s.Create(ctx, scopeID, v)
}

func (s *memStore[T]) Delete(_ context.Context, scopeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.items[scopeID], id)
	return nil
}

func (s *memStore[T]) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

// experimentStore adds status writes that bump the version like the server.
type experimentStore struct {
	*memStore[experiment.Experiment]
	statusErr error
}

func (s *experimentStore) UpdateStatus(_ context.Context, e experiment.Experiment) (experiment.Experiment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusErr != nil {
		return experiment.Experiment{}, s.statusErr
	}
	e.Version++
	s.put(e.ProjectID, e)
	return e, nil
}
