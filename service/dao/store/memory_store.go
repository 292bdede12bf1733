package store

import (
	"context"
	"sync"

	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service. It keeps
// entities of type *T mapped by a comparable key K. The key is obtained from
// the supplied keySelector function and every read/write goes through the
// optional cloner so callers never share memory with the store.
//
// Concrete DAOs embed the store to avoid rewriting identical
// Save/Load/Delete/List logic for every entity type; higher-level DAOs can
// still override List when they need parameter filtering.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	cloner      func(*T) *T
}

// NewMemoryStore creates a new MemoryStore. keySelector extracts the entity
// key (usually the ID field) from a value; cloner may be nil, in which case
// records are shared by reference.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, cloner func(*T) *T) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
		cloner:      cloner,
	}
}

func (s *MemoryStore[K, T]) clone(v *T) *T {
	if v == nil || s.cloner == nil {
		return v
	}
	return s.cloner(v)
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.clone(v)
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.clone(v), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns all stored records as one consistent snapshot.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, s.clone(v))
	}
	return out, nil
}

// Update applies fn to the record under the store lock, serializing all
// mutations of the same key. fn receives a private copy (nil when the key
// does not exist, letting fn decide between upsert and dao.ErrNotFound) and
// returns the value to commit. Nothing is committed when fn errors.
func (s *MemoryStore[K, T]) Update(_ context.Context, key K, fn func(current *T) (*T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := fn(s.clone(s.records[key]))
	if err != nil {
		return err
	}
	if updated == nil {
		return dao.ErrNilEntity
	}
	s.records[key] = s.clone(updated)
	return nil
}
