package memory

import (
	"context"

	"github.com/govindrajpootecosoul/trackflow/internal/clock"
	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
	"github.com/govindrajpootecosoul/trackflow/service/dao/criteria"
	"github.com/govindrajpootecosoul/trackflow/service/dao/store"
	taskdao "github.com/govindrajpootecosoul/trackflow/service/dao/task"
)

// Service implements an in-memory, thread-safe task store on top of the
// generic memory store. All API methods work with copies to eliminate data
// races between goroutines; a reader can observe the pre- or post-state of
// an in-flight mutation but never a partially applied one.
type Service struct {
	store *store.MemoryStore[string, model.Task]
}

var _ taskdao.Service = (*Service)(nil)

// New creates an empty in-memory task store.
func New() *Service {
	return &Service{
		store: store.NewMemoryStore[string, model.Task](
			func(t *model.Task) string { return t.ID },
			func(t *model.Task) *model.Task { return t.Clone() },
		),
	}
}

// Save persists (a clone of) the supplied task. Overwriting an existing
// task with a stale Version fails with dao.ErrConflict.
func (s *Service) Save(ctx context.Context, t *model.Task) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.ID == "" {
		return dao.ErrInvalidID
	}
	return s.store.Update(ctx, t.ID, func(current *model.Task) (*model.Task, error) {
		if current != nil && current.Version != t.Version {
			return nil, dao.ErrConflict
		}
		return t, nil
	})
}

// Load retrieves a copy of the task or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.store.Load(ctx, id)
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	return s.store.Delete(ctx, id)
}

// List returns clones of all tasks matching the optional parameters. The
// snapshot is assembled under one store lock, then filtered, so it is
// consistent.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Task, error) {
	snapshot, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Task, 0, len(snapshot))
	for _, t := range snapshot {
		if !criteria.FilterByStatus(string(t.Status), parameters) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Mutate serializes all mutations of one task id under the store lock.
// First writer wins: a second transition attempted on the same task sees the
// already-moved state and fails inside fn.
func (s *Service) Mutate(ctx context.Context, id string, fn func(t *model.Task) error) (*model.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	var updated *model.Task
	err := s.store.Update(ctx, id, func(current *model.Task) (*model.Task, error) {
		if current == nil {
			return nil, dao.ErrNotFound
		}
		prior := current.Version
		if err := fn(current); err != nil {
			return nil, err
		}
		current.Version = prior + 1
		current.UpdatedAt = clock.Now()
		updated = current
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
