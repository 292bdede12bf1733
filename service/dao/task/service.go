package task

import (
	"context"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

// Service is the task store contract. On top of the generic DAO operations
// it exposes Mutate, the per-task serialized read-modify-write primitive the
// review engine relies on: transitions on one task never interleave, while
// unrelated tasks proceed in parallel.
type Service interface {
	dao.Service[string, model.Task]

	// Mutate loads the task, hands a private copy to fn and commits it when
	// fn returns nil. The committed copy (with bumped Version and refreshed
	// UpdatedAt) is returned. Returns dao.ErrNotFound for unknown ids; fn
	// errors abort the commit and surface unchanged.
	Mutate(ctx context.Context, id string, fn func(t *model.Task) error) (*model.Task, error)
}
