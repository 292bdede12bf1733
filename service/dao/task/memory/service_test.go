package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

func TestService_CRUD(t *testing.T) {
	svc := New()
	ctx := context.Background()

	task := &model.Task{ID: "t1", Title: "draft report", Status: model.StatusYTS}
	require.NoError(t, svc.Save(ctx, task))

	loaded, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, task.Title, loaded.Title)

	// mutating the loaded copy must not leak into the store
	loaded.Title = "changed"
	again, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "draft report", again.Title)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, svc.Delete(ctx, "t1"))
	_, err = svc.Load(ctx, "t1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_ListByStatus(t *testing.T) {
	svc := New()
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, &model.Task{ID: "a", Title: "a", Status: model.StatusCompleted}))
	require.NoError(t, svc.Save(ctx, &model.Task{ID: "b", Title: "b", Status: model.StatusInProgress}))

	completed, err := svc.List(ctx, dao.NewParameter("Status", "COMPLETED"))
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	others, err := svc.List(ctx, dao.NewParameter("Status", "!COMPLETED"))
	require.NoError(t, err)
	assert.Len(t, others, 1)
	assert.Equal(t, "b", others[0].ID)
}

func TestService_Mutate(t *testing.T) {
	svc := New()
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusYTS}))

	updated, err := svc.Mutate(ctx, "t1", func(task *model.Task) error {
		task.Status = model.StatusInProgress
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, updated.Status)
	assert.Equal(t, int64(1), updated.Version)

	// failed mutation leaves the record untouched
	boom := errors.New("boom")
	_, err = svc.Mutate(ctx, "t1", func(task *model.Task) error {
		task.Status = model.StatusCompleted
		return boom
	})
	assert.ErrorIs(t, err, boom)

	current, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, current.Status)
	assert.Equal(t, int64(1), current.Version)

	_, err = svc.Mutate(ctx, "missing", func(*model.Task) error { return nil })
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_MutateSerializesWriters(t *testing.T) {
	svc := New()
	ctx := context.Background()
	require.NoError(t, svc.Save(ctx, &model.Task{ID: "t1", Title: "x"}))

	const writers = 32
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, _ = svc.Mutate(ctx, "t1", func(task *model.Task) error {
				task.Tags = append(task.Tags, "hit")
				return nil
			})
		}()
	}
	wg.Wait()

	current, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, current.Tags, writers)
	assert.Equal(t, int64(writers), current.Version)
}

func TestService_SaveVersionConflict(t *testing.T) {
	svc := New()
	ctx := context.Background()

	stale := &model.Task{ID: "t1", Title: "x", Status: model.StatusYTS}
	require.NoError(t, svc.Save(ctx, stale))

	_, err := svc.Mutate(ctx, "t1", func(task *model.Task) error {
		task.Title = "y"
		return nil
	})
	require.NoError(t, err)

	// writing back the pre-mutation snapshot loses against the newer version
	assert.ErrorIs(t, svc.Save(ctx, stale), dao.ErrConflict)

	// a fresh read carries the current version and saves cleanly
	current, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	current.Brand = "acme"
	assert.NoError(t, svc.Save(ctx, current))
}
