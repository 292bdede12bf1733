package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := New(afs.New(), "mem://localhost/trackflow/tasks-crud")

	task := &model.Task{ID: "t1", Title: "draft report", Status: model.StatusYTS}
	require.NoError(t, svc.Save(ctx, task))

	loaded, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "draft report", loaded.Title)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	completed, err := svc.List(ctx, dao.NewParameter("Status", "COMPLETED"))
	require.NoError(t, err)
	assert.Empty(t, completed)

	require.NoError(t, svc.Delete(ctx, "t1"))
	_, err = svc.Load(ctx, "t1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_Mutate(t *testing.T) {
	ctx := context.Background()
	svc := New(afs.New(), "mem://localhost/trackflow/tasks-mutate")

	require.NoError(t, svc.Save(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusYTS}))

	updated, err := svc.Mutate(ctx, "t1", func(task *model.Task) error {
		task.Status = model.StatusInProgress
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, updated.Status)
	assert.Equal(t, int64(1), updated.Version)

	_, err = svc.Mutate(ctx, "missing", func(*model.Task) error { return nil })
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_SaveVersionConflict(t *testing.T) {
	ctx := context.Background()
	svc := New(afs.New(), "mem://localhost/trackflow/tasks-conflict")

	stale := &model.Task{ID: "t1", Title: "x", Status: model.StatusYTS}
	require.NoError(t, svc.Save(ctx, stale))

	_, err := svc.Mutate(ctx, "t1", func(task *model.Task) error {
		task.Title = "y"
		return nil
	})
	require.NoError(t, err)

	// writing back the pre-mutation snapshot loses against the newer version
	assert.ErrorIs(t, svc.Save(ctx, stale), dao.ErrConflict)

	current, err := svc.Load(ctx, "t1")
	require.NoError(t, err)
	current.Brand = "acme"
	assert.NoError(t, svc.Save(ctx, current))
}
