package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

type record struct {
	ID    string
	Value int
}

func newRecordStore() *MemoryStore[string, record] {
	return NewMemoryStore[string, record](
		func(r *record) string { return r.ID },
		func(r *record) *record {
			clone := *r
			return &clone
		},
	)
}

func TestMemoryStore_CRUD(t *testing.T) {
	s := newRecordStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &record{ID: "a", Value: 1}))

	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Value)

	// mutating the loaded copy must not leak into the store
	loaded.Value = 99
	again, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Value)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), dao.ErrNotFound)
	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)
}

func TestMemoryStore_Update(t *testing.T) {
	s := newRecordStore()
	ctx := context.Background()

	// fn receives nil for an absent key and may upsert
	err := s.Update(ctx, "a", func(current *record) (*record, error) {
		require.Nil(t, current)
		return &record{ID: "a", Value: 1}, nil
	})
	require.NoError(t, err)

	// or refuse, leaving the store untouched
	err = s.Update(ctx, "b", func(current *record) (*record, error) {
		if current == nil {
			return nil, dao.ErrNotFound
		}
		return current, nil
	})
	assert.ErrorIs(t, err, dao.ErrNotFound)
	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	// an erroring fn commits nothing
	boom := errors.New("boom")
	err = s.Update(ctx, "a", func(current *record) (*record, error) {
		current.Value = 42
		return current, boom
	})
	assert.ErrorIs(t, err, boom)
	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Value)

	// committing nil is refused
	err = s.Update(ctx, "a", func(current *record) (*record, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, dao.ErrNilEntity)
}

func TestMemoryStore_UpdateSerializesWriters(t *testing.T) {
	s := newRecordStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &record{ID: "a"}))

	const writers = 32
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, "a", func(current *record) (*record, error) {
				current.Value++
				return current, nil
			})
		}()
	}
	wg.Wait()

	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, writers, loaded.Value)
}
