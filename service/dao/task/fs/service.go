package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"

	"github.com/govindrajpootecosoul/trackflow/internal/clock"
	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
	"github.com/govindrajpootecosoul/trackflow/service/dao/criteria"
	taskdao "github.com/govindrajpootecosoul/trackflow/service/dao/task"
)

// Service implements a filesystem-backed task store. Tasks are persisted as
// individual JSON documents under basePath through the abstract file system,
// so any afs-supported scheme (file, mem, s3, gs, ...) works. It is the
// auxiliary backend used for seeding, snapshots and the CLI; the in-memory
// store remains the canonical runtime backend.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

var _ taskdao.Service = (*Service)(nil)

// New creates a filesystem task store rooted at basePath.
func New(fs afs.Service, basePath string) *Service {
	return &Service{fs: fs, basePath: basePath}
}

// Save persists a task as a JSON document. Overwriting an existing document
// with a stale Version fails with dao.ErrConflict.
func (s *Service) Save(ctx context.Context, t *model.Task) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, err := s.download(ctx, s.taskPath(t.ID)); err == nil && current.Version != t.Version {
		return dao.ErrConflict
	}
	return s.upload(ctx, t)
}

// Load retrieves a task from the filesystem.
func (s *Service) Load(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.download(ctx, s.taskPath(id))
}

// Delete removes a task document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.taskPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check task %s: %w", id, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete task file %s: %w", filePath, err)
	}
	return nil
}

// List returns all tasks matching the optional parameters.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var out []*model.Task
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.DownloadWithURL(ctx, object.URL())
		if err != nil {
			return nil, fmt.Errorf("failed to read task file %s: %w", object.URL(), err)
		}
		var t model.Task
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task %s: %w", object.URL(), err)
		}
		if !criteria.FilterByStatus(string(t.Status), parameters) {
			continue
		}
		out = append(out, &t)
	}
	return out, nil
}

// Mutate serializes read-modify-write cycles under the store mutex. The
// guarantee is per-store rather than per-task here; acceptable for the
// auxiliary backend.
func (s *Service) Mutate(ctx context.Context, id string, fn func(t *model.Task) error) (*model.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.download(ctx, s.taskPath(id))
	if err != nil {
		return nil, err
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.Version = current.Version + 1
	updated.UpdatedAt = clock.Now()
	if err := s.upload(ctx, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (s *Service) taskPath(id string) string {
	return path.Join(s.basePath, id+".json")
}

func (s *Service) upload(ctx context.Context, t *model.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
	}
	filePath := s.taskPath(t.ID)
	if err := s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save task to file %s: %w", filePath, err)
	}
	return nil
}

func (s *Service) download(ctx context.Context, filePath string) (*model.Task, error) {
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check task file %s: %w", filePath, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file %s: %w", filePath, err)
	}
	var t model.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task data: %w", err)
	}
	return &t, nil
}
