package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"

	"github.com/govindrajpootecosoul/trackflow/service/messaging"
)

// Config holds configuration for the filesystem queue.
type Config struct {
	BaseURL    string // base location for queue folders (any afs scheme)
	MaxRetries int
}

// DefaultConfig returns a default filesystem queue configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "/tmp/trackflow/queue",
		MaxRetries: 3,
	}
}

// envelope is the persisted message form.
type envelope[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Retries   int       `json:"retries"`
}

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	envelope envelope[T]
	name     string
	queue    *Queue[T]
	mu       sync.Mutex
	settled  bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.envelope.Data
}

// Ack archives the message.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message already settled")
	}
	m.settled = true
	return m.queue.settle(context.Background(), m, m.queue.archiveDir, nil)
}

// Nack requeues the message for retry, or dead-letters it once the retry
// budget is spent.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message already settled")
	}
	m.settled = true
	m.envelope.Retries++
	if err != nil {
		m.envelope.Error = err.Error()
	}
	dest := m.queue.pendingDir
	if m.envelope.Retries > m.queue.config.MaxRetries {
		dest = m.queue.dlqDir
	}
	return m.queue.settle(context.Background(), m, dest, err)
}

// Queue implements a filesystem-backed messaging.Queue. Messages live as
// JSON documents and move between pending, processing, archive and dlq
// folders, leaving a durable trail of everything that passed through - the
// property the event journal relies on.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	archiveDir    string
	dlqDir        string
	mu            sync.Mutex
}

// NewQueue creates a filesystem queue rooted at config.BaseURL.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultConfig().MaxRetries
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BaseURL, "pending"),
		processingDir: path.Join(config.BaseURL, "processing"),
		archiveDir:    path.Join(config.BaseURL, "archive"),
		dlqDir:        path.Join(config.BaseURL, "dlq"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.archiveDir, q.dlqDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create queue folder %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish appends a message to the pending folder. Filenames embed the
// publication time so consumption follows publish order.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := time.Now()
	env := envelope[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		CreatedAt: now,
		UpdatedAt: now,
	}
	name := fmt.Sprintf("%020d-%s.json", now.UnixNano(), env.ID)
	return q.upload(ctx, path.Join(q.pendingDir, name), &env)
}

// Consume picks the oldest pending message and moves it to the processing
// folder. It returns (nil, nil) when the queue is empty.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var pending []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			pending = append(pending, object)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Name() < pending[j].Name() })
	object := pending[0]

	data, err := q.fs.DownloadWithURL(ctx, object.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", object.URL(), err)
	}
	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		// malformed message goes straight to the dead letter folder
		_ = q.fs.Move(ctx, object.URL(), path.Join(q.dlqDir, "invalid-"+object.Name()))
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", object.URL(), err)
	}
	env.UpdatedAt = time.Now()

	msg := &Message[T]{envelope: env, name: object.Name(), queue: q}
	if err := q.upload(ctx, path.Join(q.processingDir, object.Name()), &env); err != nil {
		return nil, err
	}
	if err := q.fs.Delete(ctx, object.URL()); err != nil {
		return nil, fmt.Errorf("failed to remove message from pending: %w", err)
	}
	return msg, nil
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], destDir string, _ error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	m.envelope.UpdatedAt = time.Now()
	if err := q.upload(ctx, path.Join(destDir, m.name), &m.envelope); err != nil {
		return err
	}
	processingPath := path.Join(q.processingDir, m.name)
	if exists, _ := q.fs.Exists(ctx, processingPath); exists {
		if err := q.fs.Delete(ctx, processingPath); err != nil {
			return fmt.Errorf("failed to remove message from processing: %w", err)
		}
	}
	return nil
}

func (q *Queue[T]) upload(ctx context.Context, dest string, env *envelope[T]) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := q.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewBuffer(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", dest, err)
	}
	return nil
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
