package event

import (
	"context"
	"fmt"
	"log"

	"github.com/viant/afs"
	"github.com/viant/toolbox"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/messaging"
	"github.com/govindrajpootecosoul/trackflow/service/messaging/fs"
	"github.com/govindrajpootecosoul/trackflow/service/messaging/memory"
)

// Service is the event fan-out used by the review engine. Emission is
// fire-and-forget: a publish failure is logged and never propagated to the
// state transition that caused it.
type Service struct {
	publisher    *Publisher[TaskData]
	listener     *Listener[TaskData]
	queueVendor  messaging.Vendor
	fsConfig     func(name string) fs.Config
	memoryConfig func(name string) memory.Config
}

// Option customises the event service.
type Option func(s *Service)

// WithFsQueueConfig sets the filesystem queue configuration factory.
func WithFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsConfig = newConfig
	}
}

// WithMemoryQueueConfig sets the memory queue configuration factory.
func WithMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memoryConfig = newConfig
	}
}

// New creates an event service for the given queue vendor.
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{queueVendor: queueVendor}
	for _, opt := range opts {
		opt(ret)
	}
	queue, err := ret.newQueue("task")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[TaskData](queue)
	return ret, nil
}

func (s *Service) newQueue(name string) (messaging.Queue[Event[TaskData]], error) {
	switch s.queueVendor {
	case messaging.VendorFs:
		if s.fsConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires a queue config")
		}
		return fs.NewQueue[Event[TaskData]](afs.New(), s.fsConfig(name))
	case messaging.VendorMemory:
		if s.memoryConfig == nil {
			s.memoryConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
		return memory.NewQueue[Event[TaskData]](s.memoryConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

// Publisher exposes the underlying task event publisher.
func (s *Service) Publisher() *Publisher[TaskData] { return s.publisher }

// SetListener installs (replacing any previous) a handler consuming task
// events in the background. A nil handler stops the current listener.
func (s *Service) SetListener(handler func(*Event[TaskData])) {
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	if handler == nil {
		return
	}
	s.listener = NewListener[TaskData](s.publisher, handler)
	s.listener.Start()
}

// Emit publishes a task event, rendering the task into a generic payload
// map. Failures are logged only.
func (s *Service) Emit(ctx context.Context, kind Kind, actorID string, task *model.Task) {
	eventContext := &Context{Kind: kind, ActorID: actorID}
	var payload TaskData
	if task != nil {
		eventContext.TaskID = task.ID
		if err := toolbox.DefaultConverter.AssignConverted(&payload, task); err != nil {
			log.Printf("event emit: payload conversion failed for task %v: %v", task.ID, err)
			payload = TaskData{"id": task.ID}
		} else {
			payload = toolbox.DeleteEmptyKeys(payload)
		}
	}
	if err := s.publisher.Publish(ctx, NewEvent(eventContext, payload)); err != nil {
		log.Printf("event emit: publish %v for task %v failed: %v", kind, eventContext.TaskID, err)
	}
}
