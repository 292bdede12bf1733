package trackflow

import (
	"context"
	"fmt"

	taskdao "github.com/govindrajpootecosoul/trackflow/service/dao/task"
	taskmem "github.com/govindrajpootecosoul/trackflow/service/dao/task/memory"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
	dirmem "github.com/govindrajpootecosoul/trackflow/service/directory/memory"
	"github.com/govindrajpootecosoul/trackflow/service/event"
	"github.com/govindrajpootecosoul/trackflow/service/messaging"
	mfs "github.com/govindrajpootecosoul/trackflow/service/messaging/fs"
	"github.com/govindrajpootecosoul/trackflow/service/query"
	"github.com/govindrajpootecosoul/trackflow/service/review"
	"github.com/govindrajpootecosoul/trackflow/service/scope"
	"github.com/govindrajpootecosoul/trackflow/tracing"
	"github.com/viant/afs/url"
)

// Service is the high-level facade wiring the review engine, the query
// service and the event journal over one task store.
type Service struct {
	config       *Config
	configURL    string
	tasks        taskdao.Service
	identities   directory.Identities
	projects     directory.Projects
	memDirectory *dirmem.Service
	events       *event.Service
	engine       *review.Service
	query        *query.Service
}

// New creates a service; omitted collaborators fall back to in-memory
// implementations.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	s.engine = review.New(s.tasks, s.identities, s.events)
	s.query = query.New(s.tasks, s.identities, s.projects)
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil && s.configURL != "" {
		config, err := LoadConfig(s.configURL)
		if err != nil {
			return err
		}
		s.config = config
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.tasks == nil {
		s.tasks = taskmem.New()
	}
	if s.identities == nil || s.projects == nil {
		if s.memDirectory == nil {
			s.memDirectory = dirmem.New()
		}
		if s.identities == nil {
			s.identities = s.memDirectory
		}
		if s.projects == nil {
			s.projects = s.memDirectory.ProjectView()
		}
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, "", s.config.Tracing.OutputFile); err != nil {
			return err
		}
	}
	if s.events == nil {
		events, err := s.newEventService()
		if err != nil {
			return err
		}
		s.events = events
	}
	return nil
}

func (s *Service) newEventService() (*event.Service, error) {
	switch s.config.Events.Vendor {
	case "fs":
		journalURL := s.config.Events.JournalURL
		return event.New(messaging.VendorFs, event.WithFsQueueConfig(func(name string) mfs.Config {
			config := mfs.DefaultConfig()
			config.BaseURL = url.Join(journalURL, name)
			return config
		}))
	case "memory":
		return event.New(messaging.VendorMemory)
	}
	return nil, fmt.Errorf("unsupported events.vendor: %q", s.config.Events.Vendor)
}

// Engine exposes the review workflow engine.
func (s *Service) Engine() *review.Service { return s.engine }

// Query exposes the scoped listing service.
func (s *Service) Query() *query.Service { return s.query }

// Events exposes the event service.
func (s *Service) Events() *event.Service { return s.events }

// Tasks exposes the underlying task store.
func (s *Service) Tasks() taskdao.Service { return s.tasks }

// MemoryDirectory returns the default in-memory directory, or nil when the
// directories were supplied externally. Useful for seeding identities in
// tests and tooling.
func (s *Service) MemoryDirectory() *dirmem.Service { return s.memDirectory }

// ListTasks lists tasks through the query service, clamping the page size
// to the configured bounds. A non-positive limit selects the default.
func (s *Service) ListTasks(ctx context.Context, name scope.Name, identityID string, filters *scope.Filters, skip, limit int) (*query.Page, error) {
	if limit <= 0 {
		limit = s.config.Query.DefaultLimit
	}
	if limit > s.config.Query.MaxLimit {
		limit = s.config.Query.MaxLimit
	}
	return s.query.List(ctx, name, identityID, filters, skip, limit)
}

// Shutdown stops background listeners.
func (s *Service) Shutdown() {
	if s.events != nil {
		s.events.SetListener(nil)
	}
}
