package trackflow

import (
	taskdao "github.com/govindrajpootecosoul/trackflow/service/dao/task"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
	"github.com/govindrajpootecosoul/trackflow/service/event"
	"github.com/govindrajpootecosoul/trackflow/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service.
type Option func(s *Service)

// WithConfig sets the service configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithConfigURL loads the configuration from the given file during setup.
func WithConfigURL(url string) Option {
	return func(s *Service) {
		s.configURL = url
	}
}

// WithTaskDAO sets the task store.
func WithTaskDAO(dao taskdao.Service) Option {
	return func(s *Service) {
		s.tasks = dao
	}
}

// WithIdentityDirectory sets the identity directory.
func WithIdentityDirectory(identities directory.Identities) Option {
	return func(s *Service) {
		s.identities = identities
	}
}

// WithProjectDirectory sets the project directory.
func WithProjectDirectory(projects directory.Projects) Option {
	return func(s *Service) {
		s.projects = projects
	}
}

// WithEventService sets the event service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise spans are written to the supplied file
// path. The function is safe to call multiple times - the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures tracing with a caller-supplied span
// exporter; handy for capturing spans in tests.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
