package memory

import (
	"context"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/dao/store"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
)

func identityKey(i *model.Identity) string { return i.ID }
func projectKey(p *model.Project) string   { return p.ID }

func cloneIdentity(i *model.Identity) *model.Identity {
	if i == nil {
		return nil
	}
	ret := *i
	return &ret
}

func cloneProject(p *model.Project) *model.Project {
	if p == nil {
		return nil
	}
	ret := *p
	return &ret
}

// Service is an in-memory identity and project directory, intended for tests
// and embedded deployments where the external directory is pre-resolved.
type Service struct {
	identities *store.MemoryStore[string, model.Identity]
	projects   *store.MemoryStore[string, model.Project]
}

var (
	_ directory.Identities = (*Service)(nil)
	_ directory.Projects   = (projectView{})
)

// New creates an empty directory.
func New() *Service {
	return &Service{
		identities: store.NewMemoryStore[string, model.Identity](identityKey, cloneIdentity),
		projects:   store.NewMemoryStore[string, model.Project](projectKey, cloneProject),
	}
}

// AddIdentity registers (or replaces) an identity.
func (s *Service) AddIdentity(ctx context.Context, identity *model.Identity) error {
	return s.identities.Save(ctx, identity)
}

// AddProject registers (or replaces) a project.
func (s *Service) AddProject(ctx context.Context, project *model.Project) error {
	return s.projects.Save(ctx, project)
}

// Lookup resolves an identity by id.
func (s *Service) Lookup(ctx context.Context, id string) (*model.Identity, error) {
	identity, err := s.identities.Load(ctx, id)
	if err != nil {
		return nil, directory.ErrNotFound
	}
	return identity, nil
}

// LookupProject resolves a project by id.
func (s *Service) LookupProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.Load(ctx, id)
	if err != nil {
		return nil, directory.ErrNotFound
	}
	return project, nil
}

// ProjectView adapts the service to the directory.Projects interface.
func (s *Service) ProjectView() directory.Projects { return projectView{s} }

type projectView struct{ s *Service }

func (v projectView) Lookup(ctx context.Context, id string) (*model.Project, error) {
	return v.s.LookupProject(ctx, id)
}
