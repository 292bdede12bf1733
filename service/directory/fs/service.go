package fs

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
)

// Service loads identity and project fixtures from YAML documents through
// the abstract file system and serves lookups from the parsed snapshot.
// Expected layout under baseURL: identities.yaml and projects.yaml, each a
// YAML sequence of records. Reload replaces the snapshot wholesale, so a
// moved identity never leaves stale department data behind.
type Service struct {
	fs      afs.Service
	baseURL string

	mu         sync.RWMutex
	identities map[string]*model.Identity
	projects   map[string]*model.Project
}

var _ directory.Identities = (*Service)(nil)

// New creates a fixture-backed directory rooted at baseURL; it performs the
// initial load eagerly.
func New(ctx context.Context, fs afs.Service, baseURL string) (*Service, error) {
	ret := &Service{
		fs:         fs,
		baseURL:    baseURL,
		identities: map[string]*model.Identity{},
		projects:   map[string]*model.Project{},
	}
	if err := ret.Reload(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

// Reload re-reads both fixture documents.
func (s *Service) Reload(ctx context.Context) error {
	var identities []*model.Identity
	if err := s.decode(ctx, "identities.yaml", &identities); err != nil {
		return err
	}
	var projects []*model.Project
	if err := s.decode(ctx, "projects.yaml", &projects); err != nil {
		return err
	}

	byIdentity := make(map[string]*model.Identity, len(identities))
	for _, identity := range identities {
		byIdentity[identity.ID] = identity
	}
	byProject := make(map[string]*model.Project, len(projects))
	for _, project := range projects {
		byProject[project.ID] = project
	}

	s.mu.Lock()
	s.identities = byIdentity
	s.projects = byProject
	s.mu.Unlock()
	return nil
}

func (s *Service) decode(ctx context.Context, name string, target interface{}) error {
	URL := url.Join(s.baseURL, name)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", URL, err)
	}
	if !exists {
		// missing fixture file means empty directory section
		return nil
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", URL, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", URL, err)
	}
	return nil
}

// Lookup resolves an identity by id.
func (s *Service) Lookup(_ context.Context, id string) (*model.Identity, error) {
	s.mu.RLock()
	identity, ok := s.identities[id]
	s.mu.RUnlock()
	if !ok {
		return nil, directory.ErrNotFound
	}
	ret := *identity
	return &ret, nil
}

// LookupProject resolves a project by id.
func (s *Service) LookupProject(_ context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	project, ok := s.projects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, directory.ErrNotFound
	}
	ret := *project
	return &ret, nil
}

// ProjectView adapts the service to the directory.Projects interface.
func (s *Service) ProjectView() directory.Projects { return projectView{s} }

type projectView struct{ s *Service }

func (v projectView) Lookup(ctx context.Context, id string) (*model.Project, error) {
	return v.s.LookupProject(ctx, id)
}
