package fs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/govindrajpootecosoul/trackflow/service/directory"
)

const identitiesYAML = `
- id: u1
  name: Asha
  email: asha@example.com
  department: design
  role: USER
- id: u2
  name: Ravi
  email: ravi@example.com
  department: design
  role: ADMIN
`

const projectsYAML = `
- id: p1
  name: Website refresh
  department: design
`

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fileSystem := afs.New()
	baseURL := "mem://localhost/trackflow/directory"

	err := fileSystem.Upload(ctx, baseURL+"/identities.yaml", file.DefaultFileOsMode, strings.NewReader(identitiesYAML))
	require.NoError(t, err)
	err = fileSystem.Upload(ctx, baseURL+"/projects.yaml", file.DefaultFileOsMode, strings.NewReader(projectsYAML))
	require.NoError(t, err)

	svc, err := New(ctx, fileSystem, baseURL)
	require.NoError(t, err)

	identity, err := svc.Lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "design", identity.Department)

	_, err = svc.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	project, err := svc.ProjectView().Lookup(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Website refresh", project.Name)
}

func TestService_MissingFixturesMeanEmpty(t *testing.T) {
	ctx := context.Background()
	svc, err := New(ctx, afs.New(), "mem://localhost/trackflow/empty")
	require.NoError(t, err)

	_, err = svc.Lookup(ctx, "u1")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}
