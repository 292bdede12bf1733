package directory

import (
	"context"
	"errors"

	"github.com/govindrajpootecosoul/trackflow/model"
)

// ErrNotFound is returned when the directory has no entry for the id.
var ErrNotFound = errors.New("directory: not found")

// Identities resolves actor identities. The engine consumes it read-only;
// ownership of the data stays with the external directory.
type Identities interface {
	Lookup(ctx context.Context, id string) (*model.Identity, error)
}

// Projects resolves project references used as filter keys.
type Projects interface {
	Lookup(ctx context.Context, id string) (*model.Project, error)
}
