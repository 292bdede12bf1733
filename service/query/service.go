// Package query serves paginated, scope-filtered task listings. Each call
// evaluates one consistent snapshot of the task store: the total and the page
// items always describe the same moment.
package query

import (
	"context"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/model/types"
	taskdao "github.com/govindrajpootecosoul/trackflow/service/dao/task"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
	"github.com/govindrajpootecosoul/trackflow/service/scope"
	"github.com/govindrajpootecosoul/trackflow/tracing"
)

// Page is one window of a listing together with the pre-pagination total.
type Page struct {
	Items []*model.Task
	Total int
}

// Service lists tasks through visibility scopes.
type Service struct {
	tasks      taskdao.Service
	identities directory.Identities
	resolver   *scope.Resolver
}

// New returns a query service backed by the supplied task store and
// directories.
func New(tasks taskdao.Service, identities directory.Identities, projects directory.Projects) *Service {
	return &Service{
		tasks:      tasks,
		identities: identities,
		resolver:   scope.NewResolver(identities, projects),
	}
}

// List returns one page of tasks visible to the identity under the named
// scope. Total counts every matching task, not just the returned window; a
// skip past the end yields an empty page with the total intact.
func (s *Service) List(ctx context.Context, name scope.Name, identityID string, filters *scope.Filters, skip, limit int) (*Page, error) {
	ctx, span := tracing.StartSpan(ctx, "query.List", "internal")
	page, err := s.list(ctx, name, identityID, filters, skip, limit)
	tracing.EndSpan(span, err)
	return page, err
}

func (s *Service) list(ctx context.Context, name scope.Name, identityID string, filters *scope.Filters, skip, limit int) (*Page, error) {
	if limit <= 0 {
		return nil, types.NewValidationError("limit must be positive, had %d", limit)
	}
	if skip < 0 {
		return nil, types.NewValidationError("skip must not be negative, had %d", skip)
	}
	identity, err := s.identities.Lookup(ctx, identityID)
	if err != nil {
		return nil, types.NewNotFoundError("identity", identityID)
	}
	predicate, err := s.resolver.Resolve(identity, name, filters)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*model.Task
	for _, task := range snapshot {
		ok, err := predicate(ctx, task)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, task)
		}
	}
	var order scope.Order
	if filters != nil {
		order = filters.Sort
	}
	scope.Sort(matched, order)

	page := &Page{Total: len(matched)}
	if skip >= len(matched) {
		return page, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Items = matched[skip:end]
	return page, nil
}
