package scope

import (
	"context"
	"strings"

	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/model/types"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
	"github.com/govindrajpootecosoul/trackflow/service/dao/criteria"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
)

// Name identifies a visibility scope.
type Name string

const (
	// Mine lists tasks the identity is assigned to.
	Mine Name = "mine"
	// Team lists tasks worked on by anyone in the identity's department.
	Team Name = "team"
	// Review lists tasks the identity is actively reviewing.
	Review Name = "review"
	// OtherDepartment lists tasks of foreign-department projects; super
	// admins only.
	OtherDepartment Name = "otherDepartment"
)

// Filters are secondary conditions AND-composed with the scope predicate.
type Filters struct {
	// Status matches the working status; a '!' prefix negates.
	Status string
	// AssigneeIDs matches tasks assigned to any of the listed identities.
	AssigneeIDs []string
	// ProjectID matches tasks of one project.
	ProjectID string
	// Department refines the team and otherDepartment scopes.
	Department string
	// Query is a case-insensitive substring matched against title,
	// description, brand, tags and project name.
	Query string
	// Sort overrides the default newest-first order.
	Sort Order
}

// Order names a sort order.
type Order string

const (
	// SortNewest orders by descending creation time, ties broken by id for
	// determinism.
	SortNewest Order = "newest"
	// SortAlphabetical orders by case-insensitive title.
	SortAlphabetical Order = "alphabetical"
)

// Predicate decides whether a task is visible. It may consult the
// directories; lookups are memoized per resolved predicate, so a predicate
// is cheap to apply across a snapshot but not safe for concurrent use.
type Predicate func(ctx context.Context, task *model.Task) (bool, error)

// Resolver computes scope predicates. Department membership is joined
// against the identity directory at query time rather than denormalized
// onto tasks, so an identity that changes teams is never stale.
type Resolver struct {
	identities directory.Identities
	projects   directory.Projects
}

// NewResolver creates a resolver over the supplied directories.
func NewResolver(identities directory.Identities, projects directory.Projects) *Resolver {
	return &Resolver{identities: identities, projects: projects}
}

// Resolve returns the combined scope+filter predicate for the identity.
func (r *Resolver) Resolve(identity *model.Identity, name Name, filters *Filters) (Predicate, error) {
	if identity == nil {
		return nil, types.NewValidationError("identity is required")
	}
	if filters == nil {
		filters = &Filters{}
	}

	var base Predicate
	switch name {
	case Mine:
		// tasks the identity works on or created
		base = func(_ context.Context, task *model.Task) (bool, error) {
			return task.HasAssignee(identity.ID) || task.CreatedBy == identity.ID, nil
		}
	case Team:
		base = r.teamPredicate(identity, filters)
	case Review:
		base = func(_ context.Context, task *model.Task) (bool, error) {
			return task.ReviewStatusOrNone() == model.ReviewUnder &&
				task.Review.Reviewer == identity.ID, nil
		}
	case OtherDepartment:
		if identity.Role != model.RoleSuperAdmin {
			return nil, types.NewForbiddenError(identity.ID, "scope:"+string(name))
		}
		base = r.otherDepartmentPredicate(filters)
	default:
		return nil, types.NewValidationError("unknown scope %q", string(name))
	}

	secondary := r.filterPredicate(filters)
	return func(ctx context.Context, task *model.Task) (bool, error) {
		ok, err := base(ctx, task)
		if err != nil || !ok {
			return false, err
		}
		return secondary(ctx, task)
	}, nil
}

// teamPredicate matches tasks with at least one assignee from the target
// department - "people I work alongside", not just the identity's own tasks.
// Super admins with an explicit department filter inspect that department
// instead of their own.
func (r *Resolver) teamPredicate(identity *model.Identity, filters *Filters) Predicate {
	department := identity.Department
	if identity.Role == model.RoleSuperAdmin && filters.Department != "" {
		department = filters.Department
	}
	departments := map[string]string{}
	return func(ctx context.Context, task *model.Task) (bool, error) {
		for _, assigneeID := range task.Assignees {
			assigneeDept, ok := departments[assigneeID]
			if !ok {
				assignee, err := r.identities.Lookup(ctx, assigneeID)
				if err != nil {
					// unknown assignees cannot vouch for a department
					departments[assigneeID] = ""
					continue
				}
				assigneeDept = assignee.Department
				departments[assigneeID] = assigneeDept
			}
			if assigneeDept != "" && strings.EqualFold(assigneeDept, department) {
				return true, nil
			}
		}
		return false, nil
	}
}

func (r *Resolver) otherDepartmentPredicate(filters *Filters) Predicate {
	projects := map[string]*model.Project{}
	lookup := func(ctx context.Context, id string) *model.Project {
		if project, ok := projects[id]; ok {
			return project
		}
		project, err := r.projects.Lookup(ctx, id)
		if err != nil {
			project = nil
		}
		projects[id] = project
		return project
	}
	return func(ctx context.Context, task *model.Task) (bool, error) {
		if task.ProjectID == "" {
			return false, nil
		}
		project := lookup(ctx, task.ProjectID)
		if project == nil || project.Department == "" {
			return false, nil
		}
		if filters.Department != "" {
			return strings.EqualFold(project.Department, filters.Department), nil
		}
		return true, nil
	}
}

func (r *Resolver) filterPredicate(filters *Filters) Predicate {
	projectNames := map[string]string{}
	projectName := func(ctx context.Context, id string) string {
		if name, ok := projectNames[id]; ok {
			return name
		}
		name := ""
		if project, err := r.projects.Lookup(ctx, id); err == nil {
			name = project.Name
		}
		projectNames[id] = name
		return name
	}
	query := strings.ToLower(strings.TrimSpace(filters.Query))

	return func(ctx context.Context, task *model.Task) (bool, error) {
		if filters.Status != "" {
			if !criteria.FilterByStatus(string(task.Status), []*dao.Parameter{dao.NewParameter("Status", filters.Status)}) {
				return false, nil
			}
		}
		if len(filters.AssigneeIDs) > 0 {
			matched := false
			for _, id := range filters.AssigneeIDs {
				if task.HasAssignee(id) {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
		}
		if filters.ProjectID != "" && task.ProjectID != filters.ProjectID {
			return false, nil
		}
		if query != "" {
			haystack := []string{task.Title, task.Description, task.Brand}
			haystack = append(haystack, task.Tags...)
			if task.ProjectID != "" {
				haystack = append(haystack, projectName(ctx, task.ProjectID))
			}
			matched := false
			for _, candidate := range haystack {
				if strings.Contains(strings.ToLower(candidate), query) {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil
	}
}
