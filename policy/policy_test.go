package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/govindrajpootecosoul/trackflow/model"
)

func TestCanModify(t *testing.T) {
	task := &model.Task{
		ID:        "t1",
		Assignees: []string{"u2"},
		CreatedBy: "u1",
	}
	underReview := task.Clone()
	underReview.Review = &model.Review{Status: model.ReviewUnder, Reviewer: "u3"}

	requested := task.Clone()
	requested.Review = &model.Review{Status: model.ReviewRequested, Reviewer: "u3"}

	testCases := []struct {
		name     string
		identity *model.Identity
		task     *model.Task
		expect   bool
	}{
		{"admin may", &model.Identity{ID: "x", Role: model.RoleAdmin}, task, true},
		{"super admin may", &model.Identity{ID: "x", Role: model.RoleSuperAdmin}, task, true},
		{"assignee may", &model.Identity{ID: "u2", Role: model.RoleUser}, task, true},
		{"creator alone may not", &model.Identity{ID: "u1", Role: model.RoleUser}, task, false},
		{"stranger may not", &model.Identity{ID: "u9", Role: model.RoleUser}, task, false},
		{"reviewer may while under review", &model.Identity{ID: "u3", Role: model.RoleUser}, underReview, true},
		{"reviewer may not before acceptance", &model.Identity{ID: "u3", Role: model.RoleUser}, requested, false},
		{"nil identity", nil, task, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, CanModify(tc.identity, tc.task))
		})
	}
}

func TestCanRequestReview(t *testing.T) {
	task := &model.Task{
		ID:        "t1",
		Assignees: []string{"u2"},
		CreatedBy: "u1",
	}

	testCases := []struct {
		name     string
		identity *model.Identity
		expect   bool
	}{
		{"creator may", &model.Identity{ID: "u1", Role: model.RoleUser}, true},
		{"assignee may", &model.Identity{ID: "u2", Role: model.RoleUser}, true},
		{"admin may", &model.Identity{ID: "x", Role: model.RoleAdmin}, true},
		{"stranger may not", &model.Identity{ID: "u9", Role: model.RoleUser}, false},
		{"nil identity", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, CanRequestReview(tc.identity, task))
		})
	}
}

func TestIsReviewer(t *testing.T) {
	task := &model.Task{Review: &model.Review{Status: model.ReviewRequested, Reviewer: "u3"}}
	assert.True(t, IsReviewer("u3", task))
	assert.False(t, IsReviewer("u1", task))
	assert.False(t, IsReviewer("", &model.Task{Review: &model.Review{}}))
	assert.False(t, IsReviewer("u3", &model.Task{}))
}
