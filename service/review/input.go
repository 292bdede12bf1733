package review

import (
	"time"

	"github.com/govindrajpootecosoul/trackflow/model"
)

// TaskInput carries the fields of a new task.
type TaskInput struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	StartDate   *time.Time
	DueDate     *time.Time
	ProjectID   string
	Recurrence  string
	Assignees   []string
	Brand       string
	Tags        []string
}

// TaskPatch is a partial task update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	StartDate   *time.Time
	DueDate     *time.Time
	ProjectID   *string
	Recurrence  *string
	Assignees   *[]string
	Brand       *string
	Tags        *[]string
}

func (p *TaskPatch) apply(task *model.Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.StartDate != nil {
		v := *p.StartDate
		task.StartDate = &v
	}
	if p.DueDate != nil {
		v := *p.DueDate
		task.DueDate = &v
	}
	if p.ProjectID != nil {
		task.ProjectID = *p.ProjectID
	}
	if p.Recurrence != nil {
		task.Recurrence = *p.Recurrence
	}
	if p.Assignees != nil {
		task.Assignees = append([]string(nil), (*p.Assignees)...)
	}
	if p.Brand != nil {
		task.Brand = *p.Brand
	}
	if p.Tags != nil {
		task.Tags = append([]string(nil), (*p.Tags)...)
	}
}
