package model

import (
	"time"
)

// Status represents the working status of a task - its primary lifecycle
// field, distinct from the review status.
type Status string

const (
	StatusYTS        Status = "YTS" //yet to start
	StatusInProgress Status = "IN_PROGRESS"
	StatusOnHold     Status = "ON_HOLD"
	StatusRecurring  Status = "RECURRING"
	StatusCompleted  Status = "COMPLETED"
)

// IsValid reports whether s is one of the known working statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusYTS, StatusInProgress, StatusOnHold, StatusRecurring, StatusCompleted:
		return true
	}
	return false
}

// Priority represents task priority.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task represents a single unit of work together with its review block.
// A task is owned by the task store; callers always operate on copies.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status   `json:"status" yaml:"status"`
	Priority    Priority `json:"priority" yaml:"priority"`

	StartDate *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`

	ProjectID string `json:"projectId,omitempty" yaml:"projectId,omitempty"`

	// Recurrence holds a cron cadence expression for RECURRING tasks.
	Recurrence string `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`

	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	CreatedBy string   `json:"createdBy" yaml:"createdBy"`

	Brand string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	Review *Review `json:"review,omitempty" yaml:"review,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`

	// Version is bumped by the store on every committed mutation; used to
	// detect conflicting writers.
	Version int64 `json:"version" yaml:"version"`
}

// Clone returns a deep copy of the task so that callers can mutate the
// result without racing against the store.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	ret := *t
	if t.StartDate != nil {
		v := *t.StartDate
		ret.StartDate = &v
	}
	if t.DueDate != nil {
		v := *t.DueDate
		ret.DueDate = &v
	}
	if len(t.Assignees) > 0 {
		ret.Assignees = append([]string(nil), t.Assignees...)
	}
	if len(t.Tags) > 0 {
		ret.Tags = append([]string(nil), t.Tags...)
	}
	ret.Review = t.Review.Clone()
	return &ret
}

// HasAssignee reports whether id is among the task assignees.
func (t *Task) HasAssignee(id string) bool {
	for _, candidate := range t.Assignees {
		if candidate == id {
			return true
		}
	}
	return false
}

// ReviewStatusOrNone returns the review status or ReviewNone when no review
// block exists on the current work cycle.
func (t *Task) ReviewStatusOrNone() ReviewStatus {
	if t == nil || t.Review == nil {
		return ReviewNone
	}
	return t.Review.Status
}
