// Package policy holds the authorization rules of the review workflow. It is
// deliberately decoupled from storage and transport: callers resolve the
// acting identity first and ask the policy whether the action may proceed.
package policy

import (
	"github.com/govindrajpootecosoul/trackflow/model"
)

// CanModify reports whether identity may mutate the task. Admins and super
// admins always may; assignees may; the designated reviewer may, but only
// while the task is under review.
func CanModify(identity *model.Identity, task *model.Task) bool {
	if identity == nil || task == nil {
		return false
	}
	if identity.Role.IsAdmin() {
		return true
	}
	if task.HasAssignee(identity.ID) {
		return true
	}
	if task.Review != nil && task.Review.Status == model.ReviewUnder && task.Review.Reviewer == identity.ID {
		return true
	}
	return false
}

// CanRequestReview reports whether identity may open a review request on
// the task. Anyone who may modify it may; so may the creator, who can hand
// work off without keeping an assignment.
func CanRequestReview(identity *model.Identity, task *model.Task) bool {
	if CanModify(identity, task) {
		return true
	}
	return identity != nil && task != nil && task.CreatedBy != "" && task.CreatedBy == identity.ID
}

// IsReviewer reports whether identity is the task's designated reviewer.
func IsReviewer(identityID string, task *model.Task) bool {
	return task != nil && task.Review != nil && task.Review.Reviewer != "" && task.Review.Reviewer == identityID
}
