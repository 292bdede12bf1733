package review

import (
	"github.com/govindrajpootecosoul/trackflow/model/types"
)

// The engine surfaces the shared error taxonomy; aliased here so callers of
// this package can match without importing model/types.
var (
	ErrNotFound          = types.ErrNotFound
	ErrForbidden         = types.ErrForbidden
	ErrInvalidTransition = types.ErrInvalidTransition
	ErrNotReviewer       = types.ErrNotReviewer
	ErrValidation        = types.ErrValidation
)

func notFoundError(kind, id string) error {
	return types.NewNotFoundError(kind, id)
}

func forbiddenError(actorID, taskID string) error {
	return types.NewForbiddenError(actorID, taskID)
}

func transitionError(taskID string, from, to string) error {
	return types.NewTransitionError(taskID, from, to)
}

func notReviewerError(actorID, taskID string) error {
	return types.NewNotReviewerError(actorID, taskID)
}

func validationError(format string, args ...interface{}) error {
	return types.NewValidationError(format, args...)
}
