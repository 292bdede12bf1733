// Package types holds the error taxonomy shared by the engine's service
// packages. Sentinel variables allow callers to classify failures via
// errors.Is while the wrapped message carries the detail.
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a task, identity or project is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the acting identity fails the
	// authorization policy for the attempted operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a review state machine rule is
	// violated, including the losing side of a transition race.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotReviewer is returned when the actor is not the designated
	// reviewer of the task.
	ErrNotReviewer = errors.New("not the designated reviewer")

	// ErrValidation is returned for malformed input, e.g. an empty title.
	ErrValidation = errors.New("validation failed")
)

// NewNotFoundError wraps ErrNotFound for the given entity.
func NewNotFoundError(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// NewForbiddenError wraps ErrForbidden for an actor/task pair.
func NewForbiddenError(actorID, taskID string) error {
	return fmt.Errorf("identity %s may not modify task %s: %w", actorID, taskID, ErrForbidden)
}

// NewTransitionError wraps ErrInvalidTransition with the attempted move.
func NewTransitionError(taskID, from, to string) error {
	return fmt.Errorf("task %s: %s -> %s: %w", taskID, from, to, ErrInvalidTransition)
}

// NewNotReviewerError wraps ErrNotReviewer for an actor/task pair.
func NewNotReviewerError(actorID, taskID string) error {
	return fmt.Errorf("identity %s on task %s: %w", actorID, taskID, ErrNotReviewer)
}

// NewValidationError wraps ErrValidation; format accepts fmt verbs.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
