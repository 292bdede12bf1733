// Package review implements the task review workflow engine: task mutations
// guarded by the authorization policy and the per-task review state machine
//
//	NONE -> REVIEW_REQUESTED -> UNDER_REVIEW -> {APPROVED, REJECTED} -> NONE
//
// All transitions are applied atomically per task through the task store's
// Mutate primitive; two racing transitions resolve first-writer-wins with
// the loser receiving ErrInvalidTransition. Every committed mutation emits a
// fire-and-forget event.
package review
