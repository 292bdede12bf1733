package review

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govindrajpootecosoul/trackflow/model"
	taskmem "github.com/govindrajpootecosoul/trackflow/service/dao/task/memory"
	dirmem "github.com/govindrajpootecosoul/trackflow/service/directory/memory"
)

func newTestEngine(t *testing.T) (*Service, *dirmem.Service) {
	t.Helper()
	dir := dirmem.New()
	ctx := context.Background()
	for _, identity := range []*model.Identity{
		{ID: "u1", Name: "Asha", Department: "design", Role: model.RoleUser},
		{ID: "u2", Name: "Ravi", Department: "design", Role: model.RoleUser},
		{ID: "u3", Name: "Mira", Department: "platform", Role: model.RoleUser},
		{ID: "admin", Name: "Root", Department: "ops", Role: model.RoleAdmin},
	} {
		require.NoError(t, dir.AddIdentity(ctx, identity))
	}
	return New(taskmem.New(), dir, nil), dir
}

func createTask(t *testing.T, engine *Service, actorID string, assignees ...string) *model.Task {
	t.Helper()
	task, err := engine.CreateTask(context.Background(), actorID, &TaskInput{
		Title:     "quarterly report",
		Status:    model.StatusInProgress,
		Assignees: assignees,
	})
	require.NoError(t, err)
	return task
}

// assertReviewerInvariant checks the core invariant: a reviewer is
// designated exactly while a request or review is active.
func assertReviewerInvariant(t *testing.T, task *model.Task) {
	t.Helper()
	status := task.ReviewStatusOrNone()
	if status.Active() {
		require.NotNil(t, task.Review)
		assert.NotEmpty(t, task.Review.Reviewer, "active review must have a reviewer")
	} else if task.Review != nil {
		assert.Empty(t, task.Review.Reviewer, "decided review must not keep a reviewer")
	}
}

func TestRequestReviewHappyPath(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	task := createTask(t, engine, "u1", "u2")

	updated, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewRequested, updated.ReviewStatusOrNone())
	assert.Equal(t, model.StatusOnHold, updated.Status)
	assert.Equal(t, "u3", updated.Review.Reviewer)
	assert.Equal(t, "u2", updated.Review.RequestedBy)
	assert.NotNil(t, updated.Review.RequestedAt)
	assert.Equal(t, model.StatusInProgress, updated.Review.PriorTaskStatus)
	assertReviewerInvariant(t, updated)

	accepted, err := engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewUnder, accepted.ReviewStatusOrNone())
	assertReviewerInvariant(t, accepted)

	resolved, err := engine.RespondToReview(ctx, task.ID, "u3", model.ReviewApproved, "ship it")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, resolved.ReviewStatusOrNone())
	assert.Equal(t, "u3", resolved.Review.ReviewedBy)
	assert.NotNil(t, resolved.Review.ReviewedAt)
	assert.Equal(t, "ship it", resolved.Review.Comment)
	// working status stays caller-controlled
	assert.Equal(t, model.StatusOnHold, resolved.Status)
	assertReviewerInvariant(t, resolved)
}

func TestRequestReviewTransitions(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("fails while requested", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.RequestReview(ctx, task.ID, "u2", "u3")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("fails while under review", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)
		_, err = engine.RequestReview(ctx, task.ID, "u2", "u3")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("re-request after decision resets the block", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)
		_, err = engine.RespondToReview(ctx, task.ID, "u3", model.ReviewRejected, "needs work")
		require.NoError(t, err)

		again, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		assert.Equal(t, model.ReviewRequested, again.ReviewStatusOrNone())
		assert.Empty(t, again.Review.ReviewedBy)
		assert.Nil(t, again.Review.ReviewedAt)
		assertReviewerInvariant(t, again)
	})

	t.Run("unknown reviewer", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-assignee requester is forbidden", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u3", "u1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("creator may request without an assignment", func(t *testing.T) {
		// u1 created the task but handed all the work to u2
		task := createTask(t, engine, "u1", "u2")
		require.False(t, task.HasAssignee("u1"))

		updated, err := engine.RequestReview(ctx, task.ID, "u1", "u3")
		require.NoError(t, err)
		assert.Equal(t, model.ReviewRequested, updated.ReviewStatusOrNone())
		assert.Equal(t, model.StatusOnHold, updated.Status)
		assert.Equal(t, "u1", updated.Review.RequestedBy)
		assertReviewerInvariant(t, updated)
	})
}

func TestAcceptReviewRequest(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("decline restores prior status", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)

		declined, err := engine.AcceptReviewRequest(ctx, task.ID, "u3", false)
		require.NoError(t, err)
		assert.Equal(t, model.ReviewNone, declined.ReviewStatusOrNone())
		assert.Equal(t, model.StatusInProgress, declined.Status)
		assertReviewerInvariant(t, declined)
	})

	t.Run("only designated reviewer may answer", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u2", true)
		assert.ErrorIs(t, err, ErrNotReviewer)
	})

	t.Run("decline after accept is invalid", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", false)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("no pending request", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestRespondToReview(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("non-reviewer rejected", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)
		_, err = engine.RespondToReview(ctx, task.ID, "u2", model.ReviewApproved, "")
		assert.ErrorIs(t, err, ErrNotReviewer)
	})

	t.Run("must be under review", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.RespondToReview(ctx, task.ID, "u3", model.ReviewApproved, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("decision must be terminal", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RespondToReview(ctx, task.ID, "u3", model.ReviewRequested, "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCancelReviewRequest(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("requester withdraws before acceptance", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)

		cancelled, err := engine.CancelReviewRequest(ctx, task.ID, "u2")
		require.NoError(t, err)
		assert.Equal(t, model.ReviewNone, cancelled.ReviewStatusOrNone())
		assert.Equal(t, model.StatusInProgress, cancelled.Status)
	})

	t.Run("only the requester may withdraw", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.CancelReviewRequest(ctx, task.ID, "u1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("too late after acceptance", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)
		_, err = engine.CancelReviewRequest(ctx, task.ID, "u2")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestConcurrentAcceptFirstWriterWins(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	task := createTask(t, engine, "u1", "u2")
	_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
	require.NoError(t, err)

	const attempts = 8
	results := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrInvalidTransition):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
}

func TestTaskMutations(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("create validates title", func(t *testing.T) {
		_, err := engine.CreateTask(ctx, "u1", &TaskInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("create validates recurrence", func(t *testing.T) {
		_, err := engine.CreateTask(ctx, "u1", &TaskInput{
			Title:      "standup",
			Status:     model.StatusRecurring,
			Recurrence: "not a cadence",
		})
		assert.ErrorIs(t, err, ErrValidation)

		task, err := engine.CreateTask(ctx, "u1", &TaskInput{
			Title:      "standup",
			Status:     model.StatusRecurring,
			Recurrence: "0 9 * * 1-5",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusRecurring, task.Status)
	})

	t.Run("non-assignee update is forbidden and leaves task unchanged", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		title := "hijacked"
		_, err := engine.UpdateTask(ctx, "u3", task.ID, &TaskPatch{Title: &title})
		assert.ErrorIs(t, err, ErrForbidden)

		current, err := engine.UpdateTask(ctx, "admin", task.ID, &TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, "quarterly report", current.Title)
	})

	t.Run("reviewer may edit while under review", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)

		description := "reviewer notes"
		updated, err := engine.UpdateTask(ctx, "u3", task.ID, &TaskPatch{Description: &description})
		require.NoError(t, err)
		assert.Equal(t, "reviewer notes", updated.Description)
	})

	t.Run("edit after rejection starts a fresh cycle", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.RequestReview(ctx, task.ID, "u2", "u3")
		require.NoError(t, err)
		_, err = engine.AcceptReviewRequest(ctx, task.ID, "u3", true)
		require.NoError(t, err)
		_, err = engine.RespondToReview(ctx, task.ID, "u3", model.ReviewRejected, "redo")
		require.NoError(t, err)

		title := "quarterly report v2"
		updated, err := engine.UpdateTask(ctx, "u2", task.ID, &TaskPatch{Title: &title})
		require.NoError(t, err)
		assert.Nil(t, updated.Review)
	})

	t.Run("delete", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		err := engine.DeleteTask(ctx, "u3", task.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		require.NoError(t, engine.DeleteTask(ctx, "u2", task.ID))
		err = engine.DeleteTask(ctx, "u2", task.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown actor", func(t *testing.T) {
		task := createTask(t, engine, "u1", "u2")
		_, err := engine.UpdateStatus(ctx, "ghost", task.ID, model.StatusCompleted)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
