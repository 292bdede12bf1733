package review

import (
	"context"
	"errors"

	"github.com/govindrajpootecosoul/trackflow/internal/clock"
	"github.com/govindrajpootecosoul/trackflow/internal/idgen"
	"github.com/govindrajpootecosoul/trackflow/model"
	"github.com/govindrajpootecosoul/trackflow/policy"
	"github.com/govindrajpootecosoul/trackflow/service/dao"
	taskdao "github.com/govindrajpootecosoul/trackflow/service/dao/task"
	"github.com/govindrajpootecosoul/trackflow/service/directory"
	"github.com/govindrajpootecosoul/trackflow/service/event"
	"github.com/govindrajpootecosoul/trackflow/service/recurrence"
	"github.com/govindrajpootecosoul/trackflow/tracing"
)

// Service is the review workflow engine: the single write path for tasks and
// their review blocks.
type Service struct {
	tasks      taskdao.Service
	identities directory.Identities
	events     *event.Service
}

// New creates the engine. events may be nil, in which case no events are
// emitted (useful in tests).
func New(tasks taskdao.Service, identities directory.Identities, events *event.Service) *Service {
	return &Service{tasks: tasks, identities: identities, events: events}
}

func (s *Service) emit(ctx context.Context, kind event.Kind, actorID string, task *model.Task) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, kind, actorID, task)
}

func (s *Service) identity(ctx context.Context, id string) (*model.Identity, error) {
	if id == "" {
		return nil, validationError("actor id is empty")
	}
	identity, err := s.identities.Lookup(ctx, id)
	if err != nil {
		return nil, notFoundError("identity", id)
	}
	return identity, nil
}

func mapTaskErr(id string, err error) error {
	if errors.Is(err, dao.ErrNotFound) {
		return notFoundError("task", id)
	}
	return err
}

// CreateTask validates the input and persists a new task. Any known
// identity may create tasks, optionally pre-assigned.
func (s *Service) CreateTask(ctx context.Context, actorID string, input *TaskInput) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.createTask", "INTERNAL")
	task, err := s.createTask(ctx, actorID, input)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) createTask(ctx context.Context, actorID string, input *TaskInput) (*model.Task, error) {
	if _, err := s.identity(ctx, actorID); err != nil {
		return nil, err
	}
	if input == nil || input.Title == "" {
		return nil, validationError("task title is required")
	}
	status := input.Status
	if status == "" {
		status = model.StatusYTS
	}
	if !status.IsValid() {
		return nil, validationError("unknown status %q", string(status))
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, validationError("unknown priority %q", string(priority))
	}
	if status == model.StatusRecurring {
		if err := recurrence.Validate(input.Recurrence); err != nil {
			return nil, validationError("recurring task needs a valid cadence (%v)", err)
		}
	}

	now := clock.Now()
	task := &model.Task{
		ID:          idgen.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		Recurrence:  input.Recurrence,
		Assignees:   append([]string(nil), input.Assignees...),
		CreatedBy:   actorID,
		Brand:       input.Brand,
		Tags:        append([]string(nil), input.Tags...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	s.emit(ctx, event.TaskCreated, actorID, task)
	return task.Clone(), nil
}

// UpdateTask applies a partial update. An edit after a REJECTED decision
// starts a fresh work cycle: the decided review block is cleared.
func (s *Service) UpdateTask(ctx context.Context, actorID, taskID string, patch *TaskPatch) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.updateTask", "INTERNAL")
	task, err := s.updateTask(ctx, actorID, taskID, patch)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) updateTask(ctx context.Context, actorID, taskID string, patch *TaskPatch) (*model.Task, error) {
	actor, err := s.identity(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, validationError("empty patch")
	}
	updated, err := s.tasks.Mutate(ctx, taskID, func(task *model.Task) error {
		if !policy.CanModify(actor, task) {
			return forbiddenError(actorID, taskID)
		}
		patch.apply(task)
		if task.Title == "" {
			return validationError("task title is required")
		}
		if task.Status == model.StatusRecurring {
			if err := recurrence.Validate(task.Recurrence); err != nil {
				return validationError("recurring task needs a valid cadence (%v)", err)
			}
		}
		if task.ReviewStatusOrNone() == model.ReviewRejected {
			task.Review = nil
		}
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(taskID, err)
	}
	s.emit(ctx, event.TaskUpdated, actorID, updated)
	return updated, nil
}

// UpdateStatus performs a quick working-status change.
func (s *Service) UpdateStatus(ctx context.Context, actorID, taskID string, status model.Status) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.updateStatus", "INTERNAL")
	task, err := s.updateStatus(ctx, actorID, taskID, status)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) updateStatus(ctx context.Context, actorID, taskID string, status model.Status) (*model.Task, error) {
	actor, err := s.identity(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, validationError("unknown status %q", string(status))
	}
	updated, err := s.tasks.Mutate(ctx, taskID, func(task *model.Task) error {
		if !policy.CanModify(actor, task) {
			return forbiddenError(actorID, taskID)
		}
		if status == model.StatusRecurring {
			if err := recurrence.Validate(task.Recurrence); err != nil {
				return validationError("recurring task needs a valid cadence (%v)", err)
			}
		}
		task.Status = status
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(taskID, err)
	}
	s.emit(ctx, event.TaskUpdated, actorID, updated)
	return updated, nil
}

// Complete marks the task COMPLETED. It is a plain status change; resolving
// an open review stays a separate, explicit operation.
func (s *Service) Complete(ctx context.Context, actorID, taskID string) (*model.Task, error) {
	return s.UpdateStatus(ctx, actorID, taskID, model.StatusCompleted)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, actorID, taskID string) error {
	ctx, span := tracing.StartSpan(ctx, "review.deleteTask", "INTERNAL")
	err := s.deleteTask(ctx, actorID, taskID)
	tracing.EndSpan(span, err)
	return err
}

func (s *Service) deleteTask(ctx context.Context, actorID, taskID string) error {
	actor, err := s.identity(ctx, actorID)
	if err != nil {
		return err
	}
	task, err := s.tasks.Load(ctx, taskID)
	if err != nil {
		return mapTaskErr(taskID, err)
	}
	if !policy.CanModify(actor, task) {
		return forbiddenError(actorID, taskID)
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return mapTaskErr(taskID, err)
	}
	s.emit(ctx, event.TaskDeleted, actorID, task)
	return nil
}

// RequestReview opens a review cycle: the task freezes ON_HOLD and the
// designated reviewer is invited. Allowed while no review is active or after
// a previous decision; re-requesting resets the decided block.
func (s *Service) RequestReview(ctx context.Context, taskID, requesterID, reviewerID string) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.requestReview", "INTERNAL")
	task, err := s.requestReview(ctx, taskID, requesterID, reviewerID)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) requestReview(ctx context.Context, taskID, requesterID, reviewerID string) (*model.Task, error) {
	requester, err := s.identity(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if reviewerID == "" {
		return nil, validationError("reviewer id is required")
	}
	if _, err := s.identities.Lookup(ctx, reviewerID); err != nil {
		return nil, notFoundError("identity", reviewerID)
	}

	updated, err := s.tasks.Mutate(ctx, taskID, func(task *model.Task) error {
		if !policy.CanRequestReview(requester, task) {
			return forbiddenError(requesterID, taskID)
		}
		if current := task.ReviewStatusOrNone(); current.Active() {
			return transitionError(taskID, string(current), string(model.ReviewRequested))
		}
		task.Review = &model.Review{
			Status:          model.ReviewRequested,
			RequestedBy:     requesterID,
			RequestedAt:     clock.NowPtr(),
			Reviewer:        reviewerID,
			PriorTaskStatus: task.Status,
		}
		// work must not continue while the request is pending acceptance
		task.Status = model.StatusOnHold
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(taskID, err)
	}
	s.emit(ctx, event.ReviewRequested, requesterID, updated)
	return updated, nil
}

// AcceptReviewRequest is the reviewer's answer to an invitation. Accepting
// moves the task UNDER_REVIEW and grants the reviewer edit rights alongside
// the assignees; declining clears the block and restores the working status
// the task had before the request.
func (s *Service) AcceptReviewRequest(ctx context.Context, taskID, reviewerID string, accept bool) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.acceptReviewRequest", "INTERNAL")
	task, err := s.acceptReviewRequest(ctx, taskID, reviewerID, accept)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) acceptReviewRequest(ctx context.Context, taskID, reviewerID string, accept bool) (*model.Task, error) {
	var kind event.Kind
	updated, err := s.tasks.Mutate(ctx, taskID, func(task *model.Task) error {
		if task.Review == nil {
			return transitionError(taskID, "NONE", string(model.ReviewUnder))
		}
		if !policy.IsReviewer(reviewerID, task) {
			return notReviewerError(reviewerID, taskID)
		}
		if task.Review.Status != model.ReviewRequested {
			return transitionError(taskID, string(task.Review.Status), string(model.ReviewUnder))
		}
		if accept {
			task.Review.Status = model.ReviewUnder
			kind = event.ReviewAccepted
			return nil
		}
		task.Status = task.Review.PriorTaskStatus
		task.Review = nil
		kind = event.ReviewCancelled
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(taskID, err)
	}
	s.emit(ctx, kind, reviewerID, updated)
	return updated, nil
}

// RespondToReview records the reviewer's decision from UNDER_REVIEW. The
// working status is left untouched - resuming or completing the task stays
// an explicit caller action.
func (s *Service) RespondToReview(ctx context.Context, taskID, reviewerID string, decision model.ReviewStatus, comment string) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.respondToReview", "INTERNAL")
	task, err := s.respondToReview(ctx, taskID, reviewerID, decision, comment)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) respondToReview(ctx context.Context, taskID, reviewerID string, decision model.ReviewStatus, comment string) (*model.Task, error) {
	if !decision.Decided() {
		return nil, validationError("decision must be APPROVED or REJECTED, got %q", string(decision))
	}
	updated, err := s.tasks.Mutate(ctx, taskID, func(task *model.Task) error {
		if task.Review == nil {
			return transitionError(taskID, "NONE", string(decision))
		}
		if !policy.IsReviewer(reviewerID, task) {
			return notReviewerError(reviewerID, taskID)
		}
		if task.Review.Status != model.ReviewUnder {
			return transitionError(taskID, string(task.Review.Status), string(decision))
		}
		task.Review.Status = decision
		task.Review.ReviewedBy = reviewerID
		task.Review.ReviewedAt = clock.NowPtr()
		task.Review.Comment = comment
		task.Review.Reviewer = ""
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(taskID, err)
	}
	s.emit(ctx, event.ReviewResolved, reviewerID, updated)
	return updated, nil
}

// CancelReviewRequest lets the original requester withdraw a not yet
// accepted invitation. Reviewer-side decline is AcceptReviewRequest with
// accept=false; the two must not be confused.
func (s *Service) CancelReviewRequest(ctx context.Context, taskID, requesterID string) (*model.Task, error) {
	ctx, span := tracing.StartSpan(ctx, "review.cancelReviewRequest", "INTERNAL")
	task, err := s.cancelReviewRequest(ctx, taskID, requesterID)
	tracing.EndSpan(span, err)
	return task, err
}

func (s *Service) cancelReviewRequest(ctx context.Context, taskID, requesterID string) (*model.Task, error) {
	updated, err := s.tasks.Mutate(ctx, taskID, func(task *model.Task) error {
		if task.Review == nil || task.Review.Status != model.ReviewRequested {
			return transitionError(taskID, string(task.ReviewStatusOrNone()), "NONE")
		}
		if task.Review.RequestedBy != requesterID {
			return forbiddenError(requesterID, taskID)
		}
		task.Status = task.Review.PriorTaskStatus
		task.Review = nil
		return nil
	})
	if err != nil {
		return nil, mapTaskErr(taskID, err)
	}
	s.emit(ctx, event.ReviewCancelled, requesterID, updated)
	return updated, nil
}
