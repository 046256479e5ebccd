package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// ErrNotAllowed is returned when the acting role lacks the permission a
// workflow step requires.
var ErrNotAllowed = errors.New("task: not allowed")

// Workflow applies the review state machine on top of the store. Every
// transition is permission-checked here, so the persistence layer stays
// policy-free.
type Workflow struct {
	store  Store
	authz  Authorizer
	logger *slog.Logger
	now    func() time.Time
}

// WorkflowOption is a functional option for the Workflow.
type WorkflowOption func(*Workflow)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) WorkflowOption { return func(w *Workflow) { w.logger = l } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) WorkflowOption { return func(w *Workflow) { w.now = now } }

// NewWorkflow creates a review workflow backed by the given store and
// authorizer.
func NewWorkflow(store Store, authz Authorizer, opts ...WorkflowOption) (*Workflow, error) {
	if store == nil {
		return nil, errors.New("task: store is required")
	}
	if authz == nil {
		return nil, errors.New("task: authorizer is required")
	}
	w := &Workflow{
		store:  store,
		authz:  authz,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Workflow) require(ctx context.Context, role rule.Role, permission string) error {
	allowed, err := w.authz.HasPermission(ctx, role, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: role %s lacks %s", ErrNotAllowed, role, permission)
	}
	return nil
}

// SubmitForReview moves a task from to_do or rejected into in_review and
// records who submitted it. Resubmitting a rejected task clears the previous
// rejection reason.
func (w *Workflow) SubmitForReview(ctx context.Context, taskID id.TaskID, userID string, role rule.Role) (*Task, error) {
	if err := w.require(ctx, role, "build_tasks:submit"); err != nil {
		return nil, err
	}

	t, err := w.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusToDo && t.Status != StatusRejected {
		return nil, fmt.Errorf("%w: cannot submit from %s", ErrInvalidTransition, t.Status)
	}

	t.Status = StatusInReview
	t.CompletedBy = userID
	t.ReviewedBy = ""
	t.RejectionReason = ""
	t.UpdatedAt = w.now()
	if err := w.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}

	w.logger.Info("task submitted for review",
		"task", t.ID.String(), "user", userID)
	return t, nil
}

// Review resolves a task in review. A complete decision closes the task; a
// rejected decision moves it to rejected and must carry a reason so the
// submitter knows what to fix before resubmitting.
func (w *Workflow) Review(ctx context.Context, taskID id.TaskID, reviewerID string, role rule.Role, decision Decision, reason string) (*Task, error) {
	if err := w.require(ctx, role, "build_tasks:manage"); err != nil {
		return nil, err
	}
	if !decision.Valid() {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidTransition, decision)
	}

	t, err := w.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusInReview {
		return nil, fmt.Errorf("%w: cannot review from %s", ErrInvalidTransition, t.Status)
	}

	switch decision {
	case DecisionComplete:
		t.Status = StatusComplete
		t.RejectionReason = ""
	case DecisionRejected:
		if reason == "" {
			return nil, ErrReasonRequired
		}
		t.Status = StatusRejected
		t.RejectionReason = reason
	}
	t.ReviewedBy = reviewerID
	t.UpdatedAt = w.now()
	if err := w.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}

	w.logger.Info("task reviewed",
		"task", t.ID.String(), "reviewer", reviewerID, "decision", string(decision))
	return t, nil
}

// ──────────────────────────────────────────────────
// Task and group administration
// ──────────────────────────────────────────────────

// CreateTask persists a new task in to_do.
func (w *Workflow) CreateTask(ctx context.Context, role rule.Role, t *Task) error {
	if err := w.require(ctx, role, "build_tasks:create"); err != nil {
		return err
	}
	if t.ID.IsNil() {
		t.ID = id.NewTaskID()
	}
	if t.Status == "" {
		t.Status = StatusToDo
	}
	if err := t.Validate(); err != nil {
		return err
	}
	now := w.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return w.store.CreateTask(ctx, t)
}

// DeleteTask removes a task.
func (w *Workflow) DeleteTask(ctx context.Context, role rule.Role, taskID id.TaskID) error {
	if err := w.require(ctx, role, "build_tasks:delete"); err != nil {
		return err
	}
	return w.store.DeleteTask(ctx, taskID)
}

// ListTasks returns tasks matching the filter.
func (w *Workflow) ListTasks(ctx context.Context, role rule.Role, filter *ListFilter) ([]*Task, error) {
	if err := w.require(ctx, role, "build_tasks:view"); err != nil {
		return nil, err
	}
	return w.store.ListTasks(ctx, filter)
}

// CreateGroup persists a new task group.
func (w *Workflow) CreateGroup(ctx context.Context, role rule.Role, g *Group) error {
	if err := w.require(ctx, role, "build_groups:manage"); err != nil {
		return err
	}
	if g.ID.IsNil() {
		g.ID = id.NewGroupID()
	}
	if g.Name == "" {
		return fmt.Errorf("%w: group name is required", ErrInvalidTask)
	}
	now := w.now()
	g.CreatedAt = now
	g.UpdatedAt = now
	return w.store.CreateGroup(ctx, g)
}

// DeleteGroup removes a task group.
func (w *Workflow) DeleteGroup(ctx context.Context, role rule.Role, groupID id.GroupID) error {
	if err := w.require(ctx, role, "build_groups:manage"); err != nil {
		return err
	}
	return w.store.DeleteGroup(ctx, groupID)
}

// ListGroups returns all task groups.
func (w *Workflow) ListGroups(ctx context.Context, role rule.Role) ([]*Group, error) {
	if err := w.require(ctx, role, "build_tasks:view"); err != nil {
		return nil, err
	}
	return w.store.ListGroups(ctx)
}
