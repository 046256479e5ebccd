package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/store/memory"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// grantAll authorizes every permission for every role.
type grantAll struct{}

func (grantAll) HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error) {
	return true, nil
}

// grantSet authorizes only the listed permissions, per role.
type grantSet map[rule.Role][]string

func (g grantSet) HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error) {
	for _, p := range g[role] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func newWorkflow(t *testing.T, authz task.Authorizer) (*task.Workflow, *memory.Store) {
	t.Helper()
	s := memory.New()
	w, err := task.NewWorkflow(s, authz)
	if err != nil {
		t.Fatalf("new workflow: %v", err)
	}
	return w, s
}

func seedTask(t *testing.T, s *memory.Store, status task.Status) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:     id.NewTaskID(),
		Name:   "Assemble drivetrain",
		Status: status,
	}
	if err := s.CreateTask(context.Background(), tk); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return tk
}

func TestSubmitForReview(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	tk := seedTask(t, s, task.StatusToDo)
	got, err := w.SubmitForReview(ctx, tk.ID, "user-1", rule.RoleMember)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Status != task.StatusInReview {
		t.Errorf("expected in_review, got %s", got.Status)
	}
	if got.CompletedBy != "user-1" {
		t.Errorf("expected completed_by user-1, got %q", got.CompletedBy)
	}
}

func TestSubmitFromInvalidStatus(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	for _, status := range []task.Status{task.StatusInReview, task.StatusComplete} {
		tk := seedTask(t, s, status)
		if _, err := w.SubmitForReview(ctx, tk.ID, "user-1", rule.RoleMember); !errors.Is(err, task.ErrInvalidTransition) {
			t.Errorf("submit from %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestResubmitClearsRejectionReason(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	tk := seedTask(t, s, task.StatusRejected)
	tk.RejectionReason = "missing fasteners"
	tk.ReviewedBy = "lead-1"
	if err := s.UpdateTask(ctx, tk); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := w.SubmitForReview(ctx, tk.ID, "user-1", rule.RoleMember)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if got.RejectionReason != "" {
		t.Errorf("resubmit should clear rejection reason, got %q", got.RejectionReason)
	}
	if got.ReviewedBy != "" {
		t.Errorf("resubmit should clear reviewer, got %q", got.ReviewedBy)
	}
}

func TestReviewComplete(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	tk := seedTask(t, s, task.StatusInReview)
	got, err := w.Review(ctx, tk.ID, "lead-1", rule.RoleAdmin, task.DecisionComplete, "")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != task.StatusComplete {
		t.Errorf("expected complete, got %s", got.Status)
	}
	if got.ReviewedBy != "lead-1" {
		t.Errorf("expected reviewed_by lead-1, got %q", got.ReviewedBy)
	}
}

func TestReviewRejectRequiresReason(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	tk := seedTask(t, s, task.StatusInReview)
	if _, err := w.Review(ctx, tk.ID, "lead-1", rule.RoleAdmin, task.DecisionRejected, ""); !errors.Is(err, task.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	got, err := w.Review(ctx, tk.ID, "lead-1", rule.RoleAdmin, task.DecisionRejected, "missing fasteners")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != task.StatusRejected {
		t.Errorf("rejected task should land in rejected, got %s", got.Status)
	}
	if got.RejectionReason != "missing fasteners" {
		t.Errorf("expected recorded reason, got %q", got.RejectionReason)
	}
}

func TestRejectedTaskIsResubmittable(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	tk := seedTask(t, s, task.StatusInReview)
	rejected, err := w.Review(ctx, tk.ID, "lead-1", rule.RoleAdmin, task.DecisionRejected, "missing fasteners")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if rejected.Status != task.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	got, err := w.SubmitForReview(ctx, tk.ID, "user-1", rule.RoleMember)
	if err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
	if got.Status != task.StatusInReview {
		t.Errorf("expected in_review, got %s", got.Status)
	}
	if got.RejectionReason != "" {
		t.Errorf("resubmit should clear rejection reason, got %q", got.RejectionReason)
	}
}

func TestReviewFromInvalidStatus(t *testing.T) {
	w, s := newWorkflow(t, grantAll{})
	ctx := context.Background()

	for _, status := range []task.Status{task.StatusToDo, task.StatusRejected, task.StatusComplete} {
		tk := seedTask(t, s, status)
		if _, err := w.Review(ctx, tk.ID, "lead-1", rule.RoleAdmin, task.DecisionComplete, ""); !errors.Is(err, task.ErrInvalidTransition) {
			t.Errorf("review from %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestWorkflowPermissions(t *testing.T) {
	authz := grantSet{
		rule.RoleMember: {"build_tasks:submit", "build_tasks:view"},
		rule.RoleAdmin:  {"build_tasks:submit", "build_tasks:manage", "build_tasks:create", "build_tasks:view"},
	}
	w, s := newWorkflow(t, authz)
	ctx := context.Background()

	tk := seedTask(t, s, task.StatusToDo)

	// Members can submit but not review.
	if _, err := w.SubmitForReview(ctx, tk.ID, "user-1", rule.RoleMember); err != nil {
		t.Fatalf("member submit: %v", err)
	}
	if _, err := w.Review(ctx, tk.ID, "user-2", rule.RoleMember, task.DecisionComplete, ""); !errors.Is(err, task.ErrNotAllowed) {
		t.Fatalf("member review: expected ErrNotAllowed, got %v", err)
	}
	if _, err := w.Review(ctx, tk.ID, "lead-1", rule.RoleAdmin, task.DecisionComplete, ""); err != nil {
		t.Fatalf("admin review: %v", err)
	}

	// Guests can do neither.
	tk2 := seedTask(t, s, task.StatusToDo)
	if _, err := w.SubmitForReview(ctx, tk2.ID, "guest-1", rule.RoleGuest); !errors.Is(err, task.ErrNotAllowed) {
		t.Fatalf("guest submit: expected ErrNotAllowed, got %v", err)
	}
	if err := w.CreateTask(ctx, rule.RoleGuest, &task.Task{Name: "x"}); !errors.Is(err, task.ErrNotAllowed) {
		t.Fatalf("guest create: expected ErrNotAllowed, got %v", err)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	w, _ := newWorkflow(t, grantAll{})
	ctx := context.Background()

	tk := &task.Task{Name: "Wire the radio"}
	if err := w.CreateTask(ctx, rule.RoleAdmin, tk); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.Status != task.StatusToDo {
		t.Errorf("expected default status to_do, got %s", tk.Status)
	}
	if tk.ID.IsNil() {
		t.Error("expected an assigned ID")
	}
}
