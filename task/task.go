// Package task implements build tasks, task groups, and the review workflow
// that moves tasks between statuses.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

var (
	// ErrTaskNotFound is returned when a task cannot be found.
	ErrTaskNotFound = errors.New("task: task not found")

	// ErrGroupNotFound is returned when a task group cannot be found.
	ErrGroupNotFound = errors.New("task: group not found")

	// ErrInvalidTransition is returned when a status change is not
	// permitted from the task's current status.
	ErrInvalidTransition = errors.New("task: invalid status transition")

	// ErrReasonRequired is returned when a rejection carries no reason.
	ErrReasonRequired = errors.New("task: rejection reason is required")

	// ErrInvalidTask is returned when a task fails validation.
	ErrInvalidTask = errors.New("task: invalid task")
)

// Status is a build task's position in the review workflow.
type Status string

const (
	StatusToDo     Status = "to_do"
	StatusInReview Status = "in_review"
	StatusRejected Status = "rejected"
	StatusComplete Status = "complete"
)

// Valid reports whether the status is a known workflow state.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInReview, StatusRejected, StatusComplete:
		return true
	}
	return false
}

// Decision is a reviewer's verdict on a task in review.
type Decision string

const (
	DecisionComplete Decision = "complete"
	DecisionRejected Decision = "rejected"
)

// Valid reports whether the decision is a known verdict.
func (d Decision) Valid() bool {
	return d == DecisionComplete || d == DecisionRejected
}

// Task is a unit of build-season work that flows through review.
type Task struct {
	ID              id.TaskID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Description     string     `json:"description,omitempty" db:"description"`
	GroupID         id.GroupID `json:"group_id" db:"group_id"`
	DueDate         *time.Time `json:"due_date,omitempty" db:"due_date"`
	Status          Status     `json:"status" db:"status"`
	CompletedBy     string     `json:"completed_by,omitempty" db:"completed_by"`
	ReviewedBy      string     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	RejectionReason string     `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks structural invariants.
func (t *Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTask)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, t.Status)
	}
	return nil
}

// Group is a named collection of tasks, typically one per subteam.
type Group struct {
	ID          id.GroupID `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing tasks.
type ListFilter struct {
	GroupID id.GroupID `json:"group_id,omitempty"`
	Status  Status     `json:"status,omitempty"`
	Limit   int        `json:"limit,omitempty"`
	Offset  int        `json:"offset,omitempty"`
}

// Authorizer decides whether a role holds a permission. The workflow depends
// on this narrow interface rather than the full engine.
type Authorizer interface {
	HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error)
}
