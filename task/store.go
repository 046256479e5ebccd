package task

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// Store defines persistence operations for tasks and task groups.
type Store interface {
	// CreateTask persists a new task.
	CreateTask(ctx context.Context, t *Task) error

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID id.TaskID) (*Task, error)

	// UpdateTask persists changes to a task.
	UpdateTask(ctx context.Context, t *Task) error

	// DeleteTask removes a task by ID.
	DeleteTask(ctx context.Context, taskID id.TaskID) error

	// ListTasks returns tasks matching the filter.
	ListTasks(ctx context.Context, filter *ListFilter) ([]*Task, error)

	// CreateGroup persists a new task group.
	CreateGroup(ctx context.Context, g *Group) error

	// GetGroup retrieves a task group by ID.
	GetGroup(ctx context.Context, groupID id.GroupID) (*Group, error)

	// UpdateGroup persists changes to a task group.
	UpdateGroup(ctx context.Context, g *Group) error

	// DeleteGroup removes a task group by ID.
	DeleteGroup(ctx context.Context, groupID id.GroupID) error

	// ListGroups returns all task groups.
	ListGroups(ctx context.Context) ([]*Group, error)
}
