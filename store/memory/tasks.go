package memory

import (
	"context"
	"sort"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

func copyTask(t *task.Task) *task.Task {
	c := *t
	c.DueDate = copyTime(t.DueDate)
	return &c
}

func copyGroup(g *task.Group) *task.Group {
	c := *g
	return &c
}

// CreateTask persists a new task.
func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = copyTask(t)
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, taskID id.TaskID) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// UpdateTask persists changes to a task.
func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return task.ErrTaskNotFound
	}
	s.tasks[t.ID] = copyTask(t)
	return nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, taskID id.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return task.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

// ListTasks returns tasks matching the filter.
func (s *Store) ListTasks(ctx context.Context, filter *task.ListFilter) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*task.Task
	for _, t := range s.tasks {
		if filter != nil {
			if !filter.GroupID.IsNil() && t.GroupID != filter.GroupID {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
		}
		out = append(out, copyTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter != nil {
		out = applyPagination(out, filter.Limit, filter.Offset)
	}
	return out, nil
}

// CreateGroup persists a new task group.
func (s *Store) CreateGroup(ctx context.Context, g *task.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = copyGroup(g)
	return nil
}

// GetGroup retrieves a task group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID id.GroupID) (*task.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, task.ErrGroupNotFound
	}
	return copyGroup(g), nil
}

// UpdateGroup persists changes to a task group.
func (s *Store) UpdateGroup(ctx context.Context, g *task.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[g.ID]; !ok {
		return task.ErrGroupNotFound
	}
	s.groups[g.ID] = copyGroup(g)
	return nil
}

// DeleteGroup removes a task group by ID.
func (s *Store) DeleteGroup(ctx context.Context, groupID id.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return task.ErrGroupNotFound
	}
	delete(s.groups, groupID)
	return nil
}

// ListGroups returns all task groups.
func (s *Store) ListGroups(ctx context.Context) ([]*task.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*task.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, copyGroup(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
