package memory

import (
	"context"
	"sort"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
)

func copyEvent(e *outreach.Event) *outreach.Event {
	c := *e
	return &c
}

func copyActivity(a *outreach.Activity) *outreach.Activity {
	c := *a
	return &c
}

// CreateEvent persists a new outreach event.
func (s *Store) CreateEvent(ctx context.Context, e *outreach.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = copyEvent(e)
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID id.EventID) (*outreach.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, outreach.ErrEventNotFound
	}
	return copyEvent(e), nil
}

// UpdateEvent persists changes to an event.
func (s *Store) UpdateEvent(ctx context.Context, e *outreach.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return outreach.ErrEventNotFound
	}
	s.events[e.ID] = copyEvent(e)
	return nil
}

// DeleteEvent removes an event and its activities.
func (s *Store) DeleteEvent(ctx context.Context, eventID id.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return outreach.ErrEventNotFound
	}
	delete(s.events, eventID)
	for activityID, a := range s.activities {
		if a.EventID == eventID {
			delete(s.activities, activityID)
		}
	}
	return nil
}

// ListEvents returns all outreach events.
func (s *Store) ListEvents(ctx context.Context) ([]*outreach.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*outreach.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, copyEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateActivity persists a logged activity.
func (s *Store) CreateActivity(ctx context.Context, a *outreach.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[a.ID] = copyActivity(a)
	return nil
}

// CreateActivities persists a batch of logged activities.
func (s *Store) CreateActivities(ctx context.Context, activities []*outreach.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range activities {
		s.activities[a.ID] = copyActivity(a)
	}
	return nil
}

// DeleteActivity removes an activity by ID.
func (s *Store) DeleteActivity(ctx context.Context, activityID id.ActivityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[activityID]; !ok {
		return outreach.ErrActivityNotFound
	}
	delete(s.activities, activityID)
	return nil
}

// ListActivities returns activities matching the filter, newest first.
func (s *Store) ListActivities(ctx context.Context, filter *outreach.ListFilter) ([]*outreach.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*outreach.Activity
	for _, a := range s.activities {
		if filter != nil {
			if filter.UserID != "" && a.UserID != filter.UserID {
				continue
			}
			if !filter.EventID.IsNil() && a.EventID != filter.EventID {
				continue
			}
		}
		out = append(out, copyActivity(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	if filter != nil {
		out = applyPagination(out, filter.Limit, filter.Offset)
	}
	return out, nil
}
