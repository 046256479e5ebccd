// Package memory provides an in-memory Store for tests and local
// development. All operations are safe for concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/store"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// Store is an in-memory implementation of store.Store. One mutex guards all
// tables; the open-session uniqueness check and the insert happen under the
// same critical section.
type Store struct {
	mu         sync.RWMutex
	rules      map[id.RuleID]*rule.Rule
	locations  map[id.LocationID]*geofence.Location
	sessions   map[id.SessionID]*session.Session
	tasks      map[id.TaskID]*task.Task
	groups     map[id.GroupID]*task.Group
	events     map[id.EventID]*outreach.Event
	activities map[id.ActivityID]*outreach.Activity
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		rules:      make(map[id.RuleID]*rule.Rule),
		locations:  make(map[id.LocationID]*geofence.Location),
		sessions:   make(map[id.SessionID]*session.Session),
		tasks:      make(map[id.TaskID]*task.Task),
		groups:     make(map[id.GroupID]*task.Group),
		events:     make(map[id.EventID]*outreach.Event),
		activities: make(map[id.ActivityID]*outreach.Activity),
	}
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(ctx context.Context) error { return nil }

// Ping is a no-op for the in-memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// applyPagination slices a result set by limit and offset.
func applyPagination[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
