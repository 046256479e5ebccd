package outreach

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// Store defines persistence operations for outreach events and activities.
type Store interface {
	// CreateEvent persists a new outreach event.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEvent retrieves an event by ID.
	GetEvent(ctx context.Context, eventID id.EventID) (*Event, error)

	// UpdateEvent persists changes to an event.
	UpdateEvent(ctx context.Context, e *Event) error

	// DeleteEvent removes an event and its activities.
	DeleteEvent(ctx context.Context, eventID id.EventID) error

	// ListEvents returns all outreach events.
	ListEvents(ctx context.Context) ([]*Event, error)

	// CreateActivity persists a logged activity.
	CreateActivity(ctx context.Context, a *Activity) error

	// CreateActivities persists a batch of logged activities.
	CreateActivities(ctx context.Context, activities []*Activity) error

	// DeleteActivity removes an activity by ID.
	DeleteActivity(ctx context.Context, activityID id.ActivityID) error

	// ListActivities returns activities matching the filter.
	ListActivities(ctx context.Context, filter *ListFilter) ([]*Activity, error)
}
