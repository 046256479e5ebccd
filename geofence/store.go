package geofence

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// Store defines persistence operations for build locations.
type Store interface {
	// CreateLocation persists a new location.
	CreateLocation(ctx context.Context, l *Location) error

	// GetLocation retrieves a location by ID.
	GetLocation(ctx context.Context, locationID id.LocationID) (*Location, error)

	// UpdateLocation persists changes to a location.
	UpdateLocation(ctx context.Context, l *Location) error

	// DeleteLocation removes a location by ID.
	DeleteLocation(ctx context.Context, locationID id.LocationID) error

	// ListLocations returns locations matching the filter.
	ListLocations(ctx context.Context, filter *ListFilter) ([]*Location, error)
}
