// Package store defines the composite persistence interface the engine and
// services depend on. Backends live in subpackages: memory, postgres,
// sqlite, and mongo.
package store

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// Store is the composite persistence interface. Each embedded interface is
// defined next to its entity so packages can depend on just the slice they
// need.
type Store interface {
	rule.Store
	geofence.Store
	session.Store
	task.Store
	outreach.Store

	// Migrate applies schema migrations. Backends without schemas no-op.
	Migrate(ctx context.Context) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
