package memory

import (
	"context"
	"sort"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

func copyLocation(l *geofence.Location) *geofence.Location {
	c := *l
	if l.ValidHours != nil {
		w := *l.ValidHours
		c.ValidHours = &w
	}
	return &c
}

// CreateLocation persists a new location.
func (s *Store) CreateLocation(ctx context.Context, l *geofence.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = copyLocation(l)
	return nil
}

// GetLocation retrieves a location by ID.
func (s *Store) GetLocation(ctx context.Context, locationID id.LocationID) (*geofence.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[locationID]
	if !ok {
		return nil, geofence.ErrLocationNotFound
	}
	return copyLocation(l), nil
}

// UpdateLocation persists changes to a location.
func (s *Store) UpdateLocation(ctx context.Context, l *geofence.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[l.ID]; !ok {
		return geofence.ErrLocationNotFound
	}
	s.locations[l.ID] = copyLocation(l)
	return nil
}

// DeleteLocation removes a location by ID.
func (s *Store) DeleteLocation(ctx context.Context, locationID id.LocationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[locationID]; !ok {
		return geofence.ErrLocationNotFound
	}
	delete(s.locations, locationID)
	return nil
}

// ListLocations returns locations matching the filter.
func (s *Store) ListLocations(ctx context.Context, filter *geofence.ListFilter) ([]*geofence.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*geofence.Location
	for _, l := range s.locations {
		if filter != nil && filter.ActiveOnly && !l.IsActive {
			continue
		}
		out = append(out, copyLocation(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter != nil {
		out = applyPagination(out, filter.Limit, filter.Offset)
	}
	return out, nil
}
