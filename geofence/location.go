// Package geofence defines build locations and the geofence/time validator
// that decides whether a user may check in at their current position.
package geofence

import (
	"errors"
	"fmt"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

var (
	// ErrLocationNotFound is returned when a location cannot be found.
	ErrLocationNotFound = errors.New("geofence: location not found")

	// ErrInvalidLocation is returned when a location fails validation.
	ErrInvalidLocation = errors.New("geofence: invalid location")

	// ErrInvalidWindow is returned when a time window's end is not after
	// its start. Overnight windows are rejected as misconfiguration, not
	// interpreted as wraparound.
	ErrInvalidWindow = errors.New("geofence: invalid time window")
)

// TimeWindow restricts check-in to a same-day interval. Start and End are
// "HH:mm" local times; the interval is half-open [Start, End).
type TimeWindow struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Contains reports whether t's local clock time falls within the window.
// A disabled window contains every instant.
func (w TimeWindow) Contains(t time.Time) (bool, error) {
	if !w.Enabled {
		return true, nil
	}

	start, err := parseClock(w.Start)
	if err != nil {
		return false, fmt.Errorf("%w: start %q: %v", ErrInvalidWindow, w.Start, err)
	}
	end, err := parseClock(w.End)
	if err != nil {
		return false, fmt.Errorf("%w: end %q: %v", ErrInvalidWindow, w.End, err)
	}
	if end <= start {
		return false, fmt.Errorf("%w: end %q not after start %q", ErrInvalidWindow, w.End, w.Start)
	}

	minutes := t.Hour()*60 + t.Minute()
	return minutes >= start && minutes < end, nil
}

// parseClock converts "HH:mm" into minutes since midnight.
func parseClock(s string) (int, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// Location is a circular geofenced area where build hours may be logged.
type Location struct {
	ID           id.LocationID `json:"id" db:"id"`
	Name         string        `json:"location_name" db:"location_name"`
	Latitude     float64       `json:"latitude" db:"latitude"`
	Longitude    float64       `json:"longitude" db:"longitude"`
	RadiusMeters float64       `json:"radius_meters" db:"radius_meters"`
	IsActive     bool          `json:"is_active" db:"is_active"`
	ValidHours   *TimeWindow   `json:"valid_hours,omitempty" db:"valid_hours"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// Validate checks structural invariants: positive radius, coordinates in
// WGS84 range, and a parseable time window when one is configured.
func (l *Location) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLocation)
	}
	if l.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidLocation, l.RadiusMeters)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, l.Longitude)
	}
	if l.ValidHours != nil && l.ValidHours.Enabled {
		start, err := parseClock(l.ValidHours.Start)
		if err != nil {
			return fmt.Errorf("%w: start %q: %v", ErrInvalidWindow, l.ValidHours.Start, err)
		}
		end, err := parseClock(l.ValidHours.End)
		if err != nil {
			return fmt.Errorf("%w: end %q: %v", ErrInvalidWindow, l.ValidHours.End, err)
		}
		if end <= start {
			return fmt.Errorf("%w: end %q not after start %q", ErrInvalidWindow, l.ValidHours.End, l.ValidHours.Start)
		}
	}
	return nil
}

// ListFilter contains filters for listing locations.
type ListFilter struct {
	ActiveOnly bool `json:"active_only,omitempty"`
	Limit      int  `json:"limit,omitempty"`
	Offset     int  `json:"offset,omitempty"`
}
