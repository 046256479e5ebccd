package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// Manager owns the session lifecycle: geofenced check-in, check-out, and the
// open-session lookup the dashboard polls. Uniqueness of the open session is
// enforced by the store, not here, so concurrent check-ins race safely.
type Manager struct {
	store     Store
	locations geofence.Store
	logger    *slog.Logger
	now       func() time.Time
}

// ManagerOption is a functional option for the Manager.
type ManagerOption func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ManagerOption { return func(m *Manager) { m.logger = l } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) ManagerOption { return func(m *Manager) { m.now = now } }

// NewManager creates a session manager backed by the given stores.
func NewManager(store Store, locations geofence.Store, opts ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session: store is required")
	}
	if locations == nil {
		return nil, errors.New("session: location store is required")
	}
	m := &Manager{
		store:     store,
		locations: locations,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CheckIn opens a session for the user at whichever active location contains
// their coordinates right now. It returns ErrNoValidLocation when no fence
// and hours window matches, and ErrOpenSessionExists when the user is
// already checked in somewhere.
func (m *Manager) CheckIn(ctx context.Context, userID string, lat, lon float64) (*Session, error) {
	if userID == "" {
		return nil, errors.New("session: user id is required")
	}

	locations, err := m.locations.ListLocations(ctx, &geofence.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("session: list locations: %w", err)
	}

	now := m.now()
	match := geofence.FindValidLocation(lat, lon, locations, now)
	if match == nil {
		if nearest := geofence.NearestLocation(lat, lon, locations); nearest != nil {
			return nil, fmt.Errorf("%w: nearest is %s, %.0fm away",
				ErrNoValidLocation, nearest.Location.Name, nearest.Distance)
		}
		return nil, ErrNoValidLocation
	}

	return m.Start(ctx, userID, match.Location.ID)
}

// Start opens a session for the user at a known location, bypassing the
// geofence. Admin tooling uses this to backfill or correct sessions.
func (m *Manager) Start(ctx context.Context, userID string, locationID id.LocationID) (*Session, error) {
	s := &Session{
		ID:         id.NewSessionID(),
		UserID:     userID,
		LocationID: locationID,
		StartedAt:  m.now(),
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("session started",
		"session", s.ID.String(), "user", userID, "location", locationID.String())
	return s, nil
}

// Stop closes the session. Closing an already-closed session returns
// ErrAlreadyClosed; the stored end timestamp is never overwritten.
func (m *Manager) Stop(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	endedAt := m.now()
	if err := m.store.CloseSession(ctx, sessionID, endedAt); err != nil {
		return nil, err
	}
	s, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.logger.Info("session stopped",
		"session", s.ID.String(), "user", s.UserID, "minutes", s.ElapsedMinutes(endedAt))
	return s, nil
}

// CheckOut closes the user's open session, if any.
func (m *Manager) CheckOut(ctx context.Context, userID string) (*Session, error) {
	open, err := m.store.GetOpenSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.Stop(ctx, open.ID)
}

// OpenSession returns the user's open session, if any.
func (m *Manager) OpenSession(ctx context.Context, userID string) (*Session, error) {
	return m.store.GetOpenSession(ctx, userID)
}

// History returns the user's sessions, newest first.
func (m *Manager) History(ctx context.Context, userID string, limit, offset int) ([]*Session, error) {
	return m.store.ListSessions(ctx, &ListFilter{UserID: userID, Limit: limit, Offset: offset})
}
