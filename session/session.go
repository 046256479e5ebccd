// Package session tracks build-hour sessions: when a user checked in at a
// location and when they checked out.
package session

import (
	"errors"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

var (
	// ErrSessionNotFound is returned when a session cannot be found.
	ErrSessionNotFound = errors.New("session: session not found")

	// ErrOpenSessionExists is returned when a user already has an open
	// session. A user can be checked in at most one place at a time.
	ErrOpenSessionExists = errors.New("session: user already has an open session")

	// ErrAlreadyClosed is returned when closing a session that already
	// has an end timestamp.
	ErrAlreadyClosed = errors.New("session: session already closed")

	// ErrNoValidLocation is returned when a check-in attempt does not
	// fall inside any active location's fence and hours.
	ErrNoValidLocation = errors.New("session: no valid location for check-in")
)

// Session is one contiguous stretch of build hours. EndedAt is nil while the
// session is open.
type Session struct {
	ID         id.SessionID  `json:"id" db:"id"`
	UserID     string        `json:"user_id" db:"user_id"`
	LocationID id.LocationID `json:"location_id" db:"location_id"`
	StartedAt  time.Time     `json:"started_at" db:"started_at"`
	EndedAt    *time.Time    `json:"ended_at,omitempty" db:"ended_at"`
}

// Open reports whether the session has not been closed yet.
func (s *Session) Open() bool { return s.EndedAt == nil }

// ElapsedMinutes returns the session's whole-minute duration. Open sessions
// are measured against now; partial minutes are truncated.
func (s *Session) ElapsedMinutes(now time.Time) int {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	d := end.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// ListFilter contains filters for listing sessions.
type ListFilter struct {
	UserID     string        `json:"user_id,omitempty"`
	LocationID id.LocationID `json:"location_id,omitempty"`
	OpenOnly   bool          `json:"open_only,omitempty"`
	From       *time.Time    `json:"from,omitempty"`
	To         *time.Time    `json:"to,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}
