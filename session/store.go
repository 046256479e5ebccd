package session

import (
	"context"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// Store defines persistence operations for sessions. CreateSession must
// enforce the at-most-one-open-session invariant atomically: two concurrent
// check-ins for the same user must not both succeed.
type Store interface {
	// CreateSession persists a new open session. It returns
	// ErrOpenSessionExists when the user already has one.
	CreateSession(ctx context.Context, s *Session) error

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, sessionID id.SessionID) (*Session, error)

	// GetOpenSession retrieves the user's open session, if any.
	GetOpenSession(ctx context.Context, userID string) (*Session, error)

	// CloseSession sets the session's end timestamp. It returns
	// ErrAlreadyClosed when the session already has one.
	CloseSession(ctx context.Context, sessionID id.SessionID, endedAt time.Time) error

	// ListSessions returns sessions matching the filter, newest first.
	ListSessions(ctx context.Context, filter *ListFilter) ([]*Session, error)

	// DeleteSession removes a session by ID.
	DeleteSession(ctx context.Context, sessionID id.SessionID) error
}
