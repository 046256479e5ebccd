package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
)

func copySession(s *session.Session) *session.Session {
	c := *s
	c.EndedAt = copyTime(s.EndedAt)
	return &c
}

// CreateSession persists a new open session. The scan for an existing open
// session and the insert share the write lock, so concurrent check-ins for
// one user cannot both succeed.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.UserID == sess.UserID && existing.EndedAt == nil {
			return session.ErrOpenSessionExists
		}
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return copySession(sess), nil
}

// GetOpenSession retrieves the user's open session.
func (s *Store) GetOpenSession(ctx context.Context, userID string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.EndedAt == nil {
			return copySession(sess), nil
		}
	}
	return nil, session.ErrSessionNotFound
}

// CloseSession sets the session's end timestamp.
func (s *Store) CloseSession(ctx context.Context, sessionID id.SessionID, endedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return session.ErrSessionNotFound
	}
	if sess.EndedAt != nil {
		return session.ErrAlreadyClosed
	}
	sess.EndedAt = &endedAt
	return nil
}

// ListSessions returns sessions matching the filter, newest first.
func (s *Store) ListSessions(ctx context.Context, filter *session.ListFilter) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*session.Session
	for _, sess := range s.sessions {
		if filter != nil {
			if filter.UserID != "" && sess.UserID != filter.UserID {
				continue
			}
			if !filter.LocationID.IsNil() && sess.LocationID != filter.LocationID {
				continue
			}
			if filter.OpenOnly && sess.EndedAt != nil {
				continue
			}
			if filter.From != nil && sess.StartedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !sess.StartedAt.Before(*filter.To) {
				continue
			}
		}
		out = append(out, copySession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if filter != nil {
		out = applyPagination(out, filter.Limit, filter.Offset)
	}
	return out, nil
}

// DeleteSession removes a session by ID.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return session.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
