package outreach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// ErrNotAllowed is returned when the acting role lacks the permission a
// ledger operation requires.
var ErrNotAllowed = errors.New("outreach: not allowed")

// Ledger is the outreach service: event administration, minute logging, and
// per-member totals with event caps applied.
type Ledger struct {
	store  Store
	authz  Authorizer
	logger *slog.Logger
	now    func() time.Time
}

// LedgerOption is a functional option for the Ledger.
type LedgerOption func(*Ledger)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) LedgerOption { return func(g *Ledger) { g.logger = l } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) LedgerOption { return func(g *Ledger) { g.now = now } }

// NewLedger creates an outreach ledger backed by the given store and
// authorizer.
func NewLedger(store Store, authz Authorizer, opts ...LedgerOption) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("outreach: store is required")
	}
	if authz == nil {
		return nil, errors.New("outreach: authorizer is required")
	}
	g := &Ledger{
		store:  store,
		authz:  authz,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Ledger) require(ctx context.Context, role rule.Role, permission string) error {
	allowed, err := g.authz.HasPermission(ctx, role, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: role %s lacks %s", ErrNotAllowed, role, permission)
	}
	return nil
}

// CreateEvent persists a new outreach event.
func (g *Ledger) CreateEvent(ctx context.Context, role rule.Role, e *Event) error {
	if err := g.require(ctx, role, "outreach:manage"); err != nil {
		return err
	}
	if e.ID.IsNil() {
		e.ID = id.NewEventID()
	}
	if err := e.Validate(); err != nil {
		return err
	}
	now := g.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := g.store.CreateEvent(ctx, e); err != nil {
		return err
	}
	g.logger.Info("outreach event created", "event", e.ID.String(), "name", e.Name)
	return nil
}

// DeleteEvent removes an event and everything logged against it.
func (g *Ledger) DeleteEvent(ctx context.Context, role rule.Role, eventID id.EventID) error {
	if err := g.require(ctx, role, "outreach:manage"); err != nil {
		return err
	}
	return g.store.DeleteEvent(ctx, eventID)
}

// ListEvents returns all outreach events.
func (g *Ledger) ListEvents(ctx context.Context, role rule.Role) ([]*Event, error) {
	if err := g.require(ctx, role, "outreach:view"); err != nil {
		return nil, err
	}
	return g.store.ListEvents(ctx)
}

// Log records minutes for one member at one event. The event must exist.
func (g *Ledger) Log(ctx context.Context, role rule.Role, a *Activity) error {
	if err := g.require(ctx, role, "outreach:edit"); err != nil {
		return err
	}
	if a.ID.IsNil() {
		a.ID = id.NewActivityID()
	}
	if a.LoggedAt.IsZero() {
		a.LoggedAt = g.now()
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := g.store.GetEvent(ctx, a.EventID); err != nil {
		return err
	}
	return g.store.CreateActivity(ctx, a)
}

// LogBulk records the same event and minutes for a batch of members, the
// common case after a whole subteam attends an event together. The batch is
// validated up front so either every entry is written or none is attempted.
func (g *Ledger) LogBulk(ctx context.Context, role rule.Role, eventID id.EventID, userIDs []string, minutes int) ([]*Activity, error) {
	if err := g.require(ctx, role, "outreach:manage"); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: no users given", ErrInvalidActivity)
	}
	if _, err := g.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	now := g.now()
	activities := make([]*Activity, 0, len(userIDs))
	for _, userID := range userIDs {
		a := &Activity{
			ID:       id.NewActivityID(),
			UserID:   userID,
			EventID:  eventID,
			Minutes:  minutes,
			LoggedAt: now,
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := g.store.CreateActivities(ctx, activities); err != nil {
		return nil, err
	}

	g.logger.Info("outreach minutes logged in bulk",
		"event", eventID.String(), "users", len(userIDs), "minutes", minutes)
	return activities, nil
}

// UserSummary totals one member's outreach minutes. Raw minutes sum every
// activity; credited minutes cap each event's contribution at that event's
// MinutesCap when one is set.
func (g *Ledger) UserSummary(ctx context.Context, role rule.Role, userID string) (*Summary, error) {
	if err := g.require(ctx, role, "outreach:view"); err != nil {
		return nil, err
	}

	activities, err := g.store.ListActivities(ctx, &ListFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	events, err := g.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	caps := make(map[id.EventID]int, len(events))
	for _, e := range events {
		caps[e.ID] = e.MinutesCap
	}

	perEvent := make(map[id.EventID]int)
	s := &Summary{UserID: userID}
	for _, a := range activities {
		s.Minutes += a.Minutes
		perEvent[a.EventID] += a.Minutes
	}
	for eventID, minutes := range perEvent {
		if limit, ok := caps[eventID]; ok && limit > 0 && minutes > limit {
			minutes = limit
		}
		s.CreditedMinutes += minutes
	}
	return s, nil
}
