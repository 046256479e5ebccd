// Package outreach records community outreach events and the minutes team
// members log against them.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

var (
	// ErrEventNotFound is returned when an event cannot be found.
	ErrEventNotFound = errors.New("outreach: event not found")

	// ErrActivityNotFound is returned when an activity cannot be found.
	ErrActivityNotFound = errors.New("outreach: activity not found")

	// ErrInvalidActivity is returned when an activity fails validation.
	ErrInvalidActivity = errors.New("outreach: invalid activity")

	// ErrInvalidEvent is returned when an event fails validation.
	ErrInvalidEvent = errors.New("outreach: invalid event")
)

// Event is an outreach occasion members log minutes against. MinutesCap, when
// positive, limits how many of one member's minutes at this event count
// toward their credited total.
type Event struct {
	ID          id.EventID `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	MinutesCap  int        `json:"minutes_cap,omitempty" db:"minutes_cap"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks structural invariants.
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	if e.MinutesCap < 0 {
		return fmt.Errorf("%w: minutes cap cannot be negative", ErrInvalidEvent)
	}
	return nil
}

// Activity is one member's logged minutes at one event.
type Activity struct {
	ID       id.ActivityID `json:"id" db:"id"`
	UserID   string        `json:"user_id" db:"user_id"`
	EventID  id.EventID    `json:"event_id" db:"event_id"`
	Minutes  int           `json:"minutes" db:"minutes"`
	LoggedAt time.Time     `json:"logged_at" db:"logged_at"`
}

// Validate checks structural invariants.
func (a *Activity) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidActivity)
	}
	if a.EventID.IsNil() {
		return fmt.Errorf("%w: event id is required", ErrInvalidActivity)
	}
	if a.Minutes <= 0 {
		return fmt.Errorf("%w: minutes must be positive, got %d", ErrInvalidActivity, a.Minutes)
	}
	return nil
}

// Summary is a member's outreach total. Minutes is the raw sum of everything
// they logged; CreditedMinutes applies each event's cap.
type Summary struct {
	UserID          string `json:"user_id"`
	Minutes         int    `json:"minutes"`
	CreditedMinutes int    `json:"credited_minutes"`
}

// ListFilter contains filters for listing activities.
type ListFilter struct {
	UserID  string     `json:"user_id,omitempty"`
	EventID id.EventID `json:"event_id,omitempty"`
	Limit   int        `json:"limit,omitempty"`
	Offset  int        `json:"offset,omitempty"`
}

// Authorizer decides whether a role holds a permission.
type Authorizer interface {
	HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error)
}
