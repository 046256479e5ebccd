package outreach_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/store/memory"
)

type grantAll struct{}

func (grantAll) HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error) {
	return true, nil
}

type denyAll struct{}

func (denyAll) HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error) {
	return false, nil
}

func newLedger(t *testing.T, authz outreach.Authorizer) (*outreach.Ledger, *memory.Store) {
	t.Helper()
	s := memory.New()
	g, err := outreach.NewLedger(s, authz)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return g, s
}

func seedEvent(t *testing.T, g *outreach.Ledger, name string, minutesCap int) *outreach.Event {
	t.Helper()
	e := &outreach.Event{Name: name, MinutesCap: minutesCap}
	if err := g.CreateEvent(context.Background(), rule.RoleAdmin, e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

func TestLogAndSummary(t *testing.T) {
	g, _ := newLedger(t, grantAll{})
	ctx := context.Background()

	fair := seedEvent(t, g, "Science Fair", 0)
	demo := seedEvent(t, g, "Library Demo", 60)

	entries := []struct {
		event   id.EventID
		minutes int
	}{
		{fair.ID, 90},
		{fair.ID, 30},
		{demo.ID, 45},
		{demo.ID, 45}, // pushes the demo total past its 60 minute cap
	}
	for _, e := range entries {
		a := &outreach.Activity{UserID: "user-1", EventID: e.event, Minutes: e.minutes}
		if err := g.Log(ctx, rule.RoleMember, a); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	s, err := g.UserSummary(ctx, rule.RoleMember, "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Minutes != 210 {
		t.Errorf("expected 210 raw minutes, got %d", s.Minutes)
	}
	// 120 uncapped from the fair plus the demo capped at 60.
	if s.CreditedMinutes != 180 {
		t.Errorf("expected 180 credited minutes, got %d", s.CreditedMinutes)
	}
}

func TestLogUnknownEvent(t *testing.T) {
	g, _ := newLedger(t, grantAll{})
	a := &outreach.Activity{UserID: "user-1", EventID: id.NewEventID(), Minutes: 30}
	if err := g.Log(context.Background(), rule.RoleMember, a); !errors.Is(err, outreach.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestLogValidation(t *testing.T) {
	g, _ := newLedger(t, grantAll{})
	ctx := context.Background()
	fair := seedEvent(t, g, "Science Fair", 0)

	tests := []struct {
		name     string
		activity *outreach.Activity
	}{
		{"zero minutes", &outreach.Activity{UserID: "user-1", EventID: fair.ID, Minutes: 0}},
		{"negative minutes", &outreach.Activity{UserID: "user-1", EventID: fair.ID, Minutes: -10}},
		{"missing user", &outreach.Activity{EventID: fair.ID, Minutes: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.Log(ctx, rule.RoleMember, tt.activity); !errors.Is(err, outreach.ErrInvalidActivity) {
				t.Errorf("expected ErrInvalidActivity, got %v", err)
			}
		})
	}
}

func TestLogBulk(t *testing.T) {
	g, s := newLedger(t, grantAll{})
	ctx := context.Background()
	fair := seedEvent(t, g, "Science Fair", 0)

	users := []string{"user-1", "user-2", "user-3"}
	activities, err := g.LogBulk(ctx, rule.RoleAdmin, fair.ID, users, 120)
	if err != nil {
		t.Fatalf("log bulk: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(activities))
	}

	for _, userID := range users {
		got, err := s.ListActivities(ctx, &outreach.ListFilter{UserID: userID})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Minutes != 120 {
			t.Errorf("user %s: expected one 120 minute activity, got %+v", userID, got)
		}
	}
}

func TestLogBulkRejectsBadBatch(t *testing.T) {
	g, s := newLedger(t, grantAll{})
	ctx := context.Background()
	fair := seedEvent(t, g, "Science Fair", 0)

	if _, err := g.LogBulk(ctx, rule.RoleAdmin, fair.ID, nil, 120); !errors.Is(err, outreach.ErrInvalidActivity) {
		t.Fatalf("empty batch: expected ErrInvalidActivity, got %v", err)
	}
	if _, err := g.LogBulk(ctx, rule.RoleAdmin, fair.ID, []string{"user-1"}, 0); !errors.Is(err, outreach.ErrInvalidActivity) {
		t.Fatalf("zero minutes: expected ErrInvalidActivity, got %v", err)
	}

	// Nothing was written.
	got, err := s.ListActivities(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no activities, got %d", len(got))
	}
}

func TestLedgerPermissions(t *testing.T) {
	g, _ := newLedger(t, denyAll{})
	ctx := context.Background()

	if err := g.CreateEvent(ctx, rule.RoleGuest, &outreach.Event{Name: "x"}); !errors.Is(err, outreach.ErrNotAllowed) {
		t.Errorf("create event: expected ErrNotAllowed, got %v", err)
	}
	if err := g.Log(ctx, rule.RoleGuest, &outreach.Activity{UserID: "u", Minutes: 1}); !errors.Is(err, outreach.ErrNotAllowed) {
		t.Errorf("log: expected ErrNotAllowed, got %v", err)
	}
	if _, err := g.UserSummary(ctx, rule.RoleGuest, "u"); !errors.Is(err, outreach.ErrNotAllowed) {
		t.Errorf("summary: expected ErrNotAllowed, got %v", err)
	}
}

func TestDeleteEventRemovesActivities(t *testing.T) {
	g, s := newLedger(t, grantAll{})
	ctx := context.Background()
	fair := seedEvent(t, g, "Science Fair", 0)

	if _, err := g.LogBulk(ctx, rule.RoleAdmin, fair.ID, []string{"user-1", "user-2"}, 60); err != nil {
		t.Fatalf("log bulk: %v", err)
	}
	if err := g.DeleteEvent(ctx, rule.RoleAdmin, fair.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	got, err := s.ListActivities(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected activities removed with event, got %d", len(got))
	}
}
