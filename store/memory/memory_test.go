package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
)

func TestRuleCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := &rule.Rule{
		ID:        id.NewRuleID(),
		Role:      rule.RoleMember,
		Resource:  rule.ResourceOutreach,
		Action:    rule.ActionView,
		Condition: rule.ConditionNone,
		CreatedAt: time.Now(),
	}
	if err := s.CreateRule(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetRule(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != rule.RoleMember {
		t.Errorf("unexpected rule: %+v", got)
	}

	// Returned values are copies.
	got.Role = rule.RoleAdmin
	again, _ := s.GetRule(ctx, r.ID)
	if again.Role != rule.RoleMember {
		t.Error("mutating a returned rule leaked into the store")
	}

	got.Role = rule.RoleAdmin
	if err := s.UpdateRule(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.DeleteRule(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetRule(ctx, r.ID); !errors.Is(err, rule.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestListRulesForRoles(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, role := range []rule.Role{rule.RoleAdmin, rule.RoleMember, rule.RoleGuest} {
		r := &rule.Rule{
			ID:        id.NewRuleID(),
			Role:      role,
			Resource:  rule.ResourceOutreach,
			Action:    rule.ActionView,
			Condition: rule.ConditionNone,
		}
		if err := s.CreateRule(ctx, r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.ListRulesForRoles(ctx, []rule.Role{rule.RoleMember, rule.RoleGuest})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(got))
	}
	for _, r := range got {
		if r.Role == rule.RoleAdmin {
			t.Error("admin rule leaked into a member/guest listing")
		}
	}
}

func TestOpenSessionUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	locationID := id.NewLocationID()

	first := &session.Session{ID: id.NewSessionID(), UserID: "user-1", LocationID: locationID, StartedAt: time.Now()}
	if err := s.CreateSession(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := &session.Session{ID: id.NewSessionID(), UserID: "user-1", LocationID: locationID, StartedAt: time.Now()}
	if err := s.CreateSession(ctx, second); !errors.Is(err, session.ErrOpenSessionExists) {
		t.Fatalf("expected ErrOpenSessionExists, got %v", err)
	}

	// A different user is unaffected.
	other := &session.Session{ID: id.NewSessionID(), UserID: "user-2", LocationID: locationID, StartedAt: time.Now()}
	if err := s.CreateSession(ctx, other); err != nil {
		t.Fatalf("create for other user: %v", err)
	}

	// Closing frees the slot.
	if err := s.CloseSession(ctx, first.ID, time.Now()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.CreateSession(ctx, second); err != nil {
		t.Fatalf("create after close: %v", err)
	}
}

func TestCloseSessionTwice(t *testing.T) {
	s := New()
	ctx := context.Background()

	sess := &session.Session{ID: id.NewSessionID(), UserID: "user-1", LocationID: id.NewLocationID(), StartedAt: time.Now()}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CloseSession(ctx, sess.ID, time.Now()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.CloseSession(ctx, sess.ID, time.Now()); !errors.Is(err, session.ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestPagination(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := applyPagination(items, 2, 0); len(got) != 2 || got[0] != 1 {
		t.Errorf("limit 2: got %v", got)
	}
	if got := applyPagination(items, 2, 3); len(got) != 2 || got[0] != 4 {
		t.Errorf("limit 2 offset 3: got %v", got)
	}
	if got := applyPagination(items, 0, 0); len(got) != 5 {
		t.Errorf("no pagination: got %v", got)
	}
	if got := applyPagination(items, 10, 10); got != nil {
		t.Errorf("offset past end: got %v", got)
	}
}
