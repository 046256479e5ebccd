package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

func sampleRules() []*rule.Rule {
	return []*rule.Rule{{
		ID:        id.NewRuleID(),
		Role:      rule.RoleMember,
		Resource:  rule.ResourceOutreach,
		Action:    rule.ActionView,
		Condition: rule.ConditionAll,
	}}
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	if _, ok := c.Get(ctx, rule.RoleMember); ok {
		t.Error("expected miss on empty cache")
	}

	rules := sampleRules()
	c.Set(ctx, rule.RoleMember, rules)
	got, ok := c.Get(ctx, rule.RoleMember)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 1 || got[0].ID != rules[0].ID {
		t.Errorf("unexpected cached rules: %+v", got)
	}

	// Other roles are unaffected.
	if _, ok := c.Get(ctx, rule.RoleAdmin); ok {
		t.Error("expected miss for uncached role")
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	c := NewMemory(WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	c.Set(ctx, rule.RoleMember, sampleRules())

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, rule.RoleMember); !ok {
		t.Error("expected hit before TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, rule.RoleMember); ok {
		t.Error("expected miss after TTL")
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, rule.RoleMember, sampleRules())
	c.Set(ctx, rule.RoleAdmin, sampleRules())

	c.Invalidate(ctx, rule.RoleMember)
	if _, ok := c.Get(ctx, rule.RoleMember); ok {
		t.Error("expected miss after Invalidate")
	}
	if _, ok := c.Get(ctx, rule.RoleAdmin); !ok {
		t.Error("other roles should survive a targeted invalidation")
	}

	c.InvalidateAll(ctx)
	if _, ok := c.Get(ctx, rule.RoleAdmin); ok {
		t.Error("expected miss after InvalidateAll")
	}
}
