package otoolkit_test

import (
	"context"
	"errors"
	"testing"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/cache"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/store/memory"
)

func newEngine(t *testing.T, opts ...otoolkit.Option) (*otoolkit.Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	opts = append([]otoolkit.Option{otoolkit.WithStore(s)}, opts...)
	eng, err := otoolkit.NewEngine(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng, s
}

func seedRule(t *testing.T, s *memory.Store, role rule.Role, resource rule.Resource, action rule.Action, condition rule.Condition) *rule.Rule {
	t.Helper()
	r := &rule.Rule{
		ID:        id.NewRuleID(),
		Role:      role,
		Resource:  resource,
		Action:    action,
		Condition: condition,
	}
	if err := s.CreateRule(context.Background(), r); err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	return r
}

func TestHasPermission(t *testing.T) {
	eng, s := newEngine(t)
	ctx := context.Background()

	seedRule(t, s, rule.RoleMember, rule.ResourceOutreach, rule.ActionView, rule.ConditionNone)
	seedRule(t, s, rule.RoleMember, rule.ResourceUserData, rule.ActionEdit, rule.ConditionOwn)
	seedRule(t, s, rule.RoleAdmin, rule.ResourceUserData, rule.ActionEdit, rule.ConditionAll)

	tests := []struct {
		role       rule.Role
		permission string
		want       bool
	}{
		// Direct grants.
		{rule.RoleMember, "outreach:view", true},
		{rule.RoleMember, "user_data:edit:own", true},

		// Inherited through the role chain.
		{rule.RoleAdmin, "outreach:view", true},

		// "all" satisfies both broader and narrower requests.
		{rule.RoleAdmin, "user_data:edit:all", true},
		{rule.RoleAdmin, "user_data:edit:own", true},
		{rule.RoleAdmin, "user_data:edit", true},

		// "own" does not satisfy "all".
		{rule.RoleMember, "user_data:edit:all", false},

		// Default deny.
		{rule.RoleMember, "outreach:manage", false},
		{rule.RoleGuest, "outreach:view", false},
		{rule.RoleGuest, "build_tasks:manage", false},
	}
	for _, tt := range tests {
		got, err := eng.HasPermission(ctx, tt.role, tt.permission)
		if err != nil {
			t.Fatalf("HasPermission(%s, %s): %v", tt.role, tt.permission, err)
		}
		if got != tt.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}

func TestCheckReportsMatchedRule(t *testing.T) {
	eng, s := newEngine(t)
	ctx := context.Background()

	granted := seedRule(t, s, rule.RoleMember, rule.ResourceOutreach, rule.ActionView, rule.ConditionNone)

	result, err := eng.Check(ctx, rule.RoleMember, "outreach:view")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Allowed || result.Matched == nil || result.Matched.ID != granted.ID {
		t.Errorf("unexpected result: %+v", result)
	}

	result, err = eng.Check(ctx, rule.RoleMember, "outreach:manage")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Allowed || result.Reason == "" {
		t.Errorf("expected a denial with a reason, got %+v", result)
	}
}

func TestMalformedPermissionIsAnError(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	for _, p := range []string{"", "outreach", "a:b:c:d", "outreach::", "bogus:view"} {
		if _, err := eng.HasPermission(ctx, rule.RoleAdmin, p); !errors.Is(err, rule.ErrMalformedPermission) {
			t.Errorf("HasPermission(%q): expected ErrMalformedPermission, got %v", p, err)
		}
	}
}

func TestUnknownRole(t *testing.T) {
	eng, _ := newEngine(t)
	if _, err := eng.HasPermission(context.Background(), rule.Role("superuser"), "outreach:view"); !errors.Is(err, otoolkit.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRequireUsesContextActor(t *testing.T) {
	eng, s := newEngine(t)
	seedRule(t, s, rule.RoleMember, rule.ResourceOutreach, rule.ActionView, rule.ConditionNone)

	// No actor on the context.
	if err := eng.Require(context.Background(), "outreach:view"); !errors.Is(err, otoolkit.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied without actor, got %v", err)
	}

	ctx := otoolkit.WithActor(context.Background(), otoolkit.Actor{UserID: "user-1", Role: rule.RoleMember})
	if err := eng.Require(ctx, "outreach:view"); err != nil {
		t.Fatalf("require: %v", err)
	}
	if err := eng.Require(ctx, "outreach:manage"); !errors.Is(err, otoolkit.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

// spyCache records operations so tests can observe engine cache traffic.
type spyCache struct {
	inner       *cache.Memory
	sets        int
	invalidated []rule.Role
}

func (c *spyCache) Get(ctx context.Context, role rule.Role) ([]*rule.Rule, bool) {
	return c.inner.Get(ctx, role)
}

func (c *spyCache) Set(ctx context.Context, role rule.Role, rules []*rule.Rule) {
	c.sets++
	c.inner.Set(ctx, role, rules)
}

func (c *spyCache) Invalidate(ctx context.Context, roles ...rule.Role) {
	c.invalidated = append(c.invalidated, roles...)
	c.inner.Invalidate(ctx, roles...)
}

func (c *spyCache) InvalidateAll(ctx context.Context) {
	c.inner.InvalidateAll(ctx)
}

func TestCachePopulatedOnMiss(t *testing.T) {
	spy := &spyCache{inner: cache.NewMemory()}
	eng, s := newEngine(t, otoolkit.WithCache(spy))
	ctx := context.Background()

	seedRule(t, s, rule.RoleMember, rule.ResourceOutreach, rule.ActionView, rule.ConditionNone)

	for i := 0; i < 3; i++ {
		if _, err := eng.HasPermission(ctx, rule.RoleMember, "outreach:view"); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if spy.sets != 1 {
		t.Errorf("expected one cache fill, got %d", spy.sets)
	}
}

func TestRuleMutationInvalidatesDependentRoles(t *testing.T) {
	spy := &spyCache{inner: cache.NewMemory()}
	eng, s := newEngine(t, otoolkit.WithCache(spy))

	seedRule(t, s, rule.RoleAdmin, rule.ResourceRBAC, rule.ActionManage, rule.ConditionNone)
	ctx := otoolkit.WithActor(context.Background(), otoolkit.Actor{UserID: "admin-1", Role: rule.RoleAdmin})

	// Mutating a member rule must also drop admin, which inherits it.
	r := &rule.Rule{
		Role:      rule.RoleMember,
		Resource:  rule.ResourceOutreach,
		Action:    rule.ActionView,
		Condition: rule.ConditionNone,
	}
	if err := eng.CreateRule(ctx, r); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	invalidated := map[rule.Role]bool{}
	for _, role := range spy.invalidated {
		invalidated[role] = true
	}
	if !invalidated[rule.RoleMember] || !invalidated[rule.RoleAdmin] {
		t.Errorf("expected member and admin invalidated, got %v", spy.invalidated)
	}
	if invalidated[rule.RoleGuest] {
		t.Error("guest does not inherit member rules and should not be invalidated")
	}
}

func TestRuleAdministrationRequiresManage(t *testing.T) {
	eng, s := newEngine(t)
	seedRule(t, s, rule.RoleAdmin, rule.ResourceRBAC, rule.ActionManage, rule.ConditionNone)

	r := &rule.Rule{
		Role:      rule.RoleMember,
		Resource:  rule.ResourceOutreach,
		Action:    rule.ActionView,
		Condition: rule.ConditionNone,
	}

	memberCtx := otoolkit.WithActor(context.Background(), otoolkit.Actor{UserID: "user-1", Role: rule.RoleMember})
	if err := eng.CreateRule(memberCtx, r); !errors.Is(err, otoolkit.ErrAccessDenied) {
		t.Fatalf("member create: expected ErrAccessDenied, got %v", err)
	}

	adminCtx := otoolkit.WithActor(context.Background(), otoolkit.Actor{UserID: "admin-1", Role: rule.RoleAdmin})
	if err := eng.CreateRule(adminCtx, r); err != nil {
		t.Fatalf("admin create: %v", err)
	}

	// The new grant is visible immediately.
	allowed, err := eng.HasPermission(context.Background(), rule.RoleMember, "outreach:view")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !allowed {
		t.Error("expected the created rule to take effect")
	}

	if err := eng.DeleteRule(memberCtx, r.ID); !errors.Is(err, otoolkit.ErrAccessDenied) {
		t.Fatalf("member delete: expected ErrAccessDenied, got %v", err)
	}
	if err := eng.DeleteRule(adminCtx, r.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestChainFor(t *testing.T) {
	chain, err := otoolkit.ChainFor(rule.RoleAdmin)
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if len(chain) != 3 {
		t.Errorf("expected admin to inherit all three roles, got %v", chain)
	}
	if _, err := otoolkit.ChainFor(rule.Role("superuser")); !errors.Is(err, otoolkit.ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}
