package routegate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// permSet grants the listed permissions to every role.
type permSet map[string]bool

func (p permSet) HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error) {
	return p[permission], nil
}

func TestRequirementUnmarshal(t *testing.T) {
	t.Run("leaf", func(t *testing.T) {
		var r Requirement
		if err := r.UnmarshalJSON([]byte(`"outreach:view"`)); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if r.Permission != "outreach:view" {
			t.Errorf("expected leaf permission, got %+v", r)
		}
	})

	t.Run("group", func(t *testing.T) {
		var r Requirement
		payload := `{"type":"or","requirements":["outreach:view","outreach:manage"]}`
		if err := r.UnmarshalJSON([]byte(payload)); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if r.Type != GroupOr || len(r.Requirements) != 2 {
			t.Errorf("unexpected group: %+v", r)
		}
	})

	t.Run("permissions array group", func(t *testing.T) {
		var r Requirement
		payload := `{"type":"and","permissions":["rbac:manage","settings:manage"]}`
		if err := r.UnmarshalJSON([]byte(payload)); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if r.Type != GroupAnd || len(r.Requirements) != 2 {
			t.Fatalf("unexpected group: %+v", r)
		}
		if r.Requirements[0].Permission != "rbac:manage" || r.Requirements[1].Permission != "settings:manage" {
			t.Errorf("expected leaf children, got %+v", r.Requirements)
		}
	})

	t.Run("unknown group type", func(t *testing.T) {
		var r Requirement
		if err := r.UnmarshalJSON([]byte(`{"type":"xor","requirements":["rbac:manage"]}`)); !errors.Is(err, ErrMalformedRequirement) {
			t.Errorf("expected ErrMalformedRequirement, got %v", err)
		}
	})

	t.Run("group without children", func(t *testing.T) {
		for _, payload := range []string{
			`{"type":"and","permissions":[]}`,
			`{"type":"or"}`,
		} {
			var r Requirement
			if err := r.UnmarshalJSON([]byte(payload)); !errors.Is(err, ErrMalformedRequirement) {
				t.Errorf("unmarshal %s: expected ErrMalformedRequirement, got %v", payload, err)
			}
		}
	})
}

func TestRequirementSatisfied(t *testing.T) {
	ctx := context.Background()
	authz := permSet{"outreach:view": true, "settings:manage": false, "rbac:manage": true}

	tests := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"leaf granted", Requirement{Permission: "outreach:view"}, true},
		{"leaf denied", Requirement{Permission: "settings:manage"}, false},
		{"and all granted", Requirement{Type: GroupAnd, Requirements: []Requirement{
			{Permission: "outreach:view"}, {Permission: "rbac:manage"},
		}}, true},
		{"and one denied", Requirement{Type: GroupAnd, Requirements: []Requirement{
			{Permission: "outreach:view"}, {Permission: "settings:manage"},
		}}, false},
		{"or one granted", Requirement{Type: GroupOr, Requirements: []Requirement{
			{Permission: "settings:manage"}, {Permission: "rbac:manage"},
		}}, true},
		{"or none granted", Requirement{Type: GroupOr, Requirements: []Requirement{
			{Permission: "settings:manage"},
		}}, false},
		{"empty and denies", Requirement{Type: GroupAnd}, false},
		{"empty or denies", Requirement{Type: GroupOr}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Satisfied(ctx, authz, rule.RoleMember)
			if err != nil {
				t.Fatalf("satisfied: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckRoute(t *testing.T) {
	ctx := context.Background()
	authz := permSet{"outreach:view": true}
	g, err := NewGate(authz)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/outreach", true},
		{"/settings", false},
		{"/unlisted", true},     // unlisted routes are not restricted
		{"not-a-route", true},   // non-path strings pass through
		{"settings:view", true}, // permission strings are not routes
	}
	for _, tt := range tests {
		got, err := g.CheckRoute(ctx, rule.RoleMember, tt.path)
		if err != nil {
			t.Fatalf("CheckRoute(%s): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("CheckRoute(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRefreshReplacesTable(t *testing.T) {
	ctx := context.Background()
	authz := permSet{"outreach:view": true}

	payload := []byte(`{"/members": "user_data:view"}`)
	g, err := NewGate(authz, WithSource(StaticSource(payload), "route-permissions"))
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	if err := g.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// The fetched table replaced the defaults entirely.
	if ok, _ := g.CheckRoute(ctx, rule.RoleMember, "/members"); ok {
		t.Error("expected /members denied without user_data:view")
	}
	if ok, _ := g.CheckRoute(ctx, rule.RoleMember, "/settings"); !ok {
		t.Error("expected /settings unrestricted after the new table dropped it")
	}
}

func TestRefreshWithPermissionsGroupPayload(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"/admin": {"type": "and", "permissions": ["rbac:manage", "settings:manage"]}}`)

	t.Run("denied without grants", func(t *testing.T) {
		g, err := NewGate(permSet{}, WithSource(StaticSource(payload), "route-permissions"))
		if err != nil {
			t.Fatalf("new gate: %v", err)
		}
		if err := g.Refresh(ctx); err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if ok, _ := g.CheckRoute(ctx, rule.RoleGuest, "/admin"); ok {
			t.Error("expected /admin denied for a role with no grants")
		}
	})

	t.Run("allowed with both grants", func(t *testing.T) {
		authz := permSet{"rbac:manage": true, "settings:manage": true}
		g, err := NewGate(authz, WithSource(StaticSource(payload), "route-permissions"))
		if err != nil {
			t.Fatalf("new gate: %v", err)
		}
		if err := g.Refresh(ctx); err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if ok, _ := g.CheckRoute(ctx, rule.RoleAdmin, "/admin"); !ok {
			t.Error("expected /admin allowed when every grant is held")
		}
	})
}

func TestRefreshKeepsLastKnownGood(t *testing.T) {
	ctx := context.Background()
	authz := permSet{}

	tests := []struct {
		name   string
		source Source
	}{
		{"fetch error", SourceFunc(func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("settings service down")
		})},
		{"malformed payload", StaticSource([]byte(`{"/settings": 42`))},
		{"empty table", StaticSource([]byte(`{}`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGate(authz, WithSource(tt.source, "route-permissions"))
			if err != nil {
				t.Fatalf("new gate: %v", err)
			}
			if err := g.Refresh(ctx); err == nil {
				t.Fatal("expected refresh to fail")
			}
			// Defaults still in effect: /settings stays restricted.
			if ok, _ := g.CheckRoute(ctx, rule.RoleMember, "/settings"); ok {
				t.Error("expected previous table to remain after failed refresh")
			}
		})
	}
}

func TestLazyRefreshHonorsTTL(t *testing.T) {
	ctx := context.Background()
	authz := permSet{}

	fetches := 0
	source := SourceFunc(func(ctx context.Context, key string) ([]byte, error) {
		fetches++
		return []byte(`{"/settings": "settings:view"}`), nil
	})

	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	g, err := NewGate(authz,
		WithSource(source, "route-permissions"),
		WithTTL(5*time.Minute),
		WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	g.CheckRoute(ctx, rule.RoleMember, "/settings")
	g.CheckRoute(ctx, rule.RoleMember, "/settings")
	if fetches != 1 {
		t.Errorf("expected one fetch within the TTL, got %d", fetches)
	}

	now = now.Add(6 * time.Minute)
	g.CheckRoute(ctx, rule.RoleMember, "/settings")
	if fetches != 2 {
		t.Errorf("expected a refetch after the TTL, got %d", fetches)
	}
}
