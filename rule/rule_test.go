package rule

import (
	"errors"
	"testing"
)

func TestConditionSatisfies(t *testing.T) {
	tests := []struct {
		name      string
		stored    Condition
		requested Condition
		want      bool
	}{
		{"all satisfies none", ConditionAll, ConditionNone, true},
		{"all satisfies own", ConditionAll, ConditionOwn, true},
		{"all satisfies all", ConditionAll, ConditionAll, true},
		{"own satisfies own", ConditionOwn, ConditionOwn, true},
		{"own does not satisfy none", ConditionOwn, ConditionNone, false},
		{"own does not satisfy all", ConditionOwn, ConditionAll, false},
		{"none satisfies none", ConditionNone, ConditionNone, true},
		{"none does not satisfy own", ConditionNone, ConditionOwn, false},
		{"none does not satisfy all", ConditionNone, ConditionAll, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stored.Satisfies(tt.requested); got != tt.want {
				t.Errorf("Condition(%q).Satisfies(%q) = %v, want %v", tt.stored, tt.requested, got, tt.want)
			}
		})
	}
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		input   string
		want    Permission
		wantErr bool
	}{
		{"build_tasks:view", Permission{Resource: ResourceBuildTasks, Action: ActionView}, false},
		{"rbac:manage", Permission{Resource: ResourceRBAC, Action: ActionManage}, false},
		{"outreach:edit:own", Permission{Resource: ResourceOutreach, Action: ActionEdit, Condition: ConditionOwn}, false},
		{"user_data:view:all", Permission{Resource: ResourceUserData, Action: ActionView, Condition: ConditionAll}, false},
		{"build_tasks", Permission{}, true},
		{"build_tasks:view:own:extra", Permission{}, true},
		{"build_tasks:view:", Permission{}, true},
		{"unknown:view", Permission{}, true},
		{"build_tasks:unknown", Permission{}, true},
		{"build_tasks:view:sometimes", Permission{}, true},
		{"", Permission{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePermission(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePermission(%q) expected error, got %+v", tt.input, got)
				}
				if !errors.Is(err, ErrMalformedPermission) {
					t.Errorf("expected ErrMalformedPermission, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePermission(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePermission(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPermissionString(t *testing.T) {
	p := Permission{Resource: ResourceBuildSessions, Action: ActionCreate}
	if p.String() != "build_sessions:create" {
		t.Errorf("unexpected string: %q", p.String())
	}

	p.Condition = ConditionOwn
	if p.String() != "build_sessions:create:own" {
		t.Errorf("unexpected string: %q", p.String())
	}
}

func TestRuleMatches(t *testing.T) {
	r := &Rule{Role: RoleMember, Resource: ResourceBuildTasks, Action: ActionView, Condition: ConditionAll}

	if !r.Matches(Permission{Resource: ResourceBuildTasks, Action: ActionView}) {
		t.Error("rule with condition all should match unconditioned request")
	}
	if !r.Matches(Permission{Resource: ResourceBuildTasks, Action: ActionView, Condition: ConditionOwn}) {
		t.Error("rule with condition all should match own request")
	}
	if r.Matches(Permission{Resource: ResourceBuildTasks, Action: ActionEdit}) {
		t.Error("action mismatch should not match")
	}
	if r.Matches(Permission{Resource: ResourceOutreach, Action: ActionView}) {
		t.Error("resource mismatch should not match")
	}

	own := &Rule{Role: RoleMember, Resource: ResourceBuildTasks, Action: ActionView, Condition: ConditionOwn}
	if own.Matches(Permission{Resource: ResourceBuildTasks, Action: ActionView, Condition: ConditionAll}) {
		t.Error("rule with condition own must not satisfy a request for all")
	}
}

func TestRuleValidate(t *testing.T) {
	valid := &Rule{Role: RoleAdmin, Resource: ResourceRBAC, Action: ActionManage}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}

	bad := []*Rule{
		{Role: "owner", Resource: ResourceRBAC, Action: ActionManage},
		{Role: RoleAdmin, Resource: "secrets", Action: ActionManage},
		{Role: RoleAdmin, Resource: ResourceRBAC, Action: "approve"},
		{Role: RoleAdmin, Resource: ResourceRBAC, Action: ActionManage, Condition: "sometimes"},
	}
	for i, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("case %d: expected ErrInvalidRule, got %v", i, err)
		}
	}
}
