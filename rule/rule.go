// Package rule defines the permission vocabulary (roles, resources, actions,
// conditions), the persisted permission rule entity, and its store interface.
package rule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// ErrMalformedPermission is returned when a permission string cannot be
// parsed. A malformed permission is a programming error at the call site,
// so callers must fail fast rather than treat it as a deny.
var ErrMalformedPermission = errors.New("rule: malformed permission")

// ErrInvalidRule is returned when a rule fails validation.
var ErrInvalidRule = errors.New("rule: invalid rule")

// ErrRuleNotFound is returned when a rule cannot be found.
var ErrRuleNotFound = errors.New("rule: rule not found")

// Role is the coarse-grained identity classification driving authorization.
type Role string

// The closed set of roles.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Roles lists all known roles.
var Roles = []Role{RoleAdmin, RoleMember, RoleGuest}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleGuest:
		return true
	default:
		return false
	}
}

// Resource identifies a protected part of the system.
type Resource string

// The closed set of resources.
const (
	ResourceOutreach       Resource = "outreach"
	ResourceSettings       Resource = "settings"
	ResourceScouting       Resource = "scouting"
	ResourceBuildTasks     Resource = "build_tasks"
	ResourceBuildSessions  Resource = "build_sessions"
	ResourceBuildLocations Resource = "build_locations"
	ResourceBuildGroups    Resource = "build_groups"
	ResourceRBAC           Resource = "rbac"
	ResourceUserData       Resource = "user_data"
)

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	switch r {
	case ResourceOutreach, ResourceSettings, ResourceScouting,
		ResourceBuildTasks, ResourceBuildSessions, ResourceBuildLocations,
		ResourceBuildGroups, ResourceRBAC, ResourceUserData:
		return true
	default:
		return false
	}
}

// Action identifies what the subject wants to do with a resource.
type Action string

// The closed set of actions.
const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionManage Action = "manage"
	ActionCreate Action = "create"
	ActionSubmit Action = "submit"
	ActionDelete Action = "delete"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionEdit, ActionManage, ActionCreate, ActionSubmit, ActionDelete:
		return true
	default:
		return false
	}
}

// Condition narrows a rule's scope. ConditionNone (the empty string) is the
// distinguished "unconditioned" value, not an absence of information.
type Condition string

// The closed set of conditions.
const (
	ConditionNone Condition = ""
	ConditionOwn  Condition = "own"
	ConditionAll  Condition = "all"
)

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNone, ConditionOwn, ConditionAll:
		return true
	default:
		return false
	}
}

// Satisfies reports whether a stored condition c satisfies a requested
// condition. ConditionAll subsumes every request; otherwise the stored and
// requested conditions must be equal.
func (c Condition) Satisfies(requested Condition) bool {
	if c == ConditionAll {
		return true
	}
	return c == requested
}

// Rule grants a role permission to perform an action on a resource,
// optionally narrowed by a condition.
type Rule struct {
	ID        id.RuleID `json:"id" db:"id"`
	Role      Role      `json:"user_role" db:"user_role"`
	Resource  Resource  `json:"resource" db:"resource"`
	Action    Action    `json:"action" db:"action"`
	Condition Condition `json:"condition,omitempty" db:"condition"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks that every field of the rule is a known enumeration value.
func (r *Rule) Validate() error {
	if !r.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRule, r.Role)
	}
	if !r.Resource.Valid() {
		return fmt.Errorf("%w: unknown resource %q", ErrInvalidRule, r.Resource)
	}
	if !r.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidRule, r.Action)
	}
	if !r.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", ErrInvalidRule, r.Condition)
	}
	return nil
}

// Matches reports whether this rule satisfies the requested permission.
// Resource and action must match exactly; the condition matches by
// subsumption.
func (r *Rule) Matches(p Permission) bool {
	return r.Resource == p.Resource &&
		r.Action == p.Action &&
		r.Condition.Satisfies(p.Condition)
}

// Permission is a parsed permission request.
type Permission struct {
	Resource  Resource
	Action    Action
	Condition Condition
}

// String returns the canonical "resource:action[:condition]" form.
func (p Permission) String() string {
	if p.Condition == ConditionNone {
		return string(p.Resource) + ":" + string(p.Action)
	}
	return string(p.Resource) + ":" + string(p.Action) + ":" + string(p.Condition)
}

// ParsePermission parses "resource:action" or "resource:action:condition".
// Wrong arity, empty components, or unknown enumeration values return
// ErrMalformedPermission.
func ParsePermission(s string) (Permission, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Permission{}, fmt.Errorf("%w: %q", ErrMalformedPermission, s)
	}

	p := Permission{
		Resource: Resource(parts[0]),
		Action:   Action(parts[1]),
	}
	if len(parts) == 3 {
		p.Condition = Condition(parts[2])
		if p.Condition == ConditionNone {
			return Permission{}, fmt.Errorf("%w: empty condition in %q", ErrMalformedPermission, s)
		}
	}

	if !p.Resource.Valid() {
		return Permission{}, fmt.Errorf("%w: unknown resource in %q", ErrMalformedPermission, s)
	}
	if !p.Action.Valid() {
		return Permission{}, fmt.Errorf("%w: unknown action in %q", ErrMalformedPermission, s)
	}
	if !p.Condition.Valid() {
		return Permission{}, fmt.Errorf("%w: unknown condition in %q", ErrMalformedPermission, s)
	}
	return p, nil
}

// ListFilter contains filters for listing rules.
type ListFilter struct {
	Role     Role     `json:"role,omitempty"`
	Resource Resource `json:"resource,omitempty"`
	Action   Action   `json:"action,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}
