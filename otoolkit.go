// Package otoolkit provides the authorization core for a robotics team
// operations dashboard: role-based permission rules with condition
// subsumption, an implicit role hierarchy, and a TTL-bounded rule cache.
//
//	eng, err := otoolkit.NewEngine(
//	    otoolkit.WithStore(memStore),
//	    otoolkit.WithCache(cache.NewMemory()),
//	)
//	allowed, err := eng.HasPermission(ctx, rule.RoleMember, "build_tasks:view")
package otoolkit

import (
	"fmt"

	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// roleChain maps each role to the ordered list of roles whose rules it
// inherits. Higher roles union the rule sets of everything below them
// (admin ⊇ member ⊇ guest), so an admin-only rule never needs duplicating.
// Adding a role is a one-line change here.
var roleChain = map[rule.Role][]rule.Role{
	rule.RoleAdmin:  {rule.RoleAdmin, rule.RoleMember, rule.RoleGuest},
	rule.RoleMember: {rule.RoleMember, rule.RoleGuest},
	rule.RoleGuest:  {rule.RoleGuest},
}

// ChainFor returns the ordered list of roles whose rules contribute to the
// given role's effective permission set.
func ChainFor(role rule.Role) ([]rule.Role, error) {
	chain, ok := roleChain[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return chain, nil
}

// CheckResult is the outcome of a permission check.
type CheckResult struct {
	Allowed bool       `json:"allowed"`
	Matched *rule.Rule `json:"matched,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}
