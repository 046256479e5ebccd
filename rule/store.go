package rule

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

// Store defines persistence operations for permission rules.
type Store interface {
	// CreateRule persists a new rule.
	CreateRule(ctx context.Context, r *Rule) error

	// GetRule retrieves a rule by ID.
	GetRule(ctx context.Context, ruleID id.RuleID) (*Rule, error)

	// UpdateRule persists changes to a rule.
	UpdateRule(ctx context.Context, r *Rule) error

	// DeleteRule removes a rule by ID.
	DeleteRule(ctx context.Context, ruleID id.RuleID) error

	// ListRules returns rules matching the filter.
	ListRules(ctx context.Context, filter *ListFilter) ([]*Rule, error)

	// ListRulesForRoles returns the union of all rules belonging to the
	// given roles. Used by the evaluator to build a role's effective set.
	ListRulesForRoles(ctx context.Context, roles []Role) ([]*Rule, error)
}
