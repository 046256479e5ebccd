package otoolkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/store"
)

// Engine is the central permission evaluator. It resolves a role's effective
// rule set (own rules plus everything inherited through the role chain),
// consults the injected cache, and applies condition subsumption. Rule
// mutations flow through the engine so the cache is invalidated for exactly
// the affected roles.
type Engine struct {
	store  store.Store
	cache  Cache
	logger *slog.Logger
	config Config
}

// NewEngine creates a new authorization engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("otoolkit: store is required")
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// HasPermission reports whether the role holds the requested permission.
// This is the hot path: a pure read with no side effects beyond cache
// population. A malformed permission string is a programming error and is
// returned as ErrMalformedPermission, never as a silent deny.
func (e *Engine) HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error) {
	result, err := e.Check(ctx, role, permission)
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

// Check performs a permission check and reports which rule matched.
func (e *Engine) Check(ctx context.Context, role rule.Role, permission string) (*CheckResult, error) {
	p, err := rule.ParsePermission(permission)
	if err != nil {
		return nil, err
	}

	rules, err := e.effectiveRules(ctx, role)
	if err != nil {
		return nil, err
	}

	for _, r := range rules {
		if r.Matches(p) {
			return &CheckResult{Allowed: true, Matched: r}, nil
		}
	}

	// Default deny: no matching rule means no access.
	return &CheckResult{
		Allowed: false,
		Reason:  fmt.Sprintf("no rule grants %s to role %s", p, role),
	}, nil
}

// Require returns ErrAccessDenied unless the context's actor holds the
// permission. It is the single policy function shared by HTTP middleware and
// the domain services, so UI-level gating is always mirrored server-side.
func (e *Engine) Require(ctx context.Context, permission string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccessDenied, ErrNoActor)
	}
	return e.RequireRole(ctx, actor.Role, permission)
}

// RequireRole returns ErrAccessDenied unless the role holds the permission.
func (e *Engine) RequireRole(ctx context.Context, role rule.Role, permission string) error {
	allowed, err := e.HasPermission(ctx, role, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: role %s lacks %s", ErrAccessDenied, role, permission)
	}
	return nil
}

// effectiveRules returns the role's resolved rule set, consulting the cache
// first. A miss fetches the union of the role chain's rules from the store
// and repopulates the cache.
func (e *Engine) effectiveRules(ctx context.Context, role rule.Role) ([]*rule.Rule, error) {
	chain, err := ChainFor(role)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, role); ok {
			return cached, nil
		}
	}

	fetchCtx := ctx
	if e.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.config.RequestTimeout)
		defer cancel()
	}
	rules, err := e.store.ListRulesForRoles(fetchCtx, chain)
	if err != nil {
		return nil, fmt.Errorf("otoolkit: fetch rules for %s: %w", role, err)
	}

	if e.cache != nil {
		e.cache.Set(ctx, role, rules)
	}
	return rules, nil
}

// ──────────────────────────────────────────────────
// Rule administration
// ──────────────────────────────────────────────────

// CreateRule persists a new permission rule. The acting user must hold
// rbac:manage. The affected role's cache entry is invalidated immediately.
func (e *Engine) CreateRule(ctx context.Context, r *rule.Rule) error {
	if err := e.Require(ctx, "rbac:manage"); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID.IsNil() {
		r.ID = id.NewRuleID()
	}
	if err := e.store.CreateRule(ctx, r); err != nil {
		return fmt.Errorf("otoolkit: create rule: %w", err)
	}
	e.invalidateDependents(ctx, r.Role)
	e.logger.Info("permission rule created", "rule", r.ID.String(), "role", r.Role)
	return nil
}

// UpdateRule persists changes to a rule, invalidating both the previous and
// the new role when the rule moves between roles.
func (e *Engine) UpdateRule(ctx context.Context, r *rule.Rule) error {
	if err := e.Require(ctx, "rbac:manage"); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	old, err := e.store.GetRule(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("otoolkit: update rule: %w", err)
	}
	if err := e.store.UpdateRule(ctx, r); err != nil {
		return fmt.Errorf("otoolkit: update rule: %w", err)
	}
	e.invalidateDependents(ctx, old.Role, r.Role)
	e.logger.Info("permission rule updated", "rule", r.ID.String(), "role", r.Role)
	return nil
}

// DeleteRule removes a rule and invalidates its role.
func (e *Engine) DeleteRule(ctx context.Context, ruleID id.RuleID) error {
	if err := e.Require(ctx, "rbac:manage"); err != nil {
		return err
	}
	old, err := e.store.GetRule(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("otoolkit: delete rule: %w", err)
	}
	if err := e.store.DeleteRule(ctx, ruleID); err != nil {
		return fmt.Errorf("otoolkit: delete rule: %w", err)
	}
	e.invalidateDependents(ctx, old.Role)
	e.logger.Info("permission rule deleted", "rule", ruleID.String(), "role", old.Role)
	return nil
}

// invalidateDependents drops cache entries for every role whose effective
// set includes one of the mutated roles (a member rule change also changes
// what admin resolves to).
func (e *Engine) invalidateDependents(ctx context.Context, mutated ...rule.Role) {
	if e.cache == nil {
		return
	}
	affected := make([]rule.Role, 0, len(roleChain))
	for holder, chain := range roleChain {
		for _, inherited := range chain {
			if containsRole(mutated, inherited) {
				affected = append(affected, holder)
				break
			}
		}
	}
	e.cache.Invalidate(ctx, affected...)
}

func containsRole(roles []rule.Role, r rule.Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
