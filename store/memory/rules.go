package memory

import (
	"context"
	"sort"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

func copyRule(r *rule.Rule) *rule.Rule {
	c := *r
	return &c
}

// CreateRule persists a new rule.
func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID] = copyRule(r)
	return nil
}

// GetRule retrieves a rule by ID.
func (s *Store) GetRule(ctx context.Context, ruleID id.RuleID) (*rule.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[ruleID]
	if !ok {
		return nil, rule.ErrRuleNotFound
	}
	return copyRule(r), nil
}

// UpdateRule persists changes to a rule.
func (s *Store) UpdateRule(ctx context.Context, r *rule.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[r.ID]; !ok {
		return rule.ErrRuleNotFound
	}
	s.rules[r.ID] = copyRule(r)
	return nil
}

// DeleteRule removes a rule by ID.
func (s *Store) DeleteRule(ctx context.Context, ruleID id.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[ruleID]; !ok {
		return rule.ErrRuleNotFound
	}
	delete(s.rules, ruleID)
	return nil
}

// ListRules returns rules matching the filter.
func (s *Store) ListRules(ctx context.Context, filter *rule.ListFilter) ([]*rule.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*rule.Rule
	for _, r := range s.rules {
		if filter != nil {
			if filter.Role != "" && r.Role != filter.Role {
				continue
			}
			if filter.Resource != "" && r.Resource != filter.Resource {
				continue
			}
			if filter.Action != "" && r.Action != filter.Action {
				continue
			}
		}
		out = append(out, copyRule(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter != nil {
		out = applyPagination(out, filter.Limit, filter.Offset)
	}
	return out, nil
}

// ListRulesForRoles returns every rule whose role is in the given set.
func (s *Store) ListRulesForRoles(ctx context.Context, roles []rule.Role) ([]*rule.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[rule.Role]struct{}, len(roles))
	for _, role := range roles {
		wanted[role] = struct{}{}
	}

	var out []*rule.Rule
	for _, r := range s.rules {
		if _, ok := wanted[r.Role]; ok {
			out = append(out, copyRule(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
