package otoolkit

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// Cache stores resolved per-role rule sets. Implementations expire entries
// after a TTL; rule mutations invalidate the affected roles immediately.
// Concurrent repopulation of the same expired key is acceptable because the
// underlying fetch is idempotent.
type Cache interface {
	// Get returns the cached rule set for a role, if present and fresh.
	Get(ctx context.Context, role rule.Role) ([]*rule.Rule, bool)

	// Set stores a role's resolved rule set.
	Set(ctx context.Context, role rule.Role, rules []*rule.Rule)

	// Invalidate drops the entries for the given roles.
	Invalidate(ctx context.Context, roles ...rule.Role)

	// InvalidateAll drops every entry.
	InvalidateAll(ctx context.Context)
}
