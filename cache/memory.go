// Package cache provides the in-memory TTL cache for per-role rule sets.
package cache

import (
	"context"
	"sync"
	"time"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

const defaultTTL = 60 * time.Second

type entry struct {
	rules     []*rule.Rule
	expiresAt time.Time
}

// Memory is a TTL cache keyed by role. Entries expire after the TTL and are
// dropped eagerly on rule mutations, so a stale grant can outlive its rule by
// at most one TTL.
type Memory struct {
	mu      sync.RWMutex
	entries map[rule.Role]entry
	ttl     time.Duration
	now     func() time.Time
}

var _ otoolkit.Cache = (*Memory)(nil)

// Option is a functional option for the Memory cache.
type Option func(*Memory)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) Option { return func(m *Memory) { m.ttl = ttl } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(m *Memory) { m.now = now } }

// NewMemory creates a rule cache with a 60 second default TTL.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[rule.Role]entry),
		ttl:     defaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached rule set for the role, if present and unexpired.
func (m *Memory) Get(ctx context.Context, role rule.Role) ([]*rule.Rule, bool) {
	m.mu.RLock()
	e, ok := m.entries[role]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, role)
		m.mu.Unlock()
		return nil, false
	}
	return e.rules, true
}

// Set stores the role's resolved rule set.
func (m *Memory) Set(ctx context.Context, role rule.Role, rules []*rule.Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[role] = entry{rules: rules, expiresAt: m.now().Add(m.ttl)}
}

// Invalidate drops the given roles' entries.
func (m *Memory) Invalidate(ctx context.Context, roles ...rule.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, role := range roles {
		delete(m.entries, role)
	}
}

// InvalidateAll drops every entry.
func (m *Memory) InvalidateAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[rule.Role]entry)
}
