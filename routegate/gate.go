// Package routegate maps dashboard routes to permission requirements and
// answers whether a role may open a route. The route table is fetched from a
// config source and refreshed lazily with a TTL, keeping the last known good
// table when a refresh fails.
package routegate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

const defaultTTL = 5 * time.Minute

// ErrMalformedRequirement is returned when a route table payload cannot be
// decoded.
var ErrMalformedRequirement = errors.New("routegate: malformed requirement")

// GroupType combines child requirements.
type GroupType string

const (
	GroupAnd GroupType = "and"
	GroupOr  GroupType = "or"
)

// Authorizer decides whether a role holds a permission.
type Authorizer interface {
	HasPermission(ctx context.Context, role rule.Role, permission string) (bool, error)
}

// Requirement is either a single permission string or a boolean group of
// child requirements. In JSON a leaf is a bare string and a group is an
// object with "type" and a "permissions" array of permission strings
// (nested groups may use "requirements" instead).
type Requirement struct {
	Permission   string        `json:"-"`
	Type         GroupType     `json:"type,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
}

// UnmarshalJSON accepts the string form and both group forms. A group that
// carries no children is rejected rather than decoded into an always-allow
// requirement.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedRequirement, err)
		}
		*r = Requirement{Permission: s}
		return nil
	}

	type group struct {
		Type         GroupType     `json:"type"`
		Permissions  []string      `json:"permissions"`
		Requirements []Requirement `json:"requirements"`
	}
	var g group
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRequirement, err)
	}
	if g.Type != GroupAnd && g.Type != GroupOr {
		return fmt.Errorf("%w: unknown group type %q", ErrMalformedRequirement, g.Type)
	}
	children := g.Requirements
	for _, p := range g.Permissions {
		children = append(children, Requirement{Permission: p})
	}
	if len(children) == 0 {
		return fmt.Errorf("%w: group with no permissions", ErrMalformedRequirement)
	}
	*r = Requirement{Type: g.Type, Requirements: children}
	return nil
}

// MarshalJSON emits the compact string form for leaves.
func (r Requirement) MarshalJSON() ([]byte, error) {
	if r.Permission != "" {
		return json.Marshal(r.Permission)
	}
	type group struct {
		Type         GroupType     `json:"type"`
		Requirements []Requirement `json:"requirements"`
	}
	return json.Marshal(group{Type: r.Type, Requirements: r.Requirements})
}

// Satisfied evaluates the requirement for a role. A group with no children
// denies: a requirement that demands nothing grants nothing.
func (r Requirement) Satisfied(ctx context.Context, authz Authorizer, role rule.Role) (bool, error) {
	if r.Permission != "" {
		return authz.HasPermission(ctx, role, r.Permission)
	}
	if len(r.Requirements) == 0 {
		return false, nil
	}
	switch r.Type {
	case GroupAnd:
		for _, child := range r.Requirements {
			ok, err := child.Satisfied(ctx, authz, role)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case GroupOr:
		for _, child := range r.Requirements {
			ok, err := child.Satisfied(ctx, authz, role)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("%w: empty requirement", ErrMalformedRequirement)
}

// Source supplies the serialized route table. Implementations fetch from a
// settings service, a file, or a static map.
type Source interface {
	Payload(ctx context.Context, key string) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, key string) ([]byte, error)

// Payload calls f.
func (f SourceFunc) Payload(ctx context.Context, key string) ([]byte, error) { return f(ctx, key) }

// StaticSource serves a fixed payload, mainly for tests and local runs.
func StaticSource(payload []byte) Source {
	return SourceFunc(func(ctx context.Context, key string) ([]byte, error) {
		return payload, nil
	})
}

// Gate answers route access questions against the current route table.
type Gate struct {
	authz  Authorizer
	source Source
	key    string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	routes    map[string]Requirement
	fetchedAt time.Time
}

// GateOption is a functional option for the Gate.
type GateOption func(*Gate)

// WithSource sets the route table source and its lookup key.
func WithSource(source Source, key string) GateOption {
	return func(g *Gate) { g.source, g.key = source, key }
}

// WithTTL sets how long a fetched route table is trusted.
func WithTTL(ttl time.Duration) GateOption { return func(g *Gate) { g.ttl = ttl } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) GateOption { return func(g *Gate) { g.logger = l } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) GateOption { return func(g *Gate) { g.now = now } }

// WithRoutes seeds the route table directly, bypassing the source.
func WithRoutes(routes map[string]Requirement) GateOption {
	return func(g *Gate) { g.routes = routes }
}

// NewGate creates a route gate. Without a source the gate serves its seeded
// routes (or the defaults) forever.
func NewGate(authz Authorizer, opts ...GateOption) (*Gate, error) {
	if authz == nil {
		return nil, errors.New("routegate: authorizer is required")
	}
	g := &Gate{
		authz:  authz,
		ttl:    defaultTTL,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.routes == nil {
		g.routes = DefaultRoutes()
	}
	return g, nil
}

// DefaultRoutes is the built-in route table, used until a source payload
// replaces it.
func DefaultRoutes() map[string]Requirement {
	return map[string]Requirement{
		"/outreach": {Permission: "outreach:view"},
		"/scouting": {Permission: "scouting:view"},
		"/tasks":    {Permission: "build_tasks:view"},
		"/hours":    {Permission: "build_sessions:view"},
		"/settings": {Permission: "settings:view"},
		"/admin": {Type: GroupAnd, Requirements: []Requirement{
			{Permission: "settings:manage"},
			{Permission: "rbac:manage"},
		}},
	}
}

// CheckRoute reports whether the role may open the route. Paths that do not
// start with "/" and paths absent from the table are allowed: the gate only
// protects routes it knows about, and a missing entry means the route was
// never restricted.
func (g *Gate) CheckRoute(ctx context.Context, role rule.Role, path string) (bool, error) {
	if !strings.HasPrefix(path, "/") {
		return true, nil
	}

	g.refreshIfStale(ctx)

	g.mu.RLock()
	req, ok := g.routes[path]
	g.mu.RUnlock()
	if !ok {
		return true, nil
	}
	return req.Satisfied(ctx, g.authz, role)
}

// HasSource reports whether a route table source is configured.
func (g *Gate) HasSource() bool { return g.source != nil }

// refreshIfStale refetches the route table when the TTL has lapsed. Errors
// are logged and the previous table stays in effect.
func (g *Gate) refreshIfStale(ctx context.Context) {
	if g.source == nil {
		return
	}
	g.mu.RLock()
	stale := g.now().Sub(g.fetchedAt) >= g.ttl
	g.mu.RUnlock()
	if !stale {
		return
	}
	if err := g.Refresh(ctx); err != nil {
		g.logger.Warn("route table refresh failed, keeping previous table", "error", err)
	}
}

// Refresh refetches the route table from the source immediately. A fetch
// error, a malformed payload, or an empty table leaves the current table
// untouched.
func (g *Gate) Refresh(ctx context.Context) error {
	if g.source == nil {
		return errors.New("routegate: no source configured")
	}

	payload, err := g.source.Payload(ctx, g.key)
	if err != nil {
		g.touch()
		return fmt.Errorf("routegate: fetch route table: %w", err)
	}

	var routes map[string]Requirement
	if err := json.Unmarshal(payload, &routes); err != nil {
		g.touch()
		return fmt.Errorf("%w: %v", ErrMalformedRequirement, err)
	}
	if len(routes) == 0 {
		g.touch()
		return errors.New("routegate: refusing empty route table")
	}

	g.mu.Lock()
	g.routes = routes
	g.fetchedAt = g.now()
	g.mu.Unlock()
	g.logger.Debug("route table refreshed", "routes", len(routes))
	return nil
}

// touch advances fetchedAt so a failing source is not hammered on every
// check.
func (g *Gate) touch() {
	g.mu.Lock()
	g.fetchedAt = g.now()
	g.mu.Unlock()
}
