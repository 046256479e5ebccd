package otoolkit

import (
	"context"

	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// Actor is the already-resolved identity performing an operation. The core
// never authenticates; it only consumes identities supplied by the caller.
type Actor struct {
	UserID string    `json:"user_id"`
	Role   rule.Role `json:"role"`
}

type contextKey int

const ctxKeyActor contextKey = iota

// WithActor returns a context carrying the acting user's identity.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// ActorFromContext extracts the acting user's identity, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKeyActor).(Actor)
	return a, ok
}
