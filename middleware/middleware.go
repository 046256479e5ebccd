// Package middleware provides HTTP authorization middleware for otoolkit.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/routegate"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

// RequirePermission enforces a single permission check. It resolves the actor
// from the request context (otoolkit actor > Forge user > anonymous guest)
// and denies with 403 when the actor's role lacks the permission.
func RequirePermission(eng *otoolkit.Engine, permission string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor := resolveActor(ctx)
			if err := eng.RequireRole(ctx.Context(), actor.Role, permission); err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAnyPermission allows the request if ANY of the permissions is held.
func RequireAnyPermission(eng *otoolkit.Engine, permissions ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor := resolveActor(ctx)
			for _, p := range permissions {
				allowed, err := eng.HasPermission(ctx.Context(), actor.Role, p)
				if err == nil && allowed {
					return next(ctx)
				}
			}
			return denyResponse(ctx)
		}
	}
}

// RequireRoute enforces the route permission table for the given dashboard
// path. Paths the gate does not know about pass through.
func RequireRoute(gate *routegate.Gate, path string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor := resolveActor(ctx)
			allowed, err := gate.CheckRoute(ctx.Context(), actor.Role, path)
			if err != nil || !allowed {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// resolveActor extracts the acting user from context.
// Priority: otoolkit actor → Forge user ID (guest role) → anonymous guest.
func resolveActor(ctx forge.Context) otoolkit.Actor {
	if actor, ok := otoolkit.ActorFromContext(ctx.Context()); ok {
		return actor
	}
	if userID := forge.UserIDFromContext(ctx.Context()); userID != "" {
		return otoolkit.Actor{UserID: userID, Role: rule.RoleGuest}
	}
	return otoolkit.Actor{UserID: "anonymous", Role: rule.RoleGuest}
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
