package api

import (
	"context"
	"errors"

	"github.com/xraph/forge"

	otoolkit "github.com/Team-Optix-3749/otoolkit-sub000"
	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if isBadRequest(err) {
		return forge.BadRequest(err.Error())
	}
	if isForbidden(err) {
		return forge.Forbidden(err.Error())
	}
	if errors.Is(err, session.ErrOpenSessionExists) || errors.Is(err, session.ErrAlreadyClosed) {
		return forge.BadRequest(err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, rule.ErrRuleNotFound) ||
		errors.Is(err, geofence.ErrLocationNotFound) ||
		errors.Is(err, session.ErrSessionNotFound) ||
		errors.Is(err, task.ErrTaskNotFound) ||
		errors.Is(err, task.ErrGroupNotFound) ||
		errors.Is(err, outreach.ErrEventNotFound) ||
		errors.Is(err, outreach.ErrActivityNotFound)
}

func isBadRequest(err error) bool {
	return errors.Is(err, rule.ErrMalformedPermission) ||
		errors.Is(err, rule.ErrInvalidRule) ||
		errors.Is(err, otoolkit.ErrUnknownRole) ||
		errors.Is(err, geofence.ErrInvalidLocation) ||
		errors.Is(err, geofence.ErrInvalidWindow) ||
		errors.Is(err, task.ErrInvalidTransition) ||
		errors.Is(err, task.ErrReasonRequired) ||
		errors.Is(err, task.ErrInvalidTask) ||
		errors.Is(err, outreach.ErrInvalidEvent) ||
		errors.Is(err, outreach.ErrInvalidActivity)
}

func isForbidden(err error) bool {
	return errors.Is(err, otoolkit.ErrAccessDenied) ||
		errors.Is(err, task.ErrNotAllowed) ||
		errors.Is(err, outreach.ErrNotAllowed) ||
		errors.Is(err, session.ErrNoValidLocation)
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

// actorCtx returns the request context with the resolved actor attached, so
// the engine and services can enforce their permission checks.
func actorCtx(ctx forge.Context) context.Context {
	userID, role := actorRole(ctx)
	return otoolkit.WithActor(ctx.Context(), otoolkit.Actor{UserID: userID, Role: role})
}

// actorRole resolves the acting user's role from context, defaulting to guest
// for unauthenticated requests.
func actorRole(ctx forge.Context) (string, rule.Role) {
	if actor, ok := otoolkit.ActorFromContext(ctx.Context()); ok {
		return actor.UserID, actor.Role
	}
	if userID := forge.UserIDFromContext(ctx.Context()); userID != "" {
		return userID, rule.RoleGuest
	}
	return "anonymous", rule.RoleGuest
}
