package otoolkit

import "errors"

var (
	// ErrAccessDenied is returned when an authorization check fails.
	ErrAccessDenied = errors.New("otoolkit: access denied")

	// ErrUnknownRole is returned when a role is outside the closed set.
	ErrUnknownRole = errors.New("otoolkit: unknown role")

	// ErrNoActor is returned when an operation requires an actor and the
	// context carries none.
	ErrNoActor = errors.New("otoolkit: no actor in context")
)
