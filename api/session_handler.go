package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
)

func (a *API) registerSessionRoutes(router forge.Router) error {
	g := router.Group("/v1/sessions", forge.WithGroupTags("sessions"))

	if err := g.POST("/check-in", a.checkIn,
		forge.WithSummary("Check in"),
		forge.WithDescription("Starts a build session if the coordinates fall inside a valid geofence."),
		forge.WithOperationID("sessionCheckIn"),
		forge.WithRequestSchema(CheckInRequest{}),
		forge.WithCreatedResponse(SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/check-out", a.checkOut,
		forge.WithSummary("Check out"),
		forge.WithDescription("Closes the caller's open build session."),
		forge.WithOperationID("sessionCheckOut"),
		forge.WithResponseSchema(http.StatusOK, "Closed session", SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/:sessionId/stop", a.stopSession,
		forge.WithSummary("Stop session"),
		forge.WithDescription("Closes a specific session by ID."),
		forge.WithOperationID("sessionStop"),
		forge.WithResponseSchema(http.StatusOK, "Closed session", SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/open", a.openSession,
		forge.WithSummary("Open session"),
		forge.WithDescription("Returns the caller's currently open session, if any."),
		forge.WithOperationID("sessionOpen"),
		forge.WithResponseSchema(http.StatusOK, "Open session", SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/history", a.sessionHistory,
		forge.WithSummary("Session history"),
		forge.WithDescription("Lists past sessions, newest first."),
		forge.WithOperationID("sessionHistory"),
		forge.WithRequestSchema(SessionHistoryRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Session list", []SessionResponse{}),
		forge.WithErrorResponses(),
	)
}

func toSessionResponse(s *session.Session) *SessionResponse {
	resp := &SessionResponse{
		ID:         s.ID.String(),
		UserID:     s.UserID,
		LocationID: s.LocationID.String(),
		StartedAt:  s.StartedAt.Format(time.RFC3339),
		Open:       s.Open(),
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
		resp.ElapsedMinutes = s.ElapsedMinutes(*s.EndedAt)
	} else {
		resp.ElapsedMinutes = s.ElapsedMinutes(time.Now())
	}
	return resp
}

func (a *API) checkIn(ctx forge.Context, req *CheckInRequest) (*SessionResponse, error) {
	userID, role := actorRole(ctx)
	if err := a.eng.RequireRole(ctx.Context(), role, "build_sessions:create"); err != nil {
		return nil, mapError(err)
	}

	s, err := a.sessions.CheckIn(ctx.Context(), userID, req.Latitude, req.Longitude)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSessionResponse(s)
	return resp, ctx.JSON(http.StatusCreated, resp)
}

func (a *API) checkOut(ctx forge.Context, _ *struct{}) (*SessionResponse, error) {
	userID, _ := actorRole(ctx)

	s, err := a.sessions.CheckOut(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSessionResponse(s)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) stopSession(ctx forge.Context, _ *struct{}) (*SessionResponse, error) {
	sessionID, err := id.ParseSessionID(ctx.Param("sessionId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid session ID: %v", err))
	}

	userID, role := actorRole(ctx)
	s, err := a.sessions.OpenSession(ctx.Context(), userID)
	if err != nil || s.ID != sessionID {
		// Closing someone else's session requires management rights.
		if err := a.eng.RequireRole(ctx.Context(), role, "build_sessions:manage"); err != nil {
			return nil, mapError(err)
		}
	}

	closed, err := a.sessions.Stop(ctx.Context(), sessionID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSessionResponse(closed)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) openSession(ctx forge.Context, _ *struct{}) (*SessionResponse, error) {
	userID, _ := actorRole(ctx)

	s, err := a.sessions.OpenSession(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSessionResponse(s)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) sessionHistory(ctx forge.Context, req *SessionHistoryRequest) ([]*SessionResponse, error) {
	userID, role := actorRole(ctx)
	target := req.UserID
	if target == "" {
		target = userID
	}
	if target != userID {
		// Viewing another user's history requires the broad view grant.
		if err := a.eng.RequireRole(ctx.Context(), role, "user_data:view:all"); err != nil {
			return nil, mapError(err)
		}
	}

	sessions, err := a.sessions.History(ctx.Context(), target, defaultLimit(req.Limit), req.Offset)
	if err != nil {
		return nil, mapError(err)
	}

	resp := make([]*SessionResponse, len(sessions))
	for i, s := range sessions {
		resp[i] = toSessionResponse(s)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
