package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
)

func (a *API) registerOutreachRoutes(router forge.Router) error {
	g := router.Group("/v1/outreach", forge.WithGroupTags("outreach"))

	if err := g.POST("/events", a.createEvent,
		forge.WithSummary("Create event"),
		forge.WithDescription("Creates a new outreach event."),
		forge.WithOperationID("createEvent"),
		forge.WithRequestSchema(CreateEventRequest{}),
		forge.WithCreatedResponse(&outreach.Event{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/events", a.listEvents,
		forge.WithSummary("List events"),
		forge.WithDescription("Lists outreach events."),
		forge.WithOperationID("listEvents"),
		forge.WithResponseSchema(http.StatusOK, "Event list", []*outreach.Event{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/events/:eventId", a.deleteEvent,
		forge.WithSummary("Delete event"),
		forge.WithDescription("Deletes an event and all minutes logged against it."),
		forge.WithOperationID("deleteEvent"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/activities", a.logActivity,
		forge.WithSummary("Log minutes"),
		forge.WithDescription("Logs outreach minutes for a user against an event."),
		forge.WithOperationID("logActivity"),
		forge.WithRequestSchema(LogActivityRequest{}),
		forge.WithCreatedResponse(&outreach.Activity{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/activities/bulk", a.logBulk,
		forge.WithSummary("Log minutes in bulk"),
		forge.WithDescription("Logs the same minutes for many users against an event."),
		forge.WithOperationID("logBulkActivity"),
		forge.WithRequestSchema(LogBulkRequest{}),
		forge.WithCreatedResponse([]*outreach.Activity{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/summary/:userId", a.userSummary,
		forge.WithSummary("User summary"),
		forge.WithDescription("Returns a user's raw and credited outreach minutes."),
		forge.WithOperationID("outreachSummary"),
		forge.WithResponseSchema(http.StatusOK, "Outreach summary", SummaryResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createEvent(ctx forge.Context, req *CreateEventRequest) (*outreach.Event, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	e := &outreach.Event{
		ID:          id.NewEventID(),
		Name:        req.Name,
		Description: req.Description,
		MinutesCap:  req.MinutesCap,
	}

	_, role := actorRole(ctx)
	if err := a.ledger.CreateEvent(ctx.Context(), role, e); err != nil {
		return nil, mapError(err)
	}

	return e, ctx.JSON(http.StatusCreated, e)
}

func (a *API) listEvents(ctx forge.Context, _ *struct{}) ([]*outreach.Event, error) {
	_, role := actorRole(ctx)
	events, err := a.ledger.ListEvents(ctx.Context(), role)
	if err != nil {
		return nil, mapError(err)
	}

	return events, ctx.JSON(http.StatusOK, events)
}

func (a *API) deleteEvent(ctx forge.Context, _ *GetEventRequest) (*struct{}, error) {
	eventID, err := id.ParseEventID(ctx.Param("eventId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid event ID: %v", err))
	}

	_, role := actorRole(ctx)
	if err := a.ledger.DeleteEvent(ctx.Context(), role, eventID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) logActivity(ctx forge.Context, req *LogActivityRequest) (*outreach.Activity, error) {
	eventID, err := id.ParseEventID(req.EventID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid event_id: %v", err))
	}

	userID, role := actorRole(ctx)
	target := req.UserID
	if target == "" {
		target = userID
	}

	act := &outreach.Activity{
		ID:      id.NewActivityID(),
		UserID:  target,
		EventID: eventID,
		Minutes: req.Minutes,
	}
	if err := a.ledger.Log(ctx.Context(), role, act); err != nil {
		return nil, mapError(err)
	}

	return act, ctx.JSON(http.StatusCreated, act)
}

func (a *API) logBulk(ctx forge.Context, req *LogBulkRequest) ([]*outreach.Activity, error) {
	eventID, err := id.ParseEventID(req.EventID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid event_id: %v", err))
	}
	if len(req.UserIDs) == 0 {
		return nil, forge.BadRequest("user_ids cannot be empty")
	}

	_, role := actorRole(ctx)
	activities, err := a.ledger.LogBulk(ctx.Context(), role, eventID, req.UserIDs, req.Minutes)
	if err != nil {
		return nil, mapError(err)
	}

	return activities, ctx.JSON(http.StatusCreated, activities)
}

func (a *API) userSummary(ctx forge.Context, _ *UserSummaryRequest) (*SummaryResponse, error) {
	target := ctx.Param("userId")
	if target == "" {
		return nil, forge.BadRequest("user ID is required")
	}

	_, role := actorRole(ctx)
	summary, err := a.ledger.UserSummary(ctx.Context(), role, target)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &SummaryResponse{
		UserID:          summary.UserID,
		Minutes:         summary.Minutes,
		CreditedMinutes: summary.CreditedMinutes,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
