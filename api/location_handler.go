package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
)

func (a *API) registerLocationRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("locations"))

	if err := g.POST("/locations", a.createLocation,
		forge.WithSummary("Create location"),
		forge.WithDescription("Creates a new check-in location with a geofence."),
		forge.WithOperationID("createLocation"),
		forge.WithRequestSchema(CreateLocationRequest{}),
		forge.WithCreatedResponse(&geofence.Location{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/locations/:locationId", a.getLocation,
		forge.WithSummary("Get location"),
		forge.WithDescription("Returns details of a specific location."),
		forge.WithOperationID("getLocation"),
		forge.WithResponseSchema(http.StatusOK, "Location details", &geofence.Location{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/locations/:locationId", a.updateLocation,
		forge.WithSummary("Update location"),
		forge.WithDescription("Updates an existing location."),
		forge.WithOperationID("updateLocation"),
		forge.WithRequestSchema(UpdateLocationRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated location", &geofence.Location{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/locations/:locationId", a.deleteLocation,
		forge.WithSummary("Delete location"),
		forge.WithDescription("Deletes a location."),
		forge.WithOperationID("deleteLocation"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/locations", a.listLocations,
		forge.WithSummary("List locations"),
		forge.WithDescription("Lists check-in locations."),
		forge.WithOperationID("listLocations"),
		forge.WithRequestSchema(ListLocationsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Location list", []*geofence.Location{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/locations/validate", a.validateLocation,
		forge.WithSummary("Validate coordinates"),
		forge.WithDescription("Checks whether the coordinates fall inside an active geofence during valid hours."),
		forge.WithOperationID("validateLocation"),
		forge.WithRequestSchema(ValidateLocationRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Validation result", ValidateLocationResponse{}),
		forge.WithErrorResponses(),
	)
}

func toTimeWindow(req *TimeWindowRequest) *geofence.TimeWindow {
	if req == nil {
		return nil
	}
	return &geofence.TimeWindow{Enabled: req.Enabled, Start: req.Start, End: req.End}
}

func (a *API) createLocation(ctx forge.Context, req *CreateLocationRequest) (*geofence.Location, error) {
	if err := a.eng.Require(actorCtx(ctx), "build_locations:manage"); err != nil {
		return nil, mapError(err)
	}
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	l := &geofence.Location{
		ID:           id.NewLocationID(),
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		IsActive:     true,
		ValidHours:   toTimeWindow(req.ValidHours),
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := l.Validate(); err != nil {
		return nil, mapError(err)
	}

	if err := a.eng.Store().CreateLocation(ctx.Context(), l); err != nil {
		return nil, mapError(err)
	}

	return l, ctx.JSON(http.StatusCreated, l)
}

func (a *API) getLocation(ctx forge.Context, _ *GetLocationRequest) (*geofence.Location, error) {
	locationID, err := id.ParseLocationID(ctx.Param("locationId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid location ID: %v", err))
	}

	l, err := a.eng.Store().GetLocation(ctx.Context(), locationID)
	if err != nil {
		return nil, mapError(err)
	}

	return l, ctx.JSON(http.StatusOK, l)
}

func (a *API) updateLocation(ctx forge.Context, req *UpdateLocationRequest) (*geofence.Location, error) {
	if err := a.eng.Require(actorCtx(ctx), "build_locations:manage"); err != nil {
		return nil, mapError(err)
	}

	locationID, err := id.ParseLocationID(ctx.Param("locationId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid location ID: %v", err))
	}

	l, err := a.eng.Store().GetLocation(ctx.Context(), locationID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Name != "" {
		l.Name = req.Name
	}
	if req.Latitude != nil {
		l.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		l.Longitude = *req.Longitude
	}
	if req.RadiusMeters != nil {
		l.RadiusMeters = *req.RadiusMeters
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if req.ValidHours != nil {
		l.ValidHours = toTimeWindow(req.ValidHours)
	}
	if err := l.Validate(); err != nil {
		return nil, mapError(err)
	}

	if err := a.eng.Store().UpdateLocation(ctx.Context(), l); err != nil {
		return nil, mapError(err)
	}

	return l, ctx.JSON(http.StatusOK, l)
}

func (a *API) deleteLocation(ctx forge.Context, _ *GetLocationRequest) (*struct{}, error) {
	if err := a.eng.Require(actorCtx(ctx), "build_locations:manage"); err != nil {
		return nil, mapError(err)
	}

	locationID, err := id.ParseLocationID(ctx.Param("locationId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid location ID: %v", err))
	}

	if err := a.eng.Store().DeleteLocation(ctx.Context(), locationID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listLocations(ctx forge.Context, req *ListLocationsRequest) ([]*geofence.Location, error) {
	filter := &geofence.ListFilter{
		ActiveOnly: req.ActiveOnly,
		Limit:      defaultLimit(req.Limit),
		Offset:     req.Offset,
	}

	locations, err := a.eng.Store().ListLocations(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return locations, ctx.JSON(http.StatusOK, locations)
}

func (a *API) validateLocation(ctx forge.Context, req *ValidateLocationRequest) (*ValidateLocationResponse, error) {
	locations, err := a.eng.Store().ListLocations(ctx.Context(), &geofence.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ValidateLocationResponse{}
	if m := geofence.FindValidLocation(req.Latitude, req.Longitude, locations, time.Now()); m != nil {
		resp.Valid = true
		resp.LocationID = m.Location.ID.String()
		resp.LocationName = m.Location.Name
		resp.DistanceMeters = m.Distance
	} else if n := geofence.NearestLocation(req.Latitude, req.Longitude, locations); n != nil {
		resp.LocationID = n.Location.ID.String()
		resp.LocationName = n.Location.Name
		resp.DistanceMeters = n.Distance
	}

	return resp, ctx.JSON(http.StatusOK, resp)
}
