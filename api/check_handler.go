package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

func (a *API) registerCheckRoutes(router forge.Router) error {
	g := router.Group("/v1/authz", forge.WithGroupTags("authorization"))

	if err := g.POST("/check", a.check,
		forge.WithSummary("Permission check"),
		forge.WithDescription("Evaluates whether the role holds the permission."),
		forge.WithOperationID("authzCheck"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check result", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/route", a.checkRoute,
		forge.WithSummary("Route access check"),
		forge.WithDescription("Evaluates whether the role may open the dashboard route."),
		forge.WithOperationID("authzRoute"),
		forge.WithRequestSchema(RouteCheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Route check result", RouteCheckResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) check(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	if req.Role == "" || req.Permission == "" {
		return nil, forge.BadRequest("role and permission are required")
	}

	result, err := a.eng.Check(ctx.Context(), rule.Role(req.Role), req.Permission)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &CheckResponse{Allowed: result.Allowed, Reason: result.Reason}
	if result.Matched != nil {
		resp.RuleID = result.Matched.ID.String()
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) checkRoute(ctx forge.Context, req *RouteCheckRequest) (*RouteCheckResponse, error) {
	if req.Role == "" || req.Path == "" {
		return nil, forge.BadRequest("role and path are required")
	}
	if a.gate == nil {
		return nil, forge.BadRequest("route gate is not configured")
	}

	allowed, err := a.gate.CheckRoute(ctx.Context(), rule.Role(req.Role), req.Path)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &RouteCheckResponse{Allowed: allowed, Path: req.Path}
	return resp, ctx.JSON(http.StatusOK, resp)
}
