package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
)

func (a *API) registerRuleRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("rules"))

	if err := g.POST("/rules", a.createRule,
		forge.WithSummary("Create rule"),
		forge.WithDescription("Creates a new permission rule."),
		forge.WithOperationID("createRule"),
		forge.WithRequestSchema(CreateRuleRequest{}),
		forge.WithCreatedResponse(&rule.Rule{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/rules/:ruleId", a.getRule,
		forge.WithSummary("Get rule"),
		forge.WithDescription("Returns details of a specific permission rule."),
		forge.WithOperationID("getRule"),
		forge.WithResponseSchema(http.StatusOK, "Rule details", &rule.Rule{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/rules/:ruleId", a.updateRule,
		forge.WithSummary("Update rule"),
		forge.WithDescription("Updates an existing permission rule."),
		forge.WithOperationID("updateRule"),
		forge.WithRequestSchema(UpdateRuleRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated rule", &rule.Rule{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/rules/:ruleId", a.deleteRule,
		forge.WithSummary("Delete rule"),
		forge.WithDescription("Deletes a permission rule."),
		forge.WithOperationID("deleteRule"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/rules", a.listRules,
		forge.WithSummary("List rules"),
		forge.WithDescription("Lists permission rules with optional filters."),
		forge.WithOperationID("listRules"),
		forge.WithRequestSchema(ListRulesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Rule list", []*rule.Rule{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createRule(ctx forge.Context, req *CreateRuleRequest) (*rule.Rule, error) {
	if req.Role == "" || req.Resource == "" || req.Action == "" {
		return nil, forge.BadRequest("role, resource, and action are required")
	}

	r := &rule.Rule{
		ID:        id.NewRuleID(),
		Role:      rule.Role(req.Role),
		Resource:  rule.Resource(req.Resource),
		Action:    rule.Action(req.Action),
		Condition: rule.Condition(req.Condition),
	}

	if err := a.eng.CreateRule(actorCtx(ctx), r); err != nil {
		return nil, mapError(err)
	}

	return r, ctx.JSON(http.StatusCreated, r)
}

func (a *API) getRule(ctx forge.Context, _ *GetRuleRequest) (*rule.Rule, error) {
	ruleID, err := id.ParseRuleID(ctx.Param("ruleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid rule ID: %v", err))
	}

	r, err := a.eng.Store().GetRule(ctx.Context(), ruleID)
	if err != nil {
		return nil, mapError(err)
	}

	return r, ctx.JSON(http.StatusOK, r)
}

func (a *API) updateRule(ctx forge.Context, req *UpdateRuleRequest) (*rule.Rule, error) {
	ruleID, err := id.ParseRuleID(ctx.Param("ruleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid rule ID: %v", err))
	}

	r, err := a.eng.Store().GetRule(ctx.Context(), ruleID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Role != "" {
		r.Role = rule.Role(req.Role)
	}
	if req.Resource != "" {
		r.Resource = rule.Resource(req.Resource)
	}
	if req.Action != "" {
		r.Action = rule.Action(req.Action)
	}
	if req.Condition != nil {
		r.Condition = rule.Condition(*req.Condition)
	}

	if err := a.eng.UpdateRule(actorCtx(ctx), r); err != nil {
		return nil, mapError(err)
	}

	return r, ctx.JSON(http.StatusOK, r)
}

func (a *API) deleteRule(ctx forge.Context, _ *GetRuleRequest) (*struct{}, error) {
	ruleID, err := id.ParseRuleID(ctx.Param("ruleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid rule ID: %v", err))
	}

	if err := a.eng.DeleteRule(actorCtx(ctx), ruleID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listRules(ctx forge.Context, req *ListRulesRequest) ([]*rule.Rule, error) {
	filter := &rule.ListFilter{
		Role:     rule.Role(req.Role),
		Resource: rule.Resource(req.Resource),
		Action:   rule.Action(req.Action),
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	rules, err := a.eng.Store().ListRules(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return rules, ctx.JSON(http.StatusOK, rules)
}
