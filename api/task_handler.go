package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

func (a *API) registerTaskRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("tasks"))

	if err := g.POST("/tasks", a.createTask,
		forge.WithSummary("Create task"),
		forge.WithDescription("Creates a new build task."),
		forge.WithOperationID("createTask"),
		forge.WithRequestSchema(CreateTaskRequest{}),
		forge.WithCreatedResponse(&task.Task{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/tasks", a.listTasks,
		forge.WithSummary("List tasks"),
		forge.WithDescription("Lists build tasks with optional filters."),
		forge.WithOperationID("listTasks"),
		forge.WithRequestSchema(ListTasksRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Task list", []*task.Task{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/tasks/:taskId", a.deleteTask,
		forge.WithSummary("Delete task"),
		forge.WithDescription("Deletes a build task."),
		forge.WithOperationID("deleteTask"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/tasks/:taskId/submit", a.submitTask,
		forge.WithSummary("Submit task for review"),
		forge.WithDescription("Moves a task from to-do or rejected into review."),
		forge.WithOperationID("submitTask"),
		forge.WithResponseSchema(http.StatusOK, "Submitted task", &task.Task{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/tasks/:taskId/review", a.reviewTask,
		forge.WithSummary("Review task"),
		forge.WithDescription("Completes or rejects a task in review. Rejection requires a reason."),
		forge.WithOperationID("reviewTask"),
		forge.WithRequestSchema(ReviewTaskRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Reviewed task", &task.Task{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/groups", a.createGroup,
		forge.WithSummary("Create group"),
		forge.WithDescription("Creates a new task group."),
		forge.WithOperationID("createGroup"),
		forge.WithRequestSchema(CreateGroupRequest{}),
		forge.WithCreatedResponse(&task.Group{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/groups", a.listGroups,
		forge.WithSummary("List groups"),
		forge.WithDescription("Lists task groups."),
		forge.WithOperationID("listGroups"),
		forge.WithResponseSchema(http.StatusOK, "Group list", []*task.Group{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/groups/:groupId", a.deleteGroup,
		forge.WithSummary("Delete group"),
		forge.WithDescription("Deletes a task group."),
		forge.WithOperationID("deleteGroup"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) createTask(ctx forge.Context, req *CreateTaskRequest) (*task.Task, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	t := &task.Task{
		ID:          id.NewTaskID(),
		Name:        req.Name,
		Description: req.Description,
	}
	if req.GroupID != "" {
		gid, err := id.ParseGroupID(req.GroupID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid group_id: %v", err))
		}
		t.GroupID = gid
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid due_date: %v", err))
		}
		t.DueDate = &due
	}

	_, role := actorRole(ctx)
	if err := a.tasks.CreateTask(ctx.Context(), role, t); err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusCreated, t)
}

func (a *API) listTasks(ctx forge.Context, req *ListTasksRequest) ([]*task.Task, error) {
	filter := &task.ListFilter{
		Status: task.Status(req.Status),
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}
	if req.GroupID != "" {
		gid, err := id.ParseGroupID(req.GroupID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid group_id: %v", err))
		}
		filter.GroupID = gid
	}

	_, role := actorRole(ctx)
	tasks, err := a.tasks.ListTasks(ctx.Context(), role, filter)
	if err != nil {
		return nil, mapError(err)
	}

	return tasks, ctx.JSON(http.StatusOK, tasks)
}

func (a *API) deleteTask(ctx forge.Context, _ *GetTaskRequest) (*struct{}, error) {
	taskID, err := id.ParseTaskID(ctx.Param("taskId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid task ID: %v", err))
	}

	_, role := actorRole(ctx)
	if err := a.tasks.DeleteTask(ctx.Context(), role, taskID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) submitTask(ctx forge.Context, _ *GetTaskRequest) (*task.Task, error) {
	taskID, err := id.ParseTaskID(ctx.Param("taskId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid task ID: %v", err))
	}

	userID, role := actorRole(ctx)
	t, err := a.tasks.SubmitForReview(ctx.Context(), taskID, userID, role)
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusOK, t)
}

func (a *API) reviewTask(ctx forge.Context, req *ReviewTaskRequest) (*task.Task, error) {
	taskID, err := id.ParseTaskID(ctx.Param("taskId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid task ID: %v", err))
	}
	if req.Decision == "" {
		return nil, forge.BadRequest("decision is required")
	}

	userID, role := actorRole(ctx)
	t, err := a.tasks.Review(ctx.Context(), taskID, userID, role, task.Decision(req.Decision), req.Reason)
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusOK, t)
}

func (a *API) createGroup(ctx forge.Context, req *CreateGroupRequest) (*task.Group, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	g := &task.Group{
		ID:          id.NewGroupID(),
		Name:        req.Name,
		Description: req.Description,
	}

	_, role := actorRole(ctx)
	if err := a.tasks.CreateGroup(ctx.Context(), role, g); err != nil {
		return nil, mapError(err)
	}

	return g, ctx.JSON(http.StatusCreated, g)
}

func (a *API) listGroups(ctx forge.Context, _ *struct{}) ([]*task.Group, error) {
	_, role := actorRole(ctx)
	groups, err := a.tasks.ListGroups(ctx.Context(), role)
	if err != nil {
		return nil, mapError(err)
	}

	return groups, ctx.JSON(http.StatusOK, groups)
}

func (a *API) deleteGroup(ctx forge.Context, _ *GetGroupRequest) (*struct{}, error) {
	groupID, err := id.ParseGroupID(ctx.Param("groupId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid group ID: %v", err))
	}

	_, role := actorRole(ctx)
	if err := a.tasks.DeleteGroup(ctx.Context(), role, groupID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
