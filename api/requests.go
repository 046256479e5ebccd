package api

// ──────────────────────────────────────────────────
// Check requests
// ──────────────────────────────────────────────────

// CheckRequest is the request body for a permission check.
type CheckRequest struct {
	Role       string `json:"role" description:"Role to check (admin, member, guest)"`
	Permission string `json:"permission" description:"Permission string, e.g. outreach:view or build_tasks:edit:own"`
}

// RouteCheckRequest is the request body for a route access check.
type RouteCheckRequest struct {
	Role string `json:"role" description:"Role to check"`
	Path string `json:"path" description:"Dashboard route path, e.g. /outreach"`
}

// ──────────────────────────────────────────────────
// Rule requests
// ──────────────────────────────────────────────────

// CreateRuleRequest is the body for creating a permission rule.
type CreateRuleRequest struct {
	Role      string `json:"role" description:"Role the rule grants to"`
	Resource  string `json:"resource" description:"Resource name"`
	Action    string `json:"action" description:"Action name"`
	Condition string `json:"condition,omitempty" description:"Optional condition (own, all)"`
}

// UpdateRuleRequest is the body for updating a permission rule.
type UpdateRuleRequest struct {
	Role      string `json:"role,omitempty" description:"Role the rule grants to"`
	Resource  string `json:"resource,omitempty" description:"Resource name"`
	Action    string `json:"action,omitempty" description:"Action name"`
	Condition *string `json:"condition,omitempty" description:"Condition (own, all, or empty)"`
}

// GetRuleRequest is the path parameter for getting a rule.
type GetRuleRequest struct {
	RuleID string `path:"ruleId" description:"Rule ID"`
}

// ListRulesRequest holds query parameters for listing rules.
type ListRulesRequest struct {
	Role     string `query:"role" description:"Filter by role"`
	Resource string `query:"resource" description:"Filter by resource"`
	Action   string `query:"action" description:"Filter by action"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Location requests
// ──────────────────────────────────────────────────

// TimeWindowRequest describes a daily valid-hours window.
type TimeWindowRequest struct {
	Enabled bool   `json:"enabled" description:"Whether the window is enforced"`
	Start   string `json:"start" description:"Window start, HH:mm"`
	End     string `json:"end" description:"Window end, HH:mm (exclusive)"`
}

// CreateLocationRequest is the body for creating a check-in location.
type CreateLocationRequest struct {
	Name         string             `json:"name" description:"Location name"`
	Latitude     float64            `json:"latitude" description:"Center latitude"`
	Longitude    float64            `json:"longitude" description:"Center longitude"`
	RadiusMeters float64            `json:"radius_meters" description:"Geofence radius in meters"`
	IsActive     *bool              `json:"is_active,omitempty" description:"Active flag (default: true)"`
	ValidHours   *TimeWindowRequest `json:"valid_hours,omitempty" description:"Daily valid-hours window"`
}

// UpdateLocationRequest is the body for updating a location.
type UpdateLocationRequest struct {
	Name         string             `json:"name,omitempty" description:"Location name"`
	Latitude     *float64           `json:"latitude,omitempty" description:"Center latitude"`
	Longitude    *float64           `json:"longitude,omitempty" description:"Center longitude"`
	RadiusMeters *float64           `json:"radius_meters,omitempty" description:"Geofence radius in meters"`
	IsActive     *bool              `json:"is_active,omitempty" description:"Active flag"`
	ValidHours   *TimeWindowRequest `json:"valid_hours,omitempty" description:"Daily valid-hours window"`
}

// GetLocationRequest is the path parameter for getting a location.
type GetLocationRequest struct {
	LocationID string `path:"locationId" description:"Location ID"`
}

// ListLocationsRequest holds query parameters for listing locations.
type ListLocationsRequest struct {
	ActiveOnly bool `query:"active_only" description:"Only return active locations"`
	Limit      int  `query:"limit" description:"Maximum results"`
	Offset     int  `query:"offset" description:"Results to skip"`
}

// ValidateLocationRequest is the body for validating coordinates against the
// configured geofences.
type ValidateLocationRequest struct {
	Latitude  float64 `json:"latitude" description:"Current latitude"`
	Longitude float64 `json:"longitude" description:"Current longitude"`
}

// ──────────────────────────────────────────────────
// Session requests
// ──────────────────────────────────────────────────

// CheckInRequest is the body for starting a build session.
type CheckInRequest struct {
	Latitude  float64 `json:"latitude" description:"Current latitude"`
	Longitude float64 `json:"longitude" description:"Current longitude"`
}

// SessionHistoryRequest holds query parameters for session history.
type SessionHistoryRequest struct {
	UserID string `query:"user_id" description:"User to list history for (defaults to caller)"`
	Limit  int    `query:"limit" description:"Maximum results"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Task requests
// ──────────────────────────────────────────────────

// CreateTaskRequest is the body for creating a build task.
type CreateTaskRequest struct {
	Name        string `json:"name" description:"Task name"`
	Description string `json:"description,omitempty" description:"Task description"`
	GroupID     string `json:"group_id,omitempty" description:"Owning group ID"`
	DueDate     string `json:"due_date,omitempty" description:"Due date (RFC3339)"`
}

// GetTaskRequest is the path parameter for a task.
type GetTaskRequest struct {
	TaskID string `path:"taskId" description:"Task ID"`
}

// ListTasksRequest holds query parameters for listing tasks.
type ListTasksRequest struct {
	GroupID string `query:"group_id" description:"Filter by group"`
	Status  string `query:"status" description:"Filter by status"`
	Limit   int    `query:"limit" description:"Maximum results"`
	Offset  int    `query:"offset" description:"Results to skip"`
}

// ReviewTaskRequest is the body for reviewing a submitted task.
type ReviewTaskRequest struct {
	Decision string `json:"decision" description:"Review decision (complete or rejected)"`
	Reason   string `json:"reason,omitempty" description:"Rejection reason (required when rejecting)"`
}

// CreateGroupRequest is the body for creating a task group.
type CreateGroupRequest struct {
	Name        string `json:"name" description:"Group name"`
	Description string `json:"description,omitempty" description:"Group description"`
}

// GetGroupRequest is the path parameter for a group.
type GetGroupRequest struct {
	GroupID string `path:"groupId" description:"Group ID"`
}

// ──────────────────────────────────────────────────
// Outreach requests
// ──────────────────────────────────────────────────

// CreateEventRequest is the body for creating an outreach event.
type CreateEventRequest struct {
	Name        string `json:"name" description:"Event name"`
	Description string `json:"description,omitempty" description:"Event description"`
	MinutesCap  int    `json:"minutes_cap,omitempty" description:"Per-user credited minutes cap (0 = uncapped)"`
}

// GetEventRequest is the path parameter for an event.
type GetEventRequest struct {
	EventID string `path:"eventId" description:"Event ID"`
}

// LogActivityRequest is the body for logging outreach minutes.
type LogActivityRequest struct {
	UserID  string `json:"user_id,omitempty" description:"User to credit (defaults to caller)"`
	EventID string `json:"event_id" description:"Event the minutes belong to"`
	Minutes int    `json:"minutes" description:"Minutes to log"`
}

// LogBulkRequest is the body for logging the same minutes for many users.
type LogBulkRequest struct {
	EventID string   `json:"event_id" description:"Event the minutes belong to"`
	UserIDs []string `json:"user_ids" description:"Users to credit"`
	Minutes int      `json:"minutes" description:"Minutes to log per user"`
}

// UserSummaryRequest is the path parameter for an outreach summary.
type UserSummaryRequest struct {
	UserID string `path:"userId" description:"User ID"`
}
