package api

// CheckResponse is the response for a permission check.
type CheckResponse struct {
	Allowed bool   `json:"allowed" description:"Whether the permission is held"`
	RuleID  string `json:"rule_id,omitempty" description:"Identifier of the matching rule"`
	Reason  string `json:"reason,omitempty" description:"Denial reason"`
}

// RouteCheckResponse is the response for a route access check.
type RouteCheckResponse struct {
	Allowed bool   `json:"allowed" description:"Whether the route is accessible"`
	Path    string `json:"path" description:"Route path that was checked"`
}

// ValidateLocationResponse is the response for a geofence validation.
type ValidateLocationResponse struct {
	Valid          bool    `json:"valid" description:"Whether the coordinates fall inside a valid geofence"`
	LocationID     string  `json:"location_id,omitempty" description:"Matched or nearest location ID"`
	LocationName   string  `json:"location_name,omitempty" description:"Matched or nearest location name"`
	DistanceMeters float64 `json:"distance_meters,omitempty" description:"Distance to the location center"`
}

// SessionResponse describes a build session.
type SessionResponse struct {
	ID             string `json:"id" description:"Session ID"`
	UserID         string `json:"user_id" description:"Owning user"`
	LocationID     string `json:"location_id" description:"Check-in location"`
	StartedAt      string `json:"started_at" description:"Start time (RFC3339)"`
	EndedAt        string `json:"ended_at,omitempty" description:"End time (RFC3339), empty while open"`
	ElapsedMinutes int    `json:"elapsed_minutes" description:"Whole minutes elapsed"`
	Open           bool   `json:"open" description:"Whether the session is still open"`
}

// SummaryResponse reports a user's outreach totals.
type SummaryResponse struct {
	UserID          string `json:"user_id" description:"User ID"`
	Minutes         int    `json:"minutes" description:"Raw logged minutes"`
	CreditedMinutes int    `json:"credited_minutes" description:"Minutes after per-event caps"`
}
