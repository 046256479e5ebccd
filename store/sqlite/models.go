package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// ──────────────────────────────────────────────────
// Rule model
// ──────────────────────────────────────────────────

type ruleModel struct {
	grove.BaseModel `grove:"table:otk_rules"`
	ID              string    `grove:"id,pk"`
	Role            string    `grove:"role,notnull"`
	Resource        string    `grove:"resource,notnull"`
	Action          string    `grove:"action,notnull"`
	Condition       string    `grove:"condition"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func ruleToModel(r *rule.Rule) *ruleModel {
	return &ruleModel{
		ID:        r.ID.String(),
		Role:      string(r.Role),
		Resource:  string(r.Resource),
		Action:    string(r.Action),
		Condition: string(r.Condition),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ruleFromModel(m *ruleModel) (*rule.Rule, error) {
	rid, err := id.ParseRuleID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse rule id: %w", err)
	}
	return &rule.Rule{
		ID:        rid,
		Role:      rule.Role(m.Role),
		Resource:  rule.Resource(m.Resource),
		Action:    rule.Action(m.Action),
		Condition: rule.Condition(m.Condition),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Location model
// ──────────────────────────────────────────────────

type locationModel struct {
	grove.BaseModel `grove:"table:otk_locations"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"location_name,notnull"`
	Latitude        float64   `grove:"latitude,notnull"`
	Longitude       float64   `grove:"longitude,notnull"`
	RadiusMeters    float64   `grove:"radius_meters,notnull"`
	IsActive        bool      `grove:"is_active,notnull"`
	ValidHours      string    `grove:"valid_hours"` // JSON text, empty when unset
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func locationToModel(l *geofence.Location) (*locationModel, error) {
	m := &locationModel{
		ID:           l.ID.String(),
		Name:         l.Name,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.ValidHours != nil {
		hours, err := json.Marshal(l.ValidHours)
		if err != nil {
			return nil, fmt.Errorf("marshal valid hours: %w", err)
		}
		m.ValidHours = string(hours)
	}
	return m, nil
}

func locationFromModel(m *locationModel) (*geofence.Location, error) {
	lid, err := id.ParseLocationID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse location id: %w", err)
	}
	l := &geofence.Location{
		ID:           lid,
		Name:         m.Name,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		RadiusMeters: m.RadiusMeters,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.ValidHours != "" {
		var hours geofence.TimeWindow
		if err := json.Unmarshal([]byte(m.ValidHours), &hours); err != nil {
			return nil, fmt.Errorf("unmarshal valid hours: %w", err)
		}
		l.ValidHours = &hours
	}
	return l, nil
}

// ──────────────────────────────────────────────────
// Session model
// ──────────────────────────────────────────────────

type sessionModel struct {
	grove.BaseModel `grove:"table:otk_sessions"`
	ID              string     `grove:"id,pk"`
	UserID          string     `grove:"user_id,notnull"`
	LocationID      string     `grove:"location_id,notnull"`
	StartedAt       time.Time  `grove:"started_at,notnull"`
	EndedAt         *time.Time `grove:"ended_at"`
}

func sessionToModel(s *session.Session) *sessionModel {
	return &sessionModel{
		ID:         s.ID.String(),
		UserID:     s.UserID,
		LocationID: s.LocationID.String(),
		StartedAt:  s.StartedAt,
		EndedAt:    s.EndedAt,
	}
}

func sessionFromModel(m *sessionModel) (*session.Session, error) {
	sid, err := id.ParseSessionID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	lid, err := id.ParseLocationID(m.LocationID)
	if err != nil {
		return nil, fmt.Errorf("parse location id: %w", err)
	}
	return &session.Session{
		ID:         sid,
		UserID:     m.UserID,
		LocationID: lid,
		StartedAt:  m.StartedAt,
		EndedAt:    m.EndedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Task and group models
// ──────────────────────────────────────────────────

type taskModel struct {
	grove.BaseModel `grove:"table:otk_tasks"`
	ID              string     `grove:"id,pk"`
	Name            string     `grove:"name,notnull"`
	Description     string     `grove:"description"`
	GroupID         string     `grove:"group_id"`
	DueDate         *time.Time `grove:"due_date"`
	Status          string     `grove:"status,notnull"`
	CompletedBy     string     `grove:"completed_by"`
	ReviewedBy      string     `grove:"reviewed_by"`
	RejectionReason string     `grove:"rejection_reason"`
	CreatedAt       time.Time  `grove:"created_at,notnull"`
	UpdatedAt       time.Time  `grove:"updated_at,notnull"`
}

func taskToModel(t *task.Task) *taskModel {
	m := &taskModel{
		ID:              t.ID.String(),
		Name:            t.Name,
		Description:     t.Description,
		DueDate:         t.DueDate,
		Status:          string(t.Status),
		CompletedBy:     t.CompletedBy,
		ReviewedBy:      t.ReviewedBy,
		RejectionReason: t.RejectionReason,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if !t.GroupID.IsNil() {
		m.GroupID = t.GroupID.String()
	}
	return m
}

func taskFromModel(m *taskModel) (*task.Task, error) {
	tid, err := id.ParseTaskID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse task id: %w", err)
	}
	t := &task.Task{
		ID:              tid,
		Name:            m.Name,
		Description:     m.Description,
		DueDate:         m.DueDate,
		Status:          task.Status(m.Status),
		CompletedBy:     m.CompletedBy,
		ReviewedBy:      m.ReviewedBy,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.GroupID != "" {
		gid, err := id.ParseGroupID(m.GroupID)
		if err != nil {
			return nil, fmt.Errorf("parse group id: %w", err)
		}
		t.GroupID = gid
	}
	return t, nil
}

type groupModel struct {
	grove.BaseModel `grove:"table:otk_groups"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func groupToModel(g *task.Group) *groupModel {
	return &groupModel{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func groupFromModel(m *groupModel) (*task.Group, error) {
	gid, err := id.ParseGroupID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse group id: %w", err)
	}
	return &task.Group{
		ID:          gid,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Outreach models
// ──────────────────────────────────────────────────

type eventModel struct {
	grove.BaseModel `grove:"table:otk_events"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	MinutesCap      int       `grove:"minutes_cap,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func eventToModel(e *outreach.Event) *eventModel {
	return &eventModel{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		MinutesCap:  e.MinutesCap,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventFromModel(m *eventModel) (*outreach.Event, error) {
	eid, err := id.ParseEventID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	return &outreach.Event{
		ID:          eid,
		Name:        m.Name,
		Description: m.Description,
		MinutesCap:  m.MinutesCap,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

type activityModel struct {
	grove.BaseModel `grove:"table:otk_activities"`
	ID              string    `grove:"id,pk"`
	UserID          string    `grove:"user_id,notnull"`
	EventID         string    `grove:"event_id,notnull"`
	Minutes         int       `grove:"minutes,notnull"`
	LoggedAt        time.Time `grove:"logged_at,notnull"`
}

func activityToModel(a *outreach.Activity) *activityModel {
	return &activityModel{
		ID:       a.ID.String(),
		UserID:   a.UserID,
		EventID:  a.EventID.String(),
		Minutes:  a.Minutes,
		LoggedAt: a.LoggedAt,
	}
}

func activityFromModel(m *activityModel) (*outreach.Activity, error) {
	aid, err := id.ParseActivityID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse activity id: %w", err)
	}
	eid, err := id.ParseEventID(m.EventID)
	if err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	return &outreach.Activity{
		ID:       aid,
		UserID:   m.UserID,
		EventID:  eid,
		Minutes:  m.Minutes,
		LoggedAt: m.LoggedAt,
	}, nil
}
