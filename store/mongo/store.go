// Package mongo provides the MongoDB implementation of the composite store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/store"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// Collection name constants.
const (
	colRules      = "otk_rules"
	colLocations  = "otk_locations"
	colSessions   = "otk_sessions"
	colTasks      = "otk_tasks"
	colGroups     = "otk_groups"
	colEvents     = "otk_events"
	colActivities = "otk_activities"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by grove.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("otoolkit/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func now() time.Time {
	return time.Now().UTC()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all collections. The
// sessions index is partial over open documents, which is what enforces one
// open session per user.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colRules: {
			{
				Keys: bson.D{
					{Key: "role", Value: 1},
					{Key: "resource", Value: 1},
					{Key: "action", Value: 1},
					{Key: "condition", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		colLocations: {
			{Keys: bson.D{{Key: "is_active", Value: 1}}},
		},
		colSessions: {
			{
				Keys: bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"open": true}),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}}},
			{Keys: bson.D{{Key: "location_id", Value: 1}}},
		},
		colTasks: {
			{Keys: bson.D{{Key: "group_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colGroups: {},
		colEvents: {},
		colActivities: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "event_id", Value: 1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Rule operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	t := now()
	r.CreatedAt = t
	r.UpdatedAt = t
	if _, err := s.mdb.NewInsert(ruleToModel(r)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create rule: %w", err)
	}
	return nil
}

func (s *Store) GetRule(ctx context.Context, ruleID id.RuleID) (*rule.Rule, error) {
	var m ruleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": ruleID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("rule %s: %w", ruleID, rule.ErrRuleNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get rule: %w", err)
	}
	return ruleFromModel(&m)
}

func (s *Store) UpdateRule(ctx context.Context, r *rule.Rule) error {
	r.UpdatedAt = now()
	m := ruleToModel(r)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: update rule: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("rule %s: %w", r.ID, rule.ErrRuleNotFound)
	}
	return nil
}

func (s *Store) DeleteRule(ctx context.Context, ruleID id.RuleID) error {
	_, err := s.mdb.NewDelete((*ruleModel)(nil)).
		Filter(bson.M{"_id": ruleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete rule: %w", err)
	}
	return nil
}

func (s *Store) ListRules(ctx context.Context, filter *rule.ListFilter) ([]*rule.Rule, error) {
	var models []ruleModel
	f := bson.M{}
	if filter != nil {
		if filter.Role != "" {
			f["role"] = string(filter.Role)
		}
		if filter.Resource != "" {
			f["resource"] = string(filter.Resource)
		}
		if filter.Action != "" {
			f["action"] = string(filter.Action)
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("otoolkit: list rules: %w", err)
	}
	result := make([]*rule.Rule, len(models))
	for i := range models {
		r, err := ruleFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list rules: %w", err)
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) ListRulesForRoles(ctx context.Context, roles []rule.Role) ([]*rule.Rule, error) {
	if len(roles) == 0 {
		return []*rule.Rule{}, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	var models []ruleModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"role": bson.M{"$in": names}}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("otoolkit: list rules for roles: %w", err)
	}
	result := make([]*rule.Rule, len(models))
	for i := range models {
		r, err := ruleFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list rules for roles: %w", err)
		}
		result[i] = r
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Location operations
// ──────────────────────────────────────────────────

func (s *Store) CreateLocation(ctx context.Context, l *geofence.Location) error {
	t := now()
	l.CreatedAt = t
	l.UpdatedAt = t
	if _, err := s.mdb.NewInsert(locationToModel(l)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create location: %w", err)
	}
	return nil
}

func (s *Store) GetLocation(ctx context.Context, locationID id.LocationID) (*geofence.Location, error) {
	var m locationModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": locationID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("location %s: %w", locationID, geofence.ErrLocationNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get location: %w", err)
	}
	return locationFromModel(&m)
}

func (s *Store) UpdateLocation(ctx context.Context, l *geofence.Location) error {
	l.UpdatedAt = now()
	m := locationToModel(l)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: update location: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("location %s: %w", l.ID, geofence.ErrLocationNotFound)
	}
	return nil
}

func (s *Store) DeleteLocation(ctx context.Context, locationID id.LocationID) error {
	_, err := s.mdb.NewDelete((*locationModel)(nil)).
		Filter(bson.M{"_id": locationID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete location: %w", err)
	}
	return nil
}

func (s *Store) ListLocations(ctx context.Context, filter *geofence.ListFilter) ([]*geofence.Location, error) {
	var models []locationModel
	f := bson.M{}
	if filter != nil && filter.ActiveOnly {
		f["is_active"] = true
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "location_name", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("otoolkit: list locations: %w", err)
	}
	result := make([]*geofence.Location, len(models))
	for i := range models {
		l, err := locationFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list locations: %w", err)
		}
		result[i] = l
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Session operations
// ──────────────────────────────────────────────────

func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	if _, err := s.mdb.NewInsert(sessionToModel(sess)).Exec(ctx); err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return session.ErrOpenSessionExists
		}
		return fmt.Errorf("otoolkit: create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	var m sessionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": sessionID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("session %s: %w", sessionID, session.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get session: %w", err)
	}
	return sessionFromModel(&m)
}

func (s *Store) GetOpenSession(ctx context.Context, userID string) (*session.Session, error) {
	var m sessionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"user_id": userID, "open": true}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("open session for %s: %w", userID, session.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get open session: %w", err)
	}
	return sessionFromModel(&m)
}

// CloseSession matches only still-open documents, so a repeated close never
// overwrites the recorded end time.
func (s *Store) CloseSession(ctx context.Context, sessionID id.SessionID, endedAt time.Time) error {
	res, err := s.mdb.NewUpdate((*sessionModel)(nil)).
		Filter(bson.M{"_id": sessionID.String(), "open": true}).
		Set("ended_at", endedAt).
		Set("open", false).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: close session: %w", err)
	}
	if res.MatchedCount() == 0 {
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return err
		}
		return session.ErrAlreadyClosed
	}
	return nil
}

func (s *Store) ListSessions(ctx context.Context, filter *session.ListFilter) ([]*session.Session, error) {
	var models []sessionModel
	f := bson.M{}
	if filter != nil {
		if filter.UserID != "" {
			f["user_id"] = filter.UserID
		}
		if !filter.LocationID.IsNil() {
			f["location_id"] = filter.LocationID.String()
		}
		if filter.OpenOnly {
			f["open"] = true
		}
		started := bson.M{}
		if filter.From != nil {
			started["$gte"] = *filter.From
		}
		if filter.To != nil {
			started["$lt"] = *filter.To
		}
		if len(started) > 0 {
			f["started_at"] = started
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "started_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("otoolkit: list sessions: %w", err)
	}
	result := make([]*session.Session, len(models))
	for i := range models {
		sess, err := sessionFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list sessions: %w", err)
		}
		result[i] = sess
	}
	return result, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	_, err := s.mdb.NewDelete((*sessionModel)(nil)).
		Filter(bson.M{"_id": sessionID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete session: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Task and group operations
// ──────────────────────────────────────────────────

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	if _, err := s.mdb.NewInsert(taskToModel(t)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, taskID id.TaskID) (*task.Task, error) {
	var m taskModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": taskID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("task %s: %w", taskID, task.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get task: %w", err)
	}
	return taskFromModel(&m)
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	m := taskToModel(t)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: update task: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("task %s: %w", t.ID, task.ErrTaskNotFound)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, taskID id.TaskID) error {
	_, err := s.mdb.NewDelete((*taskModel)(nil)).
		Filter(bson.M{"_id": taskID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, filter *task.ListFilter) ([]*task.Task, error) {
	var models []taskModel
	f := bson.M{}
	if filter != nil {
		if !filter.GroupID.IsNil() {
			f["group_id"] = filter.GroupID.String()
		}
		if filter.Status != "" {
			f["status"] = string(filter.Status)
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("otoolkit: list tasks: %w", err)
	}
	result := make([]*task.Task, len(models))
	for i := range models {
		t, err := taskFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list tasks: %w", err)
		}
		result[i] = t
	}
	return result, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *task.Group) error {
	if _, err := s.mdb.NewInsert(groupToModel(g)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create group: %w", err)
	}
	return nil
}

func (s *Store) GetGroup(ctx context.Context, groupID id.GroupID) (*task.Group, error) {
	var m groupModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": groupID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("group %s: %w", groupID, task.ErrGroupNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get group: %w", err)
	}
	return groupFromModel(&m)
}

func (s *Store) UpdateGroup(ctx context.Context, g *task.Group) error {
	g.UpdatedAt = now()
	m := groupToModel(g)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: update group: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("group %s: %w", g.ID, task.ErrGroupNotFound)
	}
	return nil
}

func (s *Store) DeleteGroup(ctx context.Context, groupID id.GroupID) error {
	_, err := s.mdb.NewDelete((*groupModel)(nil)).
		Filter(bson.M{"_id": groupID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete group: %w", err)
	}
	return nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*task.Group, error) {
	var models []groupModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("otoolkit: list groups: %w", err)
	}
	result := make([]*task.Group, len(models))
	for i := range models {
		g, err := groupFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list groups: %w", err)
		}
		result[i] = g
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Outreach operations
// ──────────────────────────────────────────────────

func (s *Store) CreateEvent(ctx context.Context, e *outreach.Event) error {
	if _, err := s.mdb.NewInsert(eventToModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, eventID id.EventID) (*outreach.Event, error) {
	var m eventModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": eventID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("event %s: %w", eventID, outreach.ErrEventNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get event: %w", err)
	}
	return eventFromModel(&m)
}

func (s *Store) UpdateEvent(ctx context.Context, e *outreach.Event) error {
	e.UpdatedAt = now()
	m := eventToModel(e)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: update event: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("event %s: %w", e.ID, outreach.ErrEventNotFound)
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, eventID id.EventID) error {
	if _, err := s.mdb.NewDelete((*activityModel)(nil)).
		Filter(bson.M{"event_id": eventID.String()}).
		Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: delete event activities: %w", err)
	}
	_, err := s.mdb.NewDelete((*eventModel)(nil)).
		Filter(bson.M{"_id": eventID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete event: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]*outreach.Event, error) {
	var models []eventModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("otoolkit: list events: %w", err)
	}
	result := make([]*outreach.Event, len(models))
	for i := range models {
		e, err := eventFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list events: %w", err)
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) CreateActivity(ctx context.Context, a *outreach.Activity) error {
	if _, err := s.mdb.NewInsert(activityToModel(a)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create activity: %w", err)
	}
	return nil
}

func (s *Store) CreateActivities(ctx context.Context, activities []*outreach.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	models := make([]activityModel, len(activities))
	for i, a := range activities {
		models[i] = *activityToModel(a)
	}
	if _, err := s.mdb.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create activities: %w", err)
	}
	return nil
}

func (s *Store) DeleteActivity(ctx context.Context, activityID id.ActivityID) error {
	_, err := s.mdb.NewDelete((*activityModel)(nil)).
		Filter(bson.M{"_id": activityID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivities(ctx context.Context, filter *outreach.ListFilter) ([]*outreach.Activity, error) {
	var models []activityModel
	f := bson.M{}
	if filter != nil {
		if filter.UserID != "" {
			f["user_id"] = filter.UserID
		}
		if !filter.EventID.IsNil() {
			f["event_id"] = filter.EventID.String()
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "logged_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("otoolkit: list activities: %w", err)
	}
	result := make([]*outreach.Activity, len(models))
	for i := range models {
		a, err := activityFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("otoolkit: list activities: %w", err)
		}
		result[i] = a
	}
	return result, nil
}
