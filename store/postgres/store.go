// Package postgres provides the PostgreSQL implementation of the composite
// store using grove with Go-based migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/Team-Optix-3749/otoolkit-sub000/geofence"
	"github.com/Team-Optix-3749/otoolkit-sub000/id"
	"github.com/Team-Optix-3749/otoolkit-sub000/outreach"
	"github.com/Team-Optix-3749/otoolkit-sub000/rule"
	"github.com/Team-Optix-3749/otoolkit-sub000/session"
	"github.com/Team-Optix-3749/otoolkit-sub000/store"
	"github.com/Team-Optix-3749/otoolkit-sub000/task"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of the composite store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("otoolkit/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("otoolkit/postgres: migration failed: %w", err)
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

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches the Postgres unique_violation error code.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ──────────────────────────────────────────────────
// Rule operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.pgdb.NewInsert(ruleToModel(r)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create rule: %w", err)
	}
	return nil
}

func (s *Store) GetRule(ctx context.Context, ruleID id.RuleID) (*rule.Rule, error) {
	m := new(ruleModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", ruleID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("rule %s: %w", ruleID, rule.ErrRuleNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get rule: %w", err)
	}
	return ruleFromModel(m)
}

func (s *Store) UpdateRule(ctx context.Context, r *rule.Rule) error {
	r.UpdatedAt = time.Now().UTC()
	if _, err := s.pgdb.NewUpdate(ruleToModel(r)).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: update rule: %w", err)
	}
	return nil
}

func (s *Store) DeleteRule(ctx context.Context, ruleID id.RuleID) error {
	_, err := s.pgdb.NewDelete((*ruleModel)(nil)).
		Where("id = ?", ruleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete rule: %w", err)
	}
	return nil
}

func (s *Store) ListRules(ctx context.Context, filter *rule.ListFilter) ([]*rule.Rule, error) {
	var models []ruleModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.Role != "" {
			q = q.Where("role = ?", string(filter.Role))
		}
		if filter.Resource != "" {
			q = q.Where("resource = ?", string(filter.Resource))
		}
		if filter.Action != "" {
			q = q.Where("action = ?", string(filter.Action))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	err := s.pgdb.NewSelect(&models).
		Where("role IN (?)", names).
		OrderExpr("created_at ASC").
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
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	m, err := locationToModel(l)
	if err != nil {
		return fmt.Errorf("otoolkit: create location: %w", err)
	}
	if _, err := s.pgdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create location: %w", err)
	}
	return nil
}

func (s *Store) GetLocation(ctx context.Context, locationID id.LocationID) (*geofence.Location, error) {
	m := new(locationModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", locationID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("location %s: %w", locationID, geofence.ErrLocationNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get location: %w", err)
	}
	return locationFromModel(m)
}

func (s *Store) UpdateLocation(ctx context.Context, l *geofence.Location) error {
	l.UpdatedAt = time.Now().UTC()
	m, err := locationToModel(l)
	if err != nil {
		return fmt.Errorf("otoolkit: update location: %w", err)
	}
	if _, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: update location: %w", err)
	}
	return nil
}

func (s *Store) DeleteLocation(ctx context.Context, locationID id.LocationID) error {
	_, err := s.pgdb.NewDelete((*locationModel)(nil)).
		Where("id = ?", locationID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete location: %w", err)
	}
	return nil
}

func (s *Store) ListLocations(ctx context.Context, filter *geofence.ListFilter) ([]*geofence.Location, error) {
	var models []locationModel
	q := s.pgdb.NewSelect(&models).OrderExpr("location_name ASC")
	if filter != nil {
		if filter.ActiveOnly {
			q = q.Where("is_active = ?", true)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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

// CreateSession relies on the partial unique index over open sessions, so
// concurrent inserts for one user collapse to a single winner.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	if _, err := s.pgdb.NewInsert(sessionToModel(sess)).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return session.ErrOpenSessionExists
		}
		return fmt.Errorf("otoolkit: create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Session, error) {
	m := new(sessionModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", sessionID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("session %s: %w", sessionID, session.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get session: %w", err)
	}
	return sessionFromModel(m)
}

func (s *Store) GetOpenSession(ctx context.Context, userID string) (*session.Session, error) {
	m := new(sessionModel)
	err := s.pgdb.NewSelect(m).
		Where("user_id = ?", userID).
		Where("ended_at IS NULL").
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("open session for %s: %w", userID, session.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get open session: %w", err)
	}
	return sessionFromModel(m)
}

// CloseSession only touches rows that are still open, so a second close
// cannot overwrite the recorded end time.
func (s *Store) CloseSession(ctx context.Context, sessionID id.SessionID, endedAt time.Time) error {
	res, err := s.pgdb.NewUpdate((*sessionModel)(nil)).
		Set("ended_at = ?", endedAt).
		Where("id = ?", sessionID.String()).
		Where("ended_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: close session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("otoolkit: close session rows: %w", err)
	}
	if n == 0 {
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return err
		}
		return session.ErrAlreadyClosed
	}
	return nil
}

func (s *Store) ListSessions(ctx context.Context, filter *session.ListFilter) ([]*session.Session, error) {
	var models []sessionModel
	q := s.pgdb.NewSelect(&models).OrderExpr("started_at DESC")
	if filter != nil {
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if !filter.LocationID.IsNil() {
			q = q.Where("location_id = ?", filter.LocationID.String())
		}
		if filter.OpenOnly {
			q = q.Where("ended_at IS NULL")
		}
		if filter.From != nil {
			q = q.Where("started_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("started_at < ?", *filter.To)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	_, err := s.pgdb.NewDelete((*sessionModel)(nil)).
		Where("id = ?", sessionID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete session: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Task and group operations
// ──────────────────────────────────────────────────

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	if _, err := s.pgdb.NewInsert(taskToModel(t)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, taskID id.TaskID) (*task.Task, error) {
	m := new(taskModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", taskID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("task %s: %w", taskID, task.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get task: %w", err)
	}
	return taskFromModel(m)
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	if _, err := s.pgdb.NewUpdate(taskToModel(t)).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: update task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, taskID id.TaskID) error {
	_, err := s.pgdb.NewDelete((*taskModel)(nil)).
		Where("id = ?", taskID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, filter *task.ListFilter) ([]*task.Task, error) {
	var models []taskModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if !filter.GroupID.IsNil() {
			q = q.Where("group_id = ?", filter.GroupID.String())
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
	if _, err := s.pgdb.NewInsert(groupToModel(g)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create group: %w", err)
	}
	return nil
}

func (s *Store) GetGroup(ctx context.Context, groupID id.GroupID) (*task.Group, error) {
	m := new(groupModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", groupID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("group %s: %w", groupID, task.ErrGroupNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get group: %w", err)
	}
	return groupFromModel(m)
}

func (s *Store) UpdateGroup(ctx context.Context, g *task.Group) error {
	g.UpdatedAt = time.Now().UTC()
	if _, err := s.pgdb.NewUpdate(groupToModel(g)).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: update group: %w", err)
	}
	return nil
}

func (s *Store) DeleteGroup(ctx context.Context, groupID id.GroupID) error {
	_, err := s.pgdb.NewDelete((*groupModel)(nil)).
		Where("id = ?", groupID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete group: %w", err)
	}
	return nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*task.Group, error) {
	var models []groupModel
	if err := s.pgdb.NewSelect(&models).OrderExpr("name ASC").Scan(ctx); err != nil {
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
	if _, err := s.pgdb.NewInsert(eventToModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, eventID id.EventID) (*outreach.Event, error) {
	m := new(eventModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", eventID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("event %s: %w", eventID, outreach.ErrEventNotFound)
		}
		return nil, fmt.Errorf("otoolkit: get event: %w", err)
	}
	return eventFromModel(m)
}

func (s *Store) UpdateEvent(ctx context.Context, e *outreach.Event) error {
	e.UpdatedAt = time.Now().UTC()
	if _, err := s.pgdb.NewUpdate(eventToModel(e)).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: update event: %w", err)
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, eventID id.EventID) error {
	if _, err := s.pgdb.NewDelete((*activityModel)(nil)).
		Where("event_id = ?", eventID.String()).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: delete event activities: %w", err)
	}
	_, err := s.pgdb.NewDelete((*eventModel)(nil)).
		Where("id = ?", eventID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete event: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]*outreach.Event, error) {
	var models []eventModel
	if err := s.pgdb.NewSelect(&models).OrderExpr("name ASC").Scan(ctx); err != nil {
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
	if _, err := s.pgdb.NewInsert(activityToModel(a)).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create activity: %w", err)
	}
	return nil
}

func (s *Store) CreateActivities(ctx context.Context, activities []*outreach.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("otoolkit: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	models := make([]activityModel, len(activities))
	for i, a := range activities {
		models[i] = *activityToModel(a)
	}
	if _, err := tx.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("otoolkit: create activities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("otoolkit: commit tx: %w", err)
	}
	return nil
}

func (s *Store) DeleteActivity(ctx context.Context, activityID id.ActivityID) error {
	_, err := s.pgdb.NewDelete((*activityModel)(nil)).
		Where("id = ?", activityID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("otoolkit: delete activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivities(ctx context.Context, filter *outreach.ListFilter) ([]*outreach.Activity, error) {
	var models []activityModel
	q := s.pgdb.NewSelect(&models).OrderExpr("logged_at DESC")
	if filter != nil {
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if !filter.EventID.IsNil() {
			q = q.Where("event_id = ?", filter.EventID.String())
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
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
