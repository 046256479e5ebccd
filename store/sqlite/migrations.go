package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the SQLite store.
var Migrations = migrate.NewGroup("otoolkit")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_rules",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_rules (
    id              TEXT PRIMARY KEY,
    role            TEXT NOT NULL,
    resource        TEXT NOT NULL,
    action          TEXT NOT NULL,
    condition       TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(role, resource, action, condition)
);

CREATE INDEX IF NOT EXISTS idx_otk_rules_role ON otk_rules (role);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_rules`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_locations",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_locations (
    id              TEXT PRIMARY KEY,
    location_name   TEXT NOT NULL,
    latitude        REAL NOT NULL,
    longitude       REAL NOT NULL,
    radius_meters   REAL NOT NULL,
    is_active       INTEGER NOT NULL DEFAULT 1,
    valid_hours     TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_otk_locations_active ON otk_locations (is_active);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_locations`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_sessions",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_sessions (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    location_id     TEXT NOT NULL REFERENCES otk_locations(id),
    started_at      TEXT NOT NULL,
    ended_at        TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_otk_sessions_open
    ON otk_sessions (user_id) WHERE ended_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_otk_sessions_user ON otk_sessions (user_id, started_at);
CREATE INDEX IF NOT EXISTS idx_otk_sessions_location ON otk_sessions (location_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_sessions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_groups",
			Version: "20260101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_groups (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_groups`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tasks",
			Version: "20260101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_tasks (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    group_id         TEXT NOT NULL DEFAULT '',
    due_date         TEXT,
    status           TEXT NOT NULL DEFAULT 'to_do',
    completed_by     TEXT NOT NULL DEFAULT '',
    reviewed_by      TEXT NOT NULL DEFAULT '',
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at       TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_otk_tasks_group ON otk_tasks (group_id);
CREATE INDEX IF NOT EXISTS idx_otk_tasks_status ON otk_tasks (status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_tasks`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_events",
			Version: "20260101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_events (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    minutes_cap     INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_events`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_activities",
			Version: "20260101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS otk_activities (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    event_id        TEXT NOT NULL REFERENCES otk_events(id) ON DELETE CASCADE,
    minutes         INTEGER NOT NULL,
    logged_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_otk_activities_user ON otk_activities (user_id);
CREATE INDEX IF NOT EXISTS idx_otk_activities_event ON otk_activities (event_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS otk_activities`)
				return err
			},
		},
	)
}
