package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS rider_profile (
		id         TEXT PRIMARY KEY CHECK(id = 'default'),
		ftp        REAL NOT NULL CHECK(ftp > 0),
		weight_kg  REAL NOT NULL DEFAULT 0 CHECK(weight_kg >= 0),
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id               TEXT PRIMARY KEY,
		external_id      TEXT NOT NULL UNIQUE,
		name             TEXT NOT NULL DEFAULT '',
		sport            TEXT NOT NULL DEFAULT 'cycling',
		started_at       TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL CHECK(duration_seconds >= 0),
		normalized_power REAL NOT NULL DEFAULT 0 CHECK(normalized_power >= 0),
		intensity_factor REAL NOT NULL DEFAULT 0,
		stress_score     REAL NOT NULL DEFAULT 0,
		ftp_used         REAL NOT NULL DEFAULT 0,
		zone_seconds     TEXT NOT NULL DEFAULT '[0,0,0,0,0,0,0]',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_started ON activities(started_at)`,

	`CREATE TABLE IF NOT EXISTS programs (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		goal_type         TEXT NOT NULL DEFAULT 'ftp_target'
		                  CHECK(goal_type IN ('ftp_target','race_prep','base_building')),
		goal_description  TEXT NOT NULL DEFAULT '',
		start_ftp         REAL NOT NULL,
		target_ftp        REAL NOT NULL,
		target_date       TEXT NOT NULL,
		start_date        TEXT NOT NULL,
		hours_per_week    REAL NOT NULL CHECK(hours_per_week > 0),
		sessions_per_week INTEGER NOT NULL CHECK(sessions_per_week > 0),
		skeleton_json     TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'active'
		                  CHECK(status IN ('active','paused','completed','cancelled')),
		initial_ctl       REAL NOT NULL DEFAULT 0,
		completed_at      TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_programs_status ON programs(status)`,

	`CREATE TABLE IF NOT EXISTS weeks (
		id               TEXT PRIMARY KEY,
		program_id       TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		week_number      INTEGER NOT NULL CHECK(week_number > 0),
		phase            TEXT NOT NULL CHECK(phase IN ('base','build','peak','taper')),
		is_recovery      INTEGER NOT NULL DEFAULT 0,
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		target_stress    REAL NOT NULL DEFAULT 0,
		target_hours     REAL NOT NULL DEFAULT 0,
		target_sessions  INTEGER NOT NULL DEFAULT 0,
		zone_emphasis    TEXT NOT NULL DEFAULT '{}',
		coaching_notes   TEXT NOT NULL DEFAULT '',
		planned_at       TEXT,
		actual_stress    REAL,
		actual_hours     REAL,
		actual_sessions  INTEGER,
		actual_ctl       REAL,
		actual_atl       REAL,
		adaptation_notes TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'upcoming'
		                 CHECK(status IN ('upcoming','current','completed','skipped')),
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		UNIQUE(program_id, week_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_weeks_program ON weeks(program_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weeks_dates ON weeks(start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS workout_slots (
		id                  TEXT PRIMARY KEY,
		week_id             TEXT NOT NULL REFERENCES weeks(id) ON DELETE CASCADE,
		day_index           INTEGER NOT NULL CHECK(day_index BETWEEN 1 AND 7),
		category            TEXT NOT NULL,
		intensity           TEXT NOT NULL CHECK(intensity IN ('hard','moderate','easy')),
		target_stress       INTEGER NOT NULL CHECK(target_stress >= 0),
		target_duration_min INTEGER NOT NULL DEFAULT 0,
		instructions        TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'planned'
		                    CHECK(status IN ('planned','generated','completed','skipped')),
		artifact_ref        TEXT NOT NULL DEFAULT '',
		activity_id         TEXT REFERENCES activities(id) ON DELETE SET NULL,
		validation_warnings TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_slots_week ON workout_slots(week_id)`,
	`CREATE INDEX IF NOT EXISTS idx_slots_status ON workout_slots(status)`,

	`CREATE TABLE IF NOT EXISTS workout_feedback (
		id         TEXT PRIMARY KEY,
		slot_id    TEXT REFERENCES workout_slots(id) ON DELETE SET NULL,
		category   TEXT NOT NULL DEFAULT '',
		difficulty INTEGER NOT NULL CHECK(difficulty BETWEEN 1 AND 5),
		rating     INTEGER NOT NULL CHECK(rating BETWEEN 1 AND 5),
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_created ON workout_feedback(created_at)`,

	`ALTER TABLE activities ADD COLUMN best_efforts TEXT NOT NULL DEFAULT '{}'`,
}
