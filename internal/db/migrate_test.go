package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-01-01T00:00:00Z"

func insertProgram(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO programs (id, name, goal_type, start_ftp, target_ftp, target_date,
		start_date, hours_per_week, sessions_per_week, skeleton_json, status, created_at, updated_at)
		VALUES (?, 'Spring', 'ftp_target', 250, 270, '2025-04-01', '2025-01-06', 8, 5, '{}', 'active', ?, ?)`, id, ts, ts)
	require.NoError(t, err)
}

func insertWeek(t *testing.T, db *sql.DB, id, programID string, n int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO weeks (id, program_id, week_number, phase, start_date, end_date, status, created_at, updated_at)
		VALUES (?, ?, ?, 'base', '2025-01-06', '2025-01-12', 'current', ?, ?)`, id, programID, n, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"rider_profile", "activities", "programs", "weeks", "workout_slots", "workout_feedback"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_activities_started",
		"idx_programs_status",
		"idx_weeks_program",
		"idx_weeks_dates",
		"idx_slots_week",
		"idx_slots_status",
		"idx_feedback_created",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_ProfileRejectsNonPositiveFTP(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO rider_profile (id, ftp, updated_at) VALUES ('default', 0, ?)`, ts)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO rider_profile (id, ftp, updated_at) VALUES ('other', 250, ?)`, ts)
	assert.Error(t, err, "only the default profile row is allowed")

	_, err = db.Exec(`INSERT INTO rider_profile (id, ftp, updated_at) VALUES ('default', 250, ?)`, ts)
	assert.NoError(t, err)
}

func TestMigrate_ActivityExternalIDUnique(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO activities (id, external_id, started_at, duration_seconds, created_at, updated_at)
		VALUES (?, 'ext-1', ?, 3600, ?, ?)`
	_, err := db.Exec(insert, "a1", ts, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(insert, "a2", ts, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_WeekNumberUniquePerProgram(t *testing.T) {
	db := openTestDB(t)
	insertProgram(t, db, "p1")
	insertProgram(t, db, "p2")

	insertWeek(t, db, "w1", "p1", 1)
	insertWeek(t, db, "w2", "p2", 1)

	_, err := db.Exec(`INSERT INTO weeks (id, program_id, week_number, phase, start_date, end_date, created_at, updated_at)
		VALUES ('w3', 'p1', 1, 'base', '2025-01-06', '2025-01-12', ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO programs (id, name, start_ftp, target_ftp, target_date, start_date,
		hours_per_week, sessions_per_week, skeleton_json, status, created_at, updated_at)
		VALUES ('p1', 'X', 250, 270, '2025-04-01', '2025-01-06', 8, 5, '{}', 'INVALID', ?, ?)`, ts, ts)
	assert.Error(t, err, "invalid program status")

	insertProgram(t, db, "p1")
	_, err = db.Exec(`INSERT INTO weeks (id, program_id, week_number, phase, start_date, end_date, created_at, updated_at)
		VALUES ('w1', 'p1', 1, 'sprint', '2025-01-06', '2025-01-12', ?, ?)`, ts, ts)
	assert.Error(t, err, "invalid phase")

	insertWeek(t, db, "w1", "p1", 1)
	slot := `INSERT INTO workout_slots (id, week_id, day_index, category, intensity, target_stress, created_at, updated_at)
		VALUES (?, 'w1', ?, 'endurance', 'easy', 50, ?, ?)`
	_, err = db.Exec(slot, "s0", 0, ts, ts)
	assert.Error(t, err, "day index 0")
	_, err = db.Exec(slot, "s8", 8, ts, ts)
	assert.Error(t, err, "day index 8")
	_, err = db.Exec(slot, "s1", 1, ts, ts)
	assert.NoError(t, err)

	_, err = db.Exec(`INSERT INTO workout_feedback (id, difficulty, rating, created_at) VALUES ('f1', 6, 3, ?)`, ts)
	assert.Error(t, err, "difficulty out of range")
}

func TestMigrate_ProgramDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	insertProgram(t, db, "p1")
	insertWeek(t, db, "w1", "p1", 1)
	_, err := db.Exec(`INSERT INTO workout_slots (id, week_id, day_index, category, intensity, target_stress, created_at, updated_at)
		VALUES ('s1', 'w1', 2, 'threshold', 'hard', 90, ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM programs WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM weeks`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM workout_slots`).Scan(&n))
	assert.Zero(t, n)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)", dsn(":memory:"))
	assert.Contains(t, dsn("/tmp/velo.db"), "journal_mode(WAL)")
	assert.Contains(t, dsn("/tmp/velo.db"), "busy_timeout(5000)")
	assert.Contains(t, dsn("/tmp/velo.db"), "_txlock=immediate")
}
