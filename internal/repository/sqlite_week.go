package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

// SQLiteWeekRepo implements WeekRepo using a SQLite database.
type SQLiteWeekRepo struct {
	db db.DBTX
}

func NewSQLiteWeekRepo(conn db.DBTX) *SQLiteWeekRepo {
	return &SQLiteWeekRepo{db: conn}
}

const weekColumns = `id, program_id, week_number, phase, is_recovery, start_date, end_date,
	target_stress, target_hours, target_sessions, zone_emphasis, coaching_notes, planned_at,
	actual_stress, actual_hours, actual_sessions, actual_ctl, actual_atl,
	adaptation_notes, status, created_at, updated_at`

func (r *SQLiteWeekRepo) Create(ctx context.Context, w *domain.Week) error {
	zones, err := encodeZones(w.ZoneEmphasis)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO weeks (`+weekColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID,
		w.ProgramID,
		w.WeekNumber,
		string(w.Phase),
		boolToInt(w.IsRecovery),
		formatDate(w.StartDate),
		formatDate(w.EndDate),
		w.TargetStress,
		w.TargetHours,
		w.TargetSessions,
		zones,
		w.CoachingNotes,
		nullableTimeToString(w.PlannedAt, time.RFC3339),
		nullableFloat(w.ActualStress),
		nullableFloat(w.ActualHours),
		nullableInt(w.ActualSessions),
		nullableFloat(w.ActualCTL),
		nullableFloat(w.ActualATL),
		w.AdaptationNotes,
		string(w.Status),
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting week %d: %w", w.WeekNumber, err)
	}
	return nil
}

func (r *SQLiteWeekRepo) GetByID(ctx context.Context, id string) (*domain.Week, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM weeks WHERE id = ?`, id)
	return r.scanWeek(row, "week "+id)
}

func (r *SQLiteWeekRepo) GetByNumber(ctx context.Context, programID string, weekNumber int) (*domain.Week, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM weeks WHERE program_id = ? AND week_number = ?`,
		programID, weekNumber)
	return r.scanWeek(row, fmt.Sprintf("week %d of program %s", weekNumber, programID))
}

func (r *SQLiteWeekRepo) GetCurrent(ctx context.Context, programID string) (*domain.Week, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM weeks WHERE program_id = ? AND status = 'current'`,
		programID)
	return r.scanWeek(row, "current week of program "+programID)
}

func (r *SQLiteWeekRepo) ListByProgram(ctx context.Context, programID string) ([]*domain.Week, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+weekColumns+` FROM weeks WHERE program_id = ? ORDER BY week_number`,
		programID)
	if err != nil {
		return nil, fmt.Errorf("listing weeks: %w", err)
	}
	defer rows.Close()
	return r.scanWeeks(rows)
}

func (r *SQLiteWeekRepo) ListCompletedBefore(ctx context.Context, programID string, weekNumber, limit int) ([]*domain.Week, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+weekColumns+` FROM (
			SELECT * FROM weeks WHERE program_id = ? AND week_number < ? AND status = 'completed'
			ORDER BY week_number DESC LIMIT ?
		) ORDER BY week_number`,
		programID, weekNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("listing completed weeks: %w", err)
	}
	defer rows.Close()
	return r.scanWeeks(rows)
}

func (r *SQLiteWeekRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.Week, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+weekColumns+` FROM weeks
		WHERE start_date <= ? AND end_date >= ? ORDER BY program_id, week_number`,
		formatDate(to), formatDate(from))
	if err != nil {
		return nil, fmt.Errorf("listing overlapping weeks: %w", err)
	}
	defer rows.Close()
	return r.scanWeeks(rows)
}

func (r *SQLiteWeekRepo) Update(ctx context.Context, w *domain.Week) error {
	zones, err := encodeZones(w.ZoneEmphasis)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE weeks SET target_stress = ?, target_hours = ?, target_sessions = ?,
		zone_emphasis = ?, coaching_notes = ?, planned_at = ?, actual_stress = ?, actual_hours = ?,
		actual_sessions = ?, actual_ctl = ?, actual_atl = ?, adaptation_notes = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		w.TargetStress,
		w.TargetHours,
		w.TargetSessions,
		zones,
		w.CoachingNotes,
		nullableTimeToString(w.PlannedAt, time.RFC3339),
		nullableFloat(w.ActualStress),
		nullableFloat(w.ActualHours),
		nullableInt(w.ActualSessions),
		nullableFloat(w.ActualCTL),
		nullableFloat(w.ActualATL),
		w.AdaptationNotes,
		string(w.Status),
		formatTime(w.UpdatedAt),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating week %d: %w", w.WeekNumber, err)
	}
	return requireAffected(res, "week", w.ID)
}

func (r *SQLiteWeekRepo) scanWeek(row *sql.Row, what string) (*domain.Week, error) {
	w, err := r.populateWeek(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWeekRepo) scanWeeks(rows *sql.Rows) ([]*domain.Week, error) {
	var out []*domain.Week
	for rows.Next() {
		w, err := r.populateWeek(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weeks: %w", err)
	}
	return out, nil
}

func (r *SQLiteWeekRepo) populateWeek(s rowScanner) (*domain.Week, error) {
	var w domain.Week
	var phase, status, startDate, endDate, zones, createdAt, updatedAt string
	var isRecovery int
	var plannedAt sql.NullString
	var actualStress, actualHours, actualCTL, actualATL sql.NullFloat64
	var actualSessions sql.NullInt64

	err := s.Scan(&w.ID, &w.ProgramID, &w.WeekNumber, &phase, &isRecovery, &startDate, &endDate,
		&w.TargetStress, &w.TargetHours, &w.TargetSessions, &zones, &w.CoachingNotes, &plannedAt,
		&actualStress, &actualHours, &actualSessions, &actualCTL, &actualATL,
		&w.AdaptationNotes, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning week: %w", err)
	}

	w.Phase = domain.PhaseName(phase)
	w.Status = domain.WeekStatus(status)
	w.IsRecovery = intToBool(isRecovery)
	w.PlannedAt = parseNullableTime(plannedAt, time.RFC3339)
	w.ActualStress = floatPtr(actualStress)
	w.ActualHours = floatPtr(actualHours)
	w.ActualSessions = intPtr(actualSessions)
	w.ActualCTL = floatPtr(actualCTL)
	w.ActualATL = floatPtr(actualATL)

	if w.ZoneEmphasis, err = decodeZones(zones); err != nil {
		return nil, err
	}
	if w.StartDate, err = parseDate("start_date", startDate); err != nil {
		return nil, err
	}
	if w.EndDate, err = parseDate("end_date", endDate); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
