package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

// SQLiteSlotRepo implements SlotRepo using a SQLite database.
type SQLiteSlotRepo struct {
	db db.DBTX
}

func NewSQLiteSlotRepo(conn db.DBTX) *SQLiteSlotRepo {
	return &SQLiteSlotRepo{db: conn}
}

const slotColumns = `id, week_id, day_index, category, intensity, target_stress, target_duration_min,
	instructions, status, artifact_ref, activity_id, validation_warnings, created_at, updated_at`

func (r *SQLiteSlotRepo) Create(ctx context.Context, s *domain.WorkoutSlot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO workout_slots (`+slotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.WeekID, s.DayIndex, string(s.Category), string(s.Intensity), s.TargetStress,
		s.TargetDurationMin, s.Instructions, string(s.Status), s.ArtifactRef, nullableString(s.ActivityID),
		s.ValidationWarnings, formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting workout slot: %w", err)
	}
	return nil
}

func (r *SQLiteSlotRepo) GetByID(ctx context.Context, id string) (*domain.WorkoutSlot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM workout_slots WHERE id = ?`, id)
	s, err := r.populateSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workout slot %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSlotRepo) ListByWeek(ctx context.Context, weekID string) ([]*domain.WorkoutSlot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+slotColumns+` FROM workout_slots
		WHERE week_id = ? ORDER BY day_index, created_at, id`, weekID)
	if err != nil {
		return nil, fmt.Errorf("listing workout slots: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkoutSlot
	for rows.Next() {
		s, err := r.populateSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workout slots: %w", err)
	}
	return out, nil
}

func (r *SQLiteSlotRepo) CountByWeek(ctx context.Context, weekID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_slots WHERE week_id = ?`, weekID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting workout slots: %w", err)
	}
	return n, nil
}

func (r *SQLiteSlotRepo) Update(ctx context.Context, s *domain.WorkoutSlot) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workout_slots SET status = ?, artifact_ref = ?, activity_id = ?,
		validation_warnings = ?, updated_at = ? WHERE id = ?`,
		string(s.Status), s.ArtifactRef, nullableString(s.ActivityID), s.ValidationWarnings,
		formatTime(s.UpdatedAt), s.ID)
	if err != nil {
		return fmt.Errorf("updating workout slot: %w", err)
	}
	return requireAffected(res, "workout slot", s.ID)
}

func (r *SQLiteSlotRepo) populateSlot(sc rowScanner) (*domain.WorkoutSlot, error) {
	var s domain.WorkoutSlot
	var category, intensity, status, createdAt, updatedAt string
	var activityID sql.NullString
	err := sc.Scan(&s.ID, &s.WeekID, &s.DayIndex, &category, &intensity, &s.TargetStress,
		&s.TargetDurationMin, &s.Instructions, &status, &s.ArtifactRef, &activityID,
		&s.ValidationWarnings, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning workout slot: %w", err)
	}
	s.Category = domain.WorkoutCategory(category)
	s.Intensity = domain.Intensity(intensity)
	s.Status = domain.SlotStatus(status)
	s.ActivityID = stringPtr(activityID)
	if s.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
