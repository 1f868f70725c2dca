package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

// SQLiteFeedbackRepo implements FeedbackRepo using a SQLite database.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

const feedbackColumns = `id, slot_id, category, difficulty, rating, notes, created_at`

func (r *SQLiteFeedbackRepo) Create(ctx context.Context, f *domain.WorkoutFeedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO workout_feedback (`+feedbackColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, nullableString(f.SlotID), string(f.Category), f.Difficulty, f.Rating, f.Notes, formatTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting workout feedback: %w", err)
	}
	return nil
}

// ListRecent returns the newest feedback first.
func (r *SQLiteFeedbackRepo) ListRecent(ctx context.Context, limit int) ([]*domain.WorkoutFeedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedbackColumns+` FROM workout_feedback
		ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()
	return r.scanFeedback(rows)
}

func (r *SQLiteFeedbackRepo) ListByCategory(ctx context.Context, category domain.WorkoutCategory, limit int) ([]*domain.WorkoutFeedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedbackColumns+` FROM workout_feedback
		WHERE category = ? ORDER BY created_at DESC, id LIMIT ?`, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()
	return r.scanFeedback(rows)
}

func (r *SQLiteFeedbackRepo) scanFeedback(rows *sql.Rows) ([]*domain.WorkoutFeedback, error) {
	var out []*domain.WorkoutFeedback
	for rows.Next() {
		var f domain.WorkoutFeedback
		var slotID sql.NullString
		var category, createdAt string
		if err := rows.Scan(&f.ID, &slotID, &category, &f.Difficulty, &f.Rating, &f.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		f.SlotID = stringPtr(slotID)
		f.Category = domain.WorkoutCategory(category)
		t, err := parseTimestamp("created_at", createdAt)
		if err != nil {
			return nil, err
		}
		f.CreatedAt = t
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return out, nil
}
