package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, external_id, name, sport, started_at, duration_seconds, normalized_power,
	intensity_factor, stress_score, ftp_used, zone_seconds, best_efforts, created_at, updated_at`

func (r *SQLiteActivityRepo) Upsert(ctx context.Context, a *domain.Activity) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	existing, err := r.GetByExternalID(ctx, a.ExternalID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}

	zones, err := json.Marshal(a.ZoneSeconds)
	if err != nil {
		return false, fmt.Errorf("encoding zone seconds: %w", err)
	}

	if existing != nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		// A refetch without a power stream keeps the curve already stored.
		if len(a.BestEfforts) == 0 {
			a.BestEfforts = existing.BestEfforts
		}
	}
	efforts, err := encodeEfforts(a.BestEfforts)
	if err != nil {
		return false, err
	}

	if existing != nil {
		_, err = r.db.ExecContext(ctx, `UPDATE activities SET name = ?, sport = ?, started_at = ?,
			duration_seconds = ?, normalized_power = ?, intensity_factor = ?, stress_score = ?,
			ftp_used = ?, zone_seconds = ?, best_efforts = ?, updated_at = ? WHERE id = ?`,
			a.Name, a.Sport, formatTime(a.StartedAt), a.DurationSeconds, a.NormalizedPower,
			a.IntensityFactor, a.StressScore, a.FTPUsed, string(zones), efforts, formatTime(a.UpdatedAt), a.ID)
		if err != nil {
			return false, fmt.Errorf("updating activity %s: %w", a.ExternalID, err)
		}
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ExternalID, a.Name, a.Sport, formatTime(a.StartedAt), a.DurationSeconds,
		a.NormalizedPower, a.IntensityFactor, a.StressScore, a.FTPUsed, string(zones), efforts,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		return false, fmt.Errorf("inserting activity %s: %w", a.ExternalID, err)
	}
	return true, nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	return r.scanActivity(row)
}

func (r *SQLiteActivityRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE external_id = ?`, externalID)
	return r.scanActivity(row)
}

func (r *SQLiteActivityRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities
		WHERE started_at >= ? AND started_at < ? ORDER BY started_at, external_id`,
		formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()
	return r.scanActivities(rows)
}

func (r *SQLiteActivityRepo) ListAll(ctx context.Context) ([]*domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY started_at, external_id`)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()
	return r.scanActivities(rows)
}

// UpdateMetrics rewrites the derived columns of an existing activity.
func (r *SQLiteActivityRepo) UpdateMetrics(ctx context.Context, a *domain.Activity) error {
	zones, err := json.Marshal(a.ZoneSeconds)
	if err != nil {
		return fmt.Errorf("encoding zone seconds: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE activities SET intensity_factor = ?, stress_score = ?,
		ftp_used = ?, zone_seconds = ?, updated_at = ? WHERE id = ?`,
		a.IntensityFactor, a.StressScore, a.FTPUsed, string(zones), formatTime(a.UpdatedAt), a.ID)
	if err != nil {
		return fmt.Errorf("updating activity metrics: %w", err)
	}
	return requireAffected(res, "activity", a.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteActivityRepo) scanActivity(row *sql.Row) (*domain.Activity, error) {
	a, err := r.populateActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("activity: %w", ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteActivityRepo) scanActivities(rows *sql.Rows) ([]*domain.Activity, error) {
	var out []*domain.Activity
	for rows.Next() {
		a, err := r.populateActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *SQLiteActivityRepo) populateActivity(s rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var startedAt, zones, efforts, createdAt, updatedAt string
	err := s.Scan(&a.ID, &a.ExternalID, &a.Name, &a.Sport, &startedAt, &a.DurationSeconds,
		&a.NormalizedPower, &a.IntensityFactor, &a.StressScore, &a.FTPUsed, &zones, &efforts, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	if err := json.Unmarshal([]byte(zones), &a.ZoneSeconds); err != nil {
		return nil, fmt.Errorf("decoding zone seconds: %w", err)
	}
	if a.BestEfforts, err = decodeEfforts(efforts); err != nil {
		return nil, err
	}
	if a.StartedAt, err = parseTimestamp("started_at", startedAt); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
