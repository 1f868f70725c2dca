package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

// SQLiteProfileRepo stores the single rider profile row.
type SQLiteProfileRepo struct {
	db db.DBTX
}

func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

func (r *SQLiteProfileRepo) Get(ctx context.Context) (*domain.RiderProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT ftp, weight_kg, updated_at FROM rider_profile WHERE id = 'default'`)

	var p domain.RiderProfile
	var updatedAt string
	if err := row.Scan(&p.FTP, &p.WeightKg, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rider profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning rider profile: %w", err)
	}
	t, err := parseTimestamp("updated_at", updatedAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = t
	return &p, nil
}

func (r *SQLiteProfileRepo) Upsert(ctx context.Context, p *domain.RiderProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rider_profile (id, ftp, weight_kg, updated_at) VALUES ('default', ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET ftp = excluded.ftp, weight_kg = excluded.weight_kg, updated_at = excluded.updated_at`,
		p.FTP, p.WeightKg, formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting rider profile: %w", err)
	}
	return nil
}
