package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

// SQLiteProgramRepo implements ProgramRepo using a SQLite database. The
// skeleton is stored as a JSON document and never rewritten.
type SQLiteProgramRepo struct {
	db db.DBTX
}

func NewSQLiteProgramRepo(conn db.DBTX) *SQLiteProgramRepo {
	return &SQLiteProgramRepo{db: conn}
}

const programColumns = `id, name, goal_type, goal_description, start_ftp, target_ftp, target_date,
	start_date, hours_per_week, sessions_per_week, skeleton_json, status, initial_ctl,
	completed_at, created_at, updated_at`

func (r *SQLiteProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	if p.Skeleton == nil {
		return fmt.Errorf("program %s has no skeleton", p.ID)
	}
	skel, err := json.Marshal(p.Skeleton)
	if err != nil {
		return fmt.Errorf("encoding skeleton: %w", err)
	}
	goalType := p.Goal.Type
	if goalType == "" {
		goalType = domain.GoalFTPTarget
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO programs (`+programColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		string(goalType),
		p.Goal.Description,
		p.Goal.StartFTP,
		p.Goal.TargetFTP,
		formatDate(p.Goal.TargetDate),
		formatDate(p.StartDate),
		p.Volume.HoursPerWeek,
		p.Volume.SessionsPerWeek,
		string(skel),
		string(p.Status),
		p.InitialCTL,
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

func (r *SQLiteProgramRepo) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE id = ?`, id)
	p, err := r.populateProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// List returns programs newest first, restricted to the given statuses when
// any are passed.
func (r *SQLiteProgramRepo) List(ctx context.Context, statuses ...domain.ProgramStatus) ([]*domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var out []*domain.Program
	for rows.Next() {
		p, err := r.populateProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	return out, nil
}

// UpdateStatus persists the lifecycle fields; everything else is immutable.
func (r *SQLiteProgramRepo) UpdateStatus(ctx context.Context, p *domain.Program) error {
	res, err := r.db.ExecContext(ctx, `UPDATE programs SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(p.Status), nullableTimeToString(p.CompletedAt, time.RFC3339), formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	return requireAffected(res, "program", p.ID)
}

func (r *SQLiteProgramRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	return requireAffected(res, "program", id)
}

func (r *SQLiteProgramRepo) populateProgram(s rowScanner) (*domain.Program, error) {
	var p domain.Program
	var goalType, status, targetDate, startDate, skel, createdAt, updatedAt string
	var completedAt sql.NullString
	err := s.Scan(&p.ID, &p.Name, &goalType, &p.Goal.Description, &p.Goal.StartFTP, &p.Goal.TargetFTP,
		&targetDate, &startDate, &p.Volume.HoursPerWeek, &p.Volume.SessionsPerWeek, &skel, &status,
		&p.InitialCTL, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning program: %w", err)
	}
	p.Goal.Type = domain.GoalType(goalType)
	p.Status = domain.ProgramStatus(status)
	p.CompletedAt = parseNullableTime(completedAt, time.RFC3339)

	var skeleton domain.Skeleton
	if err := json.Unmarshal([]byte(skel), &skeleton); err != nil {
		return nil, fmt.Errorf("decoding skeleton of program %s: %w", p.ID, err)
	}
	p.Skeleton = &skeleton

	if p.Goal.TargetDate, err = parseDate("target_date", targetDate); err != nil {
		return nil, err
	}
	if p.StartDate, err = parseDate("start_date", startDate); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
