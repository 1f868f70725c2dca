package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
)

type ProfileRepo interface {
	Get(ctx context.Context) (*domain.RiderProfile, error)
	Upsert(ctx context.Context, p *domain.RiderProfile) error
}

type ActivityRepo interface {
	// Upsert inserts a new activity or updates the row sharing its external
	// id. On update a.ID and a.CreatedAt are replaced with the stored values.
	Upsert(ctx context.Context, a *domain.Activity) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Activity, error)
	// ListBetween returns activities started in [from, to), oldest first.
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Activity, error)
	ListAll(ctx context.Context) ([]*domain.Activity, error)
	UpdateMetrics(ctx context.Context, a *domain.Activity) error
}

type ProgramRepo interface {
	Create(ctx context.Context, p *domain.Program) error
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	List(ctx context.Context, statuses ...domain.ProgramStatus) ([]*domain.Program, error)
	UpdateStatus(ctx context.Context, p *domain.Program) error
	Delete(ctx context.Context, id string) error
}

type WeekRepo interface {
	Create(ctx context.Context, w *domain.Week) error
	GetByID(ctx context.Context, id string) (*domain.Week, error)
	GetByNumber(ctx context.Context, programID string, weekNumber int) (*domain.Week, error)
	GetCurrent(ctx context.Context, programID string) (*domain.Week, error)
	ListByProgram(ctx context.Context, programID string) ([]*domain.Week, error)
	// ListCompletedBefore returns up to limit completed weeks numbered below
	// weekNumber, oldest first.
	ListCompletedBefore(ctx context.Context, programID string, weekNumber, limit int) ([]*domain.Week, error)
	// ListOverlapping returns weeks of any program whose date window
	// intersects [from, to].
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.Week, error)
	Update(ctx context.Context, w *domain.Week) error
}

type SlotRepo interface {
	Create(ctx context.Context, s *domain.WorkoutSlot) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutSlot, error)
	ListByWeek(ctx context.Context, weekID string) ([]*domain.WorkoutSlot, error)
	CountByWeek(ctx context.Context, weekID string) (int, error)
	Update(ctx context.Context, s *domain.WorkoutSlot) error
}

type FeedbackRepo interface {
	Create(ctx context.Context, f *domain.WorkoutFeedback) error
	ListRecent(ctx context.Context, limit int) ([]*domain.WorkoutFeedback, error)
	ListByCategory(ctx context.Context, category domain.WorkoutCategory, limit int) ([]*domain.WorkoutFeedback, error)
}

var (
	_ ProfileRepo  = (*SQLiteProfileRepo)(nil)
	_ ActivityRepo = (*SQLiteActivityRepo)(nil)
	_ ProgramRepo  = (*SQLiteProgramRepo)(nil)
	_ WeekRepo     = (*SQLiteWeekRepo)(nil)
	_ SlotRepo     = (*SQLiteSlotRepo)(nil)
	_ FeedbackRepo = (*SQLiteFeedbackRepo)(nil)
)
