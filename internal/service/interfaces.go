package service

import (
	"context"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/metrics"
)

type ProgramService interface {
	Create(ctx context.Context, req CreateProgramRequest) (*ProgramView, error)
	Get(ctx context.Context, id string) (*ProgramView, error)
	List(ctx context.Context, includeClosed bool) ([]*domain.Program, error)
	Pause(ctx context.Context, id string) (*domain.Program, error)
	Resume(ctx context.Context, id string) (*domain.Program, error)
	Cancel(ctx context.Context, id string) (*domain.Program, error)
	Delete(ctx context.Context, id string) error
	GetWeek(ctx context.Context, programID string, weekNumber int) (*WeekView, error)
	PlanWeek(ctx context.Context, programID string, weekNumber int) (*WeekView, error)
	Advance(ctx context.Context, programID string, now time.Time) (*AdvanceResult, error)
}

type WorkoutService interface {
	Generate(ctx context.Context, slotID string) (*GenerateResult, error)
}

type ActivityService interface {
	Resync(ctx context.Context, from, to time.Time) (*ResyncResult, error)
	List(ctx context.Context, from, to time.Time) ([]*domain.Activity, error)
	RederiveAll(ctx context.Context) (int, error)
}

type FitnessService interface {
	Snapshot(ctx context.Context, asOf time.Time) (domain.FitnessSnapshot, error)
	Trend(ctx context.Context, from, to time.Time) ([]metrics.DailyLoad, error)
	Risk(ctx context.Context, asOf time.Time) (*RiskReport, error)
	PowerProfile(ctx context.Context, asOf time.Time) (*domain.PowerReport, error)
}

type ProfileService interface {
	Get(ctx context.Context) (*domain.RiderProfile, error)
	SetFTP(ctx context.Context, ftp float64) (*domain.RiderProfile, error)
	SetWeight(ctx context.Context, kg float64) (*domain.RiderProfile, error)
}

type FeedbackService interface {
	Add(ctx context.Context, f *domain.WorkoutFeedback) error
	ListRecent(ctx context.Context, limit int) ([]*domain.WorkoutFeedback, error)
}

// CreateProgramRequest carries the rider's goal. The starting FTP is taken
// from the profile, not from Goal.StartFTP.
type CreateProgramRequest struct {
	Name      string
	Goal      domain.Goal
	StartDate time.Time
	Volume    domain.Volume
}

// ProgramView is a program with its weeks and the slots of its current week.
type ProgramView struct {
	Program *domain.Program
	Weeks   []*domain.Week
	Current *WeekView
}

type WeekView struct {
	Week  *domain.Week
	Slots []*domain.WorkoutSlot
}

// AdvanceResult describes one week transition. Current is nil when the
// program finished.
type AdvanceResult struct {
	Closed           *domain.Week
	Current          *WeekView
	ProgramCompleted bool
}

type ResyncResult struct {
	Fetched        int
	Created        int
	Updated        int
	SlotsCompleted int
	WeeksUpdated   int
}

type GenerateResult struct {
	Slot     *domain.WorkoutSlot
	Workout  *GeneratedWorkout
	Warnings []string
}

type RiskReport struct {
	Snapshot domain.FitnessSnapshot
	Risk     metrics.Risk
}

// --- External collaborators ---

// GenerationRequest describes the slot a workout must be written for.
type GenerationRequest struct {
	Slot         domain.WorkoutSlot
	Phase        domain.PhaseName
	WeekNumber   int
	ZoneEmphasis domain.ZoneWeights
	Snapshot     domain.FitnessSnapshot
	Feedback     []*domain.WorkoutFeedback
}

// GeneratedWorkout is the generator's summary of the workout it produced.
type GeneratedWorkout struct {
	ArtifactRef       string
	Name              string
	ActualStress      float64
	ActualDurationMin int
}

type ContentGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedWorkout, error)
}

// TheoryRetriever supplies training-theory passages for a goal type.
type TheoryRetriever interface {
	Citations(ctx context.Context, goal domain.GoalType) ([]domain.Citation, error)
}

// RawActivity is an activity as delivered by the fitness platform, before
// metrics are derived.
type RawActivity struct {
	ExternalID      string
	Name            string
	Sport           string
	StartedAt       time.Time
	DurationSeconds int
	Power           []float64
	AveragePower    float64
}

type ActivitySource interface {
	Fetch(ctx context.Context, from, to time.Time) ([]RawActivity, error)
}

// SnapshotCache holds fitness snapshots keyed by day.
type SnapshotCache interface {
	Get(key string) (domain.FitnessSnapshot, bool)
	Put(key string, s domain.FitnessSnapshot)
	Invalidate()
}
