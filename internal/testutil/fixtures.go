package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/macro"
)

var testExternalIDCounter atomic.Int64

// Monday is a fixed week-aligned start date used across tests.
var Monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func NewTestProfile(ftp float64) *domain.RiderProfile {
	return &domain.RiderProfile{FTP: ftp, WeightKg: 72, UpdatedAt: time.Now().UTC()}
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithExternalID(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.ExternalID = id
	}
}

func WithDuration(d time.Duration) ActivityOption {
	return func(a *domain.Activity) {
		a.DurationSeconds = int(d.Seconds())
	}
}

func WithNormalizedPower(np float64) ActivityOption {
	return func(a *domain.Activity) {
		a.NormalizedPower = np
	}
}

// WithStress sets the derived stress directly for tests that skip derivation.
func WithStress(stress float64) ActivityOption {
	return func(a *domain.Activity) {
		a.StressScore = stress
	}
}

func WithBestEfforts(e domain.BestEfforts) ActivityOption {
	return func(a *domain.Activity) {
		a.BestEfforts = e
	}
}

// NewTestActivity returns a one-hour ride at 200 W normalized power.
func NewTestActivity(startedAt time.Time, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC()
	a := &domain.Activity{
		ID:              uuid.New().String(),
		ExternalID:      fmt.Sprintf("ext-%d", testExternalIDCounter.Add(1)),
		Name:            "Test ride",
		Sport:           "cycling",
		StartedAt:       startedAt.UTC(),
		DurationSeconds: 3600,
		NormalizedPower: 200,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Program options
type ProgramOption func(*domain.Program)

func WithProgramStatus(s domain.ProgramStatus) ProgramOption {
	return func(p *domain.Program) {
		p.Status = s
	}
}

func WithGoalType(g domain.GoalType) ProgramOption {
	return func(p *domain.Program) {
		p.Goal.Type = g
	}
}

func WithVolume(hours float64, sessions int) ProgramOption {
	return func(p *domain.Program) {
		p.Volume = domain.Volume{HoursPerWeek: hours, SessionsPerWeek: sessions}
	}
}

// NewTestProgram returns an active 12-week program starting on Monday with a
// designed skeleton, FTP 250 towards 265.
func NewTestProgram(name string, opts ...ProgramOption) *domain.Program {
	now := time.Now().UTC()
	p := &domain.Program{
		ID:   uuid.New().String(),
		Name: name,
		Goal: domain.Goal{
			Type:       domain.GoalFTPTarget,
			StartFTP:   250,
			TargetFTP:  265,
			TargetDate: Monday.AddDate(0, 0, 12*7),
		},
		StartDate: Monday,
		Volume:    domain.Volume{HoursPerWeek: 8, SessionsPerWeek: 5},
		Status:    domain.ProgramActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Skeleton = NewTestSkeleton(p)
	return p
}

// NewTestSkeleton designs the skeleton for p with default planning rules.
func NewTestSkeleton(p *domain.Program) *domain.Skeleton {
	s, err := macro.Design(macro.Request{
		Goal:      p.Goal,
		Volume:    p.Volume,
		Fitness:   domain.FitnessSnapshot{FTP: p.Goal.StartFTP, CTL: p.InitialCTL},
		StartDate: p.StartDate,
	}, macro.DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("designing test skeleton: %v", err))
	}
	return s
}

// NewTestWeek returns week n of the program with its 7-day window.
func NewTestWeek(p *domain.Program, n int, status domain.WeekStatus) *domain.Week {
	now := time.Now().UTC()
	start := p.StartDate.AddDate(0, 0, (n-1)*7)
	target, _ := p.Skeleton.Target(n)
	return &domain.Week{
		ID:         uuid.New().String(),
		ProgramID:  p.ID,
		WeekNumber: n,
		Phase:      target.Phase,
		IsRecovery: target.IsRecovery,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 6),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Slot options
type SlotOption func(*domain.WorkoutSlot)

func WithSlotStatus(s domain.SlotStatus) SlotOption {
	return func(slot *domain.WorkoutSlot) {
		slot.Status = s
	}
}

func WithCategory(c domain.WorkoutCategory, i domain.Intensity) SlotOption {
	return func(slot *domain.WorkoutSlot) {
		slot.Category = c
		slot.Intensity = i
	}
}

func NewTestSlot(weekID string, day, stress int, opts ...SlotOption) *domain.WorkoutSlot {
	now := time.Now().UTC()
	s := &domain.WorkoutSlot{
		ID:                uuid.New().String(),
		WeekID:            weekID,
		DayIndex:          day,
		Category:          domain.CategoryEndurance,
		Intensity:         domain.IntensityModerate,
		TargetStress:      stress,
		TargetDurationMin: 60,
		Instructions:      "Steady endurance",
		Status:            domain.SlotPlanned,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestFeedback(category domain.WorkoutCategory, difficulty, rating int) *domain.WorkoutFeedback {
	return &domain.WorkoutFeedback{
		ID:         uuid.New().String(),
		Category:   category,
		Difficulty: difficulty,
		Rating:     rating,
		CreatedAt:  time.Now().UTC(),
	}
}
