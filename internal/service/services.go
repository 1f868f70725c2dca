package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/velo/internal/adapt"
	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/macro"
	"github.com/alexanderramin/velo/internal/metrics"
	"github.com/alexanderramin/velo/internal/repository"
	"github.com/alexanderramin/velo/internal/weekplan"
)

// Config holds the planning constants and collaborator limits.
type Config struct {
	Macro            macro.Config
	WeekPlan         weekplan.Config
	GeneratorTimeout time.Duration
	ResyncTimeout    time.Duration
	KnowledgeTimeout time.Duration
	// Tolerance is the relative deviation of a generated workout from its
	// slot targets above which a validation warning is recorded.
	Tolerance    float64
	FeedbackSize int
	// PowerWindow is how far back recent best efforts reach.
	PowerWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Macro:            macro.DefaultConfig(),
		WeekPlan:         weekplan.DefaultConfig(),
		GeneratorTimeout: 2 * time.Minute,
		ResyncTimeout:    time.Minute,
		KnowledgeTimeout: 20 * time.Second,
		Tolerance:        0.15,
		FeedbackSize:     5,
		PowerWindow:      90 * 24 * time.Hour,
	}
}

// Deps wires the services to storage and collaborators. Generator,
// Retriever, Source and Cache are optional.
type Deps struct {
	Conn      db.DBTX
	UoW       db.UnitOfWork
	Generator ContentGenerator
	Retriever TheoryRetriever
	Source    ActivitySource
	Cache     SnapshotCache
	Engine    *adapt.Engine
	Observer  UseCaseObserver
	Clock     func() time.Time
	Config    Config
}

// Services bundles the use-case services sharing one per-program lock table.
type Services struct {
	Programs   ProgramService
	Workouts   WorkoutService
	Activities ActivityService
	Fitness    FitnessService
	Profiles   ProfileService
	Feedback   FeedbackService
}

func New(d Deps) *Services {
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	if d.Engine == nil {
		d.Engine = adapt.Default()
	}
	if d.Cache == nil {
		d.Cache = noCache{}
	}
	d.Observer = useCaseObserverOrNoop(d.Observer)

	locks := newKeyedLocker()
	fitness := &fitnessService{deps: d, repos: newRepoSet(d.Conn)}
	return &Services{
		Programs:   &programService{deps: d, repos: newRepoSet(d.Conn), locks: locks},
		Workouts:   &workoutService{deps: d, repos: newRepoSet(d.Conn), locks: locks, fitness: fitness},
		Activities: &activityService{deps: d, repos: newRepoSet(d.Conn), locks: locks},
		Fitness:    fitness,
		Profiles:   &profileService{deps: d, repos: newRepoSet(d.Conn)},
		Feedback:   &feedbackService{deps: d, repos: newRepoSet(d.Conn)},
	}
}

type noCache struct{}

func (noCache) Get(string) (domain.FitnessSnapshot, bool) { return domain.FitnessSnapshot{}, false }
func (noCache) Put(string, domain.FitnessSnapshot)        {}
func (noCache) Invalidate()                               {}

// repoSet groups repositories bound to one connection or transaction.
type repoSet struct {
	profiles   *repository.SQLiteProfileRepo
	activities *repository.SQLiteActivityRepo
	programs   *repository.SQLiteProgramRepo
	weeks      *repository.SQLiteWeekRepo
	slots      *repository.SQLiteSlotRepo
	feedback   *repository.SQLiteFeedbackRepo
}

func newRepoSet(conn db.DBTX) repoSet {
	return repoSet{
		profiles:   repository.NewSQLiteProfileRepo(conn),
		activities: repository.NewSQLiteActivityRepo(conn),
		programs:   repository.NewSQLiteProgramRepo(conn),
		weeks:      repository.NewSQLiteWeekRepo(conn),
		slots:      repository.NewSQLiteSlotRepo(conn),
		feedback:   repository.NewSQLiteFeedbackRepo(conn),
	}
}

func snapshotKey(asOf time.Time) string {
	return domain.TruncateDay(asOf).Format("2006-01-02")
}

// loadProfile returns the rider profile, reporting a missing one as an
// invalid profile.
func loadProfile(ctx context.Context, r repoSet) (*domain.RiderProfile, error) {
	p, err := r.profiles.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no rider profile; set an FTP first: %w", domain.ErrInvalidProfile)
		}
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func computeSnapshot(ctx context.Context, r repoSet, asOf time.Time) (domain.FitnessSnapshot, error) {
	profile, err := loadProfile(ctx, r)
	if err != nil {
		return domain.FitnessSnapshot{}, err
	}
	activities, err := r.activities.ListAll(ctx)
	if err != nil {
		return domain.FitnessSnapshot{}, err
	}
	return metrics.Snapshot(profile.FTP, activities, asOf)
}

// planWeek materializes targets and slots for the current week of an
// active program. It must run inside a transaction.
func planWeek(ctx context.Context, d Deps, r repoSet, program *domain.Program, week *domain.Week, now time.Time) (*WeekView, error) {
	if err := program.RequireActive(); err != nil {
		return nil, err
	}
	n, err := r.slots.CountByWeek(ctx, week.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 || week.Planned() {
		return nil, &domain.ConflictError{
			Entity: "week",
			ID:     week.ID,
			Reason: fmt.Sprintf("week %d already has %d workout slots", week.WeekNumber, n),
		}
	}

	phase, err := program.Skeleton.PhaseFor(week.WeekNumber)
	if err != nil {
		return nil, err
	}
	target, err := program.Skeleton.Target(week.WeekNumber)
	if err != nil {
		return nil, err
	}
	snapshot, err := computeSnapshot(ctx, r, now)
	if err != nil {
		return nil, err
	}
	recent, err := r.weeks.ListCompletedBefore(ctx, program.ID, week.WeekNumber, 2)
	if err != nil {
		return nil, err
	}

	result := d.Engine.Evaluate(adapt.Input{
		Snapshot:        snapshot,
		Skeleton:        program.Skeleton,
		WeekNumber:      week.WeekNumber,
		RecentCompleted: recent,
	})
	plan, err := weekplan.Build(weekplan.Input{
		Phase:      *phase,
		Target:     target,
		Adaptation: result,
		Volume:     program.Volume,
	}, d.Config.WeekPlan)
	if err != nil {
		return nil, fmt.Errorf("planning week %d: %w", week.WeekNumber, err)
	}

	if err := week.ApplyPlan(plan.TargetStress, plan.TargetHours, plan.TargetSessions, plan.ZoneEmphasis,
		plan.CoachingNotes, plan.AdaptationNotes, now); err != nil {
		return nil, err
	}
	if err := r.weeks.Update(ctx, week); err != nil {
		return nil, err
	}

	view := &WeekView{Week: week}
	for _, sp := range plan.Slots {
		slot := &domain.WorkoutSlot{
			ID:                newID(),
			WeekID:            week.ID,
			DayIndex:          sp.DayIndex,
			Category:          sp.Category,
			Intensity:         sp.Intensity,
			TargetStress:      sp.TargetStress,
			TargetDurationMin: sp.TargetDurationMin,
			Instructions:      sp.Instructions,
			Status:            domain.SlotPlanned,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := r.slots.Create(ctx, slot); err != nil {
			return nil, err
		}
		view.Slots = append(view.Slots, slot)
	}
	return view, nil
}

// recomputeActuals refreshes a week's observed load from stored activities.
// CTL and ATL are taken at the end of the week, or at now while the week is
// still running.
func recomputeActuals(week *domain.Week, ftp float64, activities []*domain.Activity, now time.Time) error {
	totals := metrics.Totals(activities, week.StartDate, week.EndDate)
	asOf := week.EndDate
	if now.Before(asOf) {
		asOf = now
	}
	snap, err := metrics.Snapshot(ftp, activities, asOf)
	if err != nil {
		return err
	}
	week.SetActuals(totals.Stress, totals.Hours, totals.Sessions, snap.CTL, snap.ATL, now)
	return nil
}
