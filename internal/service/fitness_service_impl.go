package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/metrics"
)

type fitnessService struct {
	deps  Deps
	repos repoSet
}

// Snapshot returns the fitness snapshot for asOf, served from the cache when
// the day was computed since the last resync.
func (s *fitnessService) Snapshot(ctx context.Context, asOf time.Time) (domain.FitnessSnapshot, error) {
	key := snapshotKey(asOf)
	if snap, ok := s.deps.Cache.Get(key); ok {
		return snap, nil
	}
	snap, err := computeSnapshot(ctx, s.repos, asOf)
	if err != nil {
		return domain.FitnessSnapshot{}, err
	}
	s.deps.Cache.Put(key, snap)
	return snap, nil
}

func (s *fitnessService) Trend(ctx context.Context, from, to time.Time) ([]metrics.DailyLoad, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("trend window ends before it starts: %w", domain.ErrInvalidInput)
	}
	activities, err := s.repos.activities.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.Trend(activities, from, to), nil
}

func (s *fitnessService) Risk(ctx context.Context, asOf time.Time) (*RiskReport, error) {
	snap, err := s.Snapshot(ctx, asOf)
	if err != nil {
		return nil, err
	}
	return &RiskReport{Snapshot: snap, Risk: metrics.AssessRisk(snap)}, nil
}

// PowerProfile merges best efforts from rides up to asOf. The profile is
// scored on the recent window and falls back to all-time records when no
// recent ride carried a power stream.
func (s *fitnessService) PowerProfile(ctx context.Context, asOf time.Time) (*domain.PowerReport, error) {
	profile, err := loadProfile(ctx, s.repos)
	if err != nil {
		return nil, err
	}
	activities, err := s.repos.activities.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	end := domain.TruncateDay(asOf).AddDate(0, 0, 1)
	since := end.Add(-s.deps.Config.PowerWindow)
	rep := &domain.PowerReport{
		Since:   since,
		AsOf:    domain.TruncateDay(asOf),
		Recent:  metrics.CurveBest(activities, since, end),
		AllTime: metrics.CurveBest(activities, time.Time{}, since),
	}
	rep.NewRecords = rep.AllTime.Merge(rep.Recent)

	scored := rep.Recent
	if len(scored) == 0 {
		scored = rep.AllTime
	}
	rep.Profile, err = metrics.AnalyzePowerProfile(scored, profile.WeightKg)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().
		Str("rider_type", string(rep.Profile.RiderType)).
		Strs("new_records", rep.NewRecords).
		Msg("power profile computed")
	return rep, nil
}
