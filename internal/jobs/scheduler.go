// Package jobs runs periodic activity resync and week advancement.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

// Schedule holds cron specs; an empty spec disables the job.
type Schedule struct {
	Resync       string
	Advance      string
	LookbackDays int
}

type Scheduler struct {
	svc      *service.Services
	schedule Schedule
	now      func() time.Time
	cron     *cron.Cron
}

func New(svc *service.Services, schedule Schedule, now func() time.Time) *Scheduler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if schedule.LookbackDays <= 0 {
		schedule.LookbackDays = 42
	}
	return &Scheduler{svc: svc, schedule: schedule, now: now}
}

// Start registers the configured jobs and starts the cron loop. Jobs run with
// ctx, so cancelling it aborts in-flight work.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.NewWithLocation(time.UTC)
	logger := zerolog.Ctx(ctx)

	add := func(name, spec string, run func(context.Context) error) error {
		if spec == "" {
			return nil
		}
		err := c.AddFunc(spec, func() {
			if err := run(ctx); err != nil {
				logger.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling %s %q: %w", name, spec, err)
		}
		logger.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
		return nil
	}
	if err := add("resync", s.schedule.Resync, s.RunResync); err != nil {
		return err
	}
	if err := add("advance", s.schedule.Advance, s.RunAdvance); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunResync pulls activities from the lookback window up to today.
func (s *Scheduler) RunResync(ctx context.Context) error {
	to := domain.TruncateDay(s.now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -s.schedule.LookbackDays)
	res, err := s.svc.Activities.Resync(ctx, from, to)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().
		Int("fetched", res.Fetched).
		Int("created", res.Created).
		Int("slots_completed", res.SlotsCompleted).
		Msg("scheduled resync")
	return nil
}

// RunAdvance closes every elapsed current week of active programs, catching
// up several weeks when the job has not run for a while. A failing program
// does not stop the others.
func (s *Scheduler) RunAdvance(ctx context.Context) error {
	programs, err := s.svc.Programs.List(ctx, false)
	if err != nil {
		return err
	}
	var firstErr error
	for _, p := range programs {
		if p.Status != domain.ProgramActive {
			continue
		}
		n, err := s.advanceProgram(ctx, p.ID)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("program_id", p.ID).Msg("advancing program")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > 0 {
			zerolog.Ctx(ctx).Info().Str("program_id", p.ID).Int("weeks", n).Msg("program advanced")
		}
	}
	return firstErr
}

func (s *Scheduler) advanceProgram(ctx context.Context, id string) (int, error) {
	now := s.now()
	today := domain.TruncateDay(now)
	advanced := 0
	for {
		view, err := s.svc.Programs.Get(ctx, id)
		if err != nil {
			return advanced, err
		}
		if view.Current == nil || !today.After(domain.TruncateDay(view.Current.Week.EndDate)) {
			return advanced, nil
		}
		res, err := s.svc.Programs.Advance(ctx, id, now)
		if err != nil {
			return advanced, err
		}
		advanced++
		if res.ProgramCompleted {
			return advanced, nil
		}
	}
}
