package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/metrics"
)

const resyncLockKey = "activities"

type activityService struct {
	deps  Deps
	repos repoSet
	locks *keyedLocker
}

// Resync pulls activities for [from, to) from the activity source and
// applies them in one transaction: derive metrics, upsert by external id,
// complete matching slots and refresh the actuals of affected weeks. A fetch
// failure writes nothing.
func (s *activityService) Resync(ctx context.Context, from, to time.Time) (res *ResyncResult, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{"from": from.Format(time.DateOnly), "to": to.Format(time.DateOnly)}
	defer func() { observe(ctx, s.deps.Observer, "resync-activities", startedAt, fields, err) }()

	if s.deps.Source == nil {
		return nil, fmt.Errorf("no activity source configured: %w", domain.ErrCollaboratorUnavailable)
	}

	fctx, cancel := context.WithTimeout(ctx, s.deps.Config.ResyncTimeout)
	raw, err := s.deps.Source.Fetch(fctx, from, to)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("fetching activities: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	fields["fetched"] = len(raw)

	// Slots and week actuals belong to programs, so every program with a week
	// in reach is locked alongside the activity table. Weeks of programs
	// created after this point are left for the next resync.
	locked, err := s.programsInReach(ctx, raw, from, to)
	if err != nil {
		return nil, err
	}
	keys := []string{resyncLockKey}
	for id := range locked {
		keys = append(keys, id)
	}
	unlock := s.locks.LockAll(keys...)
	defer unlock()

	now := startedAt
	res = &ResyncResult{Fetched: len(raw)}
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		profile, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}

		incoming := make([]*domain.Activity, 0, len(raw))
		for _, ra := range raw {
			a, err := deriveActivity(ra, profile.FTP, now)
			if err != nil {
				return err
			}
			incoming = append(incoming, a)
		}
		sort.SliceStable(incoming, func(i, j int) bool { return incoming[i].StartedAt.Before(incoming[j].StartedAt) })

		for _, a := range incoming {
			created, err := r.activities.Upsert(ctx, a)
			if err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}

		for _, a := range incoming {
			matched, err := matchSlot(ctx, r, a, locked, now)
			if err != nil {
				return err
			}
			if matched {
				res.SlotsCompleted++
			}
		}

		n, err := refreshActuals(ctx, r, profile.FTP, from, to, locked, now)
		if err != nil {
			return err
		}
		res.WeeksUpdated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Cache.Invalidate()

	fields["created"] = res.Created
	fields["updated"] = res.Updated
	fields["slots_completed"] = res.SlotsCompleted
	return res, nil
}

// programsInReach returns the ids of programs owning a week that overlaps the
// resync window or the day of any fetched activity.
func (s *activityService) programsInReach(ctx context.Context, raw []RawActivity, from, to time.Time) (map[string]bool, error) {
	lo, hi := from, to
	for _, ra := range raw {
		day := domain.TruncateDay(ra.StartedAt.UTC())
		if day.Before(lo) {
			lo = day
		}
		if day.After(hi) {
			hi = day
		}
	}
	weeks, err := s.repos.weeks.ListOverlapping(ctx, lo, hi)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool)
	for _, w := range weeks {
		ids[w.ProgramID] = true
	}
	return ids, nil
}

// deriveActivity converts a raw activity and computes its load metrics.
// Normalized power comes from the power stream when present, otherwise from
// the reported average.
func deriveActivity(ra RawActivity, ftp float64, now time.Time) (*domain.Activity, error) {
	sport := ra.Sport
	if sport == "" {
		sport = "cycling"
	}
	a := &domain.Activity{
		ID:              newID(),
		ExternalID:      strings.TrimSpace(ra.ExternalID),
		Name:            ra.Name,
		Sport:           sport,
		StartedAt:       ra.StartedAt.UTC(),
		DurationSeconds: ra.DurationSeconds,
		NormalizedPower: ra.AveragePower,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(ra.Power) > 0 {
		for _, w := range ra.Power {
			if w < 0 {
				return nil, fmt.Errorf("activity %s: negative power sample: %w", a.ExternalID, domain.ErrInvalidProfile)
			}
		}
		a.NormalizedPower = metrics.NormalizedPower(ra.Power)
		zones, err := metrics.ZoneDistribution(ra.Power, ftp)
		if err != nil {
			return nil, err
		}
		a.ZoneSeconds = zones
		a.BestEfforts = metrics.BestEfforts(ra.Power)
	}
	if err := metrics.Derive(a, ftp); err != nil {
		return nil, err
	}
	return a, nil
}

// matchSlot completes the open slot of a planned week covering the
// activity's day whose day index is nearest to it. Activities already linked
// to a slot are left alone.
func matchSlot(ctx context.Context, r repoSet, a *domain.Activity, locked map[string]bool, now time.Time) (bool, error) {
	day := a.Day()
	weeks, err := r.weeks.ListOverlapping(ctx, day, day)
	if err != nil {
		return false, err
	}
	for _, w := range weeks {
		if !locked[w.ProgramID] || w.Status != domain.WeekCurrent || !w.Planned() {
			continue
		}
		slots, err := r.slots.ListByWeek(ctx, w.ID)
		if err != nil {
			return false, err
		}
		var best *domain.WorkoutSlot
		dayIdx := w.DayIndex(a.StartedAt)
		for _, slot := range slots {
			if slot.ActivityID != nil && *slot.ActivityID == a.ID {
				return false, nil
			}
			if !slot.Status.Open() {
				continue
			}
			if best == nil || absInt(slot.DayIndex-dayIdx) < absInt(best.DayIndex-dayIdx) {
				best = slot
			}
		}
		if best == nil {
			continue
		}
		if err := best.MarkCompleted(a.ID, now); err != nil {
			return false, err
		}
		if err := r.slots.Update(ctx, best); err != nil {
			return false, err
		}
		zerolog.Ctx(ctx).Debug().Str("activity", a.ExternalID).Str("slot_id", best.ID).Msg("matched activity to slot")
		return true, nil
	}
	return false, nil
}

// refreshActuals recomputes actuals of every started week overlapping the
// window and returns how many were updated.
func refreshActuals(ctx context.Context, r repoSet, ftp float64, from, to time.Time, locked map[string]bool, now time.Time) (int, error) {
	weeks, err := r.weeks.ListOverlapping(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if len(weeks) == 0 {
		return 0, nil
	}
	activities, err := r.activities.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, w := range weeks {
		if !locked[w.ProgramID] || (w.Status != domain.WeekCurrent && w.Status != domain.WeekCompleted) {
			continue
		}
		if err := recomputeActuals(w, ftp, activities, now); err != nil {
			return n, err
		}
		if err := r.weeks.Update(ctx, w); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *activityService) List(ctx context.Context, from, to time.Time) ([]*domain.Activity, error) {
	return s.repos.activities.ListBetween(ctx, from, to)
}

// RederiveAll recomputes stress and intensity of every stored activity with
// the current profile FTP.
func (s *activityService) RederiveAll(ctx context.Context) (n int, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{}
	defer func() { observe(ctx, s.deps.Observer, "rederive-activities", startedAt, fields, err) }()

	unlock := s.locks.Lock(resyncLockKey)
	defer unlock()

	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		profile, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}
		n, err = rederive(ctx, r, profile.FTP, startedAt)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.deps.Cache.Invalidate()
	fields["count"] = n
	return n, nil
}

func rederive(ctx context.Context, r repoSet, ftp float64, now time.Time) (int, error) {
	activities, err := r.activities.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, a := range activities {
		if err := metrics.Derive(a, ftp); err != nil {
			return 0, err
		}
		a.UpdatedAt = now
		if err := r.activities.UpdateMetrics(ctx, a); err != nil {
			return 0, err
		}
	}
	return len(activities), nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
