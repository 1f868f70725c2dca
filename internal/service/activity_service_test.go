package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/testutil"
)

func rawRide(id string, startedAt time.Time, seconds int, avgPower float64) RawActivity {
	return RawActivity{
		ExternalID:      id,
		Name:            "Morning ride",
		StartedAt:       startedAt,
		DurationSeconds: seconds,
		AveragePower:    avgPower,
	}
}

func syncWindow() (time.Time, time.Time) {
	return testutil.Monday.AddDate(0, 0, -14), testutil.Monday.AddDate(0, 0, 7)
}

func TestResync_IsIdempotentPerExternalID(t *testing.T) {
	f := newFixture(t, 265)
	ctx := context.Background()
	from, to := syncWindow()
	rideStart := testutil.Monday.AddDate(0, 0, -2).Add(7 * time.Hour)

	f.source.raw = []RawActivity{rawRide("strava-1", rideStart, 3600, 200)}
	res, err := f.svc.Activities.Resync(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Updated)

	f.source.raw = []RawActivity{rawRide("strava-1", rideStart, 5400, 200)}
	res, err = f.svc.Activities.Resync(ctx, from, to)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Equal(t, 1, res.Updated)

	stored, err := f.svc.Activities.List(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 5400, stored[0].DurationSeconds)
	assert.Equal(t, "cycling", stored[0].Sport)
	assert.Equal(t, 265.0, stored[0].FTPUsed)
	// 1.5 h at IF 200/265
	assert.InDelta(t, 1.5*math.Pow(200.0/265, 2)*100, stored[0].StressScore, 0.01)

	snap, err := f.svc.Fitness.Snapshot(ctx, f.now)
	require.NoError(t, err)
	want := stored[0].StressScore / 42 * math.Pow(41.0/42, 2)
	assert.InDelta(t, want, snap.CTL, 1e-9)
}

func TestResync_FetchFailureWritesNothing(t *testing.T) {
	f := newFixture(t, 265)
	from, to := syncWindow()
	f.source.raw = []RawActivity{rawRide("strava-1", testutil.Monday.Add(-24*time.Hour), 3600, 200)}
	f.source.err = errFake

	_, err := f.svc.Activities.Resync(context.Background(), from, to)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.True(t, errors.Is(err, errFake))
	assert.Zero(t, f.countRows(t, "activities"))
}

func TestResync_RejectsInvalidBatch(t *testing.T) {
	f := newFixture(t, 265)
	from, to := syncWindow()
	bad := rawRide("strava-2", testutil.Monday.Add(-48*time.Hour), 3, 0)
	bad.Power = []float64{210, -5, 190}
	f.source.raw = []RawActivity{
		rawRide("strava-1", testutil.Monday.Add(-24*time.Hour), 3600, 200),
		bad,
	}

	_, err := f.svc.Activities.Resync(context.Background(), from, to)
	require.ErrorIs(t, err, domain.ErrInvalidProfile)
	assert.False(t, domain.IsRetryable(err))
	assert.Zero(t, f.countRows(t, "activities"))
}

func TestResync_RequiresProfile(t *testing.T) {
	f := newFixture(t, 0)
	from, to := syncWindow()
	f.source.raw = []RawActivity{rawRide("strava-1", testutil.Monday.Add(-24*time.Hour), 3600, 200)}

	_, err := f.svc.Activities.Resync(context.Background(), from, to)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestResync_PowerStreamDerivesZones(t *testing.T) {
	f := newFixture(t, 250)
	from, to := syncWindow()
	ride := rawRide("garmin-7", testutil.Monday.Add(-24*time.Hour), 120, 0)
	ride.Power = make([]float64, 120)
	for i := range ride.Power {
		if i < 60 {
			ride.Power[i] = 100 // Z1
		} else {
			ride.Power[i] = 250 // Z4
		}
	}
	f.source.raw = []RawActivity{ride}

	_, err := f.svc.Activities.Resync(context.Background(), from, to)
	require.NoError(t, err)

	stored, err := f.svc.Activities.List(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, [7]int{60, 0, 0, 60, 0, 0, 0}, stored[0].ZoneSeconds)
	assert.Greater(t, stored[0].NormalizedPower, 175.0)
	assert.Equal(t, domain.BestEfforts{"5s": 250, "15s": 250, "30s": 250, "1min": 250}, stored[0].BestEfforts)
}

func TestResync_CompletesNearestSlotOnce(t *testing.T) {
	f := newFixture(t, 265)
	ctx := context.Background()
	view := f.createProgram(t, 300)
	f.now = testutil.Monday.AddDate(0, 0, 1).Add(12 * time.Hour)
	from, to := syncWindow()

	f.source.raw = []RawActivity{rawRide("strava-9", testutil.Monday.AddDate(0, 0, 1).Add(7*time.Hour), 3600, 210)}
	res, err := f.svc.Activities.Resync(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SlotsCompleted)
	assert.Equal(t, 1, res.WeeksUpdated)

	week, err := f.svc.Programs.GetWeek(ctx, view.Program.ID, 1)
	require.NoError(t, err)
	var completed []*domain.WorkoutSlot
	for _, s := range week.Slots {
		if s.Status == domain.SlotCompleted {
			completed = append(completed, s)
		}
	}
	require.Len(t, completed, 1)
	assert.Equal(t, 2, completed[0].DayIndex)
	require.NotNil(t, completed[0].ActivityID)
	require.NotNil(t, week.Week.ActualStress)
	assert.Greater(t, *week.Week.ActualStress, 0.0)
	require.NotNil(t, week.Week.ActualSessions)
	assert.Equal(t, 1, *week.Week.ActualSessions)

	res, err = f.svc.Activities.Resync(ctx, from, to)
	require.NoError(t, err)
	assert.Zero(t, res.SlotsCompleted)

	week, err = f.svc.Programs.GetWeek(ctx, view.Program.ID, 1)
	require.NoError(t, err)
	n := 0
	for _, s := range week.Slots {
		if s.Status == domain.SlotCompleted {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestResync_InvalidatesSnapshotCache(t *testing.T) {
	f := newFixture(t, 265)
	ctx := context.Background()
	from, to := syncWindow()

	before, err := f.svc.Fitness.Snapshot(ctx, f.now)
	require.NoError(t, err)
	assert.Zero(t, before.CTL)
	assert.Equal(t, 1, f.cache.Len())

	f.source.raw = []RawActivity{rawRide("strava-1", testutil.Monday.Add(-24*time.Hour), 3600, 220)}
	_, err = f.svc.Activities.Resync(ctx, from, to)
	require.NoError(t, err)
	assert.Zero(t, f.cache.Len())

	after, err := f.svc.Fitness.Snapshot(ctx, f.now)
	require.NoError(t, err)
	assert.Greater(t, after.CTL, 0.0)
}

func TestRederiveAll_UsesCurrentFTP(t *testing.T) {
	f := newFixture(t, 250)
	ctx := context.Background()
	from, to := syncWindow()
	f.source.raw = []RawActivity{rawRide("strava-1", testutil.Monday.Add(-24*time.Hour), 3600, 250)}
	_, err := f.svc.Activities.Resync(ctx, from, to)
	require.NoError(t, err)

	stored, err := f.svc.Activities.List(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 100.0, stored[0].StressScore, 1e-9)

	_, err = f.svc.Profiles.SetFTP(ctx, 200)
	require.NoError(t, err)

	stored, err = f.svc.Activities.List(ctx, from, to)
	require.NoError(t, err)
	assert.InDelta(t, 156.25, stored[0].StressScore, 1e-9)
	assert.Equal(t, 200.0, stored[0].FTPUsed)

	n, err := f.svc.Activities.RederiveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResync_WaitsForProgramLock(t *testing.T) {
	f := newFixture(t, 265)
	ctx := context.Background()
	view := f.createProgram(t, 300)
	f.now = testutil.Monday.AddDate(0, 0, 1).Add(12 * time.Hour)
	from, to := syncWindow()
	f.source.raw = []RawActivity{rawRide("strava-1", testutil.Monday.AddDate(0, 0, 1).Add(7*time.Hour), 3600, 200)}

	locks := f.svc.Programs.(*programService).locks
	unlock := locks.Lock(view.Program.ID)

	type outcome struct {
		res *ResyncResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := f.svc.Activities.Resync(ctx, from, to)
		done <- outcome{res, err}
	}()

	select {
	case <-done:
		t.Fatal("resync wrote to a program held by another writer")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.res.SlotsCompleted)
	assert.Equal(t, 1, got.res.WeeksUpdated)
}

func TestResyncAndAdvance_ConcurrentOnFileDatabase(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 5; round++ {
		conn, err := db.OpenDB(filepath.Join(t.TempDir(), "velo.db"))
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		require.NoError(t, newRepoSet(conn).profiles.Upsert(ctx, testutil.NewTestProfile(265)))

		now := testutil.Monday.AddDate(0, 0, 7).Add(6 * time.Hour)
		source := &fakeSource{raw: []RawActivity{rawRide("ride-1", testutil.Monday.AddDate(0, 0, 1).Add(7*time.Hour), 3600, 200)}}
		svc := New(Deps{
			Conn:   conn,
			UoW:    db.NewSQLiteUnitOfWork(conn),
			Source: source,
			Clock:  func() time.Time { return now },
			Config: DefaultConfig(),
		})
		view, err := svc.Programs.Create(ctx, CreateProgramRequest{
			Name:      "Spring build",
			Goal:      domain.Goal{Type: domain.GoalFTPTarget, TargetFTP: 300, TargetDate: testutil.Monday.AddDate(0, 0, 16*7)},
			StartDate: testutil.Monday,
			Volume:    domain.Volume{HoursPerWeek: 10, SessionsPerWeek: 5},
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		var resyncErr, advanceErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, resyncErr = svc.Activities.Resync(ctx, testutil.Monday, testutil.Monday.AddDate(0, 0, 8))
		}()
		go func() {
			defer wg.Done()
			_, advanceErr = svc.Programs.Advance(ctx, view.Program.ID, now)
		}()
		wg.Wait()
		require.NoError(t, resyncErr, "round %d", round)
		require.NoError(t, advanceErr, "round %d", round)

		week1, err := svc.Programs.GetWeek(ctx, view.Program.ID, 1)
		require.NoError(t, err)
		matched := false
		for _, slot := range week1.Slots {
			if slot.Status == domain.SlotCompleted {
				matched = true
			}
		}
		// A matched slot means the resync ran first, so the week was trained.
		if matched {
			assert.Equal(t, domain.WeekCompleted, week1.Week.Status, "round %d", round)
			require.NotNil(t, week1.Week.ActualStress)
			assert.Greater(t, *week1.Week.ActualStress, 0.0, "round %d", round)
		} else {
			assert.Equal(t, domain.WeekSkipped, week1.Week.Status, "round %d", round)
		}
	}
}
