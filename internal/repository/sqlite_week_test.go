package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/testutil"
)

func weekTestSetup(t *testing.T) (*sql.DB, *domain.Program, *SQLiteWeekRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	p := testutil.NewTestProgram("Weeks")
	require.NoError(t, NewSQLiteProgramRepo(database).Create(context.Background(), p))
	return database, p, NewSQLiteWeekRepo(database)
}

func TestWeekRepo_CreateAndLookup(t *testing.T) {
	_, p, repo := weekTestSetup(t)
	ctx := context.Background()

	w1 := testutil.NewTestWeek(p, 1, domain.WeekCurrent)
	w2 := testutil.NewTestWeek(p, 2, domain.WeekUpcoming)
	require.NoError(t, repo.Create(ctx, w1))
	require.NoError(t, repo.Create(ctx, w2))

	got, err := repo.GetByNumber(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, w2.ID, got.ID)
	assert.True(t, got.StartDate.Equal(testutil.Monday.AddDate(0, 0, 7)))
	assert.True(t, got.EndDate.Equal(testutil.Monday.AddDate(0, 0, 13)))
	assert.Nil(t, got.ActualStress)
	assert.False(t, got.Planned())

	cur, err := repo.GetCurrent(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, w1.ID, cur.ID)

	all, err := repo.ListByProgram(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].WeekNumber)

	_, err = repo.GetByNumber(ctx, p.ID, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWeekRepo_DuplicateWeekNumberRejected(t *testing.T) {
	_, p, repo := weekTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestWeek(p, 1, domain.WeekCurrent)))
	assert.Error(t, repo.Create(ctx, testutil.NewTestWeek(p, 1, domain.WeekUpcoming)))
}

func TestWeekRepo_UpdatePlanAndActuals(t *testing.T) {
	_, p, repo := weekTestSetup(t)
	ctx := context.Background()

	w := testutil.NewTestWeek(p, 1, domain.WeekCurrent)
	require.NoError(t, repo.Create(ctx, w))

	now := time.Now().UTC().Truncate(time.Second)
	zones := domain.ZoneWeights{domain.Z2: 0.7, domain.Z3: 0.3}
	require.NoError(t, w.ApplyPlan(320, 6.5, 5, zones, "Build aerobic base", "TSB -12 below -10: load x0.85", now))
	w.SetActuals(290, 6.1, 4, 48.2, 55.0, now)
	require.NoError(t, repo.Update(ctx, w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Planned())
	assert.Equal(t, 320.0, got.TargetStress)
	assert.Equal(t, 5, got.TargetSessions)
	assert.Equal(t, zones, got.ZoneEmphasis)
	assert.Equal(t, "TSB -12 below -10: load x0.85", got.AdaptationNotes)
	require.NotNil(t, got.ActualStress)
	assert.Equal(t, 290.0, *got.ActualStress)
	require.NotNil(t, got.ActualSessions)
	assert.Equal(t, 4, *got.ActualSessions)
	tsb := got.ActualTSB()
	require.NotNil(t, tsb)
	assert.InDelta(t, -6.8, *tsb, 1e-9)
}

func TestWeekRepo_ListCompletedBefore(t *testing.T) {
	_, p, repo := weekTestSetup(t)
	ctx := context.Background()

	statuses := []domain.WeekStatus{domain.WeekCompleted, domain.WeekSkipped, domain.WeekCompleted, domain.WeekCompleted, domain.WeekCurrent}
	for i, s := range statuses {
		require.NoError(t, repo.Create(ctx, testutil.NewTestWeek(p, i+1, s)))
	}

	got, err := repo.ListCompletedBefore(ctx, p.ID, 5, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].WeekNumber, "oldest first")
	assert.Equal(t, 4, got[1].WeekNumber)

	got, err = repo.ListCompletedBefore(ctx, p.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].WeekNumber)
}

func TestWeekRepo_ListOverlapping(t *testing.T) {
	_, p, repo := weekTestSetup(t)
	ctx := context.Background()

	for n := 1; n <= 3; n++ {
		require.NoError(t, repo.Create(ctx, testutil.NewTestWeek(p, n, domain.WeekUpcoming)))
	}

	got, err := repo.ListOverlapping(ctx, testutil.Monday.AddDate(0, 0, 6), testutil.Monday.AddDate(0, 0, 8))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].WeekNumber)
	assert.Equal(t, 2, got[1].WeekNumber)

	got, err = repo.ListOverlapping(ctx, testutil.Monday.AddDate(0, 0, 30), testutil.Monday.AddDate(0, 0, 40))
	require.NoError(t, err)
	assert.Empty(t, got)
}
