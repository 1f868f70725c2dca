package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/testutil"
)

func TestActivityRepo_UpsertInsertsThenUpdates(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first := testutil.NewTestActivity(testutil.Monday.Add(7*time.Hour), testutil.WithExternalID("strava-1"))
	first.StressScore = 64
	first.ZoneSeconds = [7]int{600, 1800, 900, 300, 0, 0, 0}
	created, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	again := testutil.NewTestActivity(testutil.Monday.Add(7*time.Hour), testutil.WithExternalID("strava-1"))
	again.Name = "Renamed ride"
	again.StressScore = 70
	created, err = repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID, "update keeps the stored id")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Renamed ride", all[0].Name)
	assert.Equal(t, 70.0, all[0].StressScore)

	got, err := repo.GetByExternalID(ctx, "strava-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.StartedAt.Equal(testutil.Monday.Add(7*time.Hour)))
}

func TestActivityRepo_ZoneSecondsRoundTrip(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := testutil.NewTestActivity(testutil.Monday)
	a.ZoneSeconds = [7]int{1, 2, 3, 4, 5, 6, 7}
	_, err := repo.Upsert(ctx, a)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ZoneSeconds, got.ZoneSeconds)
}

func TestActivityRepo_BestEffortsKeptWithoutStream(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := testutil.NewTestActivity(testutil.Monday, testutil.WithExternalID("strava-2"))
	a.BestEfforts = domain.BestEfforts{"5s": 910.5, "20min": 281}
	_, err := repo.Upsert(ctx, a)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.BestEfforts, got.BestEfforts)

	summary := testutil.NewTestActivity(testutil.Monday, testutil.WithExternalID("strava-2"))
	_, err = repo.Upsert(ctx, summary)
	require.NoError(t, err)
	got, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BestEfforts{"5s": 910.5, "20min": 281}, got.BestEfforts)

	plain := testutil.NewTestActivity(testutil.Monday.AddDate(0, 0, 1), testutil.WithExternalID("strava-3"))
	_, err = repo.Upsert(ctx, plain)
	require.NoError(t, err)
	got, err = repo.GetByID(ctx, plain.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BestEfforts)
}

func TestActivityRepo_ListBetween(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, day := range []int{0, 2, 6, 7, 9} {
		_, err := repo.Upsert(ctx, testutil.NewTestActivity(testutil.Monday.AddDate(0, 0, day).Add(8*time.Hour)))
		require.NoError(t, err)
	}

	week, err := repo.ListBetween(ctx, testutil.Monday, testutil.Monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, week, 3)
	assert.True(t, week[0].StartedAt.Before(week[1].StartedAt))
	assert.True(t, week[1].StartedAt.Before(week[2].StartedAt))
}

func TestActivityRepo_UpdateMetrics(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := testutil.NewTestActivity(testutil.Monday)
	_, err := repo.Upsert(ctx, a)
	require.NoError(t, err)

	a.IntensityFactor = 0.8
	a.StressScore = 64
	a.FTPUsed = 250
	require.NoError(t, repo.UpdateMetrics(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.IntensityFactor)
	assert.Equal(t, 64.0, got.StressScore)
	assert.Equal(t, 250.0, got.FTPUsed)

	missing := testutil.NewTestActivity(testutil.Monday)
	assert.ErrorIs(t, repo.UpdateMetrics(ctx, missing), ErrNotFound)
}

func TestActivityRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}
