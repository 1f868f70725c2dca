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

func TestSlotRepo_CreateListCount(t *testing.T) {
	database, p, weeks := weekTestSetup(t)
	ctx := context.Background()
	repo := NewSQLiteSlotRepo(database)

	w := testutil.NewTestWeek(p, 1, domain.WeekCurrent)
	require.NoError(t, weeks.Create(ctx, w))

	for _, day := range []int{6, 2, 4} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestSlot(w.ID, day, 70)))
	}

	n, err := repo.CountByWeek(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	slots, err := repo.ListByWeek(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, []int{2, 4, 6}, []int{slots[0].DayIndex, slots[1].DayIndex, slots[2].DayIndex})
}

func TestSlotRepo_RejectsInvalidDay(t *testing.T) {
	database, p, weeks := weekTestSetup(t)
	ctx := context.Background()
	w := testutil.NewTestWeek(p, 1, domain.WeekCurrent)
	require.NoError(t, weeks.Create(ctx, w))

	err := NewSQLiteSlotRepo(database).Create(ctx, testutil.NewTestSlot(w.ID, 8, 70))
	assert.Error(t, err)
}

func TestSlotRepo_UpdateCompletion(t *testing.T) {
	database, p, weeks := weekTestSetup(t)
	ctx := context.Background()
	repo := NewSQLiteSlotRepo(database)
	activities := NewSQLiteActivityRepo(database)

	w := testutil.NewTestWeek(p, 1, domain.WeekCurrent)
	require.NoError(t, weeks.Create(ctx, w))
	s := testutil.NewTestSlot(w.ID, 3, 90, testutil.WithCategory(domain.CategoryThreshold, domain.IntensityHard))
	require.NoError(t, repo.Create(ctx, s))

	a := testutil.NewTestActivity(testutil.Monday.AddDate(0, 0, 2))
	_, err := activities.Upsert(ctx, a)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, s.MarkGenerated("artifacts/s.json", "stress 20% above target", now))
	require.NoError(t, s.MarkCompleted(a.ID, now))
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotCompleted, got.Status)
	assert.Equal(t, "artifacts/s.json", got.ArtifactRef)
	assert.Equal(t, "stress 20% above target", got.ValidationWarnings)
	require.NotNil(t, got.ActivityID)
	assert.Equal(t, a.ID, *got.ActivityID)
	assert.Equal(t, domain.CategoryThreshold, got.Category)
}

func TestSlotRepo_GetNotFound(t *testing.T) {
	repo := NewSQLiteSlotRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
