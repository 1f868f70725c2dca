package weekplan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/velo/internal/adapt"
	"github.com/alexanderramin/velo/internal/domain"
)

func buildPhase() domain.Phase {
	return domain.Phase{
		Name:      domain.PhaseBuild,
		StartWeek: 7,
		EndWeek:   12,
		Stress:    domain.StressRange{Min: 260, Max: 550},
		ZoneEmphasis: domain.ZoneWeights{
			domain.Z2: 0.45, domain.Z3: 0.15, domain.Z4: 0.25, domain.Z5: 0.15,
		},
		RecoveryEvery:   3,
		FocusCategories: []domain.WorkoutCategory{domain.CategoryThreshold, domain.CategoryVO2max},
	}
}

func input(sessions int, base, mult float64, force bool) Input {
	return Input{
		Phase:      buildPhase(),
		Target:     domain.WeekTarget{Week: 8, Phase: domain.PhaseBuild, BaseStress: base, Focus: "Raise threshold"},
		Adaptation: adapt.Result{Multiplier: mult, ForceRecovery: force},
		Volume:     domain.Volume{HoursPerWeek: 10, SessionsPerWeek: sessions},
	}
}

func slotSum(p *Plan) int {
	sum := 0
	for _, s := range p.Slots {
		sum += s.TargetStress
	}
	return sum
}

func TestBuild_AppliesMultiplier(t *testing.T) {
	plan, err := Build(input(5, 400, 0.85, false), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 340.0, plan.TargetStress)
	assert.Equal(t, 5, plan.TargetSessions)
	assert.Len(t, plan.Slots, 5)
	assert.Equal(t, 340, slotSum(plan))
	assert.False(t, plan.Recovery)
	assert.Equal(t, buildPhase().ZoneEmphasis, plan.ZoneEmphasis)
	assert.Contains(t, plan.CoachingNotes, "Week 8, build phase")
	assert.Contains(t, plan.CoachingNotes, "Raise threshold")
}

func TestBuild_HardSlotsCycleFocus(t *testing.T) {
	plan, err := Build(input(4, 400, 1, false), DefaultConfig())
	require.NoError(t, err)

	var hard []domain.WorkoutCategory
	for _, s := range plan.Slots {
		if s.Intensity == domain.IntensityHard {
			hard = append(hard, s.Category)
		}
	}
	assert.Equal(t, []domain.WorkoutCategory{domain.CategoryThreshold, domain.CategoryVO2max}, hard)
}

func TestBuild_ForcedRecovery(t *testing.T) {
	plan, err := Build(input(5, 400, 0.6, true), DefaultConfig())
	require.NoError(t, err)

	assert.True(t, plan.Recovery)
	assert.Equal(t, 240.0, plan.TargetStress)
	assert.Equal(t, recoveryZones, plan.ZoneEmphasis)
	for _, s := range plan.Slots {
		assert.Equal(t, domain.IntensityEasy, s.Intensity)
		assert.Contains(t, []domain.WorkoutCategory{domain.CategoryRecovery, domain.CategoryEndurance}, s.Category)
	}
	assert.Contains(t, plan.CoachingNotes, "(recovery)")
}

func TestBuild_ClampsSessions(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{1, 3},
		{3, 3},
		{6, 6},
		{9, 7},
	}
	for _, tc := range cases {
		plan, err := Build(input(tc.requested, 400, 1, false), DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, tc.want, plan.TargetSessions, "requested %d", tc.requested)
		assert.Len(t, plan.Slots, tc.want)
	}
}

func TestBuild_PhaseMismatch(t *testing.T) {
	in := input(4, 400, 1, false)
	in.Target.Phase = domain.PhaseBase
	_, err := Build(in, DefaultConfig())
	require.Error(t, err)
}

func TestBuild_DurationsWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	for _, base := range []float64{120, 400, 900} {
		plan, err := Build(input(4, base, 1, false), cfg)
		require.NoError(t, err)
		for _, s := range plan.Slots {
			assert.GreaterOrEqual(t, s.TargetDurationMin, cfg.MinDurationMin)
			assert.LessOrEqual(t, s.TargetDurationMin, cfg.MaxDurationMin)
			assert.NotEmpty(t, s.Instructions)
		}
	}
}

func TestDistribute(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, Distribute(100, []float64{1, 1, 1}))
	assert.Equal(t, []int{0, 0}, Distribute(0, []float64{0.5, 0.5}))
	assert.Empty(t, Distribute(10, nil))
	assert.Equal(t, []int{3, 1}, Distribute(4, []float64{3, 1}))
}

func TestBuild_SlotProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := DefaultConfig()
	for trial := 0; trial < 300; trial++ {
		sessions := 1 + rng.Intn(9)
		base := 150 + rng.Float64()*700
		mult := adapt.MinMultiplier + rng.Float64()*(adapt.MaxMultiplier-adapt.MinMultiplier)
		force := rng.Intn(4) == 0

		plan, err := Build(input(sessions, base, mult, force), cfg)
		require.NoError(t, err)

		require.Equal(t, int(plan.TargetStress), slotSum(plan), "trial %d", trial)
		require.NotEqual(t, domain.IntensityHard, plan.Slots[0].Intensity, "trial %d", trial)

		easy := 0
		for i, s := range plan.Slots {
			if s.Intensity == domain.IntensityEasy {
				easy++
			}
			if i > 0 {
				require.False(t, s.Intensity == domain.IntensityHard && plan.Slots[i-1].Intensity == domain.IntensityHard,
					"trial %d: adjacent hard slots", trial)
				require.Greater(t, s.DayIndex, plan.Slots[i-1].DayIndex)
			}
			require.GreaterOrEqual(t, s.DayIndex, 1)
			require.LessOrEqual(t, s.DayIndex, 7)
			if force {
				require.Equal(t, domain.IntensityEasy, s.Intensity)
			}
		}
		require.GreaterOrEqual(t, easy, 1)
	}
}
