package macro

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func scenarioRequest() Request {
	return Request{
		Goal: domain.Goal{
			Type:       domain.GoalFTPTarget,
			StartFTP:   265,
			TargetFTP:  300,
			TargetDate: testNow.AddDate(0, 0, 16*7),
		},
		Volume:    domain.Volume{HoursPerWeek: 10, SessionsPerWeek: 5},
		Fitness:   domain.FitnessSnapshot{FTP: 265},
		StartDate: testNow,
	}
}

func phaseByName(s *domain.Skeleton, name domain.PhaseName) domain.Phase {
	for _, p := range s.Phases {
		if p.Name == name {
			return p
		}
	}
	return domain.Phase{}
}

func TestDesign_SixteenWeekScenario(t *testing.T) {
	s, err := Design(scenarioRequest(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 16, s.TotalWeeks)
	require.Len(t, s.Weeks, 16)
	require.Len(t, s.Phases, 4)
	assert.Equal(t, 1, s.Phases[0].StartWeek)
	assert.Equal(t, 16, s.Phases[3].EndWeek)

	taper := phaseByName(s, domain.PhaseTaper)
	build := phaseByName(s, domain.PhaseBuild)
	assert.Contains(t, []int{1, 2}, taper.Weeks())
	assert.Equal(t, 16, taper.EndWeek)
	for wk := taper.StartWeek; wk <= taper.EndWeek; wk++ {
		assert.Less(t, s.Weeks[wk-1].BaseStress, build.Stress.Min, "taper week %d must sit below build minimum", wk)
	}
}

func TestDesign_SixteenWeekPhaseLengths(t *testing.T) {
	s, err := Design(scenarioRequest(), DefaultConfig())
	require.NoError(t, err)

	var got []int
	for _, p := range s.Phases {
		got = append(got, p.Weeks())
	}
	assert.Equal(t, []int{6, 6, 2, 2}, got)
	assert.True(t, s.Weeks[3].IsRecovery, "base recovery on week 4")
	assert.True(t, s.Weeks[8].IsRecovery, "build recovery on week 9")
	assert.InDelta(t, 200.0, s.Weeks[0].BaseStress, 1e-9)
}

func TestDesign_Infeasible(t *testing.T) {
	req := scenarioRequest()
	req.Goal.TargetFTP = 325 // +60 W
	req.Goal.TargetDate = testNow.AddDate(0, 0, 6*7)

	_, err := Design(req, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInfeasibleGoal))

	var infeasible *domain.InfeasibleGoalError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, 24, infeasible.MinWeeks)
	assert.Equal(t, 6, infeasible.TotalWeeks)
	assert.Contains(t, infeasible.Reason, "W/week")
}

func TestDesign_GainMeasuredFromCurrentFitness(t *testing.T) {
	req := scenarioRequest()
	req.Goal.StartFTP = 320 // stale; the snapshot says 265
	req.Goal.TargetFTP = 325
	req.Goal.TargetDate = testNow.AddDate(0, 0, 6*7)

	_, err := Design(req, DefaultConfig())
	var infeasible *domain.InfeasibleGoalError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, 24, infeasible.MinWeeks)
}

func TestDesign_TooShortForPhases(t *testing.T) {
	req := scenarioRequest()
	req.Goal.TargetFTP = 265
	req.Goal.TargetDate = testNow.AddDate(0, 0, 20)

	_, err := Design(req, DefaultConfig())
	var infeasible *domain.InfeasibleGoalError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, 4, infeasible.MinWeeks)
	assert.Contains(t, infeasible.Reason, "base, build, peak and taper")
}

func TestDesign_TooFarAway(t *testing.T) {
	req := scenarioRequest()
	req.Goal.TargetDate = testNow.AddDate(0, 0, 60*7)
	_, err := Design(req, DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInfeasibleGoal)
}

func TestDesign_InvalidProfile(t *testing.T) {
	req := scenarioRequest()
	req.Fitness.FTP = 0
	_, err := Design(req, DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestDesign_Deterministic(t *testing.T) {
	a, err := Design(scenarioRequest(), DefaultConfig())
	require.NoError(t, err)
	b, err := Design(scenarioRequest(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMinWeeks_VolumeScalesGainRate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 14, MinWeeks(35, 10, cfg))
	assert.Equal(t, 28, MinWeeks(35, 4, cfg))
	assert.Equal(t, 56, MinWeeks(35, 1, cfg), "rate never drops below a quarter")
	assert.Equal(t, 4, MinWeeks(0, 10, cfg))
}

func TestTotalWeeks(t *testing.T) {
	assert.Equal(t, 16, TotalWeeks(testNow, testNow.AddDate(0, 0, 112)))
	assert.Equal(t, 16, TotalWeeks(testNow, testNow.AddDate(0, 0, 118)))
	assert.Equal(t, 0, TotalWeeks(testNow, testNow.AddDate(0, 0, -3)))
}

func TestAllocatePhases(t *testing.T) {
	tests := []struct {
		total int
		goal  domain.GoalType
		want  [4]int
	}{
		{4, domain.GoalFTPTarget, [4]int{1, 1, 1, 1}},
		{8, domain.GoalFTPTarget, [4]int{3, 3, 1, 1}},
		{12, domain.GoalRacePrep, [4]int{4, 4, 2, 2}},
		{16, domain.GoalBaseBuilding, [4]int{8, 4, 2, 2}},
		{20, "", [4]int{8, 7, 3, 2}},
	}
	for _, tt := range tests {
		got := allocatePhases(tt.total, tt.goal)
		assert.Equal(t, tt.want, got, "total=%d goal=%s", tt.total, tt.goal)
		assert.Equal(t, tt.total, got[0]+got[1]+got[2]+got[3])
	}
}

func TestDesign_PropertyInvariants(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(42))
	goals := []domain.GoalType{domain.GoalFTPTarget, domain.GoalRacePrep, domain.GoalBaseBuilding}

	for trial := 0; trial < 200; trial++ {
		total := 4 + rng.Intn(37)
		hours := 3 + rng.Float64()*17
		ftp := 150 + rng.Float64()*200
		delta := rng.Float64() * GainRate(hours, cfg) * float64(total) * 0.95
		req := Request{
			Goal: domain.Goal{
				Type:       goals[rng.Intn(len(goals))],
				TargetFTP:  ftp + delta,
				TargetDate: testNow.AddDate(0, 0, total*7+rng.Intn(7)),
			},
			Volume:    domain.Volume{HoursPerWeek: hours, SessionsPerWeek: 3 + rng.Intn(5)},
			Fitness:   domain.FitnessSnapshot{FTP: ftp, CTL: rng.Float64() * 100, ATL: rng.Float64() * 100},
			StartDate: testNow,
		}

		s, err := Design(req, cfg)
		require.NoError(t, err, "trial %d", trial)
		require.Equal(t, total, s.TotalWeeks, "trial %d", trial)

		// partition
		next := 1
		for _, p := range s.Phases {
			assert.Equal(t, next, p.StartWeek, "trial %d: phase %s start", trial, p.Name)
			assert.GreaterOrEqual(t, p.EndWeek, p.StartWeek, "trial %d", trial)
			next = p.EndWeek + 1
		}
		assert.Equal(t, total+1, next, "trial %d: phases must cover every week", trial)

		// ranges rise until taper, taper below build
		build := phaseByName(s, domain.PhaseBuild)
		for i := 1; i < 3; i++ {
			assert.GreaterOrEqual(t, s.Phases[i].Stress.Min, s.Phases[i-1].Stress.Min, "trial %d", trial)
		}
		assert.Less(t, phaseByName(s, domain.PhaseTaper).Stress.Max, build.Stress.Min, "trial %d", trial)

		for i, wt := range s.Weeks {
			if wt.IsRecovery {
				assert.NotEqual(t, domain.PhasePeak, wt.Phase, "trial %d: week %d", trial, wt.Week)
				assert.NotEqual(t, domain.PhaseTaper, wt.Phase, "trial %d: week %d", trial, wt.Week)
			}
			if i == 0 || wt.Phase == domain.PhaseTaper {
				continue
			}
			prev := s.Weeks[i-1]
			assert.LessOrEqual(t, wt.BaseStress, prev.BaseStress*1.10+1e-6,
				"trial %d: week %d ramps from %.1f to %.1f", trial, wt.Week, prev.BaseStress, wt.BaseStress)
			if !wt.IsRecovery && !prev.IsRecovery {
				assert.LessOrEqual(t, s.PlannedStress(wt.Week), s.PlannedStress(prev.Week)*1.10+1e-6, "trial %d", trial)
			}
		}
	}
}
