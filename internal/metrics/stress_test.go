package metrics

import (
	"math"
	"testing"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStressScore_OneHourAtThresholdIs100(t *testing.T) {
	ss, err := StressScore(3600, 250, 250)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, ss, 1e-9)
}

func TestStressScore_Formula(t *testing.T) {
	ss, err := StressScore(5400, 200, 250)
	require.NoError(t, err)
	// 5400 * 200 * 0.8 / (250 * 3600) * 100
	assert.InDelta(t, 96.0, ss, 1e-9)
}

func TestStressScore_ZeroDuration(t *testing.T) {
	ss, err := StressScore(0, 300, 250)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ss)
}

func TestStressScore_InvalidFTP(t *testing.T) {
	for _, ftp := range []float64{0, -1} {
		_, err := StressScore(3600, 200, ftp)
		assert.ErrorIs(t, err, domain.ErrInvalidProfile)
		_, err = IntensityFactor(200, ftp)
		assert.ErrorIs(t, err, domain.ErrInvalidProfile)
	}
}

func TestDerive_FillsFields(t *testing.T) {
	a := &domain.Activity{ExternalID: "A1", DurationSeconds: 3600, NormalizedPower: 200}
	require.NoError(t, Derive(a, 250))
	assert.InDelta(t, 0.8, a.IntensityFactor, 1e-9)
	assert.InDelta(t, 64.0, a.StressScore, 1e-9)
	assert.Equal(t, 250.0, a.FTPUsed)
}

func TestDerive_RejectsMalformed(t *testing.T) {
	a := &domain.Activity{ExternalID: "A1", DurationSeconds: -5, NormalizedPower: 200}
	assert.ErrorIs(t, Derive(a, 250), domain.ErrInvalidProfile)
	assert.Equal(t, 0.0, a.StressScore)
}

func TestNormalizedPower_ConstantPower(t *testing.T) {
	samples := make([]float64, 600)
	for i := range samples {
		samples[i] = 210
	}
	assert.InDelta(t, 210.0, NormalizedPower(samples), 1e-9)
}

func TestNormalizedPower_VariableExceedsAverage(t *testing.T) {
	samples := make([]float64, 1200)
	for i := range samples {
		if (i/60)%2 == 0 {
			samples[i] = 350
		} else {
			samples[i] = 100
		}
	}
	np := NormalizedPower(samples)
	avg := AveragePower(samples)
	assert.InDelta(t, 225.0, avg, 1e-9)
	assert.Greater(t, np, avg)
	assert.Less(t, np, 350.0)
}

func TestNormalizedPower_ShortRideFallsBackToAverage(t *testing.T) {
	assert.InDelta(t, 150.0, NormalizedPower([]float64{100, 200, 150}), 1e-9)
	assert.Equal(t, 0.0, NormalizedPower(nil))
}

func TestNormalizedPower_ExactWindow(t *testing.T) {
	samples := make([]float64, npWindow)
	for i := range samples {
		samples[i] = float64(i)
	}
	// a single window: NP equals its mean
	assert.InDelta(t, 14.5, NormalizedPower(samples), 1e-9)
}

func TestZoneDistribution(t *testing.T) {
	ftp := 200.0
	samples := []float64{50, 109, 110, 150, 180, 209, 210, 240, 299, 300, 500}
	zones, err := ZoneDistribution(samples, ftp)
	require.NoError(t, err)
	assert.Equal(t, [7]int{2, 1, 1, 2, 1, 2, 2}, zones)

	total := 0
	for _, s := range zones {
		total += s
	}
	assert.Equal(t, len(samples), total)

	_, err = ZoneDistribution(samples, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestZoneDistribution_Boundaries(t *testing.T) {
	zones, err := ZoneDistribution([]float64{140, 250, math.Inf(1)}, 250)
	require.NoError(t, err)
	assert.Equal(t, [7]int{0, 1, 0, 1, 0, 0, 1}, zones)
}
