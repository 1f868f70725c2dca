// Package metrics derives training-stress metrics from ride data. All
// functions are pure and deterministic.
package metrics

import (
	"fmt"
	"math"

	"github.com/alexanderramin/velo/internal/domain"
)

// npWindow is the rolling-average window for normalized power, in samples
// at 1 Hz.
const npWindow = 30

// zoneUpperBounds are the upper edges of Z1..Z6 as fractions of FTP; Z7 is
// open-ended.
var zoneUpperBounds = [6]float64{0.55, 0.75, 0.90, 1.05, 1.20, 1.50}

// NormalizedPower computes NP from 1 Hz power samples: the fourth root of the
// mean fourth power of the 30-second rolling average. Rides shorter than the
// window fall back to average power.
func NormalizedPower(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if len(samples) < npWindow {
		return AveragePower(samples)
	}

	var windowSum float64
	for _, w := range samples[:npWindow] {
		windowSum += w
	}

	var fourthSum float64
	n := 0
	for i := npWindow; ; i++ {
		avg := windowSum / npWindow
		fourthSum += avg * avg * avg * avg
		n++
		if i == len(samples) {
			break
		}
		windowSum += samples[i] - samples[i-npWindow]
	}
	return math.Pow(fourthSum/float64(n), 0.25)
}

// AveragePower returns the arithmetic mean of the samples.
func AveragePower(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, w := range samples {
		sum += w
	}
	return sum / float64(len(samples))
}

// IntensityFactor returns NP relative to FTP.
func IntensityFactor(np, ftp float64) (float64, error) {
	if ftp <= 0 {
		return 0, fmt.Errorf("intensity factor with ftp %.1f: %w", ftp, domain.ErrInvalidProfile)
	}
	return np / ftp, nil
}

// StressScore returns (duration x NP x IF) / (FTP x 3600) x 100.
// A zero-duration ride carries no stress.
func StressScore(durationSec int, np, ftp float64) (float64, error) {
	intensity, err := IntensityFactor(np, ftp)
	if err != nil {
		return 0, err
	}
	if durationSec == 0 {
		return 0, nil
	}
	return float64(durationSec) * np * intensity / (ftp * 3600) * 100, nil
}

// Derive fills the derived fields of an activity for the given FTP.
func Derive(a *domain.Activity, ftp float64) error {
	if err := a.Validate(); err != nil {
		return err
	}
	intensity, err := IntensityFactor(a.NormalizedPower, ftp)
	if err != nil {
		return err
	}
	stress, err := StressScore(a.DurationSeconds, a.NormalizedPower, ftp)
	if err != nil {
		return err
	}
	a.IntensityFactor = intensity
	a.StressScore = stress
	a.FTPUsed = ftp
	return nil
}

// ZoneDistribution counts seconds spent in each power zone, one second per sample.
func ZoneDistribution(samples []float64, ftp float64) ([7]int, error) {
	var out [7]int
	if ftp <= 0 {
		return out, fmt.Errorf("zone distribution with ftp %.1f: %w", ftp, domain.ErrInvalidProfile)
	}
	for _, w := range samples {
		out[zoneIndex(w/ftp)]++
	}
	return out, nil
}

func zoneIndex(ratio float64) int {
	for i, upper := range zoneUpperBounds {
		if ratio < upper {
			return i
		}
	}
	return len(zoneUpperBounds)
}
