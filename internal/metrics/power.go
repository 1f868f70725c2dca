package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
)

// referenceCurve is a category 1/2 road rider's power curve in W/kg, after
// Coggan and Allen. Profiles score each effort as a percentage of it.
var referenceCurve = map[string]float64{
	"5s":    24.0,
	"15s":   18.5,
	"30s":   15.0,
	"1min":  12.0,
	"5min":  6.5,
	"20min": 5.0,
	"60min": 4.5,
}

const (
	strengthPercent = 90
	weaknessPercent = 70
	// Type scores closer than this make the rider an all-rounder.
	allRounderMargin = 10
)

// BestEfforts finds the best average power for every tracked duration in a
// 1 Hz power stream. Durations longer than the stream are left out.
func BestEfforts(samples []float64) domain.BestEfforts {
	out := domain.BestEfforts{}
	if len(samples) == 0 {
		return out
	}
	prefix := make([]float64, len(samples)+1)
	for i, w := range samples {
		prefix[i+1] = prefix[i] + w
	}
	for _, d := range domain.EffortDurations {
		if d.Seconds > len(samples) {
			break
		}
		best := 0.0
		for end := d.Seconds; end <= len(samples); end++ {
			if sum := prefix[end] - prefix[end-d.Seconds]; sum > best {
				best = sum
			}
		}
		if best > 0 {
			out[d.Label] = math.Round(best/float64(d.Seconds)*10) / 10
		}
	}
	return out
}

// CurveBest merges the best efforts of every activity started in [from, to).
// A zero from means since the first ride.
func CurveBest(activities []*domain.Activity, from, to time.Time) domain.BestEfforts {
	out := domain.BestEfforts{}
	for _, a := range activities {
		if a.StartedAt.Before(from) || !a.StartedAt.Before(to) {
			continue
		}
		out.Merge(a.BestEfforts)
	}
	return out
}

// AnalyzePowerProfile scores best efforts against the reference curve and
// classifies the rider.
func AnalyzePowerProfile(best domain.BestEfforts, weightKg float64) (*domain.PowerProfile, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("power profile needs rider weight, got %.1f kg: %w", weightKg, domain.ErrInvalidProfile)
	}
	p := &domain.PowerProfile{WeightKg: weightKg}
	percent := make(map[string]float64)
	for _, d := range domain.EffortDurations {
		w := best[d.Label]
		if w <= 0 {
			continue
		}
		e := domain.ProfileEffort{Label: d.Label, Seconds: d.Seconds, Watts: w, WattsPerKg: w / weightKg}
		e.Percent = e.WattsPerKg / referenceCurve[d.Label] * 100
		percent[d.Label] = e.Percent
		p.Efforts = append(p.Efforts, e)
	}

	ranked := append([]domain.ProfileEffort(nil), p.Efforts...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Percent > ranked[j].Percent })
	for _, e := range ranked {
		switch {
		case e.Percent >= strengthPercent:
			p.Strengths = append(p.Strengths, e.Label)
		case e.Percent < weaknessPercent:
			p.Weaknesses = append(p.Weaknesses, e.Label)
		}
	}

	p.RiderType = classifyRider(percent)
	p.Recommendation = recommend(p.RiderType, p.Weaknesses)
	return p, nil
}

// classifyRider picks the type with the highest blended score. Missing
// efforts score zero.
func classifyRider(percent map[string]float64) domain.RiderType {
	if len(percent) == 0 {
		return domain.RiderBalanced
	}
	sprint := (percent["5s"] + percent["15s"] + percent["30s"]) / 3
	vo2 := (percent["1min"] + percent["5min"]) / 2
	threshold := percent["20min"]
	endurance := percent["60min"]

	scores := []struct {
		rider domain.RiderType
		score float64
	}{
		{domain.RiderSprinter, sprint},
		{domain.RiderPuncheur, 0.4*sprint + 0.6*vo2},
		{domain.RiderPursuiter, 0.5*vo2 + 0.5*threshold},
		{domain.RiderTimeTrialist, 0.6*threshold + 0.4*endurance},
		{domain.RiderClimber, 0.3*vo2 + 0.5*threshold + 0.2*endurance},
	}
	best, second := 0, -1
	for i := 1; i < len(scores); i++ {
		if scores[i].score > scores[best].score {
			second, best = best, i
		} else if second < 0 || scores[i].score > scores[second].score {
			second = i
		}
	}
	if scores[best].score-scores[second].score < allRounderMargin {
		return domain.RiderAllRounder
	}
	return scores[best].rider
}

var riderAdvice = map[domain.RiderType]string{
	domain.RiderSprinter:     "Build on maximal and neuromuscular power, and keep threshold work in for race-long endurance.",
	domain.RiderPuncheur:     "Keep the explosive power and add threshold and VO2max work for longer climbs.",
	domain.RiderPursuiter:    "VO2max and threshold are strong; extend how long high power can be held.",
	domain.RiderTimeTrialist: "Sustained power is the strength; add VO2max and sprint work for race dynamics.",
	domain.RiderClimber:      "Sustained power is good; add force and sprint work for attacks.",
	domain.RiderAllRounder:   "Balanced profile; train for the demands of the target event.",
}

func effortSystem(label string) string {
	switch label {
	case "5s", "15s", "30s":
		return "sprint/neuromuscular"
	case "1min", "5min":
		return "VO2max/anaerobic"
	case "20min":
		return "threshold"
	default:
		return "endurance"
	}
}

func recommend(rider domain.RiderType, weaknesses []string) string {
	advice, ok := riderAdvice[rider]
	if !ok {
		advice = "Not enough power data yet; keep a balanced mix."
	}
	var systems []string
	seen := make(map[string]bool)
	for _, w := range weaknesses {
		s := effortSystem(w)
		if !seen[s] {
			seen[s] = true
			systems = append(systems, s)
		}
	}
	if len(systems) == 0 {
		return advice
	}
	return advice + " Address weaknesses in " + strings.Join(systems, ", ") + "."
}
