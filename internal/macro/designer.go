// Package macro designs the phased periodization skeleton of a program.
package macro

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
)

// Model identifies the periodization model the designer produces.
const Model = "traditional_linear"

// Request is the designer's input.
type Request struct {
	Goal      domain.Goal
	Volume    domain.Volume
	Fitness   domain.FitnessSnapshot
	StartDate time.Time
	Citations []domain.Citation
}

type phaseProfile struct {
	purpose string
	zones   domain.ZoneWeights
	focus   []domain.WorkoutCategory
	labels  []string
}

var phaseProfiles = map[domain.PhaseName]phaseProfile{
	domain.PhaseBase: {
		purpose: "Aerobic foundation and muscular endurance",
		zones:   domain.ZoneWeights{domain.Z1: 0.05, domain.Z2: 0.60, domain.Z3: 0.20, domain.Z4: 0.10, domain.Z5: 0.05},
		focus:   []domain.WorkoutCategory{domain.CategoryTempo, domain.CategorySweetSpot},
		labels:  []string{"Endurance", "Tempo", "Sweet Spot"},
	},
	domain.PhaseBuild: {
		purpose: "Raise threshold with sweet spot and threshold work",
		zones:   domain.ZoneWeights{domain.Z1: 0.05, domain.Z2: 0.45, domain.Z3: 0.10, domain.Z4: 0.20, domain.Z5: 0.15, domain.Z6: 0.05},
		focus:   []domain.WorkoutCategory{domain.CategorySweetSpot, domain.CategoryThreshold, domain.CategoryVO2max},
		labels:  []string{"Sweet Spot", "Threshold", "VO2max"},
	},
	domain.PhasePeak: {
		purpose: "Sharpen VO2max and race-specific intensity",
		zones:   domain.ZoneWeights{domain.Z1: 0.05, domain.Z2: 0.35, domain.Z3: 0.05, domain.Z4: 0.20, domain.Z5: 0.25, domain.Z6: 0.10},
		focus:   []domain.WorkoutCategory{domain.CategoryVO2max, domain.CategoryThreshold, domain.CategoryAnaerobic},
		labels:  []string{"VO2max", "Threshold", "Anaerobic"},
	},
	domain.PhaseTaper: {
		purpose: "Shed fatigue while holding intensity",
		zones:   domain.ZoneWeights{domain.Z1: 0.15, domain.Z2: 0.50, domain.Z3: 0.05, domain.Z4: 0.15, domain.Z5: 0.10, domain.Z6: 0.05},
		focus:   []domain.WorkoutCategory{domain.CategoryThreshold, domain.CategoryVO2max},
		labels:  []string{"Recovery", "Endurance", "Threshold"},
	},
}

// baseBuildSplit is the base:build share of the weeks left after peak and taper.
var baseBuildSplit = map[domain.GoalType][2]float64{
	domain.GoalFTPTarget:    {0.40, 0.35},
	domain.GoalRacePrep:     {0.35, 0.35},
	domain.GoalBaseBuilding: {0.50, 0.25},
}

// Design validates feasibility and builds the program skeleton.
func Design(req Request, cfg Config) (*domain.Skeleton, error) {
	if req.Fitness.FTP <= 0 {
		return nil, fmt.Errorf("designing program with ftp %.1f: %w", req.Fitness.FTP, domain.ErrInvalidProfile)
	}
	if err := req.Volume.Validate(); err != nil {
		return nil, err
	}

	total := TotalWeeks(req.StartDate, req.Goal.TargetDate)
	// Current fitness is authoritative for the starting point.
	goal := req.Goal
	goal.StartFTP = req.Fitness.FTP
	delta := goal.Delta()
	if err := CheckFeasibility(total, delta, req.Volume.HoursPerWeek, cfg); err != nil {
		return nil, err
	}

	lengths := allocatePhases(total, req.Goal.Type)
	ranges := stressRanges(req.Fitness, req.Volume, cfg)

	var phases []domain.Phase
	start := 1
	for i, name := range domain.PhaseOrder {
		prof := phaseProfiles[name]
		p := domain.Phase{
			Name:            name,
			StartWeek:       start,
			EndWeek:         start + lengths[i] - 1,
			Stress:          ranges[i],
			ZoneEmphasis:    prof.zones.Clone(),
			Purpose:         prof.purpose,
			FocusCategories: append([]domain.WorkoutCategory(nil), prof.focus...),
		}
		switch name {
		case domain.PhaseBase:
			p.RecoveryEvery = cfg.BaseRecoveryEvery
		case domain.PhaseBuild:
			p.RecoveryEvery = cfg.BuildRecoveryEvery
		}
		phases = append(phases, p)
		start = p.EndWeek + 1
	}

	s := &domain.Skeleton{
		Model:      Model,
		TotalWeeks: total,
		Phases:     phases,
		Weeks:      progressWeeks(phases, cfg),
		Rules:      domain.ProgressionRules{MaxRampPct: cfg.MaxRampPct, RecoveryFactor: cfg.RecoveryFactor},
		Citations:  req.Citations,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("designing skeleton: %w", err)
	}
	return s, nil
}

// allocatePhases sizes base, build, peak and taper. Taper is fixed at the
// end, peak takes about 15%, and base and build split the rest by goal type.
func allocatePhases(total int, goal domain.GoalType) [4]int {
	taper := 1
	if total >= 12 {
		taper = 2
	}
	peak := int(math.Max(1, math.Round(float64(total)*0.15)))
	remaining := total - taper - peak

	split, ok := baseBuildSplit[goal]
	if !ok {
		split = baseBuildSplit[domain.GoalFTPTarget]
	}
	base := int(math.Max(1, math.Round(float64(remaining)*split[0]/(split[0]+split[1]))))
	if base > remaining-1 {
		base = remaining - 1
	}
	return [4]int{base, remaining - base, peak, taper}
}

// stressRanges derives the weekly stress band of each phase from current
// fitness and available volume. Taper always sits below the build minimum.
func stressRanges(fit domain.FitnessSnapshot, vol domain.Volume, cfg Config) [4]domain.StressRange {
	start := math.Max(cfg.MinWeeklyStress, fit.CTL*7)
	ceiling := math.Max(start, vol.HoursPerWeek*cfg.StressPerHour)

	base := domain.StressRange{Min: start, Max: math.Min(start*1.3, ceiling)}
	build := domain.StressRange{Min: base.Max, Max: ceiling}
	peak := domain.StressRange{Min: math.Max(build.Min, 0.9*ceiling), Max: ceiling}
	taper := domain.StressRange{Min: 0.6 * build.Min, Max: 0.85 * build.Min}
	return [4]domain.StressRange{base, build, peak, taper}
}

// progressWeeks assigns each week its baseline stress. Loading weeks follow
// the phase range but never exceed the previous loading week by more than
// MaxRampPct; any shortfall carries forward within the phase. Recovery weeks
// hold the previous loading baseline. Taper descends across its range.
func progressWeeks(phases []domain.Phase, cfg Config) []domain.WeekTarget {
	var out []domain.WeekTarget
	var lastLoading float64

	for _, p := range phases {
		prof := phaseProfiles[p.Name]
		n := p.Weeks()

		if p.Name == domain.PhaseTaper {
			for wk := p.StartWeek; wk <= p.EndWeek; wk++ {
				out = append(out, domain.WeekTarget{
					Week:       wk,
					Phase:      p.Name,
					BaseStress: interpolate(p.Stress.Max, p.Stress.Min, wk-p.StartWeek, n),
					Focus:      "Taper - reduce volume, keep some intensity",
				})
			}
			continue
		}

		var carry float64
		for wk := p.StartWeek; wk <= p.EndWeek; wk++ {
			ideal := interpolate(p.Stress.Min, p.Stress.Max, wk-p.StartWeek, n)

			if p.IsRecoveryWeek(wk) && lastLoading > 0 {
				out = append(out, domain.WeekTarget{
					Week:       wk,
					Phase:      p.Name,
					BaseStress: lastLoading,
					IsRecovery: true,
					Focus:      "Recovery week - reduced volume, maintain frequency",
				})
				continue
			}

			want := ideal + carry
			stress := math.Min(want, p.Stress.Max)
			if lastLoading > 0 {
				stress = math.Min(stress, lastLoading*(1+cfg.MaxRampPct))
			}
			carry = want - stress
			lastLoading = stress

			out = append(out, domain.WeekTarget{
				Week:       wk,
				Phase:      p.Name,
				BaseStress: stress,
				IsRecovery: p.IsRecoveryWeek(wk),
				Focus:      fmt.Sprintf("%s loading - focus on %s", titleCase(string(p.Name)), strings.Join(prof.labels[:2], ", ")),
			})
		}
	}
	return out
}

// interpolate returns the value i steps along a linear path from a to b over n points.
func interpolate(a, b float64, i, n int) float64 {
	if n <= 1 {
		return a
	}
	return a + (b-a)*float64(i)/float64(n-1)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
