package domain

import (
	"fmt"
	"math"
	"sort"
)

const zoneWeightTolerance = 1e-9

// StressRange bounds the planned weekly stress of a phase.
type StressRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ZoneWeights is a distribution of training time across power zones.
type ZoneWeights map[Zone]float64

// Sum returns the total of all weights.
func (z ZoneWeights) Sum() float64 {
	var total float64
	for _, zone := range Zones {
		total += z[zone]
	}
	return total
}

// Ordered returns the zones carrying weight, heaviest first; ties keep zone order.
func (z ZoneWeights) Ordered() []Zone {
	var out []Zone
	for _, zone := range Zones {
		if z[zone] > 0 {
			out = append(out, zone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return z[out[i]] > z[out[j]] })
	return out
}

// Clone returns an independent copy.
func (z ZoneWeights) Clone() ZoneWeights {
	out := make(ZoneWeights, len(z))
	for k, v := range z {
		out[k] = v
	}
	return out
}

// Phase is a contiguous block of weeks sharing a training purpose.
type Phase struct {
	Name            PhaseName         `json:"name"`
	StartWeek       int               `json:"start_week"`
	EndWeek         int               `json:"end_week"`
	Stress          StressRange       `json:"stress"`
	ZoneEmphasis    ZoneWeights       `json:"zone_emphasis"`
	RecoveryEvery   int               `json:"recovery_every,omitempty"`
	Purpose         string            `json:"purpose"`
	FocusCategories []WorkoutCategory `json:"focus_categories"`
}

// Weeks returns the number of weeks in the phase.
func (p Phase) Weeks() int {
	return p.EndWeek - p.StartWeek + 1
}

// Contains reports whether the 1-indexed program week falls inside the phase.
func (p Phase) Contains(week int) bool {
	return week >= p.StartWeek && week <= p.EndWeek
}

// IsRecoveryWeek reports whether the phase cadence schedules a reduced-load week.
func (p Phase) IsRecoveryWeek(week int) bool {
	if p.RecoveryEvery <= 0 || !p.Contains(week) {
		return false
	}
	return (week-p.StartWeek+1)%p.RecoveryEvery == 0
}

// WeekTarget is the designer's baseline for a single program week. Recovery
// weeks keep the previous loading baseline; the reduction is applied when the
// week is planned.
type WeekTarget struct {
	Week       int       `json:"week"`
	Phase      PhaseName `json:"phase"`
	BaseStress float64   `json:"base_stress"`
	IsRecovery bool      `json:"is_recovery,omitempty"`
	Focus      string    `json:"focus"`
}

// ProgressionRules are the load-progression constraints the skeleton obeys.
type ProgressionRules struct {
	MaxRampPct     float64 `json:"max_ramp_pct"`
	RecoveryFactor float64 `json:"recovery_factor"`
}

// Citation is a reference passage that informed the design.
type Citation struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// Skeleton is the immutable macro plan of a program.
type Skeleton struct {
	Model      string           `json:"model"`
	TotalWeeks int              `json:"total_weeks"`
	Phases     []Phase          `json:"phases"`
	Weeks      []WeekTarget     `json:"weeks"`
	Rules      ProgressionRules `json:"rules"`
	Citations  []Citation       `json:"citations,omitempty"`
}

// PhaseFor returns the phase containing the given week.
func (s *Skeleton) PhaseFor(week int) (*Phase, error) {
	for i := range s.Phases {
		if s.Phases[i].Contains(week) {
			return &s.Phases[i], nil
		}
	}
	return nil, fmt.Errorf("week %d outside skeleton of %d weeks", week, s.TotalWeeks)
}

// Target returns the baseline for the given week.
func (s *Skeleton) Target(week int) (WeekTarget, error) {
	if week < 1 || week > len(s.Weeks) {
		return WeekTarget{}, fmt.Errorf("week %d outside skeleton of %d weeks", week, s.TotalWeeks)
	}
	return s.Weeks[week-1], nil
}

// IsRecoveryWeek reports whether the recovery cadence schedules the week.
func (s *Skeleton) IsRecoveryWeek(week int) bool {
	p, err := s.PhaseFor(week)
	if err != nil {
		return false
	}
	return p.IsRecoveryWeek(week)
}

// PlannedStress returns the week's baseline with the recovery reduction applied.
func (s *Skeleton) PlannedStress(week int) float64 {
	t, err := s.Target(week)
	if err != nil {
		return 0
	}
	if t.IsRecovery {
		return t.BaseStress * s.Rules.RecoveryFactor
	}
	return t.BaseStress
}

// Validate checks the structural invariants of the skeleton.
func (s *Skeleton) Validate() error {
	if s.TotalWeeks <= 0 {
		return fmt.Errorf("skeleton: total weeks must be positive")
	}
	if len(s.Phases) == 0 {
		return fmt.Errorf("skeleton: no phases")
	}

	next := 1
	lastOrder := -1
	for _, p := range s.Phases {
		order := phaseIndex(p.Name)
		if order < 0 {
			return fmt.Errorf("skeleton: unknown phase %q", p.Name)
		}
		if order <= lastOrder {
			return fmt.Errorf("skeleton: phase %s out of canonical order", p.Name)
		}
		lastOrder = order
		if p.StartWeek != next {
			return fmt.Errorf("skeleton: phase %s starts at week %d, expected %d", p.Name, p.StartWeek, next)
		}
		if p.EndWeek < p.StartWeek {
			return fmt.Errorf("skeleton: phase %s ends before it starts", p.Name)
		}
		if p.Stress.Min <= 0 || p.Stress.Max < p.Stress.Min {
			return fmt.Errorf("skeleton: phase %s has invalid stress range [%.1f, %.1f]", p.Name, p.Stress.Min, p.Stress.Max)
		}
		for zone, w := range p.ZoneEmphasis {
			if w < 0 {
				return fmt.Errorf("skeleton: phase %s has negative weight for %s", p.Name, zone)
			}
		}
		if math.Abs(p.ZoneEmphasis.Sum()-1) > zoneWeightTolerance {
			return fmt.Errorf("skeleton: phase %s zone weights sum to %.12f", p.Name, p.ZoneEmphasis.Sum())
		}
		if (p.Name == PhasePeak || p.Name == PhaseTaper) && p.RecoveryEvery != 0 {
			return fmt.Errorf("skeleton: phase %s cannot schedule recovery weeks", p.Name)
		}
		next = p.EndWeek + 1
	}
	if next-1 != s.TotalWeeks {
		return fmt.Errorf("skeleton: phases cover %d weeks, expected %d", next-1, s.TotalWeeks)
	}

	if len(s.Weeks) != s.TotalWeeks {
		return fmt.Errorf("skeleton: %d week targets for %d weeks", len(s.Weeks), s.TotalWeeks)
	}
	const eps = 1e-6
	for i, wt := range s.Weeks {
		if wt.Week != i+1 {
			return fmt.Errorf("skeleton: week target %d numbered %d", i+1, wt.Week)
		}
		p, err := s.PhaseFor(wt.Week)
		if err != nil {
			return err
		}
		if p.Name != wt.Phase {
			return fmt.Errorf("skeleton: week %d labelled %s but falls in %s", wt.Week, wt.Phase, p.Name)
		}
		if wt.IsRecovery != p.IsRecoveryWeek(wt.Week) {
			return fmt.Errorf("skeleton: week %d recovery flag disagrees with phase cadence", wt.Week)
		}
		if i == 0 || p.Name == PhaseTaper {
			continue
		}
		limit := s.Weeks[i-1].BaseStress * (1 + s.Rules.MaxRampPct)
		if wt.BaseStress > limit+eps {
			return fmt.Errorf("skeleton: week %d stress %.1f exceeds ramp ceiling %.1f", wt.Week, wt.BaseStress, limit)
		}
	}
	return nil
}

func phaseIndex(name PhaseName) int {
	for i, n := range PhaseOrder {
		if n == name {
			return i
		}
	}
	return -1
}
