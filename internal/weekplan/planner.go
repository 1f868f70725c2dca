// Package weekplan turns a skeleton week into concrete weekly targets and a
// day-by-day set of workout slots.
package weekplan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/velo/internal/adapt"
	"github.com/alexanderramin/velo/internal/domain"
)

type Config struct {
	MinSessions    int
	MaxSessions    int
	MinDurationMin int
	MaxDurationMin int
}

func DefaultConfig() Config {
	return Config{MinSessions: 3, MaxSessions: 7, MinDurationMin: 45, MaxDurationMin: 180}
}

func (c Config) Validate() error {
	if c.MinSessions < 3 || c.MaxSessions > 7 || c.MinSessions > c.MaxSessions {
		return fmt.Errorf("session range must lie within [3, 7], got [%d, %d]", c.MinSessions, c.MaxSessions)
	}
	if c.MinDurationMin <= 0 || c.MaxDurationMin < c.MinDurationMin {
		return fmt.Errorf("invalid duration range [%d, %d]", c.MinDurationMin, c.MaxDurationMin)
	}
	return nil
}

// Input describes the week being planned.
type Input struct {
	Phase      domain.Phase
	Target     domain.WeekTarget
	Adaptation adapt.Result
	Volume     domain.Volume
}

// SlotPlan is one planned session.
type SlotPlan struct {
	DayIndex          int
	Category          domain.WorkoutCategory
	Intensity         domain.Intensity
	TargetStress      int
	TargetDurationMin int
	Instructions      string
}

// Plan is the planner's output for a week.
type Plan struct {
	TargetStress    float64
	TargetHours     float64
	TargetSessions  int
	ZoneEmphasis    domain.ZoneWeights
	CoachingNotes   string
	AdaptationNotes string
	Recovery        bool
	Slots           []SlotPlan
}

// Build computes the week's targets and distributes its stress over slots.
func Build(in Input, cfg Config) (*Plan, error) {
	if in.Target.Phase != in.Phase.Name {
		return nil, fmt.Errorf("week %d belongs to %s, not %s", in.Target.Week, in.Target.Phase, in.Phase.Name)
	}
	mult := in.Adaptation.Multiplier
	if mult <= 0 {
		mult = 1
	}

	total := int(math.Round(in.Target.BaseStress * mult))
	sessions := clampInt(in.Volume.SessionsPerWeek, cfg.MinSessions, cfg.MaxSessions)
	recovery := in.Adaptation.ForceRecovery

	zones := in.Phase.ZoneEmphasis.Clone()
	if recovery {
		zones = recoveryZones.Clone()
	}

	tmpl := templates[sessions]
	weights := make([]float64, len(tmpl))
	for i, ts := range tmpl {
		weights[i] = ts.weight
	}
	stresses := Distribute(total, weights)

	plan := &Plan{
		TargetStress:    float64(total),
		TargetSessions:  sessions,
		ZoneEmphasis:    zones,
		AdaptationNotes: in.Adaptation.Notes(),
		Recovery:        recovery,
	}

	hard, moderate := 0, 0
	var minutes int
	for i, ts := range tmpl {
		intensity := ts.intensity
		var cat domain.WorkoutCategory
		switch {
		case recovery:
			intensity = domain.IntensityEasy
			cat = domain.CategoryRecovery
			if i%2 == 1 {
				cat = domain.CategoryEndurance
			}
		case intensity == domain.IntensityHard:
			cat = hardCategory(in.Phase, hard)
			hard++
		case intensity == domain.IntensityModerate:
			cat = domain.CategoryEndurance
			if moderate%2 == 1 {
				cat = domain.CategoryTempo
			}
			moderate++
		default:
			cat = domain.CategoryRecovery
		}

		dur := durationFor(stresses[i], cat, cfg)
		minutes += dur
		plan.Slots = append(plan.Slots, SlotPlan{
			DayIndex:          ts.day,
			Category:          cat,
			Intensity:         intensity,
			TargetStress:      stresses[i],
			TargetDurationMin: dur,
			Instructions:      instructions(cat, stresses[i], dur),
		})
	}
	plan.TargetHours = math.Round(float64(minutes)/60*10) / 10
	plan.CoachingNotes = coachingNotes(in, plan)
	return plan, nil
}

// Distribute splits total across weights proportionally. Each share is
// rounded down, then the remaining units go one each to the largest
// fractional parts, so the result sums to total exactly.
func Distribute(total int, weights []float64) []int {
	out := make([]int, len(weights))
	if len(weights) == 0 {
		return out
	}
	var wsum float64
	for _, w := range weights {
		wsum += w
	}
	if wsum <= 0 {
		return out
	}

	type frac struct {
		idx int
		rem float64
	}
	fracs := make([]frac, len(weights))
	assigned := 0
	for i, w := range weights {
		raw := float64(total) * w / wsum
		out[i] = int(math.Floor(raw))
		assigned += out[i]
		fracs[i] = frac{i, raw - math.Floor(raw)}
	}
	sort.SliceStable(fracs, func(a, b int) bool { return fracs[a].rem > fracs[b].rem })
	for k := 0; k < total-assigned && k < len(fracs); k++ {
		out[fracs[k].idx]++
	}
	return out
}

func hardCategory(p domain.Phase, n int) domain.WorkoutCategory {
	if len(p.FocusCategories) == 0 {
		return domain.CategoryThreshold
	}
	return p.FocusCategories[n%len(p.FocusCategories)]
}

// durationFor estimates minutes from stress: stress = hours x IF^2 x 100.
func durationFor(stress int, cat domain.WorkoutCategory, cfg Config) int {
	intensity := categoryIF[cat]
	if intensity <= 0 {
		intensity = 0.7
	}
	minutes := int(math.Round(float64(stress) * 60 / (100 * intensity * intensity)))
	return clampInt(minutes, cfg.MinDurationMin, cfg.MaxDurationMin)
}

func instructions(cat domain.WorkoutCategory, stress, minutes int) string {
	return fmt.Sprintf("%s workout, about %d min targeting %d TSS. %s",
		categoryLabel(cat), minutes, stress, categoryGuidance[cat])
}

func coachingNotes(in Input, plan *Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week %d, %s phase", in.Target.Week, in.Phase.Name)
	if plan.Recovery {
		b.WriteString(" (recovery)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Target %.0f TSS over %d sessions, about %.1f h\n", plan.TargetStress, plan.TargetSessions, plan.TargetHours)

	var zones []string
	for _, z := range plan.ZoneEmphasis.Ordered() {
		zones = append(zones, fmt.Sprintf("%s %.0f%%", z, plan.ZoneEmphasis[z]*100))
	}
	fmt.Fprintf(&b, "Zones: %s\n", strings.Join(zones, ", "))
	if in.Target.Focus != "" && !plan.Recovery {
		b.WriteString(in.Target.Focus)
		b.WriteString("\n")
	}
	if plan.Recovery {
		b.WriteString("Keep every session easy; sleep and fuel well.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryLabel(cat domain.WorkoutCategory) string {
	s := strings.ReplaceAll(string(cat), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
