package macro

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
)

// TotalWeeks returns the number of whole weeks between start and target.
func TotalWeeks(start, target time.Time) int {
	days := int(domain.TruncateDay(target).Sub(domain.TruncateDay(start)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

// GainRate returns the sustainable FTP gain in watts per week for the given
// weekly volume. Low volume slows progress down to a quarter of the full rate.
func GainRate(hoursPerWeek float64, cfg Config) float64 {
	scale := hoursPerWeek / cfg.ReferenceHours
	scale = math.Max(0.25, math.Min(1, scale))
	return cfg.MaxGainWattsPerWeek * scale
}

// MinWeeks returns the shortest program that can deliver the FTP gain.
func MinWeeks(deltaWatts, hoursPerWeek float64, cfg Config) int {
	need := 0
	if deltaWatts > 0 {
		need = int(math.Ceil(deltaWatts / GainRate(hoursPerWeek, cfg)))
	}
	if need < cfg.MinWeeks {
		return cfg.MinWeeks
	}
	return need
}

// CheckFeasibility rejects goals the available weeks cannot support.
func CheckFeasibility(totalWeeks int, deltaWatts, hoursPerWeek float64, cfg Config) error {
	minWeeks := MinWeeks(deltaWatts, hoursPerWeek, cfg)
	if totalWeeks > cfg.MaxWeeks {
		return &domain.InfeasibleGoalError{
			Reason:     fmt.Sprintf("target date is more than %d weeks away; plan a shorter block first", cfg.MaxWeeks),
			TotalWeeks: totalWeeks,
			MinWeeks:   minWeeks,
		}
	}
	if totalWeeks >= minWeeks {
		return nil
	}
	reason := fmt.Sprintf("a program needs at least %d weeks to fit base, build, peak and taper", cfg.MinWeeks)
	if deltaWatts > 0 && minWeeks > cfg.MinWeeks {
		reason = fmt.Sprintf("a %.0f W gain at %.1f h/week progresses at most %.1f W/week",
			deltaWatts, hoursPerWeek, GainRate(hoursPerWeek, cfg))
	}
	return &domain.InfeasibleGoalError{Reason: reason, TotalWeeks: totalWeeks, MinWeeks: minWeeks}
}
