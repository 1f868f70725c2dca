package macro

import "fmt"

// Config holds the progression constants the designer works with.
type Config struct {
	MaxRampPct          float64 // max week-over-week increase of loading weeks
	RecoveryFactor      float64 // share of the loading baseline kept in a recovery week
	StressPerHour       float64 // weekly stress ceiling per available hour
	MinWeeklyStress     float64 // floor of the first week's stress
	MaxGainWattsPerWeek float64 // sustainable FTP gain at reference volume
	ReferenceHours      float64 // weekly hours at which full gain rate applies
	MinWeeks            int
	MaxWeeks            int
	BaseRecoveryEvery   int
	BuildRecoveryEvery  int
}

// DefaultConfig returns the designer defaults.
func DefaultConfig() Config {
	return Config{
		MaxRampPct:          0.10,
		RecoveryFactor:      0.6,
		StressPerHour:       55,
		MinWeeklyStress:     200,
		MaxGainWattsPerWeek: 2.5,
		ReferenceHours:      8,
		MinWeeks:            4,
		MaxWeeks:            52,
		BaseRecoveryEvery:   4,
		BuildRecoveryEvery:  3,
	}
}

func (c Config) Validate() error {
	if c.MaxRampPct <= 0 || c.MaxRampPct > 0.5 {
		return fmt.Errorf("max ramp pct must be in (0, 0.5], got %.2f", c.MaxRampPct)
	}
	if c.RecoveryFactor <= 0 || c.RecoveryFactor >= 1 {
		return fmt.Errorf("recovery factor must be in (0, 1), got %.2f", c.RecoveryFactor)
	}
	if c.StressPerHour <= 0 || c.MinWeeklyStress <= 0 {
		return fmt.Errorf("stress per hour and min weekly stress must be positive")
	}
	if c.MaxGainWattsPerWeek <= 0 || c.ReferenceHours <= 0 {
		return fmt.Errorf("gain rate and reference hours must be positive")
	}
	if c.MinWeeks < 4 {
		return fmt.Errorf("min weeks must be at least 4 to fit every phase, got %d", c.MinWeeks)
	}
	if c.MaxWeeks < c.MinWeeks {
		return fmt.Errorf("max weeks %d below min weeks %d", c.MaxWeeks, c.MinWeeks)
	}
	if c.BaseRecoveryEvery < 2 || c.BuildRecoveryEvery < 2 {
		return fmt.Errorf("recovery cadence must be at least every 2 weeks")
	}
	return nil
}
