package domain

import (
	"fmt"
	"time"
)

// Activity is a completed ride with derived stress metrics. ExternalID is the
// identity used for upserts from the activity source.
type Activity struct {
	ID              string
	ExternalID      string
	Name            string
	Sport           string
	StartedAt       time.Time
	DurationSeconds int
	NormalizedPower float64
	IntensityFactor float64
	StressScore     float64
	FTPUsed         float64
	ZoneSeconds     [7]int
	BestEfforts     BestEfforts
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the raw fields before metrics are derived.
func (a *Activity) Validate() error {
	if a.ExternalID == "" {
		return fmt.Errorf("activity has no external id: %w", ErrInvalidProfile)
	}
	if a.DurationSeconds < 0 {
		return fmt.Errorf("activity %s: negative duration: %w", a.ExternalID, ErrInvalidProfile)
	}
	if a.NormalizedPower < 0 {
		return fmt.Errorf("activity %s: negative power: %w", a.ExternalID, ErrInvalidProfile)
	}
	return nil
}

// Hours returns the moving duration in hours.
func (a *Activity) Hours() float64 {
	return float64(a.DurationSeconds) / 3600
}

// Day returns the UTC calendar day the activity started on.
func (a *Activity) Day() time.Time {
	return TruncateDay(a.StartedAt)
}

// TruncateDay returns midnight UTC of t's calendar day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
