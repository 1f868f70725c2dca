package domain

import (
	"fmt"
	"time"
)

// RiderProfile holds the physiological settings metrics are derived from.
type RiderProfile struct {
	FTP       float64
	WeightKg  float64
	UpdatedAt time.Time
}

// Validate returns ErrInvalidProfile if the FTP cannot anchor stress metrics.
func (p *RiderProfile) Validate() error {
	if p == nil || p.FTP <= 0 {
		return fmt.Errorf("ftp must be positive: %w", ErrInvalidProfile)
	}
	return nil
}

// WattsPerKg returns FTP relative to body weight, or 0 when weight is unset.
func (p *RiderProfile) WattsPerKg() float64 {
	if p.WeightKg <= 0 {
		return 0
	}
	return p.FTP / p.WeightKg
}
