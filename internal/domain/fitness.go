package domain

import "time"

// FitnessSnapshot is the rider's training state at a point in time.
// TSB is derived on read so it always equals CTL - ATL.
type FitnessSnapshot struct {
	FTP     float64
	CTL     float64
	ATL     float64
	CTLRamp float64 // ctl(AsOf) - ctl(AsOf - 7d)
	AsOf    time.Time
}

// TSB returns training stress balance (form).
func (s FitnessSnapshot) TSB() float64 {
	return s.CTL - s.ATL
}
