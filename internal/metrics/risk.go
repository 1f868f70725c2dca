package metrics

import (
	"fmt"

	"github.com/alexanderramin/velo/internal/domain"
)

// Risk summarizes overtraining indicators for a snapshot.
type Risk struct {
	Level    domain.RiskLevel
	Warnings []string
}

// AssessRisk grades fatigue from form, acute-to-chronic load and the weekly
// chronic-load gain carried by the snapshot.
func AssessRisk(s domain.FitnessSnapshot) Risk {
	r := Risk{Level: domain.RiskNone}
	tsb := s.TSB()

	switch {
	case tsb < -20:
		r.Level = domain.RiskHigh
		r.Warnings = append(r.Warnings, "TSB below -20, high risk of overtraining")
	case tsb < -15:
		r.Level = domain.RiskMedium
		r.Warnings = append(r.Warnings, "TSB below -15, moderate fatigue accumulation")
	case tsb < -10:
		r.Level = domain.RiskLow
		r.Warnings = append(r.Warnings, "TSB below -10, slight fatigue buildup")
	}

	if s.ATL > s.CTL*1.3 {
		if r.Level == domain.RiskNone {
			r.Level = domain.RiskLow
		}
		r.Warnings = append(r.Warnings, "acute load spiking relative to chronic fitness")
	}

	if s.CTLRamp > 10 {
		if r.Level == domain.RiskNone || r.Level == domain.RiskLow {
			r.Level = domain.RiskMedium
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("CTL increased by %.1f in one week (>10 is aggressive)", s.CTLRamp))
	}
	return r
}
