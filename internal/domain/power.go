package domain

import "time"

// EffortDuration is one point of the power curve.
type EffortDuration struct {
	Label   string
	Seconds int
}

// EffortDurations are the curve points tracked for every ride, shortest first.
var EffortDurations = []EffortDuration{
	{"5s", 5},
	{"15s", 15},
	{"30s", 30},
	{"1min", 60},
	{"5min", 300},
	{"20min", 1200},
	{"60min", 3600},
}

// BestEfforts maps an effort label to the best average watts held for it.
type BestEfforts map[string]float64

// Merge raises every effort in b to at least the matching effort in other
// and returns the labels that went up, in curve order.
func (b BestEfforts) Merge(other BestEfforts) []string {
	var raised []string
	for _, d := range EffortDurations {
		w, ok := other[d.Label]
		if !ok || w <= b[d.Label] {
			continue
		}
		b[d.Label] = w
		raised = append(raised, d.Label)
	}
	return raised
}

// ProfileEffort is one curve point scored against the reference curve.
type ProfileEffort struct {
	Label      string
	Seconds    int
	Watts      float64
	WattsPerKg float64
	Percent    float64
}

// PowerProfile describes a rider's strengths from their best efforts.
// Strengths and Weaknesses hold effort labels, strongest first.
type PowerProfile struct {
	WeightKg       float64
	Efforts        []ProfileEffort
	Strengths      []string
	Weaknesses     []string
	RiderType      RiderType
	Recommendation string
}

// PowerReport pairs recent best efforts with all-time records.
// NewRecords lists the labels whose record was set inside the recent window.
type PowerReport struct {
	Since      time.Time
	AsOf       time.Time
	Recent     BestEfforts
	AllTime    BestEfforts
	NewRecords []string
	Profile    *PowerProfile
}
