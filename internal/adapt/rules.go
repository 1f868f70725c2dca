package adapt

import "fmt"

// DefaultRules returns the standard rule order: fatigue guards first,
// scheduled recovery last.
func DefaultRules() []Rule {
	return []Rule{
		TSBCritical{Threshold: -20, Multiplier: 0.5},
		TSBFatigue{Threshold: -10, Critical: -20, Multiplier: 0.85},
		LowCompliance{Threshold: 0.70, Window: 2, Multiplier: 0.80},
		CTLRamp{Threshold: 7, Multiplier: 0.90},
		Freshness{Threshold: 15, Multiplier: 1.10},
		ScheduledRecovery{Multiplier: 0.6},
	}
}

// TSBCritical forces a recovery week when form is deeply negative.
type TSBCritical struct {
	Threshold  float64
	Multiplier float64
}

func (TSBCritical) Name() string { return "tsb_critical" }

func (r TSBCritical) Evaluate(in Input, _ Result) (Outcome, bool) {
	tsb := in.Snapshot.TSB()
	if tsb >= r.Threshold {
		return Outcome{}, false
	}
	return Outcome{
		Multiplier:    r.Multiplier,
		ForceRecovery: true,
		Reason:        fmt.Sprintf("TSB %.1f below %.0f: forcing recovery week at %.0f%% load", tsb, r.Threshold, r.Multiplier*100),
	}, true
}

// TSBFatigue trims load when form is negative but not critical.
type TSBFatigue struct {
	Threshold  float64
	Critical   float64
	Multiplier float64
}

func (TSBFatigue) Name() string { return "tsb_fatigue" }

func (r TSBFatigue) Evaluate(in Input, _ Result) (Outcome, bool) {
	tsb := in.Snapshot.TSB()
	if tsb >= r.Threshold || tsb < r.Critical {
		return Outcome{}, false
	}
	return Outcome{
		Multiplier: r.Multiplier,
		Reason:     fmt.Sprintf("TSB %.1f below %.0f: reducing load to %.0f%%", tsb, r.Threshold, r.Multiplier*100),
	}, true
}

// LowCompliance reduces load when recent weeks fell short of plan. The ratio
// is averaged over the last Window completed weeks that carry both planned
// and actual stress.
type LowCompliance struct {
	Threshold  float64
	Window     int
	Multiplier float64
}

func (LowCompliance) Name() string { return "low_compliance" }

func (r LowCompliance) Evaluate(in Input, _ Result) (Outcome, bool) {
	if r.Window <= 0 || len(in.RecentCompleted) < r.Window {
		return Outcome{}, false
	}
	var sum float64
	n := 0
	for _, w := range in.RecentCompleted[len(in.RecentCompleted)-r.Window:] {
		if c, ok := w.Compliance(); ok {
			sum += c
			n++
		}
	}
	if n == 0 {
		return Outcome{}, false
	}
	avg := sum / float64(n)
	if avg >= r.Threshold {
		return Outcome{}, false
	}
	return Outcome{
		Multiplier: r.Multiplier,
		Reason: fmt.Sprintf("compliance %.0f%% over last %d weeks below %.0f%%: reducing load to %.0f%%",
			avg*100, r.Window, r.Threshold*100, r.Multiplier*100),
	}, true
}

// CTLRamp slows progression when chronic load is climbing too fast. The
// weekly change is taken from the end-of-week CTL of the two latest completed
// weeks when both carry it, otherwise from the snapshot's trailing 7-day
// change. Threshold is in CTL points per day, so the weekly change is divided
// by seven before comparing.
type CTLRamp struct {
	Threshold  float64
	Multiplier float64
}

func (CTLRamp) Name() string { return "ctl_ramp" }

func (r CTLRamp) Evaluate(in Input, _ Result) (Outcome, bool) {
	weekly := in.Snapshot.CTLRamp
	if n := len(in.RecentCompleted); n >= 2 {
		last, prev := in.RecentCompleted[n-1], in.RecentCompleted[n-2]
		if last.ActualCTL != nil && prev.ActualCTL != nil {
			weekly = *last.ActualCTL - *prev.ActualCTL
		}
	}
	perDay := weekly / 7
	if perDay <= r.Threshold {
		return Outcome{}, false
	}
	return Outcome{
		Multiplier: r.Multiplier,
		Reason: fmt.Sprintf("CTL ramp %.1f/day (%.1f this week) above %.0f/day: reducing load to %.0f%%",
			perDay, weekly, r.Threshold, r.Multiplier*100),
	}, true
}

// Freshness adds load when the rider is notably rested.
type Freshness struct {
	Threshold  float64
	Multiplier float64
}

func (Freshness) Name() string { return "freshness" }

func (r Freshness) Evaluate(in Input, _ Result) (Outcome, bool) {
	tsb := in.Snapshot.TSB()
	if tsb <= r.Threshold {
		return Outcome{}, false
	}
	return Outcome{
		Multiplier: r.Multiplier,
		Reason:     fmt.Sprintf("TSB %.1f above %.0f: rider fresh, increasing load to %.0f%%", tsb, r.Threshold, r.Multiplier*100),
	}, true
}

// ScheduledRecovery applies the skeleton's recovery cadence. The load share
// comes from the skeleton's recovery factor; Multiplier is used when the
// skeleton carries none.
type ScheduledRecovery struct {
	Multiplier float64
}

func (ScheduledRecovery) Name() string { return "scheduled_recovery" }

func (r ScheduledRecovery) Evaluate(in Input, acc Result) (Outcome, bool) {
	if acc.ForceRecovery || in.Skeleton == nil || !in.Skeleton.IsRecoveryWeek(in.WeekNumber) {
		return Outcome{}, false
	}
	factor := r.Multiplier
	if f := in.Skeleton.Rules.RecoveryFactor; f > 0 {
		factor = f
	}
	return Outcome{
		Multiplier:    factor,
		ForceRecovery: true,
		Reason:        fmt.Sprintf("scheduled recovery week %d: load at %.0f%%", in.WeekNumber, factor*100),
	}, true
}
