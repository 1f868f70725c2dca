package domain

import "time"

// Week is one calendar week of a program. Planned fields are written once by
// the week planner; actual fields only after activities are synced.
type Week struct {
	ID         string
	ProgramID  string
	WeekNumber int
	Phase      PhaseName
	IsRecovery bool
	StartDate  time.Time
	EndDate    time.Time

	// Planned
	TargetStress   float64
	TargetHours    float64
	TargetSessions int
	ZoneEmphasis   ZoneWeights
	CoachingNotes  string
	PlannedAt      *time.Time

	// Actual
	ActualStress   *float64
	ActualHours    *float64
	ActualSessions *int
	ActualCTL      *float64
	ActualATL      *float64

	AdaptationNotes string
	Status          WeekStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Planned reports whether the week planner has run for this week.
func (w *Week) Planned() bool {
	return w.PlannedAt != nil
}

// Contains reports whether t falls on one of the week's days.
func (w *Week) Contains(t time.Time) bool {
	day := TruncateDay(t)
	return !day.Before(TruncateDay(w.StartDate)) && !day.After(TruncateDay(w.EndDate))
}

// DayIndex maps t to a 1-7 day index within the week, clamped at the edges.
func (w *Week) DayIndex(t time.Time) int {
	days := int(TruncateDay(t).Sub(TruncateDay(w.StartDate)).Hours() / 24)
	switch {
	case days < 0:
		return 1
	case days > 6:
		return 7
	}
	return days + 1
}

// ActualTSB returns end-of-week form, or nil before actuals are recorded.
func (w *Week) ActualTSB() *float64 {
	if w.ActualCTL == nil || w.ActualATL == nil {
		return nil
	}
	tsb := *w.ActualCTL - *w.ActualATL
	return &tsb
}

// Compliance returns actual over planned stress when both are known.
func (w *Week) Compliance() (float64, bool) {
	if w.TargetStress <= 0 || w.ActualStress == nil {
		return 0, false
	}
	return *w.ActualStress / w.TargetStress, true
}

// ApplyPlan records the planner's output. A week is planned at most once.
func (w *Week) ApplyPlan(targetStress, targetHours float64, sessions int, zones ZoneWeights, coaching, adaptation string, now time.Time) error {
	if w.Planned() {
		return conflict("week", w.ID, "week %d is already planned", w.WeekNumber)
	}
	if w.Status != WeekCurrent {
		return conflict("week", w.ID, "week %d is %s; only the current week can be planned", w.WeekNumber, w.Status)
	}
	w.TargetStress = targetStress
	w.TargetHours = targetHours
	w.TargetSessions = sessions
	w.ZoneEmphasis = zones
	w.CoachingNotes = coaching
	w.AdaptationNotes = adaptation
	w.PlannedAt = &now
	w.UpdatedAt = now
	return nil
}

// SetActuals records realized load after a sync.
func (w *Week) SetActuals(stress, hours float64, sessions int, ctl, atl float64, now time.Time) {
	w.ActualStress = &stress
	w.ActualHours = &hours
	w.ActualSessions = &sessions
	w.ActualCTL = &ctl
	w.ActualATL = &atl
	w.UpdatedAt = now
}

func (w *Week) Activate(now time.Time) error {
	if w.Status != WeekUpcoming {
		return conflict("week", w.ID, "cannot activate week %d from %s", w.WeekNumber, w.Status)
	}
	w.Status = WeekCurrent
	w.UpdatedAt = now
	return nil
}

func (w *Week) Complete(now time.Time) error {
	if w.Status != WeekCurrent {
		return conflict("week", w.ID, "cannot complete week %d from %s", w.WeekNumber, w.Status)
	}
	w.Status = WeekCompleted
	w.UpdatedAt = now
	return nil
}

func (w *Week) Skip(now time.Time) error {
	if w.Status != WeekUpcoming && w.Status != WeekCurrent {
		return conflict("week", w.ID, "cannot skip week %d from %s", w.WeekNumber, w.Status)
	}
	w.Status = WeekSkipped
	w.UpdatedAt = now
	return nil
}
