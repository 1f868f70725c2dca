package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
)

const (
	// CTLTimeConstant is the chronic-load averaging period in days.
	CTLTimeConstant = 42
	// ATLTimeConstant is the acute-load averaging period in days.
	ATLTimeConstant = 7

	rampLookbackDays = 7
)

// DailyLoad is one day of the fitness trend.
type DailyLoad struct {
	Date   time.Time
	Stress float64
	CTL    float64
	ATL    float64
}

// TSB returns the day's training stress balance.
func (d DailyLoad) TSB() float64 {
	return d.CTL - d.ATL
}

// DailyStress sums activity stress per UTC calendar day.
func DailyStress(activities []*domain.Activity) map[time.Time]float64 {
	out := make(map[time.Time]float64)
	for _, a := range activities {
		out[a.Day()] += a.StressScore
	}
	return out
}

// Trend evaluates CTL and ATL day by day and returns the points in [from, to].
// The averages are seeded at zero on the earlier of from and the first
// activity; days without activities contribute zero stress.
func Trend(activities []*domain.Activity, from, to time.Time) []DailyLoad {
	from, to = domain.TruncateDay(from), domain.TruncateDay(to)
	if to.Before(from) {
		return nil
	}

	daily := DailyStress(activities)
	start := from
	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > 0 && days[0].Before(start) {
		start = days[0]
	}

	var ctl, atl float64
	var out []DailyLoad
	for d := start; !d.After(to); d = d.AddDate(0, 0, 1) {
		s := daily[d]
		ctl += (s - ctl) / CTLTimeConstant
		atl += (s - atl) / ATLTimeConstant
		if !d.Before(from) {
			out = append(out, DailyLoad{Date: d, Stress: s, CTL: ctl, ATL: atl})
		}
	}
	return out
}

// Snapshot returns the rider's fitness as of the given day. Activities that
// start after that day are ignored.
func Snapshot(ftp float64, activities []*domain.Activity, asOf time.Time) (domain.FitnessSnapshot, error) {
	if ftp <= 0 {
		return domain.FitnessSnapshot{}, fmt.Errorf("fitness snapshot with ftp %.1f: %w", ftp, domain.ErrInvalidProfile)
	}
	day := domain.TruncateDay(asOf)
	var included []*domain.Activity
	for _, a := range activities {
		if !a.Day().After(day) {
			included = append(included, a)
		}
	}

	trend := Trend(included, day.AddDate(0, 0, -rampLookbackDays), day)
	first, last := trend[0], trend[len(trend)-1]
	return domain.FitnessSnapshot{
		FTP:     ftp,
		CTL:     last.CTL,
		ATL:     last.ATL,
		CTLRamp: last.CTL - first.CTL,
		AsOf:    asOf,
	}, nil
}

// WindowTotals aggregates the activities falling inside [start, end] by day.
type WindowTotals struct {
	Stress   float64
	Hours    float64
	Sessions int
}

// Totals sums stress, hours and session count for activities on days within
// [start, end].
func Totals(activities []*domain.Activity, start, end time.Time) WindowTotals {
	start, end = domain.TruncateDay(start), domain.TruncateDay(end)
	var t WindowTotals
	for _, a := range activities {
		d := a.Day()
		if d.Before(start) || d.After(end) {
			continue
		}
		t.Stress += a.StressScore
		t.Hours += a.Hours()
		t.Sessions++
	}
	return t
}
