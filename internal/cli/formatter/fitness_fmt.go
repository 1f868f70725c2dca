package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/metrics"
	"github.com/alexanderramin/velo/internal/service"
)

// FormatProfile renders the rider profile.
func FormatProfile(p *domain.RiderProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("FTP   "), Bold(fmt.Sprintf("%.0f W", p.FTP)))
	if p.WeightKg > 0 {
		fmt.Fprintf(&b, "%s  %.1f kg (%.2f W/kg)\n", Dim("Weight"), p.WeightKg, p.WattsPerKg())
	} else {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Weight"), Dim("not set"))
	}
	return RenderBox("Rider", strings.TrimRight(b.String(), "\n"))
}

// FormatFitness renders a snapshot with its risk assessment.
func FormatFitness(rep *service.RiskReport) string {
	s := rep.Snapshot
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("As of  "), s.AsOf.Format(dateLayout))
	fmt.Fprintf(&b, "%s  %.1f  %s\n", Dim("Fitness"), s.CTL, Dim("CTL, ramp "+Signed(s.CTLRamp)+"/wk"))
	fmt.Fprintf(&b, "%s  %.1f  %s\n", Dim("Fatigue"), s.ATL, Dim("ATL"))
	fmt.Fprintf(&b, "%s  %s  %s\n", Dim("Form   "), FormStyle(s.TSB()).Render(Signed(s.TSB())), Dim("TSB"))
	fmt.Fprintf(&b, "%s  %s", Dim("Risk   "), RiskIndicator(rep.Risk.Level))
	for _, w := range rep.Risk.Warnings {
		fmt.Fprintf(&b, "\n  %s %s", StyleYellow.Render("!"), w)
	}
	return RenderBox("Fitness", b.String())
}

// FormatPowerProfile renders the power curve with records and rider type.
func FormatPowerProfile(rep *domain.PowerReport) string {
	p := rep.Profile
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Window"), rep.Since.Format(dateLayout)+" to "+rep.AsOf.Format(dateLayout))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Type  "), Bold(strings.ReplaceAll(string(p.RiderType), "_", " ")))
	if len(p.Efforts) == 0 {
		fmt.Fprintf(&b, "%s\n", Dim("No power data yet."))
	} else {
		records := make(map[string]bool, len(rep.NewRecords))
		for _, r := range rep.NewRecords {
			records[r] = true
		}
		rows := make([][]string, 0, len(p.Efforts))
		for _, e := range p.Efforts {
			best := fmt.Sprintf("%.0f", rep.AllTime[e.Label])
			if records[e.Label] {
				best = StyleGreen.Render(best + " PR")
			}
			rows = append(rows, []string{
				e.Label,
				Bold(fmt.Sprintf("%.0f W", e.Watts)),
				fmt.Sprintf("%.2f", e.WattsPerKg),
				fmt.Sprintf("%.0f%%", e.Percent),
				best,
			})
		}
		b.WriteString(RenderTable([]string{"EFFORT", "BEST", "W/KG", "REF", "ALL-TIME"}, rows))
	}
	if len(p.Weaknesses) > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Limiters"), strings.Join(p.Weaknesses, ", "))
	}
	b.WriteString(p.Recommendation)
	return RenderBox("Power profile", b.String())
}

// FormatTrend renders daily load as a table.
func FormatTrend(days []metrics.DailyLoad) string {
	if len(days) == 0 {
		return Dim("No load history.") + "\n"
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		stress := Dim("-")
		if d.Stress > 0 {
			stress = fmt.Sprintf("%.0f", d.Stress)
		}
		rows = append(rows, []string{
			d.Date.Format(dateLayout),
			stress,
			fmt.Sprintf("%.1f", d.CTL),
			fmt.Sprintf("%.1f", d.ATL),
			FormStyle(d.TSB()).Render(Signed(d.TSB())),
		})
	}
	return RenderTable([]string{"DATE", "STRESS", "CTL", "ATL", "TSB"}, rows)
}

// FormatResync summarizes one activity resync.
func FormatResync(res *service.ResyncResult) string {
	return fmt.Sprintf("%s fetched %d, %s new, %d updated, %d workouts matched, %d weeks refreshed\n",
		StyleGreen.Render("✔"), res.Fetched, Bold(fmt.Sprint(res.Created)), res.Updated, res.SlotsCompleted, res.WeeksUpdated)
}

// FormatActivities renders stored rides.
func FormatActivities(as []*domain.Activity) string {
	if len(as) == 0 {
		return Dim("No activities in range.") + "\n"
	}
	rows := make([][]string, 0, len(as))
	for _, a := range as {
		rows = append(rows, []string{
			a.StartedAt.Format("2006-01-02 15:04"),
			orDash(a.Name),
			fmt.Sprintf("%d min", a.DurationSeconds/60),
			fmt.Sprintf("%.0f", a.NormalizedPower),
			fmt.Sprintf("%.2f", a.IntensityFactor),
			Bold(fmt.Sprintf("%.0f", a.StressScore)),
		})
	}
	return RenderTable([]string{"STARTED", "NAME", "TIME", "NP", "IF", "STRESS"}, rows)
}

// FormatFeedback renders recent workout feedback.
func FormatFeedback(items []*domain.WorkoutFeedback) string {
	if len(items) == 0 {
		return Dim("No feedback recorded.") + "\n"
	}
	rows := make([][]string, 0, len(items))
	for _, f := range items {
		rows = append(rows, []string{
			f.CreatedAt.Format(dateLayout),
			orDash(string(f.Category)),
			fmt.Sprintf("%d/5", f.Difficulty),
			fmt.Sprintf("%d/5", f.Rating),
			orDash(f.Notes),
		})
	}
	return RenderTable([]string{"DATE", "CATEGORY", "DIFFICULTY", "RATING", "NOTES"}, rows)
}
