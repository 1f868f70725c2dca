package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

const complianceBarWidth = 10

// FormatProgramList renders programs as a table.
func FormatProgramList(programs []*domain.Program) string {
	if len(programs) == 0 {
		return Dim("No programs. Create one with `velo program create`.") + "\n"
	}
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		weeks := Dim("--")
		if p.Skeleton != nil {
			weeks = fmt.Sprintf("%d", p.Skeleton.TotalWeeks)
		}
		rows = append(rows, []string{
			Dim(shortID(p.ID)),
			Bold(p.Name),
			string(p.Goal.Type),
			fmt.Sprintf("%.0f → %.0f W", p.Goal.StartFTP, p.Goal.TargetFTP),
			weeks,
			p.StartDate.Format(dateLayout),
			ProgramStatusPill(p.Status),
		})
	}
	return RenderTable([]string{"ID", "NAME", "GOAL", "FTP", "WEEKS", "START", "STATUS"}, rows)
}

// FormatProgram renders a program with its phases, week overview and the
// current week's workouts.
func FormatProgram(v *service.ProgramView) string {
	p := v.Program
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Bold(p.Name), ProgramStatusPill(p.Status))
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%s · %.0f → %.0f W by %s · %.1f h/wk, %d sessions · id %s",
		p.Goal.Type, p.Goal.StartFTP, p.Goal.TargetFTP, p.Goal.TargetDate.Format(dateLayout),
		p.Volume.HoursPerWeek, p.Volume.SessionsPerWeek, shortID(p.ID))))

	if p.Skeleton != nil {
		b.WriteString("\n" + Header("Phases") + "\n")
		for _, ph := range p.Skeleton.Phases {
			fmt.Fprintf(&b, "%-8s %s  %s  %s\n",
				PhaseBadge(ph.Name),
				Dim(fmt.Sprintf("wk %2d-%-2d", ph.StartWeek, ph.EndWeek)),
				fmt.Sprintf("%3.0f-%3.0f stress", ph.Stress.Min, ph.Stress.Max),
				Dim(ph.Purpose))
		}
		if n := len(p.Skeleton.Citations); n > 0 {
			fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("informed by %d reference passages", n)))
		}
	}

	b.WriteString("\n" + Header("Weeks") + "\n")
	b.WriteString(FormatWeekTable(v.Weeks))

	if v.Current != nil {
		b.WriteString("\n" + FormatWeek(v.Current))
	}
	return b.String()
}

// FormatWeekTable renders one row per week with planned and actual load.
func FormatWeekTable(weeks []*domain.Week) string {
	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		target := Dim("--")
		if w.Planned() {
			target = fmt.Sprintf("%.0f", w.TargetStress)
		}
		actual, compliance := Dim("--"), ""
		if w.ActualStress != nil {
			actual = fmt.Sprintf("%.0f", *w.ActualStress)
		}
		if c, ok := w.Compliance(); ok {
			compliance = RenderCompliance(c, complianceBarWidth)
		}
		label := PhaseBadge(w.Phase)
		if w.IsRecovery {
			label += Dim(" (rec)")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", w.WeekNumber),
			w.StartDate.Format(dateLayout),
			label,
			target,
			actual,
			compliance,
			WeekStatusPill(w.Status),
		})
	}
	return RenderTable([]string{"WK", "START", "PHASE", "TARGET", "ACTUAL", "COMPLIANCE", "STATUS"}, rows)
}

// FormatWeek renders a planned week with its slots and notes.
func FormatWeek(v *service.WeekView) string {
	w := v.Week
	var b strings.Builder
	title := fmt.Sprintf("Week %d · %s", w.WeekNumber, w.Phase)
	if w.IsRecovery {
		title += " · recovery"
	}
	b.WriteString(Header(title) + "\n")
	if !w.Planned() {
		b.WriteString(Dim("Not planned yet.") + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%s %.0f stress · %.1f h · %d sessions   %s\n",
		Dim("target"), w.TargetStress, w.TargetHours, w.TargetSessions, formatZones(w.ZoneEmphasis))

	slots := append([]*domain.WorkoutSlot(nil), v.Slots...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].DayIndex < slots[j].DayIndex })
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{
			w.StartDate.AddDate(0, 0, s.DayIndex-1).Format("Mon 02"),
			string(s.Category),
			IntensityBadge(s.Intensity),
			fmt.Sprintf("%d", s.TargetStress),
			fmt.Sprintf("%d min", s.TargetDurationMin),
			SlotStatusPill(s.Status),
			Dim(shortID(s.ID)),
		})
	}
	b.WriteString(RenderTable([]string{"DAY", "WORKOUT", "INTENSITY", "STRESS", "TIME", "STATUS", "SLOT"}, rows))

	if w.CoachingNotes != "" {
		fmt.Fprintf(&b, "\n%s\n", w.CoachingNotes)
	}
	if w.AdaptationNotes != "" {
		fmt.Fprintf(&b, "%s %s\n", StyleYellow.Render("adapted:"), w.AdaptationNotes)
	}
	for _, s := range slots {
		if s.ValidationWarnings != "" {
			fmt.Fprintf(&b, "%s %s: %s\n", StyleYellow.Render("!"), shortID(s.ID), s.ValidationWarnings)
		}
	}
	return b.String()
}

// FormatAdvance summarizes a week transition.
func FormatAdvance(res *service.AdvanceResult) string {
	var b strings.Builder
	closed := res.Closed
	verb := "completed"
	if closed.Status == domain.WeekSkipped {
		verb = "skipped"
	}
	fmt.Fprintf(&b, "Week %d %s", closed.WeekNumber, verb)
	if c, ok := closed.Compliance(); ok {
		fmt.Fprintf(&b, " %s", RenderCompliance(c, complianceBarWidth))
	}
	b.WriteString("\n")
	switch {
	case res.ProgramCompleted:
		b.WriteString(StyleGreen.Render("✔ Program complete.") + "\n")
	case res.Current != nil:
		b.WriteString("\n" + FormatWeek(res.Current))
	}
	return b.String()
}

// FormatGenerate summarizes a generated workout.
func FormatGenerate(res *service.GenerateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", StyleGreen.Render("✔"), Bold(res.Workout.Name),
		Dim(fmt.Sprintf("%.0f stress · %d min", res.Workout.ActualStress, res.Workout.ActualDurationMin)))
	fmt.Fprintf(&b, "%s %s\n", Dim("saved to"), res.Workout.ArtifactRef)
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "%s %s\n", StyleYellow.Render("!"), w)
	}
	return b.String()
}

func formatZones(z domain.ZoneWeights) string {
	parts := make([]string, 0, len(z))
	for _, zone := range z.Ordered() {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", zone, z[zone]*100))
	}
	return Dim(strings.Join(parts, " · "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
