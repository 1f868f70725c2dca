package llm

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/velo/internal/service"
)

const workoutSystemPrompt = `You are a cycling coach writing structured indoor workouts.
Reply with a single JSON object and nothing else:
{
  "name": "short workout title",
  "description": "one or two sentences for the rider",
  "steps": [
    {"label": "Warm up", "duration_sec": 600, "power_pct": 0.55}
  ]
}
power_pct is a fraction of FTP. Durations are whole seconds. Include a warm up
and a cool down. Match the requested training stress and duration closely.`

func buildWorkoutPrompt(req service.GenerationRequest) string {
	var b strings.Builder
	s := req.Slot
	fmt.Fprintf(&b, "Week %d of the %s phase, day %d.\n", req.WeekNumber, req.Phase, s.DayIndex)
	fmt.Fprintf(&b, "Session type: %s (%s).\n", s.Category, s.Intensity)
	fmt.Fprintf(&b, "Target training stress: %d. Target duration: %d minutes.\n", s.TargetStress, s.TargetDurationMin)
	if s.Instructions != "" {
		fmt.Fprintf(&b, "Coach guidance: %s\n", s.Instructions)
	}

	if len(req.ZoneEmphasis) > 0 {
		parts := make([]string, 0, len(req.ZoneEmphasis))
		for _, z := range req.ZoneEmphasis.Ordered() {
			parts = append(parts, fmt.Sprintf("%s %.0f%%", z, req.ZoneEmphasis[z]*100))
		}
		fmt.Fprintf(&b, "Weekly zone emphasis: %s.\n", strings.Join(parts, ", "))
	}

	snap := req.Snapshot
	fmt.Fprintf(&b, "Rider: FTP %.0f W, CTL %.1f, ATL %.1f, TSB %.1f.\n", snap.FTP, snap.CTL, snap.ATL, snap.TSB())

	if len(req.Feedback) > 0 {
		b.WriteString("Recent feedback on this session type (difficulty 1 easy - 5 hard):\n")
		for _, f := range req.Feedback {
			line := fmt.Sprintf("- difficulty %d, rating %d", f.Difficulty, f.Rating)
			if f.Notes != "" {
				line += ": " + f.Notes
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
