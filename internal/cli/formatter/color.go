package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/velo/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RiskIndicator returns a colored fatigue-risk label such as "● HIGH".
func RiskIndicator(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskHigh:
		return StyleRed.Render("● HIGH")
	case domain.RiskMedium:
		return StyleYellow.Render("● MEDIUM")
	case domain.RiskLow:
		return StyleBlue.Render("● LOW")
	case domain.RiskNone:
		return StyleGreen.Render("● NONE")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// FormStyle colors a TSB value: fresh is green, heavy fatigue red.
func FormStyle(tsb float64) lipgloss.Style {
	switch {
	case tsb < -20:
		return StyleRed
	case tsb < -10:
		return StyleYellow
	case tsb > 15:
		return StyleBlue
	default:
		return StyleGreen
	}
}

func ProgramStatusPill(status domain.ProgramStatus) string {
	switch status {
	case domain.ProgramActive:
		return StyleGreen.Render("● Active")
	case domain.ProgramPaused:
		return StyleYellow.Render("○ Paused")
	case domain.ProgramCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProgramCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

func WeekStatusPill(status domain.WeekStatus) string {
	switch status {
	case domain.WeekCurrent:
		return StyleGreen.Render("● Current")
	case domain.WeekUpcoming:
		return StyleBlue.Render("○ Upcoming")
	case domain.WeekCompleted:
		return StyleDim.Render("✔ Done")
	case domain.WeekSkipped:
		return StyleDim.Render("⊘ Skipped")
	default:
		return StyleDim.Render(string(status))
	}
}

func SlotStatusPill(status domain.SlotStatus) string {
	switch status {
	case domain.SlotPlanned:
		return StyleBlue.Render("○ Planned")
	case domain.SlotGenerated:
		return StyleGreen.Render("◆ Generated")
	case domain.SlotCompleted:
		return StyleDim.Render("✔ Ridden")
	case domain.SlotSkipped:
		return StyleDim.Render("⊘ Skipped")
	default:
		return StyleDim.Render(string(status))
	}
}

// IntensityBadge colors a slot intensity.
func IntensityBadge(i domain.Intensity) string {
	switch i {
	case domain.IntensityHard:
		return StyleRed.Render("hard")
	case domain.IntensityModerate:
		return StyleYellow.Render("moderate")
	default:
		return StyleGreen.Render(string(i))
	}
}

// PhaseBadge returns a capitalized, purple phase label.
func PhaseBadge(p domain.PhaseName) string {
	if p == "" {
		return StyleDim.Render("--")
	}
	s := string(p)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
