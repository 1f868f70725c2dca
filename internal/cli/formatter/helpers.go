package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	dateLayout  = "2006-01-02"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

// RenderCompliance renders actual over planned load as [████░░] 64%. Bars
// over 100% are capped; the percentage is not. Green from 90%, yellow from
// 70%, red below.
func RenderCompliance(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	width = max(width, 2)
	filled := min(int(ratio*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case ratio < 0.70:
		style = StyleRed
	case ratio < 0.90:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), ratio*100)
}

// Signed formats v with an explicit sign.
func Signed(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}
