package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/velo/internal/cli/formatter"
)

func veloHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// programInput holds the raw strings collected by flags or the form.
type programInput struct {
	Name        string
	GoalType    string
	Description string
	TargetFTP   string
	TargetDate  string
	StartDate   string
	Hours       string
	Sessions    string
}

func (in programInput) complete() bool {
	return in.Name != "" && in.TargetFTP != "" && in.TargetDate != "" && in.Hours != "" && in.Sessions != ""
}

// programForm prompts for the fields of a new program, prefilled with in.
func programForm(in *programInput) *huh.Form {
	if in.GoalType == "" {
		in.GoalType = "ftp_target"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Program name").Value(&in.Name).Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Goal").
				Options(
					huh.NewOption("Raise FTP", "ftp_target"),
					huh.NewOption("Prepare for a race", "race_prep"),
					huh.NewOption("Build aerobic base", "base_building"),
				).
				Value(&in.GoalType),
			huh.NewInput().Title("Description").Placeholder("optional").Value(&in.Description),
		),
		huh.NewGroup(
			huh.NewInput().Title("Target FTP (W)").Placeholder("280").Value(&in.TargetFTP).Validate(validatePositiveFloat),
			huh.NewInput().Title("Target date (YYYY-MM-DD)").Value(&in.TargetDate).Validate(validateDate),
			huh.NewInput().Title("Start date (YYYY-MM-DD, blank for today)").Value(&in.StartDate).Validate(validateOptionalDate),
		),
		huh.NewGroup(
			huh.NewInput().Title("Hours per week").Placeholder("8").Value(&in.Hours).Validate(validatePositiveFloat),
			huh.NewInput().Title("Sessions per week").Placeholder("4").Value(&in.Sessions).Validate(validatePositiveInt),
		),
	).WithTheme(veloHuhTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(result),
		),
	).WithTheme(veloHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	return validateDate(s)
}
