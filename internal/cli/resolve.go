package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/repository"
)

const dateLayout = "2006-01-02"

// resolveProgramID accepts a full id, a unique id prefix or a case-insensitive
// program name.
func resolveProgramID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("program id is required")
	}
	programs, err := app.Services.Programs.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, p := range programs {
		if p.ID == input {
			return p.ID, nil
		}
	}
	var matches []string
	for _, p := range programs {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	if len(matches) == 0 {
		for _, p := range programs {
			if strings.EqualFold(p.Name, input) {
				matches = append(matches, p.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("program %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("program %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSlotID expands a slot id prefix within the current weeks of active
// programs; anything else is passed through unchanged.
func resolveSlotID(ctx context.Context, app *App, input string) string {
	programs, err := app.Services.Programs.List(ctx, false)
	if err != nil {
		return input
	}
	var matches []string
	for _, p := range programs {
		view, err := app.Services.Programs.Get(ctx, p.ID)
		if err != nil || view.Current == nil {
			continue
		}
		for _, s := range view.Current.Slots {
			if strings.HasPrefix(s.ID, input) {
				matches = append(matches, s.ID)
			}
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}
	return input
}

func parseDate(flag, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, use YYYY-MM-DD: %w", flag, raw, domain.ErrInvalidInput)
	}
	return t, nil
}

// explain appends an actionable hint to well-known service errors.
func explain(err error) error {
	var infeasible *domain.InfeasibleGoalError
	switch {
	case errors.As(err, &infeasible):
		return fmt.Errorf("%w\nhint: move the target date out to at least %d weeks, lower the target FTP, or add training hours", err, infeasible.MinWeeks)
	case errors.Is(err, domain.ErrInvalidProfile):
		return fmt.Errorf("%w\nhint: set your FTP with `velo profile set-ftp <watts>`", err)
	case domain.IsRetryable(err):
		return fmt.Errorf("%w\nhint: nothing was changed; retry once the service is reachable", err)
	}
	return err
}
