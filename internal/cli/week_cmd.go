package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
)

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Inspect or plan a program week",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <program> <week>",
			Short: "Show a week's targets and workouts",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := app.ctx(cmd)
				id, n, err := weekArgs(cmd, app, args)
				if err != nil {
					return err
				}
				view, err := app.Services.Programs.GetWeek(ctx, id, n)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(view))
				return nil
			},
		},
		&cobra.Command{
			Use:   "plan <program> <week>",
			Short: "Plan the current week if it has no workouts yet",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, n, err := weekArgs(cmd, app, args)
				if err != nil {
					return err
				}
				view, err := app.Services.Programs.PlanWeek(app.ctx(cmd), id, n)
				if err != nil {
					return explain(err)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(view))
				return nil
			},
		},
	)
	return cmd
}

func weekArgs(cmd *cobra.Command, app *App, args []string) (string, int, error) {
	id, err := resolveProgramID(app.ctx(cmd), app, args[0])
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("week must be a positive number, got %q", args[1])
	}
	return id, n, nil
}
