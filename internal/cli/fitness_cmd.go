package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
	"github.com/alexanderramin/velo/internal/domain"
)

func newFitnessCmd(app *App) *cobra.Command {
	var asOf string
	var trendDays int
	var power bool

	cmd := &cobra.Command{
		Use:   "fitness",
		Short: "Show fitness, fatigue, form and fatigue risk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			at := app.now()
			if asOf != "" {
				var err error
				if at, err = parseDate("--as-of", asOf); err != nil {
					return err
				}
			}
			rep, err := app.Services.Fitness.Risk(ctx, at)
			if err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatFitness(rep))

			if trendDays > 0 {
				to := domain.TruncateDay(at)
				days, err := app.Services.Fitness.Trend(ctx, to.AddDate(0, 0, -(trendDays-1)), to)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.FormatTrend(days))
			}

			if power {
				rep, err := app.Services.Fitness.PowerProfile(ctx, at)
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.FormatPowerProfile(rep))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "Date to evaluate (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&trendDays, "trend", 0, "Also show daily load for the last N days")
	cmd.Flags().BoolVar(&power, "power", false, "Also show best efforts and the power profile")
	return cmd
}
