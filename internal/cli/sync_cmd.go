package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/fitfile"
	"github.com/alexanderramin/velo/internal/service"
)

const defaultLookbackDays = 42

func (a *App) lookbackDays() int {
	if a.Config != nil && a.Config.Sync.LookbackDays > 0 {
		return a.Config.Sync.LookbackDays
	}
	return defaultLookbackDays
}

func newSyncCmd(app *App) *cobra.Command {
	var from, to, dir string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import rides and refresh load metrics and week actuals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end := domain.TruncateDay(app.now()).AddDate(0, 0, 1)
			start := end.AddDate(0, 0, -app.lookbackDays())
			var err error
			if to != "" {
				if end, err = parseDate("--to", to); err != nil {
					return err
				}
			}
			if from != "" {
				if start, err = parseDate("--from", from); err != nil {
					return err
				}
			}

			svc := app.Services
			if dir != "" {
				workers := 1
				if app.Config != nil {
					workers = app.Config.Sync.Workers
				}
				d := app.Deps
				d.Source = fitfile.NewDirSource(dir, workers)
				svc = service.New(d)
			}
			res, err := svc.Activities.Resync(app.ctx(cmd), start, end)
			if err != nil {
				return explain(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResync(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start of the window (YYYY-MM-DD, default lookback days ago)")
	cmd.Flags().StringVar(&to, "to", "", "End of the window, exclusive (YYYY-MM-DD, default tomorrow)")
	cmd.Flags().StringVar(&dir, "dir", "", "Read FIT files from this directory instead of the configured one")
	return cmd
}

func newActivitiesCmd(app *App) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List stored rides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end := domain.TruncateDay(app.now()).AddDate(0, 0, 1)
			list, err := app.Services.Activities.List(app.ctx(cmd), end.AddDate(0, 0, -days), end)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivities(list))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 14, "How many days back to list")
	return cmd
}
