package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/api"
	"github.com/alexanderramin/velo/internal/jobs"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var noJobs bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and scheduled resync/advance jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.ctx(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr == "" && app.Config != nil {
				addr = app.Config.Server.Address
			}
			if !noJobs && app.Config != nil {
				scheduler := jobs.New(app.Services, jobs.Schedule{
					Resync:       app.Config.Schedule.Resync,
					Advance:      app.Config.Schedule.Advance,
					LookbackDays: app.Config.Sync.LookbackDays,
				}, app.Now)
				if err := scheduler.Start(ctx); err != nil {
					return err
				}
				defer scheduler.Stop()
			}

			router := api.NewRouter(app.Services, app.Logger, app.Now)
			return api.Serve(ctx, addr, router)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&noJobs, "no-jobs", false, "Do not run scheduled jobs")
	return cmd
}
