package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/config"
	"github.com/alexanderramin/velo/internal/service"
)

// App holds what the commands need: the services, the dependencies they
// were built from (so a command can rebuild them with another activity
// source), and the loaded configuration.
type App struct {
	Services *service.Services
	Deps     service.Deps
	Config   *config.Config
	Logger   zerolog.Logger

	// IsInteractive reports whether stdin is a terminal; forms are only
	// offered when it is.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// ctx returns a context carrying the app logger.
func (a *App) ctx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return a.Logger.WithContext(ctx)
}

// NewRootCmd creates the top-level "velo" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "velo",
		Short:         "Cycling training load and periodization planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProfileCmd(app),
		newFitnessCmd(app),
		newSyncCmd(app),
		newActivitiesCmd(app),
		newProgramCmd(app),
		newWeekCmd(app),
		newSlotCmd(app),
		newFeedbackCmd(app),
		newServeCmd(app),
	)
	return root
}
