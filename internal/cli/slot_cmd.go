package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
)

func newSlotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Work with planned workout slots",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate <slot-id>",
		Short: "Generate the structured workout for a planned slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			res, err := app.Services.Workouts.Generate(ctx, resolveSlotID(ctx, app, args[0]))
			if err != nil {
				return explain(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenerate(res))
			return nil
		},
	})
	return cmd
}
