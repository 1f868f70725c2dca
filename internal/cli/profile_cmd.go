package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the rider profile",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show FTP and weight",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := app.Services.Profiles.Get(app.ctx(cmd))
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProfile(p))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-ftp <watts>",
			Short: "Set FTP and re-derive stored activities",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ftp, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid FTP %q: %w", args[0], err)
				}
				p, err := app.Services.Profiles.SetFTP(app.ctx(cmd), ftp)
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "FTP set to %.0f W\n", p.FTP)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-weight <kg>",
			Short: "Set body weight",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				kg, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid weight %q: %w", args[0], err)
				}
				p, err := app.Services.Profiles.SetWeight(app.ctx(cmd), kg)
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Weight set to %.1f kg (%.2f W/kg)\n", p.WeightKg, p.WattsPerKg())
				return nil
			},
		},
	)
	return cmd
}
