package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

func newProgramCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "program",
		Aliases: []string{"p"},
		Short:   "Create and run periodized training programs",
	}
	cmd.AddCommand(
		newProgramCreateCmd(app),
		newProgramListCmd(app),
		newProgramShowCmd(app),
		newProgramTransitionCmd(app, "pause", "Pause an active program", service.ProgramService.Pause),
		newProgramTransitionCmd(app, "resume", "Resume a paused program", service.ProgramService.Resume),
		newProgramTransitionCmd(app, "cancel", "Cancel a program", service.ProgramService.Cancel),
		newProgramDeleteCmd(app),
		newProgramAdvanceCmd(app),
		newProgramExportCmd(app),
	)
	return cmd
}

func newProgramCreateCmd(app *App) *cobra.Command {
	var in programInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Design a new program and plan its first week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !in.complete() {
				if !app.interactive() {
					return fmt.Errorf("--name, --target-ftp, --target-date, --hours and --sessions are required")
				}
				if err := programForm(&in).Run(); err != nil {
					return err
				}
			}
			req, err := buildCreateRequest(in, app)
			if err != nil {
				return err
			}
			view, err := app.Services.Programs.Create(app.ctx(cmd), req)
			if err != nil {
				return explain(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgram(view))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Program name")
	f.Var(newEnumValue(&in.GoalType, goalTypeNames()...), "goal", "Goal type: ftp_target, race_prep or base_building")
	f.StringVar(&in.Description, "description", "", "Goal description")
	f.StringVar(&in.TargetFTP, "target-ftp", "", "Target FTP in watts")
	f.StringVar(&in.TargetDate, "target-date", "", "Goal date (YYYY-MM-DD)")
	f.StringVar(&in.StartDate, "start", "", "Start date (YYYY-MM-DD, default today)")
	f.StringVar(&in.Hours, "hours", "", "Training hours per week")
	f.StringVar(&in.Sessions, "sessions", "", "Sessions per week")
	return cmd
}

func buildCreateRequest(in programInput, app *App) (service.CreateProgramRequest, error) {
	target, err := strconv.ParseFloat(in.TargetFTP, 64)
	if err != nil {
		return service.CreateProgramRequest{}, fmt.Errorf("invalid target FTP %q", in.TargetFTP)
	}
	hours, err := strconv.ParseFloat(in.Hours, 64)
	if err != nil {
		return service.CreateProgramRequest{}, fmt.Errorf("invalid hours %q", in.Hours)
	}
	sessions, err := strconv.Atoi(in.Sessions)
	if err != nil {
		return service.CreateProgramRequest{}, fmt.Errorf("invalid sessions %q", in.Sessions)
	}
	targetDate, err := parseDate("--target-date", in.TargetDate)
	if err != nil {
		return service.CreateProgramRequest{}, err
	}
	start := domain.TruncateDay(app.now())
	if in.StartDate != "" {
		if start, err = parseDate("--start", in.StartDate); err != nil {
			return service.CreateProgramRequest{}, err
		}
	}
	return service.CreateProgramRequest{
		Name: in.Name,
		Goal: domain.Goal{
			Type:        domain.GoalType(in.GoalType),
			Description: in.Description,
			TargetFTP:   target,
			TargetDate:  targetDate,
		},
		StartDate: start,
		Volume:    domain.Volume{HoursPerWeek: hours, SessionsPerWeek: sessions},
	}, nil
}

func newProgramListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := app.Services.Programs.List(app.ctx(cmd), all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgramList(programs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include completed and cancelled programs")
	return cmd
}

func newProgramShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <program>",
		Short: "Show a program's phases, weeks and current workouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveProgramID(ctx, app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Services.Programs.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgram(view))
			return nil
		},
	}
}

type transitionFunc func(s service.ProgramService, ctx context.Context, id string) (*domain.Program, error)

func newProgramTransitionCmd(app *App, use, short string, apply transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <program>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveProgramID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := apply(app.Services.Programs, ctx, id)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(p.Name), formatter.ProgramStatusPill(p.Status))
			return nil
		},
	}
}

func newProgramDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <program>",
		Short: "Delete a program with its weeks and workouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveProgramID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete without --yes")
				}
				if err := confirmForm("Delete this program and all of its weeks?", &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Services.Programs.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Program deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newProgramAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <program>",
		Short: "Close the current week and plan the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveProgramID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Services.Programs.Advance(ctx, id, app.now())
			if err != nil {
				return explain(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAdvance(res))
			return nil
		},
	}
}
