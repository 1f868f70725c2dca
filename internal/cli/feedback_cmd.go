package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/velo/internal/cli/formatter"
	"github.com/alexanderramin/velo/internal/domain"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record how workouts felt",
	}
	cmd.AddCommand(newFeedbackAddCmd(app), newFeedbackListCmd(app))
	return cmd
}

func newFeedbackAddCmd(app *App) *cobra.Command {
	var slot, category, notes string
	var difficulty, rating int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add feedback for a workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			f := &domain.WorkoutFeedback{
				Category:   domain.WorkoutCategory(category),
				Difficulty: difficulty,
				Rating:     rating,
				Notes:      notes,
			}
			if slot != "" {
				id := resolveSlotID(ctx, app, slot)
				f.SlotID = &id
			}
			if err := app.Services.Feedback.Add(ctx, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s feedback\n", orUncategorized(string(f.Category)))
			return nil
		},
	}
	cmd.Flags().StringVar(&slot, "slot", "", "Slot the feedback refers to")
	cmd.Flags().Var(newEnumValue(&category, categoryNames()...), "category", "Workout category (defaults to the slot's)")
	cmd.Flags().IntVar(&difficulty, "difficulty", 3, "1 = too easy, 5 = too hard")
	cmd.Flags().IntVar(&rating, "rating", 3, "Overall rating 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func newFeedbackListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Services.Feedback.ListRecent(app.ctx(cmd), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeedback(items))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum entries")
	return cmd
}

func orUncategorized(s string) string {
	if s == "" {
		return "uncategorized"
	}
	return s
}
