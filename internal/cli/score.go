package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/spf13/cobra"
)

func newScoreCommand() *cobra.Command {
	var signals domain.DaySignals

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compose a daily score from one day's signals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := domain.ComposeDailyScore(signals)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), b)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "workout\t%d/%d\n", b.Workout, domain.WorkoutScoreMax)
			fmt.Fprintf(w, "hydration\t%d/%d\n", b.Hydration, domain.HydrationScoreMax)
			fmt.Fprintf(w, "nutrition\t%d/%d\n", b.Nutrition, domain.NutritionScoreMax)
			fmt.Fprintf(w, "extras\t%d/%d\n", b.Extras, domain.ExtrasScoreMax)
			fmt.Fprintf(w, "total\t%d/100\n", b.Total)
			if b.Total >= domain.PerfectDayScore {
				fmt.Fprintln(w, "perfect day\tyes")
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.BoolVar(&signals.WorkoutCompleted, "workout", false, "a workout was completed")
	f.IntVar(&signals.WaterMl, "water-ml", 0, "water drunk in ml")
	f.IntVar(&signals.WaterTargetMl, "water-target", domain.DefaultWaterTargetMl, "daily water target in ml")
	f.IntVar(&signals.MealsLoggedCount, "meals", 0, "meals logged")
	f.BoolVar(&signals.SleepLogged, "sleep", false, "sleep was logged")
	return cmd
}
