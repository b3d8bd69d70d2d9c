package cli

import (
	"fmt"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/spf13/cobra"
)

type xpResult struct {
	Counts  domain.ActivityCounts `json:"counts"`
	TotalXP int                   `json:"total_xp"`
	Level   domain.Level          `json:"level"`
}

func newXPCommand() *cobra.Command {
	var counts domain.ActivityCounts

	cmd := &cobra.Command{
		Use:   "xp",
		Short: "Compute total XP from lifetime activity counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total := domain.TotalXP(counts)
			res := xpResult{Counts: counts, TotalXP: total, Level: domain.LevelFromXP(total)}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d XP (level %d %s)\n", total, res.Level.Level, res.Level.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&counts.WorkoutsCompleted, "workouts", 0, "completed workouts")
	f.IntVar(&counts.WaterGoalsMet, "water-goals", 0, "days the water target was met")
	f.IntVar(&counts.MealsLogged, "meals", 0, "meals logged")
	f.IntVar(&counts.SleepLogs, "sleep", 0, "sleep logs")
	f.IntVar(&counts.PRsAchieved, "prs", 0, "personal records")
	f.IntVar(&counts.CurrentStreakDays, "streak", 0, "current streak in days")
	return cmd
}
