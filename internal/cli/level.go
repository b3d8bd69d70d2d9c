package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/spf13/cobra"
)

type levelResult struct {
	XP            int          `json:"xp"`
	Level         domain.Level `json:"level"`
	XPToNextLevel int          `json:"xp_to_next_level"`
	Progress      float64      `json:"progress_percent"`
	IsMaxLevel    bool         `json:"is_max_level"`
}

func newLevelCommand() *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "level [xp]",
		Short: "Resolve the level for an XP total, or print the level table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if table || len(args) == 0 {
				return printLevelTable(cmd)
			}

			xp, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid xp %q: %w", args[0], err)
			}

			level := domain.LevelFromXP(xp)
			res := levelResult{
				XP:            xp,
				Level:         level,
				XPToNextLevel: domain.XPToNextLevel(xp),
				Progress:      domain.LevelProgress(xp),
				IsMaxLevel:    domain.IsMaxLevel(level),
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Level %d %s\n", level.Level, level.Name)
			if res.IsMaxLevel {
				fmt.Fprintln(out, "Max level reached")
				return nil
			}
			next := domain.NextLevel(level)
			fmt.Fprintf(out, "%d XP to %s (%.1f%%)\n", res.XPToNextLevel, next.Name, res.Progress)
			return nil
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "print the full level table")
	return cmd
}

func printLevelTable(cmd *cobra.Command) error {
	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), domain.Levels)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tNAME\tMIN XP\tMAX XP")
	for _, l := range domain.Levels {
		upper := strconv.Itoa(l.MaxXP)
		if domain.IsMaxLevel(l) {
			upper = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", l.Level, l.Name, l.MinXP, upper)
	}
	return w.Flush()
}
