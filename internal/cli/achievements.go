package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/spf13/cobra"
)

func newAchievementsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List the achievement catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := make([]domain.Achievement, 0, len(domain.AchievementCatalog))
			for _, a := range domain.AchievementCatalog {
				if category == "" || string(a.Category) == category {
					list = append(list, a)
				}
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), list)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tXP\tDESCRIPTION")
			for _, a := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.ID, a.Category, a.XPReward, a.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show one category")
	return cmd
}
