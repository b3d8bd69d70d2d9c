package cli

import (
	"fmt"
	"strconv"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/spf13/cobra"
)

func newTrendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trend <current> <previous>",
		Short: "Compare two period values as a rounded percentage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid current value %q: %w", args[0], err)
			}
			previous, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid previous value %q: %w", args[1], err)
			}

			t := domain.CalculateTrend(current, previous)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %+d%%\n", t.Direction, t.MagnitudePercent)
			return nil
		},
	}
}
