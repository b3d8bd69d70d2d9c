// Package cli implements kansoctl, the operator tool for the fit engine.
// Most subcommands evaluate the gamification rules offline; migrate talks to Postgres.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Tests build a fresh tree per case.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "kansoctl",
		Short: "kansoctl inspects and operates the Kanso fit engine",
		Long: `kansoctl evaluates the level table, XP weights, daily scores and trends
without a running server, and applies the database schema.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "print results as JSON")

	root.AddCommand(
		newLevelCommand(),
		newXPCommand(),
		newScoreCommand(),
		newTrendCommand(),
		newAchievementsCommand(),
		newMigrateCommand(),
	)
	return root
}

// Execute runs the CLI. Called from main.go.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
