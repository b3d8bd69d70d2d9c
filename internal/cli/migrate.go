package cli

import (
	"fmt"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := repository.NewPostgresDB(cfg.Database.Driver, cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := repository.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("schema applied", zap.String("database", cfg.Database.Name))
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")
	return cmd
}
