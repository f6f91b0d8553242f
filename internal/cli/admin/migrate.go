package admin

import (
	"fmt"

	"github.com/cloo-solutions/feedback/internal/config"
	"github.com/cloo-solutions/feedback/internal/database"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			dir, _ := cmd.Flags().GetString("migrations-dir")
			return runMigrations(cfg.DatabaseURL, dir)
		},
	}

	cmd.Flags().String("migrations-dir", defaultMigrationsDir, "Directory holding the SQL migrations")

	return cmd
}

func runMigrations(databaseURL, dir string) error {
	log := logger.Named("migrate")

	result, err := database.Migrate(databaseURL, dir)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	switch {
	case result.Version == 0:
		log.Info("migrations: no migrations found")
	case result.Applied:
		log.Infow("migrations: applied successfully", "version", result.Version)
	default:
		log.Infow("migrations: database is up to date", "version", result.Version)
	}
	return nil
}
