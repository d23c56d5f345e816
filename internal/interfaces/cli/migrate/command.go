// Package migrate implements the `migrate` CLI command.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"beatrush/internal/infrastructure/config"
	"beatrush/internal/infrastructure/database"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/shared/logger"
)

var env string

// NewCommand creates the migrate command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Create or update all beatrush tables to match the current models.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log.Infow("running schema migration", "database", cfg.Database.Database)
	if err := database.Get().AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	log.Infow("schema migration completed")
	return nil
}
