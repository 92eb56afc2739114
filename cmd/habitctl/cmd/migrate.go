package cmd

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/habitkit/internal/config"
	"github.com/templui/habitkit/internal/db"
	"github.com/templui/habitkit/internal/logger"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(migrateStep("up", "Apply all pending migrations", db.RunMigrations))
	cmd.AddCommand(migrateStep("down", "Roll back the latest migration", db.MigrateDown))
	cmd.AddCommand(migrateStep("status", "Show migration status", db.MigrationStatus))
	return cmd
}

func migrateStep(use, short string, fn func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			return fn(database.DB, cfg.DBDriver)
		},
	}
}

// open loads config and connects without running migrations.
func open() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), "", cfg.AppEnv)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}
