package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/task-gamification/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

const migrationTable = "schema_migrations"

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Apply the SQL migrations under db/migrations",
		Long:  `Apply pending migrations. --rollback reverts the latest one, --status lists applied and pending versions.`,
	}
	migrateRollback bool
	migrateStatus   bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print migration status and exit")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

// migrationCommand picks the goose command for the given flags.
func migrationCommand(rollback, status bool) (string, error) {
	switch {
	case rollback && status:
		return "", fmt.Errorf("--rollback and --status are mutually exclusive")
	case status:
		return "status", nil
	case rollback:
		return "down", nil
	}
	return "up", nil
}

func runMigration(_ *cobra.Command, _ []string) error {
	command, err := migrationCommand(migrateRollback, migrateStatus)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("goose: open db: %w", err)
	}
	defer db.Close()
	goose.SetTableName(migrationTable)

	if err := goose.RunContext(context.Background(), command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	lg.Info("migrations applied", "command", command, "version", version, "dir", migrateDir)
	return nil
}
