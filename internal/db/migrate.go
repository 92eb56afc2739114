package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

var dialects = map[string]goose.Dialect{
	DriverSQLite:   goose.DialectSQLite3,
	DriverPostgres: goose.DialectPostgres,
}

// goose keeps dialect and base FS in package globals
var gooseMu sync.Mutex

func withGoose(driver string, fn func() error) error {
	dialect, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	err = goose.SetDialect(string(dialect))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	goose.SetBaseFS(migrations)

	return fn()
}

// RunMigrations applies every pending migration.
func RunMigrations(db *sql.DB, driver string) error {
	return withGoose(driver, func() error {
		err := goose.Up(db, ".")
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		slog.Info("migrations completed successfully", "driver", driver)
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB, driver string) error {
	return withGoose(driver, func() error {
		err := goose.Down(db, ".")
		if err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}

		slog.Info("rolled back one migration", "driver", driver)
		return nil
	})
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(db *sql.DB, driver string) error {
	return withGoose(driver, func() error {
		return goose.Status(db, ".")
	})
}
