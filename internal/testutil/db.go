// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/habitkit/internal/db"
)

const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// NewDB returns a migrated in-memory SQLite database that is closed when the
// test ends.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init(db.DriverSQLite, memoryDSN)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close()
	})

	require.NoError(t, db.RunMigrations(database.DB, db.DriverSQLite))
	return database
}
