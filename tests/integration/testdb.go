// Package integration provides integration testing utilities for the medical
// supply tracker backend. Tests run against a real SQLite database file in a
// per-test temporary directory, with the committed migrations applied.
package integration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medsupply/backend/internal/infrastructure/config"
	"github.com/medsupply/backend/internal/infrastructure/migration"
	"github.com/medsupply/backend/internal/infrastructure/persistence"
)

// TestDB represents a test database connection
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	Path  string
	t     *testing.T
}

// NewTestDB creates a fresh SQLite database for a test. The file lives in the
// test's temporary directory, so every test starts from an empty, fully
// migrated schema and the file disappears with the test.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "medsupply_test.db")

	// Migrate over the migrator's own connection first, then hand the file
	// to GORM. Only one process holds the file at a time this way.
	runMigrations(t, path)

	db, sqlDB := connectToDatabase(t, path)

	testDB := &TestDB{
		DB:    db,
		SqlDB: sqlDB,
		Path:  path,
		t:     t,
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}
}

// CleanTables deletes all rows from every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		AND name != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error
		if err != nil {
			tdb.t.Logf("Warning: Failed to clear table %s: %v", table, err)
		}
	}
}

// WithTransaction runs a function within a transaction that is automatically
// rolled back. This is useful for tests that need to be isolated without
// clearing tables.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")

	defer func() {
		tx.Rollback()
	}()

	fn(tx)
}

// connectToDatabase opens the database file through the production connector,
// so tests run with the same pragmas and pool settings as the server
func connectToDatabase(t *testing.T, databasePath string) (*gorm.DB, *sql.DB) {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:          databasePath,
		BusyTimeoutMS: 5000,
		JournalMode:   "wal",
		ForeignKeys:   true,
	}

	// Enable statement logging if TEST_DB_DEBUG is set
	var (
		database *persistence.Database
		err      error
	)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		database, err = persistence.NewDatabaseWithLogger(cfg, gormlogger.Info)
	} else {
		database, err = persistence.NewDatabase(cfg)
	}
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := database.DB.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	return database.DB, sqlDB
}

// runMigrations applies all committed migrations to the database file
func runMigrations(t *testing.T, databasePath string) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	m, err := migration.NewFromPath(databasePath, migrationsPath, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	defer m.Close()

	require.NoError(t, m.Up(), "Failed to run migrations")
}

// findMigrationsPath locates the migrations directory
func findMigrationsPath() string {
	// Get the directory of this file
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	// Navigate from tests/integration to the repository root
	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		migrationsPath := filepath.Join(dir, "migrations")
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath
		}
		dir = filepath.Dir(dir)
	}

	// Try relative path from working directory
	if wd, err := os.Getwd(); err == nil {
		paths := []string{
			filepath.Join(wd, "migrations"),
			filepath.Join(wd, "..", "migrations"),
			filepath.Join(wd, "..", "..", "migrations"),
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	return ""
}
