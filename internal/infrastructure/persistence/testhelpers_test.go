package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/masala/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with every model migrated.
// The pool is pinned to one connection so all queries see the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.DB.AutoMigrate(models.All()...))
	return db.DB
}

// newMockDB returns a postgres-dialect GORM handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	db, err := Open(dialector)
	require.NoError(t, err)
	return db.DB, mock, mockDB
}
