// Package testutil provides common test utilities for the back-office backend.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/masala/backend/internal/infrastructure/persistence"
	"github.com/masala/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens an in-memory SQLite database with every model migrated.
// The pool is pinned to one connection so all queries see the same database.
func NewSQLiteDB(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.DB.AutoMigrate(models.All()...))
	return db
}

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context cancelled when the test ends or after timeout
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// AssertEventually retries condition until it passes or timeout elapses
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	t.Fatalf("Condition not met within %v: %v", timeout, msgAndArgs)
}
