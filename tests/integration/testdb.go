// Package integration runs the order allocation workflow against real
// PostgreSQL and Redis containers started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/masala/backend/internal/infrastructure/migration"
	"github.com/masala/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
)

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
}

// NewTestDB starts a PostgreSQL container, applies the embedded
// migrations and returns a connection to it
func NewTestDB(t *testing.T) *persistence.Database {
	t.Helper()
	skipShort(t)
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("masala_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("masala"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := persistence.Open(gormpostgres.Open(dsn))
	require.NoError(t, err, "Failed to connect to PostgreSQL")
	t.Cleanup(func() { _ = db.Close() })

	migrateDB, err := persistence.Open(gormpostgres.Open(dsn))
	require.NoError(t, err)
	sqlDB, err := migrateDB.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to apply migrations")
	// closes migrateDB as well
	require.NoError(t, m.Close())

	return db
}

// NewTestRedis starts a Redis container and returns a client for it
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	skipShort(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}
