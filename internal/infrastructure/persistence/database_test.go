package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestDatabase_PingAndClose(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	db, err := Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}))
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Repositories(t *testing.T) {
	db := &Database{DB: setupTestDB(t)}
	repos := db.Repositories()
	assert.NotNil(t, repos.Orders)
	assert.NotNil(t, repos.Allocations)
	assert.NotNil(t, repos.StockBatches)
}
