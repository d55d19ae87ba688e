package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/masala/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// Option customizes the GORM configuration used by NewDatabase
type Option func(*gorm.Config)

// WithLogger replaces GORM's default logger
func WithLogger(l gormlogger.Interface) Option {
	return func(c *gorm.Config) {
		c.Logger = l
	}
}

// NewDatabase opens a PostgreSQL connection pool and verifies it with a ping
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	db, err := Open(postgres.Open(cfg.DSN()), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open wraps any GORM dialector; tests pass sqlite or sqlmock-backed dialectors
func Open(dialector gorm.Dialector, opts ...Option) (*Database, error) {
	gcfg := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	}
	for _, opt := range opts {
		opt(gcfg)
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}
	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Repositories bundles the GORM repositories sharing one connection
type Repositories struct {
	Orders       *GormOrderRepository
	Allocations  *GormAllocationRepository
	StockBatches *GormStockBatchRepository
}

// Repositories builds every repository on this connection
func (d *Database) Repositories() Repositories {
	return Repositories{
		Orders:       NewGormOrderRepository(d.DB),
		Allocations:  NewGormAllocationRepository(d.DB),
		StockBatches: NewGormStockBatchRepository(d.DB),
	}
}
