package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/masala/backend/migrations"
	"go.uber.org/zap"
)

// Migrator applies the SQL schema migrations using golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator for db. An empty migrationsPath uses the
// migrations compiled into the binary.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	var m *migrate.Migrate
	if migrationsPath == "" {
		src, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("applying migrations")
	return m.run("up", m.migrate.Up)
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Info("rolling back migrations")
	return m.run("down", m.migrate.Down)
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	m.logger.Info("applying migration steps", zap.Int("steps", n))
	return m.run("steps", func() error { return m.migrate.Steps(n) })
}

// GoTo migrates to a specific version
func (m *Migrator) GoTo(version uint) error {
	m.logger.Info("migrating to version", zap.Uint("target_version", version))
	return m.run("goto", func() error { return m.migrate.Migrate(version) })
}

func (m *Migrator) run(op string, fn func() error) error {
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("schema already up to date", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("migration finished",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the current migration version; zero means nothing applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the migration version without running migrations.
// Only for clearing a dirty state after a failed migration was fixed by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close closes the migrator and releases resources
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
