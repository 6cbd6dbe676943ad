package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"

	"order-dashboard/internal/config"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationFiles embed.FS

// MigrationManager handles database migrations
type MigrationManager struct {
	db     *sql.DB
	driver string
	logger *logrus.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB, driver string, logger *logrus.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		driver: driver,
		logger: logger,
	}
}

// MigrationInfo contains information about the applied schema version
type MigrationInfo struct {
	Version uint
	Dirty   bool
	Applied bool
}

// Up executes all pending migrations
func (m *MigrationManager) Up(ctx context.Context) error {
	m.logger.Info("Starting database migrations...")

	mg, release, err := m.initMigrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer release()

	currentVersion, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	m.logger.WithField("current_version", currentVersion).Info("Current migration version")

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithField("new_version", newVersion).Info("Migrations completed successfully")
	return nil
}

// Down rolls back the last migration
func (m *MigrationManager) Down(ctx context.Context) error {
	m.logger.Info("Rolling back last migration...")

	mg, release, err := m.initMigrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer release()

	currentVersion, _, err := mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("no migrations to rollback")
		}
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	m.logger.WithField("current_version", currentVersion).Info("Rolling back from version")

	if err := mg.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	newVersion, _, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithField("new_version", newVersion).Info("Rollback completed successfully")
	return nil
}

// Status returns the current migration status
func (m *MigrationManager) Status(ctx context.Context) (*MigrationInfo, error) {
	mg, release, err := m.initMigrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer release()

	version, dirty, err := mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return &MigrationInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{
		Version: version,
		Dirty:   dirty,
		Applied: true,
	}, nil
}

// initMigrate builds a migrate instance over the shared pool. The returned
// release func must be used instead of Migrate.Close, which would close the pool.
func (m *MigrationManager) initMigrate(ctx context.Context) (*migrate.Migrate, func(), error) {
	source, err := iofs.New(migrationFiles, "migrations/"+m.driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	var (
		driver migratedb.Driver
		closer io.Closer
	)
	switch m.driver {
	case config.DriverSQLite:
		driver, err = sqlite3.WithInstance(m.db, &sqlite3.Config{})
	case config.DriverPostgres:
		conn, connErr := m.db.Conn(ctx)
		if connErr != nil {
			source.Close()
			return nil, nil, fmt.Errorf("failed to acquire connection: %w", connErr)
		}
		closer = conn
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", m.driver)
	}

	release := func() {
		source.Close()
		if closer != nil {
			closer.Close()
		}
	}

	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, m.driver, driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return mg, release, nil
}
