package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"order-dashboard/internal/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// HealthStatus is the result of a database health check
type HealthStatus struct {
	Healthy      bool              `json:"healthy"`
	Message      string            `json:"message"`
	ResponseTime time.Duration     `json:"response_time"`
	CheckedAt    time.Time         `json:"checked_at"`
	Details      map[string]string `json:"details,omitempty"`
}

// ConnectionManager manages the database connection
type ConnectionManager struct {
	config config.DatabaseConfig
	logger *logrus.Logger
	db     *sql.DB
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(cfg config.DatabaseConfig, logger *logrus.Logger) *ConnectionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionManager{
		config: cfg,
		logger: logger,
	}
}

// Connect opens the database and, when enabled, applies pending migrations
func (cm *ConnectionManager) Connect(ctx context.Context) error {
	if cm.db != nil {
		return fmt.Errorf("database connection already established")
	}

	if err := cm.config.EnsureDirectories(); err != nil {
		return err
	}

	db, err := sql.Open(cm.config.Driver, buildDSN(cm.config))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cm.config.MaxOpenConns)
	db.SetMaxIdleConns(cm.config.MaxIdleConns)
	if cm.config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cm.config.ConnMaxLifetime)
	}

	retry := DefaultRetryConfig()
	if cm.config.ConnectAttempts > 0 {
		retry.MaxAttempts = cm.config.ConnectAttempts
	}
	err = WithRetry(ctx, retry, func(ctx context.Context) error {
		err := db.PingContext(ctx)
		if err != nil {
			cm.logger.WithError(err).Warn("Database ping failed")
		}
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db

	if cm.config.AutoMigrate {
		if err := cm.GetMigrationManager().Up(ctx); err != nil {
			cm.db = nil
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cm.logger.WithField("driver", cm.config.Driver).Info("Database connection established")
	return nil
}

// buildDSN appends the connection options the store relies on
func buildDSN(cfg config.DatabaseConfig) string {
	if cfg.Driver != config.DriverSQLite {
		return cfg.DSN
	}

	options := []string{"_foreign_keys=on", "_busy_timeout=5000"}
	if !strings.Contains(cfg.DSN, "memory") {
		options = append(options, "_journal_mode=WAL")
	}

	sep := "?"
	if strings.Contains(cfg.DSN, "?") {
		sep = "&"
	}
	return cfg.DSN + sep + strings.Join(options, "&")
}

// Driver returns the configured driver name
func (cm *ConnectionManager) Driver() string {
	return cm.config.Driver
}

// GetDB returns the database connection
func (cm *ConnectionManager) GetDB() *sql.DB {
	return cm.db
}

// Close closes the database connection
func (cm *ConnectionManager) Close() error {
	if cm.db == nil {
		return nil
	}

	err := cm.db.Close()
	cm.db = nil

	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	cm.logger.Info("Database connection closed")
	return nil
}

// Ping tests the database connection
func (cm *ConnectionManager) Ping(ctx context.Context) error {
	if cm.db == nil {
		return fmt.Errorf("database connection not established")
	}

	if err := cm.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// GetMigrationManager returns a migration manager for this connection
func (cm *ConnectionManager) GetMigrationManager() *MigrationManager {
	if cm.db == nil {
		return nil
	}

	return NewMigrationManager(cm.db, cm.config.Driver, cm.logger)
}

// HealthCheck performs a comprehensive health check
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := cm.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	if cm.config.Driver == config.DriverSQLite {
		var fkEnabled int
		if err := cm.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
			return fmt.Errorf("failed to check foreign key status: %w", err)
		}
		if fkEnabled != 1 {
			return fmt.Errorf("foreign keys are not enabled")
		}
	}

	return nil
}

// GetHealthStatus returns detailed health status
func (cm *ConnectionManager) GetHealthStatus(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		CheckedAt: start,
		Details:   make(map[string]string),
	}

	err := cm.HealthCheck(ctx)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.Message = err.Error()
		return status
	}

	status.Healthy = true
	status.Message = "Database is healthy"

	stats := cm.db.Stats()
	status.Details["driver"] = cm.config.Driver
	status.Details["open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
	status.Details["in_use"] = fmt.Sprintf("%d", stats.InUse)
	status.Details["idle"] = fmt.Sprintf("%d", stats.Idle)
	status.Details["wait_count"] = fmt.Sprintf("%d", stats.WaitCount)

	return status
}
