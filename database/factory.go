/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/uptrace/bun"
)

var supportedTypes = []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}

// BaseDatabaseFactory creates and manages a configured database manager and
// provides helpers for initialization, health checks, and statistics.
type BaseDatabaseFactory struct {
	manager AbstractDatabaseManager
	logger  Logger
}

// NewDatabaseFactory returns a new database factory using the global logger.
func NewDatabaseFactory() *BaseDatabaseFactory {
	return &BaseDatabaseFactory{
		logger: GetLogger(),
	}
}

// CreateFromConfig constructs a database manager from the given connection
// configuration, applying environment overrides and setting the factory logger.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	// Override sensitive config from environment variables
	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	supported := false
	for _, t := range supportedTypes {
		if cfg.Type == t {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
	}

	manager := NewDatabaseManager(cfg)
	manager.SetLogger(f.logger)

	f.manager = manager
	return manager, nil
}

// connectionEnv lists the environment variables that override a
// ConnectionConfig. Unset variables leave the pointer nil.
type connectionEnv struct {
	Type              *string        `env:"DB_TYPE"`
	Host              *string        `env:"DB_HOST"`
	Port              *int           `env:"DB_PORT"`
	Username          *string        `env:"DB_USERNAME"`
	Password          *string        `env:"DB_PASSWORD"`
	DBName            *string        `env:"DB_NAME"`
	SSLMode           *string        `env:"DB_SSLMODE"`
	MaxIdleConns      *int           `env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns      *int           `env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime   *time.Duration `env:"DB_CONN_MAX_LIFETIME"`
	EnableReconnect   *bool          `env:"DB_ENABLE_RECONNECT"`
	ReconnectInterval *time.Duration `env:"DB_RECONNECT_INTERVAL"`
	EnableQueryLog    *bool          `env:"DB_ENABLE_QUERY_LOG"`
	SlowQueryTime     *time.Duration `env:"DB_SLOW_QUERY_TIME"`
	EnableTracing     *bool          `env:"DB_ENABLE_TRACING"`
	EnableMetrics     *bool          `env:"DB_ENABLE_METRICS"`
}

// ApplyEnvOverrides overwrites cfg fields whose DB_* variable is set.
// Durations use time.ParseDuration syntax ("30s", "1h").
func ApplyEnvOverrides(cfg *ConnectionConfig) error {
	var e connectionEnv
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse database env: %w", err)
	}
	setIf(&cfg.Type, e.Type)
	setIf(&cfg.Host, e.Host)
	setIf(&cfg.Port, e.Port)
	setIf(&cfg.Username, e.Username)
	setIf(&cfg.Password, e.Password)
	setIf(&cfg.DBName, e.DBName)
	setIf(&cfg.SSLMode, e.SSLMode)
	setIf(&cfg.MaxIdleConns, e.MaxIdleConns)
	setIf(&cfg.MaxOpenConns, e.MaxOpenConns)
	setIf(&cfg.ConnMaxLifetime, e.ConnMaxLifetime)
	setIf(&cfg.EnableReconnect, e.EnableReconnect)
	setIf(&cfg.ReconnectInterval, e.ReconnectInterval)
	setIf(&cfg.EnableQueryLog, e.EnableQueryLog)
	setIf(&cfg.SlowQueryTime, e.SlowQueryTime)
	setIf(&cfg.EnableTracing, e.EnableTracing)
	setIf(&cfg.EnableMetrics, e.EnableMetrics)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// InitializeDatabase connects to the database and optionally runs migrations.
func (f *BaseDatabaseFactory) InitializeDatabase(ctx context.Context, runMigrations bool) error {
	if f.manager == nil {
		return fmt.Errorf("database manager not created")
	}

	// Connect to database
	if err := f.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	// Run migrations
	if runMigrations {
		if err := f.manager.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	f.logger.Info("Database initialization completed!")
	return nil
}

// GetManager returns the underlying database manager.
func (f *BaseDatabaseFactory) GetManager() AbstractDatabaseManager {
	return f.manager
}

// GetDB returns the Bun database instance, or nil if not initialized.
func (f *BaseDatabaseFactory) GetDB() *bun.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetDB()
}

// SetLogger sets the logger on the factory and the underlying manager.
func (f *BaseDatabaseFactory) SetLogger(logger Logger) {
	f.logger = logger
	if f.manager != nil {
		f.manager.SetLogger(logger)
	}
}

// Close closes the database connection managed by the factory.
func (f *BaseDatabaseFactory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}

// GetHealthStatus returns the current database health status from the manager.
func (f *BaseDatabaseFactory) GetHealthStatus(ctx context.Context) *HealthStatus {
	if f.manager == nil {
		return &HealthStatus{
			Healthy:       false,
			Connected:     false,
			LastError:     "Database manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return f.manager.HealthCheck(ctx)
}

// GetStats returns database connection statistics from the manager.
func (f *BaseDatabaseFactory) GetStats() *DBStats {
	if f.manager == nil {
		return &DBStats{}
	}
	return f.manager.GetStats()
}
