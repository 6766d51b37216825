// Package storage contains the database layer.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vintedwatch/internal/model"
	"vintedwatch/internal/storage/repository"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
)

// Postgres wraps the PostgreSQL connection and exposes repositories.
type Postgres struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPostgres connects to PostgreSQL with retry logic and runs migrations.
func NewPostgres(databaseURL string, logger *zap.Logger) (*Postgres, error) {
	const maxRetries = 10
	const retryDelay = 5 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("Attempting to connect to database",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries))

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))

		sqldb.SetMaxOpenConns(25)
		sqldb.SetMaxIdleConns(10)
		sqldb.SetConnMaxLifetime(5 * time.Minute)
		sqldb.SetConnMaxIdleTime(1 * time.Minute)

		db := bun.NewDB(sqldb, pgdialect.New())

		if logger.Core().Enabled(zap.DebugLevel) {
			db.AddQueryHook(bundebug.NewQueryHook(
				bundebug.WithVerbose(true),
				bundebug.FromEnv("BUNDEBUG"),
			))
		}

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		pingErr := db.PingContext(pingCtx)
		pingCancel()

		if pingErr != nil {
			logger.Warn("Failed to connect to database",
				zap.Int("attempt", attempt),
				zap.Error(pingErr))

			if err := db.Close(); err != nil {
				logger.Warn("Failed to close database connection", zap.Error(err))
			}

			if attempt == maxRetries {
				return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, pingErr)
			}

			logger.Info("Retrying connection", zap.Duration("delay", retryDelay))
			time.Sleep(retryDelay)
			continue
		}

		version, dirty, err := RunMigrations(sqldb)
		if err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logger.Warn("Failed to close database connection", zap.Error(closeErr))
			}
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Info("Connected to PostgreSQL database",
			zap.Int("attempt", attempt),
			zap.Uint("schema_version", version),
			zap.Bool("dirty", dirty))

		return &Postgres{
			db:     db,
			logger: logger,
		}, nil
	}

	return nil, fmt.Errorf("unexpected error: max retries exceeded")
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping checks that the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// GetDB returns the underlying bun database handle.
func (p *Postgres) GetDB() *bun.DB {
	return p.db
}

// GetSearchRepository returns the saved search repository.
func (p *Postgres) GetSearchRepository() model.SearchRepository {
	return repository.NewSearchRepository(p.db, p.logger)
}

// GetSeenListingRepository returns the seen listing repository.
func (p *Postgres) GetSeenListingRepository() model.SeenListingRepository {
	return repository.NewSeenListingRepository(p.db, p.logger)
}

// GetSettingRepository returns the runtime settings repository.
func (p *Postgres) GetSettingRepository() model.SettingRepository {
	return repository.NewSettingRepository(p.db, p.logger)
}
