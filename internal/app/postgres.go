package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Saadsid007/task-dashboard/internal/config"
	"github.com/Saadsid007/task-dashboard/internal/migrations"
)

var (
	postgresOnce sync.Once
	postgresPool *pgxpool.Pool
	postgresErr  error
)

// PostgresPool returns the process-wide connection pool, creating it on
// first call. Concurrent first callers share a single initialization through
// the sync.Once: whoever arrives first pays the migration and connection
// cost, everyone else awaits the same attempt and reuses the result.
func PostgresPool() (*pgxpool.Pool, error) {
	postgresOnce.Do(func() {
		postgresPool, postgresErr = newPostgresPool()
	})
	return postgresPool, postgresErr
}

func newPostgresPool() (*pgxpool.Pool, error) {
	cfg := config.Global().Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	err = runMigrations(poolCfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
	return pool, nil
}

// runMigrations applies the embedded goose migrations over a short-lived
// database/sql connection before the pool serves any query.
func runMigrations(poolCfg *pgxpool.Config) error {
	db := stdlib.OpenDB(*poolCfg.ConnConfig)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.Migrations)
	err := goose.SetDialect("pgx")
	if err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	globalLogger.Info().Msg("applied migrations")
	return nil
}

func DisconnectPostgres() {
	if postgresPool == nil {
		return
	}
	postgresPool.Close()
	globalLogger.Info().Msg("disconnected from postgres")
}
