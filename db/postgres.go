package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"kellyServer/advisory"
	"kellyServer/config"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres(cfg *config.Config) error {
	log.Info("🔌 Connecting to PostgreSQL...")

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	PostgresPool = pool

	log.Info("✅ PostgreSQL connected successfully")

	if err := InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Info("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
		PostgresPool = nil
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	log.Info("📋 Initializing database schema...")

	advisorySchema := `
	CREATE TABLE IF NOT EXISTS advisory_log (
		id SERIAL PRIMARY KEY,
		win_probability DOUBLE PRECISION NOT NULL,
		decimal_odds DOUBLE PRECISION NOT NULL,
		optimal_fraction DOUBLE PRECISION NOT NULL,
		analysis TEXT NOT NULL,
		cached BOOLEAN NOT NULL DEFAULT FALSE,
		failed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_advisory_log_created_at ON advisory_log(created_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, advisorySchema); err != nil {
		return fmt.Errorf("failed to create advisory_log table: %w", err)
	}

	log.Info("✅ Database schema initialized")
	return nil
}

/* =========================
   ADVISORY LOG
========================= */

// StoreAdvisoryRecord appends an advisory call to the log
func StoreAdvisoryRecord(ctx context.Context, rec advisory.Record) error {
	if PostgresPool == nil {
		return nil
	}

	query := `
		INSERT INTO advisory_log (win_probability, decimal_odds, optimal_fraction, analysis, cached, failed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := PostgresPool.Exec(ctx, query,
		rec.WinProbability,
		rec.DecimalOdds,
		rec.OptimalFraction,
		rec.Analysis,
		rec.Cached,
		rec.Failed,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert advisory record: %w", err)
	}
	return nil
}

// GetRecentAdvisoryRecords returns the latest advisory calls, newest first
func GetRecentAdvisoryRecords(ctx context.Context, limit int) ([]advisory.Record, error) {
	if PostgresPool == nil {
		return []advisory.Record{}, nil
	}
	if limit <= 0 || limit > config.RecentAdvisoryLimit {
		limit = config.RecentAdvisoryLimit
	}

	query := `
		SELECT win_probability, decimal_odds, optimal_fraction, analysis, cached, failed, created_at
		FROM advisory_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := PostgresPool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query advisory log: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[advisory.Record])
	if err != nil {
		return nil, fmt.Errorf("failed to scan advisory log: %w", err)
	}
	return records, nil
}

// AdvisoryLog adapts the advisory log to advisory.Recorder
type AdvisoryLog struct{}

func (AdvisoryLog) Record(ctx context.Context, rec advisory.Record) error {
	return StoreAdvisoryRecord(ctx, rec)
}

// PostgresEnabled reports whether the pool was initialized
func PostgresEnabled() bool {
	return PostgresPool != nil
}

// HealthCheckPostgres pings the database
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return errors.New("PostgreSQL connection pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
