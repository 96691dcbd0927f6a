package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "gospelera")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := getEnvOrDefault("POSTGRES_DB", "gospelera_push")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	// Create connection pool
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Device tokens - one row per device/browser push registration.
	// token holds the FCM registration string for native platforms and the
	// serialized subscription JSON for web.
	deviceTokensTable := `
		CREATE TABLE IF NOT EXISTS device_tokens (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id VARCHAR(255) NOT NULL,
			platform VARCHAR(20) NOT NULL CHECK (platform IN ('web', 'ios', 'android')),
			token TEXT NOT NULL,
			daily_verse BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE(user_id, token)
		);
	`

	// Daily verses - records which verse was selected for each date
	dailyVersesTable := `
		CREATE TABLE IF NOT EXISTS daily_verses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			verse TEXT NOT NULL,
			reference VARCHAR(255) NOT NULL,
			date DATE NOT NULL UNIQUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_user_id ON device_tokens(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_daily_verse ON device_tokens(daily_verse) WHERE daily_verse = TRUE;`,
		`CREATE INDEX IF NOT EXISTS idx_daily_verses_date ON daily_verses(date);`,
	}

	// Execute table creation statements
	tables := []string{deviceTokensTable, dailyVersesTable}

	for _, table := range tables {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Execute index creation statements
	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
