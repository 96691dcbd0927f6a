package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis initializes and returns a Redis client. REDIS_URL wins over
// the individual host/port/db variables when set.
func InitRedis() (*redis.Client, error) {
	var opts *redis.Options

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		host := getEnvOrDefault("REDIS_HOST", "localhost")
		port := getEnvOrDefault("REDIS_PORT", "6379")
		password := os.Getenv("REDIS_PASSWORD") // No default for password

		db, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
		}

		opts = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", host, port),
			Password: password,
			DB:       db,
		}
	}

	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 30 * time.Second
	opts.WriteTimeout = 30 * time.Second
	opts.PoolSize = 10
	opts.PoolTimeout = 30 * time.Second
	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
