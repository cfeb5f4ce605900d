package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPoolSize = 10
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr     string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// clientOptions maps the config onto driver options, applying defaults for
// unset pool size and timeouts.
func clientOptions(cfg Config) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     pool,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
