package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failureWindow = 15 * time.Minute
	maxFailures   = 5
)

// LoginThrottle counts failed sign-in attempts per client key in Redis.
// Key format: login_failures:<key>, expiring after failureWindow so lockouts
// clear themselves without a background sweeper.
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// Blocked reports whether the key has exceeded the failure budget.
func (t *LoginThrottle) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= maxFailures, nil
}

// RecordFailure increments the failure count, starting the expiry window on
// the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	k := t.key(key)
	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, failureWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure count after a successful sign-in.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.key(key)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(key string) string {
	return "login_failures:" + key
}
