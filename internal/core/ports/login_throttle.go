package ports

import "context"

// LoginThrottle limits repeated failed sign-in attempts per client key.
// Implementations are expected to expire failure counts on their own (TTL).
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
