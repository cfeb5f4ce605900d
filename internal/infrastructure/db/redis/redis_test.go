package redis

import (
	"testing"
	"time"
)

func TestClientOptions_Defaults(t *testing.T) {
	opts := clientOptions(Config{Addr: "localhost:6379"})

	if opts.Addr != "localhost:6379" {
		t.Fatalf("addr: expected localhost:6379, got %s", opts.Addr)
	}
	if opts.PoolSize != defaultPoolSize {
		t.Fatalf("pool size: expected default %d, got %d", defaultPoolSize, opts.PoolSize)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout {
		t.Fatalf("timeouts: expected default %v, got dial=%v read=%v",
			defaultTimeout, opts.DialTimeout, opts.ReadTimeout)
	}
}

func TestClientOptions_Explicit(t *testing.T) {
	opts := clientOptions(Config{
		Addr:     "redis:6379",
		DB:       2,
		PoolSize: 25,
		Timeout:  time.Second,
	})

	if opts.DB != 2 || opts.PoolSize != 25 {
		t.Fatalf("expected configured db and pool size, got db=%d pool=%d", opts.DB, opts.PoolSize)
	}
	if opts.DialTimeout != time.Second || opts.WriteTimeout != time.Second {
		t.Fatalf("expected configured timeout, got dial=%v write=%v", opts.DialTimeout, opts.WriteTimeout)
	}
}
