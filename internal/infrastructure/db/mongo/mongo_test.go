package mongo

import (
	"testing"
	"time"
)

func TestClientOptions_Defaults(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://localhost:27017"})

	if got := opts.GetURI(); got != "mongodb://localhost:27017" {
		t.Fatalf("uri: expected mongodb://localhost:27017, got %s", got)
	}
	if opts.AppName == nil || *opts.AppName != appName {
		t.Fatalf("expected app name %q, got %v", appName, opts.AppName)
	}
	if opts.ConnectTimeout == nil || *opts.ConnectTimeout != defaultTimeout {
		t.Fatalf("expected default connect timeout %v, got %v", defaultTimeout, opts.ConnectTimeout)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != defaultTimeout {
		t.Fatalf("expected default selection timeout %v, got %v", defaultTimeout, opts.ServerSelectionTimeout)
	}
	if opts.MaxPoolSize != nil {
		t.Fatalf("unset pool size must stay at the driver default, got %d", *opts.MaxPoolSize)
	}
}

func TestClientOptions_Explicit(t *testing.T) {
	opts := clientOptions(Config{
		URI:         "mongodb://db:27017",
		MaxPoolSize: 50,
		Timeout:     2 * time.Second,
	})

	if opts.MaxPoolSize == nil || *opts.MaxPoolSize != 50 {
		t.Fatalf("expected configured pool size 50, got %v", opts.MaxPoolSize)
	}
	if opts.ConnectTimeout == nil || *opts.ConnectTimeout != 2*time.Second {
		t.Fatalf("expected configured timeout, got %v", opts.ConnectTimeout)
	}
}
